package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/codec"
)

func TestNewDefault_Validates(t *testing.T) {
	cfg := NewDefault("groceries")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, codec.JSON, cfg.CodecFormat())
	assert.Equal(t, "todolist", cfg.Keys.Pending)
	assert.Equal(t, "completedTodos", cfg.Keys.Completed)
	assert.Equal(t, ThemeDark, cfg.Theme())
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"version":           func(c *Config) { c.Version = 99 },
		"name":              func(c *Config) { c.Name = "" },
		"backend":           func(c *Config) { c.Backend = "redis" },
		"memory backend":    func(c *Config) { c.Backend = "memory" },
		"format":            func(c *Config) { c.Format = "xml" },
		"empty format":      func(c *Config) { c.Format = "" },
		"stamp layout":      func(c *Config) { c.StampLayout = "done" },
		"pending key":       func(c *Config) { c.Keys.Pending = "../escape" },
		"completed key":     func(c *Config) { c.Keys.Completed = "" },
		"same keys":         func(c *Config) { c.Keys.Completed = c.Keys.Pending },
		"theme":             func(c *Config) { c.TUI.Theme = "solarized" },
		"description lines": func(c *Config) { c.TUI.DescriptionLines = 9 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewDefault("x")
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestValidate_AcceptsStampLayouts(t *testing.T) {
	for _, layout := range []string{DefaultStampLayout, "2006-01-02 15:04", "Jan 2 2006"} {
		cfg := NewDefault("x")
		cfg.StampLayout = layout
		assert.NoError(t, cfg.Validate(), layout)
	}
}

func TestInitDefault_ThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), DefaultDir)

	cfg, err := InitDefault(dir, "work")
	require.NoError(t, err)
	assert.FileExists(t, cfg.ConfigPath())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "work", loaded.Name)
	assert.Equal(t, cfg.Dir(), loaded.Dir())
	assert.Equal(t, CurrentVersion, loaded.Version)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad_MigratesV1(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("version: 1\nname: legacy\n"), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultBackend, cfg.Backend)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultPendingKey, cfg.Keys.Pending)
	assert.Equal(t, DefaultStampLayout, cfg.Layout())
	assert.Equal(t, DefaultDescriptionLines, cfg.DescriptionLines())

	// Migrated config is written back.
	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 3")
}

func TestLoad_MigrationKeepsExplicitValues(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("version: 2\nname: x\nbackend: sqlite\nformat: yaml\n"), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, codec.YAML, cfg.CodecFormat())
}

func TestLoad_RejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte("version: 42\nname: x\n"), 0o600))

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFindDir(t *testing.T) {
	root := t.TempDir()
	_, err := InitDefault(filepath.Join(root, DefaultDir), "root")
	require.NoError(t, err)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	found, err := FindDir(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DefaultDir), found)

	inside, err := FindDir(filepath.Join(root, DefaultDir))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, DefaultDir), inside)
}

func TestFindDir_NotFound(t *testing.T) {
	_, err := FindDir(t.TempDir())
	if err == nil {
		t.Skip("a notnow store exists above the temp dir")
	}
	assert.True(t, clierr.HasCode(err, clierr.StoreNotFound))
}
