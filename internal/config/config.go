package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/codec"
	"github.com/twiced-technology-gmbh/notnow/internal/kv"
	"github.com/twiced-technology-gmbh/notnow/internal/stamp"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no notnow store found (run 'notnow init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the notnow store configuration.
type Config struct {
	Version     int        `yaml:"version"`
	Name        string     `yaml:"name"`
	Backend     string     `yaml:"backend"`
	Format      string     `yaml:"format"`
	StampLayout string     `yaml:"stamp_layout,omitempty"`
	Keys        KeysConfig `yaml:"keys"`
	TUI         TUIConfig  `yaml:"tui,omitempty"`

	// dir is the absolute path to the data directory (not serialized).
	dir string `yaml:"-"`
}

// KeysConfig names the keys the two task lists are persisted under.
type KeysConfig struct {
	Pending   string `yaml:"pending"`
	Completed string `yaml:"completed"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	Theme            string `yaml:"theme,omitempty"`
	DescriptionLines int    `yaml:"description_lines,omitempty"`
}

// Dir returns the absolute path to the data directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the data directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:     CurrentVersion,
		Name:        name,
		Backend:     DefaultBackend,
		Format:      DefaultFormat,
		StampLayout: DefaultStampLayout,
		Keys:        KeysConfig{Pending: DefaultPendingKey, Completed: DefaultCompletedKey},
		TUI:         TUIConfig{Theme: DefaultTheme, DescriptionLines: DefaultDescriptionLines},
	}
}

// Layout returns the completion stamp layout, defaulting when unset.
func (c *Config) Layout() string {
	if c.StampLayout == "" {
		return DefaultStampLayout
	}
	return c.StampLayout
}

// CodecFormat returns the parsed list encoding.
func (c *Config) CodecFormat() codec.Format {
	f, err := codec.Parse(c.Format)
	if err != nil {
		return codec.JSON
	}
	return f
}

// Theme returns the configured TUI theme, defaulting when unset.
func (c *Config) Theme() string {
	if c.TUI.Theme == "" {
		return DefaultTheme
	}
	return c.TUI.Theme
}

// DescriptionLines returns the number of description lines per task in the
// TUI list. Zero hides descriptions.
func (c *Config) DescriptionLines() int {
	return c.TUI.DescriptionLines
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !slices.Contains(kv.Backends(), c.Backend) {
		return fmt.Errorf("%w: backend %q not one of %s", ErrInvalid, c.Backend, strings.Join(kv.Backends(), ", "))
	}
	if _, err := codec.Parse(c.Format); err != nil || c.Format == "" {
		return fmt.Errorf("%w: format %q not one of %s", ErrInvalid, c.Format, strings.Join(codec.Formats(), ", "))
	}
	if c.StampLayout != "" {
		if err := stamp.ValidateLayout(c.StampLayout); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	if err := c.validateKeys(); err != nil {
		return err
	}
	return c.validateTUI()
}

func (c *Config) validateKeys() error {
	if err := kv.ValidateKey(c.Keys.Pending); err != nil {
		return fmt.Errorf("%w: keys.pending: %w", ErrInvalid, err)
	}
	if err := kv.ValidateKey(c.Keys.Completed); err != nil {
		return fmt.Errorf("%w: keys.completed: %w", ErrInvalid, err)
	}
	if c.Keys.Pending == c.Keys.Completed {
		return fmt.Errorf("%w: keys.pending and keys.completed must differ", ErrInvalid)
	}
	return nil
}

func (c *Config) validateTUI() error {
	if c.TUI.Theme != "" && !slices.Contains(Themes(), c.TUI.Theme) {
		return fmt.Errorf("%w: tui.theme %q not one of %s", ErrInvalid, c.TUI.Theme, strings.Join(Themes(), ", "))
	}
	const maxDescriptionLines = 5
	if c.TUI.DescriptionLines < 0 || c.TUI.DescriptionLines > maxDescriptionLines {
		return fmt.Errorf("%w: tui.description_lines must be between 0 and %d", ErrInvalid, maxDescriptionLines)
	}
	return nil
}

// Init creates the data directory and writes cfg to it. cfg must already
// carry its directory via SetDir.
func Init(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Dir(), dirMode); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// InitDefault creates a store with default settings in dir.
func InitDefault(dir, name string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)
	if err := Init(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given data directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a data directory
// containing config.yml. Returns the absolute path to the data directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the data directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.StoreNotFound,
				"no notnow store found (run 'notnow init' to create one)")
		}
		dir = parent
	}
}

// HomeDir returns the per-user fallback data directory, ~/.config/notnow.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, HomeDirName), nil
}
