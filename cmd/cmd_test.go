package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/config"
	"github.com/twiced-technology-gmbh/notnow/internal/kv"
	"github.com/twiced-technology-gmbh/notnow/internal/output"
)

func TestFilterRows(t *testing.T) {
	rows := []output.Row{
		{Position: 1, Title: "Walk", Description: "the dog, then mail"},
		{Position: 2, Title: "Buy milk", Description: "oat"},
		{Position: 3, Title: "Call Mom", Description: "Sunday"},
	}

	got := filterRows(rows, "DOG")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Position)

	got = filterRows(rows, "m")
	require.Len(t, got, 3)

	got = filterRows(rows, "mom")
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Position, "positions are kept")

	assert.Equal(t, rows, filterRows(rows, "  "))
	assert.Empty(t, filterRows(rows, "nothing"))
}

func newTaskFlagsCmd() *cobra.Command {
	c := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	c.Flags().String("title", "", "")
	c.Flags().String("description", "", "")
	c.Flags().SetNormalizeFunc(normalizeTaskFlags)
	return c
}

func TestArgOrFlag(t *testing.T) {
	c := newTaskFlagsCmd()
	require.NoError(t, c.ParseFlags([]string{"--desc", "the dog"}))

	title, err := argOrFlag(c, []string{"Walk"}, 0, "title")
	require.NoError(t, err)
	assert.Equal(t, "Walk", title)

	desc, err := argOrFlag(c, []string{"Walk"}, 1, "description")
	require.NoError(t, err)
	assert.Equal(t, "the dog", desc)

	_, err = argOrFlag(c, []string{"Walk", "dog"}, 1, "description")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))
}

func TestArgOrFlag_Missing(t *testing.T) {
	c := newTaskFlagsCmd()
	require.NoError(t, c.ParseFlags(nil))

	v, err := argOrFlag(c, nil, 0, "title")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestNormalizeTaskFlags(t *testing.T) {
	c := newTaskFlagsCmd()
	require.NoError(t, c.ParseFlags([]string{"--name", "Walk", "--body", "dog"}))

	assert.True(t, c.Flags().Changed("title"))
	assert.True(t, c.Flags().Changed("description"))
	title, _ := c.Flags().GetString("title")
	assert.Equal(t, "Walk", title)
}

func TestResolveRef(t *testing.T) {
	ids := []string{
		"9f2c41d0-0000-4000-8000-000000000001",
		"9f2d0000-0000-4000-8000-000000000002",
		"1234abcd-0000-4000-8000-000000000003",
	}

	i, err := resolveRef("2", ids, "pending")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = resolveRef("9f2c", ids, "pending")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	i, err = resolveRef("id:1234", ids, "pending")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	_, err = resolveRef("9f2", ids, "pending")
	assert.True(t, clierr.HasCode(err, clierr.InvalidTaskRef))

	_, err = resolveRef("9f2cx", ids, "pending")
	assert.True(t, clierr.HasCode(err, clierr.InvalidTaskRef))

	_, err = resolveRef("4", ids, "pending")
	assert.True(t, clierr.HasCode(err, clierr.TaskNotFound))

	_, err = resolveRef("id:9f2", ids, "pending")
	assert.True(t, clierr.HasCode(err, clierr.InvalidTaskRef))
}

func TestResolveRef_Ambiguous(t *testing.T) {
	ids := []string{"abcd0001", "abcd0002"}
	_, err := resolveRef("abcd", ids, "completed")
	assert.True(t, clierr.HasCode(err, clierr.AmbiguousTaskRef))
}

func TestConfigKeys_AllHaveAccessors(t *testing.T) {
	acc := configAccessors()
	assert.Len(t, allConfigKeys(), len(acc))
	for _, key := range allConfigKeys() {
		a, ok := acc[key]
		require.True(t, ok, key)
		assert.Equal(t, a.writable, a.set != nil, key)
	}
}

func TestConfigAccessors_Set(t *testing.T) {
	cfg := config.NewDefault("x")
	acc := configAccessors()

	require.NoError(t, acc["tui.theme"].set(cfg, config.ThemeLight))
	assert.Equal(t, config.ThemeLight, cfg.Theme())

	err := acc["tui.theme"].set(cfg, "solarized")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))

	require.NoError(t, acc["tui.description_lines"].set(cfg, "3"))
	assert.Equal(t, 3, cfg.DescriptionLines())

	err = acc["tui.description_lines"].set(cfg, "three")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))

	require.NoError(t, acc["tui.description_lines"].set(cfg, "8"))
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalid)

	err = acc["stamp_layout"].set(cfg, "done")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))

	require.NoError(t, acc["stamp_layout"].set(cfg, "2006-01-02 15:04"))
	assert.Equal(t, "2006-01-02 15:04", cfg.Layout())
}

func TestLookupAccessor_Unknown(t *testing.T) {
	_, err := lookupAccessor("priority")
	assert.True(t, clierr.HasCode(err, clierr.InvalidConfigKey))
}

func TestConfigError(t *testing.T) {
	cfg := config.NewDefault("")
	err := configError(cfg.Validate())
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))
}

func TestWatchTarget(t *testing.T) {
	cfg := config.NewDefault("x")
	cfg.SetDir(t.TempDir())

	dir, filter := watchTarget(cfg)
	assert.Equal(t, filepath.Join(cfg.Dir(), kv.DataDirName), dir)
	assert.True(t, filter(filepath.Join(dir, "todolist.json")))
	assert.False(t, filter(filepath.Join(dir, ".todolist.json.tmp")))

	cfg.Backend = string(kv.BackendSQLite)
	dir, filter = watchTarget(cfg)
	assert.Equal(t, cfg.Dir(), dir)
	assert.True(t, filter(filepath.Join(dir, kv.SQLiteFileName)))
	assert.True(t, filter(filepath.Join(dir, kv.SQLiteFileName+"-wal")))
	assert.False(t, filter(filepath.Join(dir, "config.yml")))
}
