package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/notnow/internal/clierr"
	"github.com/twiced-technology-gmbh/notnow/internal/config"
	"github.com/twiced-technology-gmbh/notnow/internal/kv"
	"github.com/twiced-technology-gmbh/notnow/internal/output"
	"github.com/twiced-technology-gmbh/notnow/internal/store"
)

const legacyPending = `[{"title":"A","description":"B"},{"title":"C","description":"D"}]`

// newTestStore initializes a store in a temp dir and returns its path.
func newTestStore(t *testing.T) string {
	t.Helper()
	t.Setenv(output.EnvOutput, "")
	t.Setenv(envDir, "")
	cfg, err := config.InitDefault(filepath.Join(t.TempDir(), config.DefaultDir), "test")
	require.NoError(t, err)
	return cfg.Dir()
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI against dir and returns what it wrote.
func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))

	stdoutR, stdoutW, err := os.Pipe()
	require.NoError(t, err)
	stderrR, stderrW, err := os.Pipe()
	require.NoError(t, err)

	origOut, origErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = stdoutW, stderrW
	outC, errC := drain(stdoutR), drain(stderrR)

	_, runErr := rootCmd.ExecuteC()

	os.Stdout, os.Stderr = origOut, origErr
	_ = stdoutW.Close()
	_ = stderrW.Close()
	return <-outC, <-errC, runErr
}

func drain(r *os.File) <-chan string {
	c := make(chan string, 1)
	go func() {
		var b bytes.Buffer
		_, _ = io.Copy(&b, r)
		_ = r.Close()
		c <- b.String()
	}()
	return c
}

func runJSON[T any](t *testing.T, dir string, args ...string) T {
	t.Helper()
	stdout, _, err := run(t, dir, append(args, "--json")...)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal([]byte(stdout), &v), stdout)
	return v
}

// useBackend makes sessions open backend instead of the configured one.
func useBackend(t *testing.T, backend kv.Store) {
	t.Helper()
	orig := openBackend
	openBackend = func(*config.Config) (kv.Store, error) { return backend, nil }
	t.Cleanup(func() { openBackend = orig })
}

func rowTitles(rows []output.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func TestAddDoneUndoList(t *testing.T) {
	dir := newTestStore(t)

	added := runJSON[output.Row](t, dir, "add", "Buy milk", "2%")
	assert.Equal(t, 1, added.Position)
	assert.Equal(t, "Buy milk", added.Title)
	assert.Equal(t, "2%", added.Description)
	assert.NotEmpty(t, added.ID)

	done := runJSON[output.Row](t, dir, "done", "1")
	assert.Equal(t, added.ID, done.ID)
	assert.NotEmpty(t, done.CompletedOn)

	assert.Empty(t, runJSON[[]output.Row](t, dir, "list"))
	completed := runJSON[[]output.Row](t, dir, "list", "--completed")
	require.Len(t, completed, 1)
	assert.Equal(t, done.CompletedOn, completed[0].CompletedOn)

	undone := runJSON[output.Row](t, dir, "undo", "1")
	assert.Equal(t, added.ID, undone.ID)
	assert.Empty(t, undone.CompletedOn)

	pending := runJSON[[]output.Row](t, dir, "list")
	require.Len(t, pending, 1)
	assert.Equal(t, "Buy milk", pending[0].Title)
	assert.Empty(t, pending[0].CompletedOn)
	assert.Empty(t, runJSON[[]output.Row](t, dir, "list", "--completed"))
}

func TestAdd_ValidationFailed(t *testing.T) {
	dir := newTestStore(t)

	_, _, err := run(t, dir, "add", "", "oat milk", "--json")
	require.Error(t, err)

	var buf, stderr bytes.Buffer
	assert.Equal(t, 1, reportError(&buf, &stderr, err))
	assert.Empty(t, stderr.String())

	var resp output.ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, clierr.ValidationFailed, resp.Code)
	assert.Equal(t, "Title is required", resp.Error)
	assert.Equal(t, true, resp.Details["title_missing"])
	assert.Equal(t, false, resp.Details["description_missing"])

	assert.Empty(t, runJSON[[]output.Row](t, dir, "list"), "nothing was added")
}

func TestDone_BatchResolvesRefsBeforeMutating(t *testing.T) {
	dir := newTestStore(t)
	for _, title := range []string{"A", "B", "C"} {
		runJSON[output.Row](t, dir, "add", title, "x")
	}

	report := runJSON[output.BatchReport](t, dir, "done", "1", "3")
	assert.Equal(t, 2, report.Succeeded)
	assert.Zero(t, report.Failed)

	assert.Equal(t, []string{"B"}, rowTitles(runJSON[[]output.Row](t, dir, "list")))
	assert.Equal(t, []string{"A", "C"}, rowTitles(runJSON[[]output.Row](t, dir, "list", "--completed")))
}

func TestDone_BatchReportsEachRef(t *testing.T) {
	dir := newTestStore(t)
	runJSON[output.Row](t, dir, "add", "A", "x")

	stdout, _, err := run(t, dir, "done", "1", "9", "--json")
	var silent *clierr.SilentError
	require.ErrorAs(t, err, &silent)
	assert.Equal(t, 1, silent.Code)

	var report output.BatchReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "9", report.Results[1].Ref)
	assert.Equal(t, clierr.TaskNotFound, report.Results[1].Code)
}

func TestAdd_PersistFailed(t *testing.T) {
	dir := newTestStore(t)
	mem := kv.NewMemory()
	mem.FailWrites = errors.New("disk full")
	useBackend(t, mem)

	stdout, _, err := run(t, dir, "add", "A", "B", "--json")
	assert.True(t, clierr.HasCode(err, clierr.PersistFailed))
	assert.Empty(t, stdout, "no success output")

	var buf bytes.Buffer
	assert.Equal(t, 1, reportError(&buf, io.Discard, err))
	assert.Contains(t, buf.String(), `"code": "PERSIST_FAILED"`)
	assert.Contains(t, buf.String(), "disk full")
}

func TestEdit(t *testing.T) {
	dir := newTestStore(t)
	runJSON[output.Row](t, dir, "add", "Walk", "dog")
	runJSON[output.Row](t, dir, "add", "Call", "mom")

	_, _, err := run(t, dir, "edit", "2")
	assert.True(t, clierr.HasCode(err, clierr.NoChanges))

	row := runJSON[output.Row](t, dir, "edit", "2", "--desc", "grandma")
	assert.Equal(t, 2, row.Position)
	assert.Equal(t, "Call", row.Title)
	assert.Equal(t, "grandma", row.Description)

	pending := runJSON[[]output.Row](t, dir, "list")
	assert.Equal(t, "dog", pending[0].Description)
}

func TestDelete(t *testing.T) {
	dir := newTestStore(t)
	for _, title := range []string{"A", "B", "C"} {
		runJSON[output.Row](t, dir, "add", title, "x")
	}

	_, _, err := run(t, dir, "delete", "1", "2")
	assert.True(t, clierr.HasCode(err, clierr.ConfirmationReq))

	stdin, err := os.Open(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	defer stdin.Close()
	origIn := os.Stdin
	os.Stdin = stdin
	_, _, err = run(t, dir, "delete", "1")
	os.Stdin = origIn
	assert.True(t, clierr.HasCode(err, clierr.ConfirmationReq), "no terminal to prompt on")

	runJSON[map[string]any](t, dir, "delete", "2", "--yes")
	assert.Equal(t, []string{"A", "C"}, rowTitles(runJSON[[]output.Row](t, dir, "list")))
}

func TestList_StoreNotFound(t *testing.T) {
	t.Setenv(output.EnvOutput, "")
	_, _, err := run(t, filepath.Join(t.TempDir(), "missing"), "list")
	assert.True(t, clierr.HasCode(err, clierr.StoreNotFound))
}

func TestList_SavesLegacyIDs(t *testing.T) {
	dir := newTestStore(t)
	dataDir := filepath.Join(dir, kv.DataDirName)
	require.NoError(t, os.MkdirAll(dataDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, store.DefaultPendingKey), []byte(legacyPending), 0o600))

	first := runJSON[[]output.Row](t, dir, "list")
	second := runJSON[[]output.Row](t, dir, "list")
	require.Len(t, first, 2)
	assert.NotEmpty(t, first[0].ID)
	assert.Equal(t, first, second, "ids are stable across read-only commands")
}

func TestList_MigrationWriteFailureWarns(t *testing.T) {
	dir := newTestStore(t)
	mem := kv.NewMemory()
	require.NoError(t, mem.Write(context.Background(), store.DefaultPendingKey, []byte(legacyPending)))
	mem.FailWrites = errors.New("read-only filesystem")
	useBackend(t, mem)

	stdout, stderr, err := run(t, dir, "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, stderr, "task ids could not be saved")
	assert.NotContains(t, stderr, "empty list")

	var rows []output.Row
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	assert.Equal(t, []string{"A", "C"}, rowTitles(rows), "the lists were loaded")
}

func TestReportError(t *testing.T) {
	t.Setenv(output.EnvOutput, "")
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	code := reportError(&stdout, &stderr, clierr.New(clierr.TaskNotFound, "task not found in pending list: 4"))
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Equal(t, "Error: task not found in pending list: 4\n", stderr.String())

	stderr.Reset()
	assert.Equal(t, 2, reportError(&stdout, &stderr, errors.New("boom")))

	assert.Equal(t, 3, reportError(&stdout, &stderr, &clierr.SilentError{Code: 3}))
	assert.Empty(t, stdout.String())
}
