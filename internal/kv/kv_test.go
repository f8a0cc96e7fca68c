package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behavior every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Read(ctx, "todolist")
	require.NoError(t, err)
	assert.False(t, ok, "unwritten key must be absent")

	require.NoError(t, s.Write(ctx, "todolist", []byte(`[{"title":"A"}]`)))
	got, ok, err := s.Read(ctx, "todolist")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"title":"A"}]`, string(got))

	require.NoError(t, s.Write(ctx, "todolist", []byte(`[]`)))
	got, _, err = s.Read(ctx, "todolist")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	// Keys are independent.
	require.NoError(t, s.Write(ctx, "completedTodos", []byte(`[1]`)))
	got, _, err = s.Read(ctx, "todolist")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	assert.ErrorIs(t, s.Write(ctx, "../escape", nil), ErrInvalidKey)
	_, _, err = s.Read(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	require.NoError(t, s.Close())
}

func TestMemory(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFile(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, f)
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "nested", SQLiteFileName))
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	f1, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f1.Write(ctx, "todolist", []byte("x")))

	f2, err := NewFile(dir)
	require.NoError(t, err)
	got, ok, err := f2.Read(ctx, "todolist")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", string(got))

	// No temp files left behind.
	entries, err := os.ReadDir(f2.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestFile_CanceledContext(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, f.Write(ctx, "todolist", nil), context.Canceled)
}

func TestMemory_FailWrites(t *testing.T) {
	m := NewMemory()
	boom := errors.New("disk full")
	m.FailWrites = boom

	assert.ErrorIs(t, m.Write(context.Background(), "todolist", nil), boom)
	assert.Zero(t, m.Writes())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(BackendFile, dir)
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open("", dir)
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(BackendMemory, dir)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open("redis", dir)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, ValidateKey("todolist"))
	assert.NoError(t, ValidateKey("completedTodos"))
	assert.NoError(t, ValidateKey("v2.pending"))
	assert.Error(t, ValidateKey(".hidden"))
	assert.Error(t, ValidateKey("a/b"))
	assert.Error(t, ValidateKey("a..b"))
}
