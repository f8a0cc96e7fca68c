package filelock

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	unlock, err := Lock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())

	// Re-acquiring after release must not block.
	unlock, err = Lock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestSharedLocksCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")

	u1, err := RLock(path)
	require.NoError(t, err)
	u2, err := RLock(path)
	require.NoError(t, err)
	require.NoError(t, u1())
	require.NoError(t, u2())
}

func TestWith_PropagatesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".lock")
	boom := errors.New("boom")

	ran := false
	err := With(path, func() error { ran = true; return boom })
	assert.True(t, ran)
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, With(path, func() error { return nil }))
}

func TestLock_MissingDir(t *testing.T) {
	_, err := Lock(filepath.Join(t.TempDir(), "missing", ".lock"))
	assert.Error(t, err)
}
