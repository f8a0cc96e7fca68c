package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndTail(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, Append(dir, Entry{Timestamp: at, Action: "add", TaskID: "a1", Title: "Buy milk"}))
	require.NoError(t, Append(dir, Entry{Timestamp: at, Action: "complete", TaskID: "a1", Title: "Buy milk"}))
	Record(dir, "delete", "b2", "Walk dog")

	all, err := Tail(dir, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "add", all[0].Action)
	assert.True(t, at.Equal(all[0].Timestamp))
	assert.Equal(t, "delete", all[2].Action)

	last, err := Tail(dir, 2)
	require.NoError(t, err)
	require.Len(t, last, 2)
	assert.Equal(t, "complete", last[0].Action)
}

func TestTail_MissingLog(t *testing.T) {
	entries, err := Tail(t.TempDir(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTail_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := `{"action":"add","task_id":"x"}` + "\nnot json\n\n" + `{"action":"undo","task_id":"x"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o600))

	entries, err := Tail(dir, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "undo", entries[1].Action)
}

func TestTruncateIfNeeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	var b strings.Builder
	for i := range 5 {
		b.WriteString(`{"action":"add","task_id":"`)
		b.WriteByte(byte('a' + i))
		b.WriteString("\"}\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	require.NoError(t, truncateIfNeeded(path, 3))

	entries, err := Tail(filepath.Dir(path), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].TaskID)
	assert.Equal(t, "e", entries[2].TaskID)
}
