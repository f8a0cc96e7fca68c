package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/notnow/internal/task"
)

func TestParse(t *testing.T) {
	f, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	f, err = Parse(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	_, err = Parse("xml")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestEncode_JSONShape(t *testing.T) {
	data, err := Encode(JSON, []task.CompletedTask{{ID: "1", Title: "A", Description: "B", CompletedOn: "X"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","title":"A","description":"B","completedOn":"X"}]`, string(data))

	data, err = Encode[task.Task](JSON, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestPendingTasksNeverCarryCompletedOn(t *testing.T) {
	data, err := Encode(JSON, []task.Task{{ID: "1", Title: "A", Description: "B"}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "completedOn")
}

func TestRoundTrip_AllFormats(t *testing.T) {
	want := []task.CompletedTask{
		{ID: "b", Title: "second", Description: "multi\nline", CompletedOn: "1/2/2025 at 3:04:05 PM"},
		{ID: "a", Title: "first", Description: "quotes \"here\"", CompletedOn: "x"},
	}
	for _, f := range []Format{JSON, YAML, TOML} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(f, want)
			require.NoError(t, err)

			got, err := Decode[task.CompletedTask](f, data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDecode_EmptyInput(t *testing.T) {
	for _, f := range []Format{JSON, YAML, TOML} {
		got, err := Decode[task.Task](f, []byte("  \n"))
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	}
}

func TestDecode_JSONNull(t *testing.T) {
	got, err := Decode[task.Task](JSON, []byte("null"))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode[task.Task](JSON, []byte("{not json"))
	assert.Error(t, err)
}

func TestDecode_LegacyRecordWithoutID(t *testing.T) {
	got, err := Decode[task.Task](JSON, []byte(`[{"title":"A","description":"B"}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].ID)
	assert.Equal(t, "A", got[0].Title)
}
