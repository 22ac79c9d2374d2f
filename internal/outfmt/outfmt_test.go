package outfmt

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", Text, false},
		{"text", Text, false},
		{"json", JSON, false},
		{"jsonl", JSONL, false},
		{"ndjson", JSONL, false},
		{"agent", Text, true},
		{"xml", Text, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
	assert.Equal(t, "jsonl", JSONL.String())
	assert.Equal(t, "text", Mode(42).String())
}

func TestSettingsStructured(t *testing.T) {
	assert.False(t, Settings{}.Structured())
	assert.True(t, Settings{Mode: JSONL}.Structured())
	assert.True(t, Settings{Template: "{{.}}"}.Structured())
}

func TestSettingsContext(t *testing.T) {
	assert.Equal(t, Settings{}, FromContext(context.Background()))

	want := Settings{Mode: JSON, Compact: true, Query: ".items"}
	assert.Equal(t, want, FromContext(WithSettings(context.Background(), want)))
}

func TestRender_JSON(t *testing.T) {
	v := map[string]string{"title": "<a & b>"}

	var pretty, compact bytes.Buffer
	require.NoError(t, Settings{Mode: JSON}.Render(&pretty, v))
	require.NoError(t, Settings{Mode: JSON, Compact: true}.Render(&compact, v))

	assert.Contains(t, pretty.String(), "\n  ")
	assert.Equal(t, `{"title":"<a & b>"}`+"\n", compact.String())
}

func TestRender_JSONWrapsLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Settings{Mode: JSON, Compact: true}.Render(&buf, []string{"a", "b"}))
	assert.Equal(t, `{"items":["a","b"]}`+"\n", buf.String())
}

func TestRender_JSONLines(t *testing.T) {
	type rank struct {
		Ranking int `json:"ranking"`
	}

	t.Run("one line per item", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Settings{Mode: JSONL}.Render(&buf, []rank{{1}, {2}, {3}}))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, `{"ranking":3}`, lines[2])
	})

	t.Run("object is one line", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Settings{Mode: JSONL}.Render(&buf, rank{7}))
		assert.Equal(t, `{"ranking":7}`+"\n", buf.String())
	})

	t.Run("query result is split", func(t *testing.T) {
		var buf bytes.Buffer
		s := Settings{Mode: JSONL, Query: "[.items[] | .ranking]"}
		require.NoError(t, s.Render(&buf, []rank{{1}, {2}}))
		assert.Equal(t, "1\n2\n", buf.String())
	})
}

func TestRender_TextWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Settings{}.Render(&buf, map[string]int{"a": 1}))
	assert.Zero(t, buf.Len())
}

func TestWriteLines_Mixed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeLines(&buf, []any{map[string]any{"a": 1}, "x"}))
	assert.Equal(t, "{\"a\":1}\n\"x\"\n", buf.String())
}
