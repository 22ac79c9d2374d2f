package outfmt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapLists(t *testing.T) {
	names := []string{"a"}
	var empty []int

	assert.Equal(t, map[string]any{"items": []string{"a"}}, wrapLists(names))
	assert.Equal(t, map[string]any{"items": []string{"a"}}, wrapLists(&names))
	assert.Equal(t, map[string]any{"items": [2]int{1, 2}}, wrapLists([2]int{1, 2}))
	assert.Equal(t, map[string]any{"items": []any{}}, wrapLists(empty))

	for _, v := range []any{nil, "x", map[string]int{"a": 1}, []byte("ab"), json.RawMessage(`[1]`), (*[]string)(nil)} {
		assert.Equal(t, v, wrapLists(v))
	}
}

func TestListItems(t *testing.T) {
	items, ok := listItems([]struct {
		Slug string `json:"slug"`
	}{{"abc"}})
	assert.True(t, ok)
	assert.Equal(t, []any{map[string]any{"slug": "abc"}}, items)

	items, ok = listItems([]int(nil))
	assert.True(t, ok)
	assert.Empty(t, items)

	_, ok = listItems(map[string]int{})
	assert.False(t, ok)
}
