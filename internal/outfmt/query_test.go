package outfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyQuery(t *testing.T) {
	type record struct {
		RewardName string `json:"rewardName"`
		Count      int    `json:"count"`
	}

	t.Run("no query round-trips", func(t *testing.T) {
		got, err := ApplyQuery(record{RewardName: "x", Count: 2}, "")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"rewardName": "x", "count": float64(2)}, got)
	})

	t.Run("lists are wrapped", func(t *testing.T) {
		got, err := ApplyQuery([]record{{RewardName: "x"}, {RewardName: "y"}}, "[.items[].rewardName]")
		require.NoError(t, err)
		assert.Equal(t, []any{"x", "y"}, got)
	})

	t.Run("nil list is empty items", func(t *testing.T) {
		var names []string
		got, err := ApplyQuery(names, ".items | length")
		require.NoError(t, err)
		assert.EqualValues(t, 0, got)
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := ApplyQuery(map[string]string{}, "invalid[[[")
		assert.Error(t, err)
	})
}
