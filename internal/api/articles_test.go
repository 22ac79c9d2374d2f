package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWordFreq(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/articles/0b8f4d4b3b6d/word-freq", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, `{"ok":true,"code":0,"data":{"title":"t","wordFreq":{"简书":3}}}`)
	})

	freq, err := GetWordFreq(context.Background(), client, "0b8f4d4b3b6d")
	require.NoError(t, err)
	assert.Equal(t, "t", freq.Title)
	assert.Equal(t, map[string]int{"简书": 3}, freq.WordFreq)
}

func TestGetLPRecommendCheck(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/articles/0b8f4d4b3b6d/lp-recommend-check", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"ok":true,"code":0,"data":{"articleTitle":"a","canRecommendNow":false,"FPReward":1.5,"nextCanRecommendDate":"2024-05-01"}}`)
	})

	check, err := GetLPRecommendCheck(context.Background(), client, "0b8f4d4b3b6d")
	require.NoError(t, err)
	assert.False(t, check.CanRecommendNow)
	assert.InDelta(t, 1.5, check.FPReward, 1e-9)
	assert.Equal(t, "2024-05-01", check.NextCanRecommendDate)
}

func TestGetLPRecommendCheck_BadArguments(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"ok":false,"code":203,"msg":"文章不存在","data":{}}`)
	})

	_, err := GetLPRecommendCheck(context.Background(), client, "000000000000")
	require.Error(t, err)
	assert.True(t, IsBadArguments(err))
}
