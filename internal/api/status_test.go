package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatus(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/status", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"ok":true,"code":0,"data":{"version":"3.1.0","downgradedTools":["lottery-analyzer"],"unavaliableTools":["VIP-info-viewer","lottery-analyzer"]}}`)
	})

	status, err := GetStatus(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", status.Version)
	assert.Equal(t, ToolUnavailable, status.ToolStatus("VIP-info-viewer"))
	assert.Equal(t, ToolUnavailable, status.ToolStatus("lottery-analyzer"))
	assert.Equal(t, ToolNormal, status.ToolStatus("URL-scheme-convertor"))

	var nilStatus *Status
	assert.Equal(t, ToolNormal, nilStatus.ToolStatus("anything"))
}

func TestGetToolStatus(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/status/lottery-analyzer", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"ok":true,"code":0,"data":{"status":"DOWNGRADED","reason":"maintenance","dataCount":12}}`)
	})

	info, err := GetToolStatus(context.Background(), client, "lottery-analyzer")
	require.NoError(t, err)
	assert.Equal(t, ToolDowngraded, info.Status)
	assert.Equal(t, "maintenance", info.Reason)
	assert.Equal(t, 12, info.DataCount)
}

func TestArticleRequests(t *testing.T) {
	assert.Equal(t, "/v1/articles/abcdef123456/word-freq", WordFreqRequest("abcdef123456").Endpoint)
	assert.Equal(t, "/v1/articles/abcdef123456/lp-recommend-check", LPRecommendCheckRequest("abcdef123456").Endpoint)
	assert.Equal(t, "/v1/thanks/debug-project-records", DebugProjectRecordsRequest().Endpoint)
}
