package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmf-tools/jmf-cli/internal/api"
)

func TestBuildRequestParams(t *testing.T) {
	t.Run("no fields", func(t *testing.T) {
		params, err := buildRequestParams(nil, nil, "", "", nil)
		require.NoError(t, err)
		assert.Nil(t, params)
	})

	t.Run("fields are typed", func(t *testing.T) {
		params, err := buildRequestParams([]string{"limit=5", "exact=true", "name=初心"}, nil, "", "", nil)
		require.NoError(t, err)
		assert.Equal(t, api.Params{"limit": 5, "exact": true, "name": "初心"}, params)
	})

	t.Run("raw fields override body", func(t *testing.T) {
		params, err := buildRequestParams(nil, []string{`ids=[1,2]`}, "", `{"ids": [3], "keep": "x"}`, nil)
		require.NoError(t, err)
		assert.Equal(t, []any{float64(1), float64(2)}, params["ids"])
		assert.Equal(t, "x", params["keep"])
	})

	t.Run("input from stdin", func(t *testing.T) {
		params, err := buildRequestParams(nil, nil, "-", "", strings.NewReader(`{"a": 1}`))
		require.NoError(t, err)
		assert.Equal(t, float64(1), params["a"])
	})

	t.Run("input from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "body.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"b": "two"}`), 0o600))
		params, err := buildRequestParams(nil, nil, path, "", nil)
		require.NoError(t, err)
		assert.Equal(t, "two", params["b"])
	})

	t.Run("errors", func(t *testing.T) {
		_, err := buildRequestParams([]string{"novalue"}, nil, "", "", nil)
		assert.ErrorContains(t, err, "must be key=value")
		_, err = buildRequestParams(nil, []string{"x={"}, "", "", nil)
		assert.ErrorContains(t, err, "invalid JSON in raw field")
		_, err = buildRequestParams(nil, nil, "", "{", nil)
		assert.ErrorContains(t, err, "--body")
	})
}

func TestAPI_GetWithQuery(t *testing.T) {
	var query string
	handler := newRouteHandler().
		On("GET", "/api/v1/users/name-autocomplete", func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			jsonResponse(200, okEnvelope(`{"names": ["a", "b"]}`))(w, r)
		})
	setupTestEnv(t, handler)

	out, _, err := runCmd(t, "api", "/v1/users/name-autocomplete", "-f", "name_part=a", "-f", "limit=2", "--jq", ".names[1]")
	require.NoError(t, err)
	assert.Equal(t, `"b"`, strings.TrimSpace(out))
	assert.Equal(t, "limit=2&name_part=a", query)
}

func TestAPI_PostBody(t *testing.T) {
	var body map[string]any
	handler := newRouteHandler().
		On("POST", "/api/v1/echo", func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			jsonResponse(200, okEnvelope(`{}`))(w, r)
		})
	setupTestEnv(t, handler)

	_, _, err := runCmd(t, "api", "/v1/echo", "-X", "post", "-d", `{"a": 1}`, "-f", "b=x", "--silent")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": "x"}, body)
}

func TestAPI_EnvelopeFailure(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/v1/fails", jsonResponse(200, failEnvelope(500, "内部错误")))
	setupTestEnv(t, handler)

	_, stderr, err := runCmd(t, "api", "/v1/fails")
	require.Error(t, err)
	assert.Equal(t, exitAPI, ExitCode(err))
	assert.Contains(t, stderr, "内部错误")
}

func TestAPI_InvalidMethod(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnv(t, handler)

	_, _, err := runCmd(t, "api", "/v1/status", "-X", "TRACE")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Empty(t, handler.hits)
}

func TestAPI_DryRun(t *testing.T) {
	handler := newRouteHandler()
	server := setupTestEnv(t, handler)

	out, _, err := runCmd(t, "api", "/v1/echo", "-X", "POST", "-f", "b=x", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[DRY-RUN] POST "+server.URL+"/api/v1/echo")
	assert.Contains(t, out, `{"b":"x"}`)
	assert.Empty(t, handler.hits)

	out, _, err = runCmd(t, "api", "/v1/users/name-autocomplete", "-f", "name_part=a", "--dry-run", "--json")
	require.NoError(t, err)
	payload := decodeObject(t, out)
	assert.Equal(t, "GET", payload["method"])
	assert.Equal(t, server.URL+"/api/v1/users/name-autocomplete?name_part=a", payload["url"])
	assert.NotContains(t, payload["headers"], "Content-Type")
	assert.Empty(t, handler.hits)
}
