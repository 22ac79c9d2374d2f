package api

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
		query    Params
		want     string
	}{
		{"plain", "https://api.example.com", "/v1/status", nil, "https://api.example.com/api/v1/status"},
		{"trailing slash on base", "https://api.example.com/", "/v1/status", nil, "https://api.example.com/api/v1/status"},
		{"endpoint without slash", "https://api.example.com", "v1/status", nil, "https://api.example.com/api/v1/status"},
		{"query", "https://api.example.com", "/v1/users", Params{"limit": 5}, "https://api.example.com/api/v1/users?limit=5"},
		{"empty query", "https://api.example.com", "/v1/users", Params{}, "https://api.example.com/api/v1/users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildURL(tt.base, tt.endpoint, tt.query))
		})
	}
}

func TestEncodeQuery_RepeatsSliceKey(t *testing.T) {
	q := EncodeQuery(Params{"excluded_awards": []string{"a", "b", "c"}})

	values, err := url.ParseQuery(q)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, values["excluded_awards"])
}

func TestEncodeQuery_OmitsNil(t *testing.T) {
	var nilPtr *int
	var nilSlice []string
	limit := 10

	q := EncodeQuery(Params{
		"a":     nil,
		"b":     nilPtr,
		"c":     nilSlice,
		"limit": &limit,
		"list":  []any{"x", nil, "y"},
	})

	values, err := url.ParseQuery(q)
	require.NoError(t, err)
	assert.NotContains(t, values, "a")
	assert.NotContains(t, values, "b")
	assert.NotContains(t, values, "c")
	assert.Equal(t, "10", values.Get("limit"))
	assert.Equal(t, []string{"x", "y"}, values["list"])
}

func TestEncodeQuery_SortedAndEscaped(t *testing.T) {
	q := EncodeQuery(Params{"z": "last", "a": "first value", "m": true})
	assert.Equal(t, "a=first+value&m=true&z=last", q)
}

func TestEncodeQuery_Time(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "at=2024-01-02T03%3A04%3A05Z", EncodeQuery(Params{"at": ts}))
}

func TestBuildBody(t *testing.T) {
	t.Run("nil params", func(t *testing.T) {
		body, err := BuildBody(nil)
		require.NoError(t, err)
		assert.Nil(t, body)
	})

	t.Run("drops nil fields", func(t *testing.T) {
		var nilPtr *string
		body, err := BuildBody(Params{"keep": 1, "drop": nil, "ptr": nilPtr, "list": []int{1, 2}})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, map[string]any{"keep": float64(1), "list": []any{float64(1), float64(2)}}, decoded)
	})

	t.Run("unmarshalable value", func(t *testing.T) {
		_, err := BuildBody(Params{"ch": make(chan int)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to marshal request body")
	})
}

func TestRequestKey(t *testing.T) {
	a := Get("/v1/users", Params{"b": 2, "a": 1})
	b := Request{Method: "get", Endpoint: "v1/users", Query: Params{"a": 1, "b": 2, "c": nil}}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "GET /v1/users?a=1&b=2", a.Key())

	post := Request{Method: "POST", Endpoint: "/v1/x", Body: Params{"k": "v"}}
	assert.Equal(t, `POST /v1/x {"k":"v"}`, post.Key())

	// Query params do not affect a non-GET key.
	post.Query = Params{"ignored": 1}
	assert.Equal(t, `POST /v1/x {"k":"v"}`, post.Key())
}
