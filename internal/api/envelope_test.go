package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"ok":true,"code":0,"data":{"x":1}}`))
	require.NoError(t, err)
	assert.True(t, env.OK)
	assert.JSONEq(t, `{"x":1}`, string(env.Data))
}

func TestDecodeEnvelope_MessageFields(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"ok":false,"code":203,"msg":"bad input","message":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, "bad input", env.Text())

	env, err = DecodeEnvelope([]byte(`{"ok":false,"code":500,"message":"legacy"}`))
	require.NoError(t, err)
	assert.Equal(t, "legacy", env.Text())
}

func TestDecodeEnvelope_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"html", "<html>oops</html>"},
		{"empty", ""},
		{"no ok field", `{"code":0,"data":{}}`},
		{"array", `[1,2]`},
		{"ok wrong type", `{"ok":"yes"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEnvelope([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errNotEnvelope))
		})
	}
}
