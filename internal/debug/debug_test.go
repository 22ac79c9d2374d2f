package debug

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvLogFormat, " JSON ")
	assert.Equal(t, Options{Debug: true, JSON: true}, OptionsFromEnv(true))

	t.Setenv(EnvLogFormat, "")
	assert.Equal(t, Options{}, OptionsFromEnv(false))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, Options{Debug: true, JSON: true}).Debug("request complete", "status", 200)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request complete", entry["msg"])
	assert.EqualValues(t, 200, entry["status"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_TextDropsTimeAndDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{})
	logger.Debug("hidden")
	logger.Warn("shown", "kind", "network")

	assert.Equal(t, "level=WARN msg=shown kind=network\n", buf.String())
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	ctx := Setup(context.Background(), &buf, Options{Debug: true})

	assert.True(t, IsEnabled(ctx))
	assert.Same(t, Logger(ctx), slog.Default())

	Logger(ctx).DebugContext(ctx, "cache miss")
	assert.Contains(t, buf.String(), "msg=\"cache miss\"")
}

func TestIsEnabled_Default(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	Setup(context.Background(), &buf, Options{})
	assert.False(t, IsEnabled(context.Background()))
}
