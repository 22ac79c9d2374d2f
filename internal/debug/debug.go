// Package debug sets up the structured logger of an invocation and carries
// it in the context.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogFormat selects the log handler: "text" (default) or "json".
const EnvLogFormat = "JMF_LOG_FORMAT"

// Options configure NewLogger.
type Options struct {
	// Debug lowers the level from Warn to Debug.
	Debug bool
	// JSON selects slog's JSON handler.
	JSON bool
}

// OptionsFromEnv returns Options for the --debug flag value and
// JMF_LOG_FORMAT.
func OptionsFromEnv(debugFlag bool) Options {
	return Options{
		Debug: debugFlag,
		JSON:  strings.EqualFold(strings.TrimSpace(os.Getenv(EnvLogFormat)), "json"),
	}
}

// NewLogger builds a logger writing to w. Text logs omit the timestamp;
// JSON logs keep it for collectors.
func NewLogger(w io.Writer, opts Options) *slog.Logger {
	ho := &slog.HandlerOptions{Level: slog.LevelWarn}
	if opts.Debug {
		ho.Level = slog.LevelDebug
	}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, ho))
	}
	ho.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}
	return slog.New(slog.NewTextHandler(w, ho))
}

type loggerKey struct{}

// Setup installs a logger on w as the slog default and in the returned
// context.
func Setup(ctx context.Context, w io.Writer, opts Options) context.Context {
	logger := NewLogger(w, opts)
	slog.SetDefault(logger)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger in ctx, or the slog default.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// IsEnabled reports whether debug records are written for ctx.
func IsEnabled(ctx context.Context) bool {
	return Logger(ctx).Enabled(ctx, slog.LevelDebug)
}
