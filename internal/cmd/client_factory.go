package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/cache"
	"github.com/jmf-tools/jmf-cli/internal/config"
	"github.com/jmf-tools/jmf-cli/internal/data"
	"github.com/jmf-tools/jmf-cli/internal/iocontext"
	"github.com/jmf-tools/jmf-cli/internal/notify"
)

// session is what a command needs to talk to the API: the client, the
// executor stack in front of it, the response cache and the failure reporter.
type session struct {
	cfg      config.Config
	client   *api.Client
	exec     api.Executor
	cache    cache.Backend
	reporter *reportTracker
	closers  []func() error
}

// newSession builds the executor stack from the resolved settings:
// rate-limited client, then request deduplication.
func newSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)

	client := api.New(cfg.BaseURL)
	client.Timeout = cfg.Timeout
	client.UserAgent = fmt.Sprintf("jmf-cli/%s", version)

	limiter, err := api.ParseRateLimit(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	client.Limiter = limiter

	rt := &session{
		cfg:      cfg,
		client:   client,
		exec:     api.NewDedup(client),
		reporter: reportedFromContext(ctx),
	}
	if err := rt.openCache(ctx); err != nil {
		// A broken cache never blocks a command.
		slog.WarnContext(ctx, "cache disabled", "backend", cfg.Cache, "error", err)
	}
	return rt, nil
}

func (rt *session) openCache(ctx context.Context) error {
	switch rt.cfg.Cache {
	case config.CacheOff:
		return nil
	case config.CacheRedis:
		password, err := config.LoadRedisPassword()
		if err != nil {
			return err
		}
		rawURL, err := config.RedisURLWithPassword(rt.cfg.RedisURL, password)
		if err != nil {
			return err
		}
		store, err := cache.NewRedisStore(rawURL, rt.cfg.BaseURL, rt.cfg.CacheTTL)
		if err != nil {
			return err
		}
		rt.cache = store
		rt.closers = append(rt.closers, store.Close)
		slog.DebugContext(ctx, "using redis cache")
		return nil
	default:
		if cache.Disabled() {
			return nil
		}
		dir := resolveCacheDir()
		if dir == "" {
			return errors.New("could not determine cache directory")
		}
		rt.cache = cache.NewFileStore(dir, rt.cfg.BaseURL, rt.cfg.CacheTTL)
		return nil
	}
}

// options returns the binding options every command uses.
func (rt *session) options(withCache bool) []data.Option {
	opts := []data.Option{data.WithReporter(rt.reporter)}
	if withCache && rt.cache != nil {
		opts = append(opts, data.WithCache(rt.cache))
	}
	return opts
}

func (rt *session) Close() {
	for _, c := range rt.closers {
		_ = c()
	}
}

// fetch runs a fetch-on-mount query for req. When the network call fails
// but a cached payload exists, the cached payload is returned with a note.
func fetch[T any](cmd *cobra.Command, rt *session, req api.Request) (T, error) {
	ctx := cmd.Context()
	q := data.NewQuery[T](rt.exec, func() api.Request { return req }, rt.options(true)...)
	v, err := q.Sync(ctx)
	if err == nil {
		return v, nil
	}
	if snap := q.Snapshot(); snap.HasData && snap.Stale {
		_, _ = fmt.Fprintln(iocontext.GetIO(ctx).ErrOut, "Showing cached data.")
		return snap.Data, nil
	}
	return v, err
}

// trigger runs a fetch-on-demand request once.
func trigger[T any](cmd *cobra.Command, rt *session, req api.Request) (T, error) {
	t := data.NewTrigger[T](rt.exec, func() api.Request { return req }, rt.options(false)...)
	return t.Trigger(cmd.Context())
}

// reportTracker forwards failures to the notifier in text mode and remembers
// them, so RunE does not print the same failure twice.
type reportTracker struct {
	notifier *notify.Notifier

	mu   sync.Mutex
	errs []error
}

var _ data.Reporter = (*reportTracker)(nil)

func (r *reportTracker) Report(ctx context.Context, err error) {
	if r == nil || err == nil {
		return
	}
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
	// Calls cancelled by a failed sibling are not worth a line of their own.
	if errors.Is(err, context.Canceled) {
		return
	}
	if r.notifier != nil {
		r.notifier.Report(ctx, err)
	}
}

func (r *reportTracker) seen(err error) bool {
	if r == nil || err == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reported := range r.errs {
		if errors.Is(err, reported) {
			return true
		}
	}
	return false
}

type reporterKey struct{}

func withReporter(ctx context.Context, r *reportTracker) context.Context {
	return context.WithValue(ctx, reporterKey{}, r)
}

// reportedFromContext returns the tracker of this invocation. It is nil
// outside a command, which reports nothing.
func reportedFromContext(ctx context.Context) *reportTracker {
	r, _ := ctx.Value(reporterKey{}).(*reportTracker)
	return r
}
