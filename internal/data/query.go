package data

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/jmf-tools/jmf-cli/internal/api"
)

// Query fetches whenever its request changes, including on first use.
// The request's key (method, endpoint and parameters) is its dependency set.
type Query[T any] struct {
	exec  api.Executor
	build func() api.Request
	opts  options

	mu      sync.Mutex
	b       binding[T]
	key     string
	started bool
}

// NewQuery creates a Query. build is called on every Sync and Refetch.
func NewQuery[T any](exec api.Executor, build func() api.Request, opts ...Option) *Query[T] {
	return &Query[T]{
		exec:  exec,
		build: build,
		opts:  buildOptions(opts),
		b:     newBinding[T](),
	}
}

// Sync fetches if the request differs from the previous one or nothing has
// been fetched yet. Otherwise it returns the current data without a call.
func (q *Query[T]) Sync(ctx context.Context) (T, error) {
	req := q.build()
	key := req.Key()

	q.mu.Lock()
	if q.started && key == q.key {
		s := q.b.snapshot()
		q.mu.Unlock()
		return s.Data, s.Err
	}
	q.rekeyLocked(ctx, key)
	q.mu.Unlock()

	return q.fetch(ctx, req)
}

// Refetch fetches the current request unconditionally (subject to the
// single-flight guard).
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	req := q.build()
	key := req.Key()

	q.mu.Lock()
	if !q.started || key != q.key {
		q.rekeyLocked(ctx, key)
	}
	q.mu.Unlock()

	return q.fetch(ctx, req)
}

// Snapshot returns the current state.
func (q *Query[T]) Snapshot() Snapshot[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.b.snapshot()
}

// rekeyLocked switches the binding to a new request: previous data is
// dropped, a call in flight is abandoned, and a cached payload for the new
// key is served as stale data.
func (q *Query[T]) rekeyLocked(ctx context.Context, key string) {
	q.started = true
	q.key = key
	q.b.reset()

	if q.opts.cache == nil {
		return
	}
	raw, ok := q.opts.cache.Get(ctx, key)
	if !ok {
		return
	}
	var cached T
	if err := json.Unmarshal(raw, &cached); err != nil {
		slog.DebugContext(ctx, "ignoring unreadable cache entry", "key", key, "error", err)
		return
	}
	q.b.data = cached
	q.b.hasData = true
	q.b.stale = true
	q.b.state = Success
}

func (q *Query[T]) fetch(ctx context.Context, req api.Request) (T, error) {
	q.mu.Lock()
	flag, gen, key := q.b.flag, q.b.gen, q.key
	q.mu.Unlock()

	var zero T
	if flag.IsLoading() {
		return zero, api.ErrInFlight
	}

	req.Loading = flag
	data, err := api.Do[T](ctx, q.exec, req)
	if errors.Is(err, api.ErrInFlight) {
		return zero, err
	}

	q.mu.Lock()
	if gen != q.b.gen {
		q.mu.Unlock()
		return data, err
	}
	if err != nil && q.b.stale {
		// Keep serving the cached value; only the error is recorded.
		q.b.err = err
		q.b.state = Failed
	} else {
		q.b.settle(data, err)
	}
	q.mu.Unlock()

	if err != nil {
		q.opts.report(ctx, err)
		return data, err
	}
	if q.opts.cache != nil {
		if raw, mErr := json.Marshal(data); mErr == nil {
			q.opts.cache.Put(ctx, key, raw)
		}
	}
	return data, nil
}
