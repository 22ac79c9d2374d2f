package data

import (
	"context"
	"errors"
	"sync"

	"github.com/jmf-tools/jmf-cli/internal/api"
)

// Trigger fetches on demand. The request is built lazily on each call.
type Trigger[T any] struct {
	exec  api.Executor
	build func() api.Request
	opts  options

	mu sync.Mutex
	b  binding[T]
}

// NewTrigger creates a Trigger. build is called once per Trigger call.
func NewTrigger[T any](exec api.Executor, build func() api.Request, opts ...Option) *Trigger[T] {
	return &Trigger[T]{
		exec:  exec,
		build: build,
		opts:  buildOptions(opts),
		b:     newBinding[T](),
	}
}

// Trigger performs the request. If a call from this binding is still
// outstanding it returns api.ErrInFlight and sends nothing.
func (t *Trigger[T]) Trigger(ctx context.Context) (T, error) {
	t.mu.Lock()
	flag, gen := t.b.flag, t.b.gen
	t.mu.Unlock()

	var zero T
	if flag.IsLoading() {
		return zero, api.ErrInFlight
	}

	req := t.build()
	req.Loading = flag
	data, err := api.Do[T](ctx, t.exec, req)
	if errors.Is(err, api.ErrInFlight) {
		return zero, err
	}

	t.mu.Lock()
	if gen != t.b.gen {
		// Reset while in flight: the result is no longer wanted.
		t.mu.Unlock()
		return data, err
	}
	t.b.settle(data, err)
	t.mu.Unlock()

	if err != nil {
		t.opts.report(ctx, err)
	}
	return data, err
}

// Reset clears data and error. A call in flight is abandoned.
func (t *Trigger[T]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.b.reset()
}

// Snapshot returns the current state.
func (t *Trigger[T]) Snapshot() Snapshot[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.b.snapshot()
}
