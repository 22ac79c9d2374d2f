package data

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/jmf-tools/jmf-cli/internal/api"
)

// Cursor is the pagination position of an Infinite binding.
type Cursor[T any] struct {
	// Page is the zero-based index of the next page to request.
	Page int
	// Prev is the data of the last fetched page, nil before the first page.
	Prev *T
	// Exhausted is set once the PageFunc has signalled the end.
	Exhausted bool
}

// PageFunc describes the request for the page at the cursor. It returns false
// when there is no such page. It must not have side effects: it may be called
// more than once for the same cursor.
type PageFunc[T any] func(c Cursor[T]) (api.Request, bool)

// InfiniteSnapshot is a consistent view of an Infinite binding.
type InfiniteSnapshot[T any] struct {
	Pages     []T
	Cursor    Cursor[T]
	Err       error
	State     State
	Loading   bool
	Exhausted bool
}

// Infinite fetches pages on demand and accumulates them in order.
type Infinite[T any] struct {
	exec api.Executor
	next PageFunc[T]
	opts options

	mu     sync.Mutex
	flag   *api.LoadingFlag
	gen    uint64
	cursor Cursor[T]
	pages  []T
	err    error
	state  State
	deps   []any
}

// NewInfinite creates an Infinite binding. Nothing is fetched until Trigger
// or NextPage is called.
func NewInfinite[T any](exec api.Executor, next PageFunc[T], opts ...Option) *Infinite[T] {
	return &Infinite[T]{
		exec: exec,
		next: next,
		opts: buildOptions(opts),
		flag: new(api.LoadingFlag),
	}
}

// Trigger discards accumulated pages and fetches the first page. While a
// page is in flight it returns api.ErrInFlight and changes nothing.
func (f *Infinite[T]) Trigger(ctx context.Context) (T, error) {
	f.mu.Lock()
	if f.flag.IsLoading() {
		f.mu.Unlock()
		var zero T
		return zero, api.ErrInFlight
	}
	f.resetLocked()
	f.mu.Unlock()
	return f.fetch(ctx)
}

// NextPage fetches the page at the cursor and appends it. Once the binding
// is exhausted it returns ErrExhausted without a call; while a page is in
// flight it returns api.ErrInFlight.
func (f *Infinite[T]) NextPage(ctx context.Context) (T, error) {
	return f.fetch(ctx)
}

// Reset discards pages, error and cursor. A page in flight is abandoned.
func (f *Infinite[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

// SetDeps records the caller's dependency values and resets the binding when
// they differ from the previous ones. It reports whether a reset happened.
func (f *Infinite[T]) SetDeps(deps ...any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deps != nil && reflect.DeepEqual(f.deps, deps) {
		return false
	}
	f.deps = append([]any{}, deps...)
	f.resetLocked()
	return true
}

// Pages returns a copy of the fetched pages in order.
func (f *Infinite[T]) Pages() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.pages...)
}

// Snapshot returns the current state.
func (f *Infinite[T]) Snapshot() InfiniteSnapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := InfiniteSnapshot[T]{
		Pages:     append([]T(nil), f.pages...),
		Cursor:    f.cursor,
		Err:       f.err,
		State:     f.state,
		Loading:   f.flag.IsLoading(),
		Exhausted: f.cursor.Exhausted,
	}
	if s.Loading {
		s.State = Loading
	}
	return s
}

func (f *Infinite[T]) resetLocked() {
	f.gen++
	f.flag = new(api.LoadingFlag)
	f.cursor = Cursor[T]{}
	f.pages = nil
	f.err = nil
	f.state = Idle
}

// exhaustLocked marks the binding as finished.
func (f *Infinite[T]) exhaustLocked() {
	f.cursor.Exhausted = true
	f.state = Exhausted
}

func (f *Infinite[T]) fetch(ctx context.Context) (T, error) {
	var zero T

	f.mu.Lock()
	if f.cursor.Exhausted {
		f.mu.Unlock()
		return zero, ErrExhausted
	}
	if f.flag.IsLoading() {
		f.mu.Unlock()
		return zero, api.ErrInFlight
	}
	cur, flag, gen := f.cursor, f.flag, f.gen
	req, ok := f.next(cur)
	if !ok {
		f.exhaustLocked()
		f.mu.Unlock()
		return zero, ErrExhausted
	}
	f.mu.Unlock()

	req.Loading = flag
	page, err := api.Do[T](ctx, f.exec, req)
	if errors.Is(err, api.ErrInFlight) {
		return zero, err
	}

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return page, err
	}
	if err != nil {
		f.err = err
		f.state = Failed
		f.mu.Unlock()
		f.opts.report(ctx, err)
		return page, err
	}

	f.pages = append(f.pages, page)
	stored := page
	f.cursor = Cursor[T]{Page: cur.Page + 1, Prev: &stored}
	f.err = nil
	f.state = Success
	if _, more := f.next(f.cursor); !more {
		f.exhaustLocked()
	}
	f.mu.Unlock()
	return page, nil
}
