// Package data binds API requests to owned, observable state.
//
// Three bindings are provided, mirroring how a page consumes the API:
//
//   - Query fetches when its request changes (fetch-on-mount).
//   - Trigger fetches only when asked (fetch-on-demand).
//   - Infinite fetches page after page until its PageFunc signals the end.
//
// Each binding owns a loading flag, so at most one request per binding is
// outstanding; a second call while one is in flight returns api.ErrInFlight
// without touching the network. Failures are returned to the caller and
// reported exactly once through the configured Reporter.
package data

import (
	"context"
	"errors"

	"github.com/jmf-tools/jmf-cli/internal/api"
)

// State is the lifecycle position of a binding.
type State int

const (
	Idle State = iota
	Loading
	Success
	Failed
	// Exhausted means a paginated binding has no further pages.
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "failed"
	case Exhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// ErrExhausted is returned by Infinite.NextPage once no further page exists.
var ErrExhausted = errors.New("no more pages")

// Reporter receives every failed call once.
type Reporter interface {
	Report(ctx context.Context, err error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, err error)

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, err error) { f(ctx, err) }

// Cache stores raw data payloads by request key. Query serves a cached
// payload while it revalidates.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, value []byte)
}

type options struct {
	reporter Reporter
	cache    Cache
}

// Option configures a binding.
type Option func(*options)

// WithReporter sets where failures are reported.
func WithReporter(r Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// WithCache sets the cache a Query reads stale data from. Other bindings ignore it.
func WithCache(c Cache) Option {
	return func(o *options) { o.cache = c }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) report(ctx context.Context, err error) {
	if o.reporter == nil || err == nil || errors.Is(err, api.ErrInFlight) {
		return
	}
	o.reporter.Report(ctx, err)
}

// Snapshot is a consistent view of a single-result binding.
type Snapshot[T any] struct {
	Data T
	// HasData is false until a call has succeeded (or a cached value was served).
	HasData bool
	// Stale is true while Data comes from the cache rather than the network.
	Stale   bool
	Err     error
	State   State
	Loading bool
}

// binding holds what Query and Trigger share: the loading flag, the
// generation counter used to drop abandoned results, and the last outcome.
type binding[T any] struct {
	flag    *api.LoadingFlag
	gen     uint64
	data    T
	hasData bool
	stale   bool
	err     error
	state   State
}

func newBinding[T any]() binding[T] {
	return binding[T]{flag: new(api.LoadingFlag)}
}

// reset clears data and error and abandons any call in flight. The abandoned
// call keeps its own flag, so a new call may start immediately.
func (b *binding[T]) reset() {
	var zero T
	b.gen++
	b.flag = new(api.LoadingFlag)
	b.data = zero
	b.hasData = false
	b.stale = false
	b.err = nil
	b.state = Idle
}

func (b *binding[T]) settle(data T, err error) {
	if err != nil {
		b.err = err
		b.state = Failed
		return
	}
	b.data = data
	b.hasData = true
	b.stale = false
	b.err = nil
	b.state = Success
}

func (b *binding[T]) snapshot() Snapshot[T] {
	s := Snapshot[T]{
		Data:    b.data,
		HasData: b.hasData,
		Stale:   b.stale,
		Err:     b.err,
		State:   b.state,
		Loading: b.flag.IsLoading(),
	}
	if s.Loading {
		s.State = Loading
	}
	return s
}
