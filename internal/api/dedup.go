package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"
)

// Dedup collapses identical concurrent GET requests into one network call.
// Callers that join an in-flight call receive the same data or error.
// Mutating requests always pass through.
//
// The first caller's context governs the shared call.
type Dedup struct {
	next  Executor
	group singleflight.Group
}

var _ Executor = (*Dedup)(nil)

// NewDedup wraps next.
func NewDedup(next Executor) *Dedup {
	return &Dedup{next: next}
}

// Execute runs req through next, sharing the call with identical in-flight GETs.
// The request's loading flag applies to this caller only.
func (d *Dedup) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	if req.Loading != nil {
		if !req.Loading.TryAcquire() {
			return nil, ErrInFlight
		}
		defer req.Loading.Release()
		req.Loading = nil
	}

	method := strings.ToUpper(req.Method)
	if method != "" && method != http.MethodGet {
		return d.next.Execute(ctx, req)
	}

	v, err, _ := d.group.Do(req.Key(), func() (any, error) {
		return d.next.Execute(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	raw, _ := v.(json.RawMessage)
	return raw, nil
}
