package api

import (
	"context"
	"encoding/json"
	"fmt"
)

// Executor performs a request and returns the envelope's data payload.
//
// Implementations return *Error for every failure of the call itself and
// ErrInFlight when the request's loading flag is already held. *Client is the
// network implementation; *Dedup wraps another Executor.
type Executor interface {
	Execute(ctx context.Context, req Request) (json.RawMessage, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, req Request) (json.RawMessage, error)

// Execute calls f.
func (f ExecutorFunc) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	return f(ctx, req)
}

// Do executes req and decodes the data payload into T.
func Do[T any](ctx context.Context, exec Executor, req Request) (T, error) {
	var out T
	raw, err := exec.Execute(ctx, req)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &Error{
			Kind:       KindHTTP,
			Method:     req.Method,
			Endpoint:   req.Endpoint,
			StatusCode: 200,
			Status:     "OK",
			Err:        fmt.Errorf("unexpected data format: %w", err),
		}
	}
	return out, nil
}
