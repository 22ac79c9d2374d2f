package api

import (
	"errors"
	"fmt"
	"time"
)

// CodeBadArguments is the API code for rejected caller input. It is reported
// as a warning rather than a failure of the service.
const CodeBadArguments = 203

// Kind classifies a failed call. Every failure maps to exactly one kind.
type Kind int

const (
	// KindTimeout means the configured timeout elapsed before a response.
	KindTimeout Kind = iota + 1
	// KindNetwork means the call could not complete (DNS, refused, redirect, cancelled).
	KindNetwork
	// KindHTTP means a non-2xx response arrived without a decodable envelope.
	KindHTTP
	// KindAPI means an envelope was decoded and ok was false.
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

var (
	// ErrInFlight is returned when a call is skipped because the caller's
	// loading flag shows a previous call is still outstanding.
	ErrInFlight = errors.New("request already in flight")
	// ErrRedirect is returned by the default client instead of following redirects.
	ErrRedirect = errors.New("redirects are not followed")
)

// Error is the single failure shape produced by the executor.
type Error struct {
	Kind     Kind
	Method   string
	Endpoint string

	// Timeout is the configured timeout (KindTimeout).
	Timeout time.Duration

	// StatusCode and Status describe the HTTP response, when one arrived.
	StatusCode int
	Status     string

	// Code and Msg come from the envelope (KindAPI).
	Code int
	Msg  string

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("request timed out (%dms)", e.Timeout.Milliseconds())
	case KindNetwork:
		if e.Err != nil {
			return fmt.Sprintf("network error: %v", e.Err)
		}
		return "network error"
	case KindHTTP:
		if e.Err != nil {
			return fmt.Sprintf("HTTP error %d (%s): %v", e.StatusCode, e.Status, e.Err)
		}
		return fmt.Sprintf("HTTP error %d (%s)", e.StatusCode, e.Status)
	case KindAPI:
		return fmt.Sprintf("API error %d: %s", e.Code, e.Msg)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "request failed"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsBadArguments reports whether the API rejected the caller's input.
func (e *Error) IsBadArguments() bool {
	return e != nil && e.Kind == KindAPI && e.Code == CodeBadArguments
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func isKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

// IsTimeout checks if the error is a timeout error.
func IsTimeout(err error) bool { return isKind(err, KindTimeout) }

// IsNetworkError checks if the error is a network error.
func IsNetworkError(err error) bool { return isKind(err, KindNetwork) }

// IsHTTPError checks if the error is an HTTP status error.
func IsHTTPError(err error) bool { return isKind(err, KindHTTP) }

// IsAPIError checks if the error is an application-level error.
func IsAPIError(err error) bool { return isKind(err, KindAPI) }

// IsBadArguments checks if the error is an API error for rejected input.
func IsBadArguments(err error) bool {
	e, ok := AsError(err)
	return ok && e.IsBadArguments()
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	e, ok := AsError(err)
	return ok && e.StatusCode == 404
}
