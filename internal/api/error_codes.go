package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents machine-readable error codes for JSON output.
type ErrorCode string

const (
	// ErrTimeout indicates the request timed out.
	ErrTimeout ErrorCode = "timeout"
	// ErrNetwork indicates the request could not reach the server.
	ErrNetwork ErrorCode = "network_error"
	// ErrHTTP indicates a non-2xx response without an API envelope.
	ErrHTTP ErrorCode = "http_error"
	// ErrAPI indicates the API reported a failure.
	ErrAPI ErrorCode = "api_error"
	// ErrBadArguments indicates the API rejected the supplied arguments.
	ErrBadArguments ErrorCode = "bad_arguments"
	// ErrBusy indicates the call was skipped because another is in flight.
	ErrBusy ErrorCode = "in_flight"
	// ErrUnknown indicates an unknown or unclassified error.
	ErrUnknown ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed when the user retries.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrTimeout, ErrNetwork, ErrHTTP, ErrBusy:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable suggestion for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrTimeout, ErrNetwork:
		return "Retry, or switch to a different network"
	case ErrHTTP:
		return "The server returned an unexpected response; try again later"
	case ErrBadArguments:
		return "Check the input values"
	case ErrBusy:
		return "Wait for the previous request to finish"
	default:
		return ""
	}
}

// CodeForKind maps an error kind to its ErrorCode.
func CodeForKind(k Kind) ErrorCode {
	switch k {
	case KindTimeout:
		return ErrTimeout
	case KindNetwork:
		return ErrNetwork
	case KindHTTP:
		return ErrHTTP
	case KindAPI:
		return ErrAPI
	default:
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	Suggestion string         `json:"suggestion,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type Alias StructuredError
	return json.Marshal((*Alias)(e))
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// StructuredErrorFromError attempts to convert any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	if errors.Is(err, ErrInFlight) {
		return NewStructuredError(ErrBusy, err.Error())
	}

	apiErr, ok := AsError(err)
	if !ok {
		return NewStructuredError(ErrUnknown, err.Error())
	}

	code := CodeForKind(apiErr.Kind)
	if apiErr.IsBadArguments() {
		code = ErrBadArguments
	}
	out := NewStructuredError(code, apiErr.Error())
	ctx := map[string]any{}
	if apiErr.Endpoint != "" {
		ctx["endpoint"] = apiErr.Endpoint
	}
	if apiErr.StatusCode != 0 {
		ctx["status_code"] = apiErr.StatusCode
	}
	if apiErr.Kind == KindAPI {
		ctx["api_code"] = apiErr.Code
	}
	if apiErr.Kind == KindTimeout {
		ctx["timeout_ms"] = apiErr.Timeout.Milliseconds()
	}
	if len(ctx) > 0 {
		out.Context = ctx
	}
	return out
}
