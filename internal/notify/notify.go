// Package notify reports classified request failures to the user.
//
// It is the command-line stand-in for a toast surface: every failed call is
// written once to the error stream, either as a warning (rejected input) or
// as an error with a suggested action.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/iocontext"
)

// Severity is how prominently a failure is shown.
type Severity int

const (
	// SeverityWarning is non-blocking, used for rejected caller input.
	SeverityWarning Severity = iota + 1
	// SeverityError is a failed call the user may want to retry.
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Classify returns the severity and user-facing message for err.
func Classify(err error) (Severity, string) {
	apiErr, ok := api.AsError(err)
	if !ok {
		return SeverityError, fmt.Sprintf("Error: %v", err)
	}
	switch {
	case apiErr.IsBadArguments():
		return SeverityWarning, apiErr.Msg
	case apiErr.Kind == api.KindTimeout:
		return SeverityError, fmt.Sprintf("Request timed out (%dms)\n%s", apiErr.Timeout.Milliseconds(), api.ErrTimeout.Suggestion())
	case apiErr.Kind == api.KindNetwork:
		return SeverityError, fmt.Sprintf("Network error\n%s", api.ErrNetwork.Suggestion())
	case apiErr.Kind == api.KindHTTP:
		return SeverityError, fmt.Sprintf("API request failed\nHTTP %d (%s)", apiErr.StatusCode, apiErr.Status)
	default:
		return SeverityError, fmt.Sprintf("API request failed (%d)\n%s", apiErr.Code, apiErr.Msg)
	}
}

// Notifier writes reports to a stream. It is safe for concurrent use.
type Notifier struct {
	mu  sync.Mutex
	out io.Writer
}

// New returns a Notifier writing to w.
func New(w io.Writer) *Notifier {
	return &Notifier{out: w}
}

// FromContext returns a Notifier bound to the context's error stream.
func FromContext(ctx context.Context) *Notifier {
	return New(iocontext.GetIO(ctx).ErrOut)
}

// Report writes err once. Skipped calls (api.ErrInFlight) are not reported.
func (n *Notifier) Report(ctx context.Context, err error) {
	if err == nil || errors.Is(err, api.ErrInFlight) {
		return
	}
	severity, msg := Classify(err)
	slog.DebugContext(ctx, "request reported", "severity", severity.String(), "error", err)

	prefix := "Error: "
	if severity == SeverityWarning {
		prefix = "Warning: "
	}
	if _, ok := api.AsError(err); !ok {
		prefix = ""
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.out, "%s%s\n", prefix, msg)
}
