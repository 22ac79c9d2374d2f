package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/data"
	"github.com/jmf-tools/jmf-cli/internal/iocontext"
	"github.com/jmf-tools/jmf-cli/internal/notify"
	"github.com/jmf-tools/jmf-cli/internal/outfmt"
	"github.com/jmf-tools/jmf-cli/internal/resolve"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var (
		ambiguous *resolve.AmbiguousError
		notFound  *resolve.NotFoundError
	)

	switch {
	case errors.Is(err, api.ErrInFlight):
		msg.WriteString("A request for this data is already in progress.\n")

	case errors.Is(err, data.ErrExhausted):
		msg.WriteString("No more records.\n")

	case errors.As(err, &ambiguous):
		fmt.Fprintf(&msg, "Error: %s\n\n", ambiguous.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Use the full tool name\n")

	case errors.As(err, &notFound):
		fmt.Fprintf(&msg, "Error: %s\n\n", notFound.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - List the tool names: jmf status\n")

	default:
		apiErr, ok := api.AsError(err)
		if !ok {
			fmt.Fprintf(&msg, "Error: %s\n", err.Error())
			break
		}
		severity, text := notify.Classify(err)
		if severity == notify.SeverityWarning {
			fmt.Fprintf(&msg, "Warning: %s\n", text)
			break
		}
		fmt.Fprintf(&msg, "Error: %s\n", text)
		if apiErr.Kind == api.KindHTTP || apiErr.Kind == api.KindNetwork {
			msg.WriteString("\n")
			msg.WriteString(suggestionsFor(apiErr))
		}
	}

	return msg.String()
}

func suggestionsFor(e *api.Error) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch {
	case e.Kind == api.KindNetwork:
		suggestions.WriteString("  - Check the API base URL: jmf config show\n")
		suggestions.WriteString("  - Check if the server is reachable: jmf status --ping\n")
	case e.StatusCode == 404:
		suggestions.WriteString("  - The user or article doesn't exist\n")
		suggestions.WriteString("  - Check the slug or URL is correct\n")
	case e.StatusCode == 429:
		suggestions.WriteString("  - Too many requests\n")
		suggestions.WriteString("  - Lower the pace with --rate-limit\n")
	case e.StatusCode >= 500:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry\n")
	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}

// errAlreadyHandled marks an error RunE has already printed, so Execute
// does not print it again.
var errAlreadyHandled = errors.New("error already handled")

// handledError is an error RunE printed, with its exit code.
type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string   { return e.err.Error() }
func (e *handledError) Unwrap() []error { return []error{errAlreadyHandled, e.err} }

// RunE wraps a command function with error reporting: a structured error
// on stderr in JSON mode, otherwise a message with suggestions. Errors a
// binding already reported are not printed again.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		errOut := iocontext.GetIO(cmd.Context()).ErrOut
		switch {
		case isJSON(cmd):
			if se := api.StructuredErrorFromError(err); se != nil {
				_ = outfmt.WriteJSON(errOut, se)
			}
		case reportedFromContext(cmd.Context()).seen(err):
		default:
			_, _ = fmt.Fprint(errOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}
