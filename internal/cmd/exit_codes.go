package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/data"
	"github.com/jmf-tools/jmf-cli/internal/resolve"
)

// Process exit codes. 6 is unused.
const (
	exitOK       = 0
	exitGeneric  = 1
	exitUsage    = 2
	exitAPI      = 3
	exitNotFound = 4
	exitBusy     = 5
	exitServer   = 7
	exitNetwork  = 8
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	var handled *handledError
	if errors.As(err, &handled) {
		if handled.exitCode != exitOK {
			return handled.exitCode
		}
		err = handled.err
	}

	var (
		apiErr    *api.Error
		notFound  *resolve.NotFoundError
		ambiguous *resolve.AmbiguousError
	)
	switch {
	case errors.Is(err, api.ErrInFlight):
		return exitBusy
	case errors.Is(err, data.ErrExhausted):
		return exitNotFound
	case errors.As(err, &apiErr):
		return apiExitCode(apiErr)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return exitNetwork
	case errors.As(err, &notFound), errors.As(err, &ambiguous), isUsageError(err):
		return exitUsage
	}
	return exitGeneric
}

func apiExitCode(e *api.Error) int {
	switch e.Kind {
	case api.KindTimeout, api.KindNetwork:
		return exitNetwork
	case api.KindHTTP:
		if e.StatusCode == 404 {
			return exitNotFound
		}
		return exitServer
	case api.KindAPI:
		if e.IsBadArguments() {
			return exitUsage
		}
		return exitAPI
	}
	return exitGeneric
}

// usagePhrases are fragments of cobra, pflag and local argument errors.
var usagePhrases = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"flag needs an argument",
	"requires at least",
	"requires exactly",
	"accepts at most",
	"accepts between",
	"invalid",
	"must be",
	"is required",
	"cannot be empty",
	"cannot use both",
	"cannot be combined",
	"conflicts with",
	"require --output",
}

func isUsageError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range usagePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
