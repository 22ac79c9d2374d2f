package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/data"
	"github.com/jmf-tools/jmf-cli/internal/resolve"
)

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, exitOK},
		{"help", pflag.ErrHelp, exitOK},
		{"timeout", &api.Error{Kind: api.KindTimeout, Timeout: time.Second}, exitNetwork},
		{"network", &api.Error{Kind: api.KindNetwork, Err: errors.New("connection refused")}, exitNetwork},
		{"not found", &api.Error{Kind: api.KindHTTP, StatusCode: 404, Status: "Not Found"}, exitNotFound},
		{"server", &api.Error{Kind: api.KindHTTP, StatusCode: 500, Status: "Internal Server Error"}, exitServer},
		{"api", &api.Error{Kind: api.KindAPI, Code: 500, Msg: "内部错误"}, exitAPI},
		{"bad arguments", &api.Error{Kind: api.KindAPI, Code: api.CodeBadArguments, Msg: "参数错误"}, exitUsage},
		{"wrapped api", fmt.Errorf("vip info: %w", &api.Error{Kind: api.KindAPI, Code: 1}), exitAPI},
		{"in flight", api.ErrInFlight, exitBusy},
		{"exhausted", data.ErrExhausted, exitNotFound},
		{"deadline", context.DeadlineExceeded, exitNetwork},
		{"usage", errors.New("unknown command \"nope\""), exitUsage},
		{"usage shorthand", errors.New("unknown shorthand flag: 'a' in -a"), exitUsage},
		{"conflict", errors.New("--page cannot be combined with --all"), exitUsage},
		{"json conflict", errors.New("--json conflicts with --output jsonl"), exitUsage},
		{"no tool", fmt.Errorf("tool: %w", &resolve.NotFoundError{Query: "zzz"}), exitUsage},
		{"ambiguous tool", &resolve.AmbiguousError{Query: "viewer"}, exitUsage},
		{"unknown api kind", &api.Error{}, exitGeneric},
		{"generic", errors.New("boom"), exitGeneric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.code {
				t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.code)
			}
		})
	}
}

func TestExitCode_HandledErrorUsesStoredCode(t *testing.T) {
	err := &handledError{err: errors.New("wrapped"), exitCode: exitNotFound}
	if got := ExitCode(err); got != exitNotFound {
		t.Fatalf("ExitCode(handled) = %d, want %d", got, exitNotFound)
	}
}

func TestExitCode_HandledErrorFallsBackToCause(t *testing.T) {
	err := &handledError{err: &api.Error{Kind: api.KindNetwork}}
	if got := ExitCode(err); got != exitNetwork {
		t.Fatalf("ExitCode(handled) = %d, want %d", got, exitNetwork)
	}
	if !errors.Is(err, errAlreadyHandled) {
		t.Fatal("handledError should match errAlreadyHandled")
	}
}
