// Package iocontext carries the I/O streams of a command invocation in its
// context, so nothing writes to process-global streams directly.
package iocontext

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// IO holds the streams of one invocation.
type IO struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// DefaultIO returns the process streams.
func DefaultIO() *IO {
	return &IO{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// Buffers returns IO backed by in-memory buffers, plus the output buffers.
func Buffers() (*IO, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &IO{In: new(bytes.Buffer), Out: &out, ErrOut: &errOut}, &out, &errOut
}

// Silence returns a copy with stderr discarded, and stdout too when quiet
// is set.
func (s *IO) Silence(quiet bool) *IO {
	silenced := &IO{In: s.In, Out: s.Out, ErrOut: io.Discard}
	if quiet {
		silenced.Out = io.Discard
	}
	return silenced
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ReadSecret reads one secret line. On a terminal it prints prompt to
// ErrOut and reads without echo; otherwise it reads the first line of In.
func (s *IO) ReadSecret(prompt string) (string, error) {
	if f, ok := s.In.(*os.File); ok && IsTerminal(f) {
		_, _ = fmt.Fprint(s.ErrOut, prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(s.ErrOut)
		return string(secret), err
	}
	line, err := bufio.NewReader(io.LimitReader(s.In, 4096)).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type ioKey struct{}

// WithIO stores streams in the context.
func WithIO(ctx context.Context, streams *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, streams)
}

// GetIO returns the streams in ctx, or the process streams.
func GetIO(ctx context.Context) *IO {
	if streams, ok := ctx.Value(ioKey{}).(*IO); ok && streams != nil {
		return streams
	}
	return DefaultIO()
}
