package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/iocontext"
	"github.com/jmf-tools/jmf-cli/internal/outfmt"
)

func newTabWriterFromCmd(cmd *cobra.Command) *tabwriter.Writer {
	return tabwriter.NewWriter(iocontext.GetIO(cmd.Context()).Out, 0, 4, 2, ' ', 0)
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	streams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(outfmt.FromContext(cmd.Context()), streams.Out, streams.ErrOut)
}

// printJSON renders v in the structured mode of the command. In text mode
// it falls back to indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	if !structured(cmd) {
		return outfmt.WriteJSON(iocontext.GetIO(cmd.Context()).Out, v)
	}
	return newFormatter(cmd).Output(v)
}

// printList renders items as data in structured modes and as a table
// otherwise. An empty table prints empty to stderr instead.
func printList[T any](cmd *cobra.Command, items []T, empty string, headers []string, row func(T) []string) error {
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(items)
	}
	if len(items) == 0 {
		if !flags.Quiet {
			f.Empty(empty)
		}
		return nil
	}
	f.StartTable(headers)
	for _, item := range items {
		f.Row(row(item)...)
	}
	return f.EndTable()
}

func structured(cmd *cobra.Command) bool {
	return outfmt.FromContext(cmd.Context()).Structured()
}

func isJSON(cmd *cobra.Command) bool {
	return outfmt.FromContext(cmd.Context()).Mode != outfmt.Text
}

// printIfNotQuiet prints to stdout unless --quiet is set.
func printIfNotQuiet(cmd *cobra.Command, format string, args ...any) {
	if !flags.Quiet {
		_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).Out, format, args...)
	}
}

// ANSI foreground colors.
type tint string

const (
	tintRed    tint = "\033[31m"
	tintGreen  tint = "\033[32m"
	tintYellow tint = "\033[33m"
)

// paint wraps s in the color when --color allows it: "auto" colors a
// terminal stdout unless NO_COLOR is set.
func (t tint) paint(s string) string {
	switch flags.Color {
	case "never":
		return s
	case "always":
	default:
		if os.Getenv("NO_COLOR") != "" || !iocontext.IsTerminal(os.Stdout) {
			return s
		}
	}
	return string(t) + s + "\033[0m"
}

func red(s string) string    { return tintRed.paint(s) }
func green(s string) string  { return tintGreen.paint(s) }
func yellow(s string) string { return tintYellow.paint(s) }

// toolStatusText colors a tool status for tables.
func toolStatusText(s api.ToolStatus) string {
	switch s {
	case api.ToolNormal:
		return green(string(s))
	case api.ToolDowngraded:
		return yellow(string(s))
	}
	return red(string(s))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
