package outfmt

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter writes one command's results: data in structured modes, a
// table in text mode.
type Formatter struct {
	settings Settings
	out      io.Writer
	errOut   io.Writer
	table    *tabwriter.Writer
}

// NewFormatter returns a Formatter writing results to out and notices to errOut.
func NewFormatter(s Settings, out, errOut io.Writer) *Formatter {
	return &Formatter{
		settings: s,
		out:      out,
		errOut:   errOut,
		table:    tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Output renders data in the structured mode; see Settings.Render.
func (f *Formatter) Output(data any) error {
	return f.settings.Render(f.out, data)
}

// Structured reports whether Output will write something.
func (f *Formatter) Structured() bool {
	return f.settings.Structured()
}

// StartTable writes table headers. Returns true if in text mode.
func (f *Formatter) StartTable(headers []string) bool {
	if f.Structured() {
		return false
	}
	f.Row(headers...)
	return true
}

// Row writes one tab-separated table row.
func (f *Formatter) Row(columns ...string) {
	_, _ = fmt.Fprintln(f.table, strings.Join(columns, "\t"))
}

// EndTable flushes the table output.
func (f *Formatter) EndTable() error {
	return f.table.Flush()
}

// Empty writes a no-results notice to stderr.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}
