// Package dryrun describes API requests that were built but not sent.
package dryrun

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Preview is a request that would have been sent.
type Preview struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	// Body is the encoded JSON body, nil for GET.
	Body     json.RawMessage `json:"body,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// New returns a preview of a JSON API call. A body sets Content-Type.
func New(method, url string, body json.RawMessage) *Preview {
	p := &Preview{
		Method:  strings.ToUpper(method),
		URL:     url,
		Headers: map[string]string{"Accept": "application/json"},
		Body:    body,
	}
	if len(body) > 0 {
		p.Headers["Content-Type"] = "application/json"
	}
	return p
}

// Warn records a note shown with the preview.
func (p *Preview) Warn(format string, args ...any) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

// Write renders the preview as an HTTP-style request listing.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "[DRY-RUN] %s %s\n", p.Method, p.URL)
	for _, name := range []string{"Accept", "Content-Type"} {
		if v, ok := p.Headers[name]; ok {
			_, _ = fmt.Fprintf(w, "%s: %s\n", name, v)
		}
	}
	if len(p.Body) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", p.Body)
	}
	for _, warning := range p.Warnings {
		_, _ = fmt.Fprintf(w, "\nWarning: %s", warning)
	}
	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintln(w, "\nNo request sent.")
}
