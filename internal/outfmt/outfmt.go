// Package outfmt renders command results as text tables, JSON, JSON lines or
// a Go template, after an optional jq query.
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Mode is the output format of an invocation.
type Mode int

const (
	// Text is the default human-readable output
	Text Mode = iota
	// JSON outputs one JSON document
	JSON
	// JSONL outputs one compact JSON value per list item
	JSONL
)

// Parse parses an output mode string
func Parse(s string) (Mode, error) {
	switch s {
	case "text", "":
		return Text, nil
	case "json":
		return JSON, nil
	case "jsonl", "ndjson":
		return JSONL, nil
	}
	return Text, fmt.Errorf("invalid output format: %q (use 'text', 'json', or 'jsonl')", s)
}

func (m Mode) String() string {
	switch m {
	case JSON:
		return "json"
	case JSONL:
		return "jsonl"
	default:
		return "text"
	}
}

// Settings is the output configuration of one invocation, resolved from
// --output, --json, --compact-json, --jq and --template.
type Settings struct {
	Mode     Mode
	Compact  bool
	Query    string
	Template string
}

// Structured reports whether results are rendered as data rather than as
// text tables. A template counts as structured in any mode.
func (s Settings) Structured() bool {
	return s.Mode != Text || s.Template != ""
}

// Render writes v in the structured form s selects. Text mode without a
// template writes nothing; commands render their own tables.
func (s Settings) Render(w io.Writer, v any) error {
	switch {
	case s.Template != "":
		filtered, err := ApplyQuery(v, s.Query)
		if err != nil {
			return err
		}
		return WriteTemplate(w, filtered, s.Template)

	case s.Mode == JSONL:
		if s.Query != "" {
			filtered, err := ApplyQuery(v, s.Query)
			if err != nil {
				return err
			}
			return writeLines(w, filtered)
		}
		if items, ok := listItems(v); ok {
			return writeLines(w, items)
		}
		return encode(w, v, true)

	case s.Mode == JSON:
		if s.Query == "" {
			return encode(w, wrapLists(v), s.Compact)
		}
		filtered, err := ApplyQuery(v, s.Query)
		if err != nil {
			return err
		}
		return encode(w, filtered, s.Compact)
	}
	return nil
}

type settingsKey struct{}

// WithSettings stores s in the context.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// FromContext returns the settings stored in ctx, or text output.
func FromContext(ctx context.Context) Settings {
	s, _ := ctx.Value(settingsKey{}).(Settings)
	return s
}

// WriteJSON writes v as indented JSON without HTML escaping.
func WriteJSON(w io.Writer, v any) error {
	return encode(w, v, false)
}

func encode(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// writeLines writes each element of a list as one compact line; any other
// value is a single line.
func writeLines(w io.Writer, v any) error {
	items, ok := v.([]any)
	if !ok {
		return encode(w, v, true)
	}
	for _, item := range items {
		if err := encode(w, item, true); err != nil {
			return err
		}
	}
	return nil
}
