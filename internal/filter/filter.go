// Package filter runs jq expressions over decoded JSON values.
package filter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/itchyny/gojq"
)

// Query is a compiled jq expression. $ENV reads the process environment.
type Query struct {
	expr string
	code *gojq.Code
}

// Compile parses expr. Zsh escapes ! as \! even inside single quotes, so
// \! is read as ! to keep operators like != working.
func Compile(expr string) (*Query, error) {
	expr = strings.ReplaceAll(expr, `\!`, `!`)
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	code, err := gojq.Compile(parsed, gojq.WithEnvironLoader(os.Environ))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return &Query{expr: expr, code: code}, nil
}

// Run evaluates the query against data. One result is returned as is,
// several as a slice, none as nil.
//
// Listings are rendered as {"items": [...]}; an expression starting with
// .[] that fails on such an object is retried on the list itself.
func (q *Query) Run(data any) (any, error) {
	results, err := q.collect(data)
	if err != nil {
		items, ok := listingItems(data)
		if !ok || !q.iteratesInput() {
			return nil, err
		}
		if results, err = q.collect(items); err != nil {
			return nil, err
		}
	}
	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	}
	return results, nil
}

func (q *Query) collect(data any) ([]any, error) {
	var results []any
	iter := q.code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			return results, nil
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}
}

func (q *Query) iteratesInput() bool {
	expr := strings.TrimSpace(q.expr)
	return strings.HasPrefix(expr, ".[]") || strings.HasPrefix(expr, "[.[]")
}

func listingItems(data any) ([]any, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}
	items, ok := m["items"].([]any)
	return items, ok
}

// Apply compiles expression and runs it against data. An empty expression
// returns data unchanged.
func Apply(data any, expression string) (any, error) {
	if expression == "" {
		return data, nil
	}
	q, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return q.Run(data)
}

// ApplyFromJSON decodes raw and applies expression to it.
func ApplyFromJSON(raw []byte, expression string) (any, error) {
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return Apply(data, expression)
}
