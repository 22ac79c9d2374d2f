// Package resolve maps loosely typed input onto a fixed set of names, such
// as tool slugs, using fuzzy matching.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Match is a candidate name with its fuzzy score; higher is better.
type Match struct {
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no names to match against")
)

// maxCandidates caps the candidates carried by AmbiguousError.
const maxCandidates = 5

// AmbiguousError reports a query that several names match equally well.
// Matches are ordered best first.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		names[i] = "\n  " + m.Name
	}
	msg := fmt.Sprintf("ambiguous match for %q", e.Query)
	if len(names) > 0 {
		msg += ", candidates:" + strings.Join(names, "")
	}
	return msg
}

// NotFoundError reports a query no name matches.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no match found for %q", e.Query)
}

// key folds case and treats spaces and underscores as dashes, so
// "lp recommend" and "LP_recommend" both find "LP-recommend-checker".
func key(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_':
			return '-'
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

type keySource []string

func (s keySource) String(i int) string { return key(s[i]) }
func (s keySource) Len() int            { return len(s) }

// Name returns the name query refers to. An exact match, ignoring case and
// separators, wins outright. Otherwise the best fuzzy match is returned,
// unless the top two share a score.
func Name(query string, names []string) (string, error) {
	q := key(query)
	switch {
	case q == "":
		return "", ErrEmptyQuery
	case len(names) == 0:
		return "", ErrEmptyItems
	}
	for _, n := range names {
		if key(n) == q {
			return n, nil
		}
	}

	results := fuzzy.FindFrom(q, keySource(names))
	switch {
	case len(results) == 0:
		return "", &NotFoundError{Query: query}
	case len(results) > 1 && results[0].Score == results[1].Score:
		return "", &AmbiguousError{Query: query, Matches: toMatches(names, results, maxCandidates)}
	}
	return names[results[0].Index], nil
}

// Rank returns up to limit names matching query, best first.
func Rank(query string, names []string, limit int) []Match {
	q := key(query)
	if q == "" || limit <= 0 {
		return nil
	}
	return toMatches(names, fuzzy.FindFrom(q, keySource(names)), limit)
}

func toMatches(names []string, results fuzzy.Matches, limit int) []Match {
	if len(results) > limit {
		results = results[:limit]
	}
	var out []Match
	for _, r := range results {
		out = append(out, Match{Name: names[r.Index], Score: r.Score})
	}
	return out
}
