// Package cli holds small parsing and formatting helpers shared by commands.
package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// agoPattern accepts "<n><unit> ago" with optional spaces, e.g. "3d ago", "2 w ago".
var agoPattern = regexp.MustCompile(`^(\d+)\s*([a-z]+)\s+ago$`)

// shift moves t back by n units.
type shift func(t time.Time, n int) time.Time

var agoUnits = map[string]shift{
	"m":  func(t time.Time, n int) time.Time { return t.Add(-time.Duration(n) * time.Minute) },
	"h":  func(t time.Time, n int) time.Time { return t.Add(-time.Duration(n) * time.Hour) },
	"d":  func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -n) },
	"w":  func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -7*n) },
	"mo": func(t time.Time, n int) time.Time { return t.AddDate(0, -n, 0) },
	"y":  func(t time.Time, n int) time.Time { return t.AddDate(-n, 0, 0) },
}

// ParseSince turns a lower bound for record filters into a time.
//
// Accepted forms: "today", "yesterday", relative offsets such as "7d ago" or
// "1mo ago", calendar dates (2024-05-01, read in now's location), RFC3339
// timestamps and positive unix seconds.
func ParseSince(s string, now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}
	lower := strings.ToLower(raw)

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch lower {
	case "today":
		return midnight, nil
	case "yesterday":
		return midnight.AddDate(0, 0, -1), nil
	}

	if m := agoPattern.FindStringSubmatch(lower); m != nil {
		back, known := agoUnits[m[2]]
		n, err := strconv.Atoi(m[1])
		if !known || err != nil || n == 0 {
			return time.Time{}, fmt.Errorf("invalid relative time %q", raw)
		}
		return back(now, n), nil
	}

	if t, err := time.ParseInLocation(time.DateOnly, raw, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if sec, err := strconv.ParseInt(raw, 10, 64); err == nil && sec > 0 {
		return time.Unix(sec, 0), nil
	}
	return time.Time{}, fmt.Errorf("invalid time expression %q", raw)
}

// FormatUnix renders unix seconds as a local date and time, or "-" for zero.
func FormatUnix(sec int64) string {
	return formatUnix(sec, time.DateTime)
}

// FormatUnixDate renders unix seconds as a local date, or "-" for zero.
func FormatUnixDate(sec int64) string {
	return formatUnix(sec, time.DateOnly)
}

func formatUnix(sec int64, layout string) string {
	if sec == 0 {
		return "-"
	}
	return time.Unix(sec, 0).Format(layout)
}
