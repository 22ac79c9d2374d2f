package api

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ParseRateLimit builds a limiter from an expression such as "5", "5/s", "30/m" or
// "600/h". An empty expression or "0" disables pacing and returns nil.
func ParseRateLimit(raw string) (*rate.Limiter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil, nil
	}

	count, unit, _ := strings.Cut(raw, "/")
	n, err := strconv.ParseFloat(strings.TrimSpace(count), 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid rate limit %q: expected N or N/s, N/m, N/h", raw)
	}
	if n == 0 {
		return nil, nil
	}

	per := time.Second
	switch strings.TrimSpace(unit) {
	case "", "s":
	case "m":
		per = time.Minute
	case "h":
		per = time.Hour
	default:
		return nil, fmt.Errorf("invalid rate limit unit %q: use s, m or h", unit)
	}

	return rate.NewLimiter(rate.Limit(n/per.Seconds()), 1), nil
}
