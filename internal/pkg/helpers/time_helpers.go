package helpers

import (
	"fmt"
	"time"
)

// ParseDate accepts RFC3339 timestamps or plain YYYY-MM-DD dates (interpreted as UTC midnight).
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseOptionalDate parses s when non-empty.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DaysUntil returns the whole days from now until t, rounding any partial day up.
// A deadline 23h59m away is 1 day left; one already passed is zero or negative.
func DaysUntil(now, t time.Time) int {
	diff := t.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
