package models

import (
	"fmt"
	"time"
)

// DateLayout is the layout of every date key (entries, chat threads, generation date).
const DateLayout = "2006-01-02"

// DateKey formats t as a calendar date in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a date key as midnight UTC so that day arithmetic
// is not affected by DST transitions.
func ParseDateKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed date %q", ErrInvalidInput, s)
	}
	return t, nil
}

// ValidDateKey reports whether s is a canonical YYYY-MM-DD date.
func ValidDateKey(s string) bool {
	t, err := ParseDateKey(s)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == s
}

// DaysBetween returns the number of calendar days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
