package models

import "time"

// DateLayout is the storage format for calendar dates. Dates are plain
// strings so a record logged at 23:30 local time stays on the day the
// user saw, regardless of timezone-shifted timestamps.
const DateLayout = "2006-01-02"

// ParseDate parses a stored calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as a stored calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current calendar date in local time. Callers that
// need determinism (the stats engine) take a date parameter instead of
// calling this.
func Today() string {
	return FormatDate(time.Now())
}
