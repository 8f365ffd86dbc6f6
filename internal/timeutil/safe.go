// Package timeutil centralizes defensive timestamp handling. Persisted start
// times come from clients whose clocks and serialization we do not control,
// so every elapsed-time computation goes through SafeSince instead of
// re-deriving the guard at each call site.
package timeutil

import "time"

// SafeSince returns the elapsed time since t, clamped to zero. A zero,
// invalid, or future timestamp yields 0 ("just now") rather than a negative
// duration.
func SafeSince(t time.Time) time.Duration {
	if t.IsZero() {
		return 0
	}
	d := time.Since(t)
	if d < 0 {
		return 0
	}
	return d
}

// SafeParse parses an RFC 3339 or YYYY-MM-DD timestamp. Any parse failure
// returns the zero time instead of an error; callers treat zero as "unknown".
func SafeParse(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

// SafeDuration returns end - start, or zero when either bound is missing or
// the interval would be negative.
func SafeDuration(start, end time.Time) time.Duration {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}
