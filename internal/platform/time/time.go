// Package time converts between time.Time and the unix-second columns the schema stores
package time

import "time"

// FromUnix returns the UTC time for sec; sec <= 0 is the zero time
func FromUnix(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// Unix returns t in seconds, 0 for the zero time
func Unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
