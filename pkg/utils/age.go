package utils

import (
	"time"
)

// FormatAge says how long ago t was, e.g. "3m12s ago". A zero time
// means the event never happened.
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return FormatDuration(time.Since(t)) + " ago"
}

// FormatDuration trims sub-second noise for display.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Second {
		return d.Truncate(time.Millisecond).String()
	}
	return d.Truncate(time.Second).String()
}
