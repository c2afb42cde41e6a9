package monitor

import "time"

// WithinWindow reports whether a filing timestamp is recent enough to be
// admitted: timestamp >= now - window (closed lower bound). Both instants
// must already be in the display timezone.
func WithinWindow(timestamp, now time.Time, window time.Duration) bool {
	cutoff := now.Add(-window)
	return !timestamp.Before(cutoff)
}
