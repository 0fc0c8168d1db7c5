package services

import "time"

// IsStale reports whether a cached value last updated at lastUpdated
// is too old to serve without a re-fetch. A zero timestamp counts as
// stale. Pure; callers supply their own notion of now.
func IsStale(lastUpdated, now time.Time, maxAge time.Duration) bool {
	if lastUpdated.IsZero() {
		return true
	}
	return now.Sub(lastUpdated) >= maxAge
}
