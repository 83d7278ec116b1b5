package cache

import (
	"time"
)

// TimeUntilNextMandiRefresh returns the duration until 06:00 IST, when the
// previous day's mandi prices are published and cached series go stale.
func TimeUntilNextMandiRefresh() time.Duration {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	now := time.Now().In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, loc)

	// This morning's refresh already happened; wait for tomorrow's.
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
