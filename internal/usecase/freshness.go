package usecase

import (
	"time"

	"github.com/AlvinMun/bestbeforeai/internal/domain"
)

// SoonWindowDays is the last day count (inclusive) that still counts as expiring soon
const SoonWindowDays = 3

// Classify maps an expiry date to a freshness status relative to now.
// Only the calendar date of now (in now's location) matters; the time of day does not.
func Classify(expiry domain.Date, now time.Time) domain.FreshnessStatus {
	diffDays := expiry.DaysSince(domain.DateOf(now))

	switch {
	case diffDays < 0:
		return domain.StatusExpired
	case diffDays <= SoonWindowDays:
		return domain.StatusExpiringSoon
	default:
		return domain.StatusSafe
	}
}
