package services

import (
	"time"

	"eco-learn-system/models"
)

// StartOfDay normalizes a time to UTC midnight. All day-granular bookkeeping
// (streaks, task occurrence keys, carbon logs) uses this single calendar.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// TouchStreak applies one day of qualifying activity to the user's streak,
// in place. Repeat touches on the same day are no-ops, so every activity type
// can call this freely within one day. A stored last-activity date in the
// future (clock skew, backfilled data) is treated like a same-day touch:
// nothing moves, and in particular the date is never moved backwards.
func TouchStreak(u *models.User, today time.Time) {
	day := StartOfDay(today)

	if u.LastActivityDate == nil {
		u.Streak = 1
		u.LastActivityDate = &day
		return
	}

	switch diff := daysBetween(StartOfDay(*u.LastActivityDate), day); {
	case diff <= 0:
		return
	case diff == 1:
		u.Streak++
	default:
		u.Streak = 1
	}
	u.LastActivityDate = &day
}
