package services

import (
	"testing"
	"time"

	"eco-learn-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTouchStreakFirstActivity(t *testing.T) {
	u := &models.User{}
	TouchStreak(u, day(2026, 3, 10))

	assert.Equal(t, 1, u.Streak)
	require.NotNil(t, u.LastActivityDate)
	assert.Equal(t, day(2026, 3, 10), *u.LastActivityDate)
}

func TestTouchStreakSameDayIsNoop(t *testing.T) {
	u := &models.User{}
	TouchStreak(u, day(2026, 3, 10))
	TouchStreak(u, time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC))

	assert.Equal(t, 1, u.Streak)
	assert.Equal(t, day(2026, 3, 10), *u.LastActivityDate)
}

func TestTouchStreakConsecutiveDays(t *testing.T) {
	u := &models.User{}
	TouchStreak(u, day(2026, 3, 10))
	TouchStreak(u, day(2026, 3, 11))
	TouchStreak(u, day(2026, 3, 12))

	assert.Equal(t, 3, u.Streak)
	assert.Equal(t, day(2026, 3, 12), *u.LastActivityDate)
}

func TestTouchStreakGapResets(t *testing.T) {
	u := &models.User{}
	TouchStreak(u, day(2026, 3, 10))
	TouchStreak(u, day(2026, 3, 11))
	TouchStreak(u, day(2026, 3, 14))

	assert.Equal(t, 1, u.Streak)
	assert.Equal(t, day(2026, 3, 14), *u.LastActivityDate)
}

func TestTouchStreakFutureDateNeverMovesBackwards(t *testing.T) {
	future := day(2026, 3, 20)
	u := &models.User{Streak: 5, LastActivityDate: &future}
	TouchStreak(u, day(2026, 3, 18))

	assert.Equal(t, 5, u.Streak)
	assert.Equal(t, future, *u.LastActivityDate)
}

func TestStartOfDayNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	in := time.Date(2026, 3, 10, 2, 30, 0, 0, loc) // 2026-03-09 21:30 UTC

	assert.Equal(t, day(2026, 3, 9), StartOfDay(in))
}
