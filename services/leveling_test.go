package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(999))
	assert.Equal(t, 2, LevelForXP(1000))
	assert.Equal(t, 3, LevelForXP(2500))
	assert.Equal(t, 1, LevelForXP(-50), "negative totals clamp to level 1")
}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 0, XPForLevel(1))
	assert.Equal(t, 1000, XPForLevel(2))
	assert.Equal(t, 4000, XPForLevel(5))
}

func TestLevelRoundTrip(t *testing.T) {
	for _, xp := range []int{0, 1, 999, 1000, 1001, 4999, 5000} {
		level := LevelForXP(xp)
		assert.LessOrEqual(t, XPForLevel(level), xp)
		assert.Greater(t, XPForLevel(level+1), xp)
	}
}

func TestCalculateLevelProgress(t *testing.T) {
	lp := CalculateLevelProgress(2350)
	assert.Equal(t, 3, lp.Level)
	assert.Equal(t, 350, lp.XP)
	assert.Equal(t, 1000, lp.XPToNextLevel)

	boundary := CalculateLevelProgress(1000)
	assert.Equal(t, 2, boundary.Level)
	assert.Equal(t, 0, boundary.XP)

	negative := CalculateLevelProgress(-10)
	assert.Equal(t, 1, negative.Level)
	assert.Equal(t, 0, negative.XP)
}
