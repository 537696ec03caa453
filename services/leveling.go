package services

// Levels are equal-width bands of 1000 XP: level 1 covers 0-999, level 2
// covers 1000-1999, and so on. The whole progression law lives here.
const XPPerLevel = 1000

// LevelProgress locates a cumulative XP total inside its level band.
// XPToNextLevel is the band width, not the remaining distance — the
// original product contract, kept verbatim (clients render xp/xpToNextLevel).
type LevelProgress struct {
	Level         int `json:"level"`
	XP            int `json:"xp"`
	XPToNextLevel int `json:"xpToNextLevel"`
}

// XPForLevel returns the cumulative XP needed to start the given level.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return (level - 1) * XPPerLevel
}

// LevelForXP maps cumulative XP to a level, never below 1.
func LevelForXP(totalXP int) int {
	if totalXP < 0 {
		return 1
	}
	return totalXP/XPPerLevel + 1
}

// CalculateLevelProgress splits cumulative XP into level + XP within that
// level. Negative input (which the ledger never produces) collapses to the
// start of level 1.
func CalculateLevelProgress(totalXP int) LevelProgress {
	if totalXP < 0 {
		totalXP = 0
	}
	level := LevelForXP(totalXP)
	return LevelProgress{
		Level:         level,
		XP:            totalXP - XPForLevel(level),
		XPToNextLevel: XPPerLevel,
	}
}
