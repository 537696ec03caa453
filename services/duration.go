package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"eco-learn-system/models"
)

// Lesson durations are free text entered by admins: "12:30" (MM:SS),
// "15m", "1h 30m". Course totals are summed in minutes and re-rendered
// as "Xh Ym".
var (
	clockFormatRe = regexp.MustCompile(`(\d+):(\d+)`)
	minutesRe     = regexp.MustCompile(`(\d+)\s*m`)
	hoursRe       = regexp.MustCompile(`(\d+)\s*h`)
)

// ParseDurationMinutes extracts a duration in (fractional) minutes from one
// lesson's duration string. Unparseable input counts as zero.
func ParseDurationMinutes(s string) float64 {
	if s == "" {
		return 0
	}
	if m := clockFormatRe.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		secs, _ := strconv.Atoi(m[2])
		return float64(mins) + float64(secs)/60
	}
	var total float64
	if m := hoursRe.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		total += float64(h) * 60
	}
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		mins, _ := strconv.Atoi(m[1])
		total += float64(mins)
	}
	return total
}

// FormatDuration renders total minutes as "Xh Ym", or "Ym" under an hour.
func FormatDuration(totalMinutes float64) string {
	hours := int(totalMinutes) / 60
	mins := int(math.Round(math.Mod(totalMinutes, 60)))
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// SumLessonDurations totals the durations of a course's lessons and renders
// the result.
func SumLessonDurations(lessons []models.Lesson) string {
	var total float64
	for _, l := range lessons {
		total += ParseDurationMinutes(l.Duration)
	}
	return FormatDuration(total)
}
