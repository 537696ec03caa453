package services

import (
	"testing"

	"eco-learn-system/models"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationMinutes(t *testing.T) {
	assert.InDelta(t, 12.5, ParseDurationMinutes("12:30"), 0.001)
	assert.InDelta(t, 15, ParseDurationMinutes("15m"), 0.001)
	assert.InDelta(t, 15, ParseDurationMinutes("15 min"), 0.001)
	assert.InDelta(t, 90, ParseDurationMinutes("1h 30m"), 0.001)
	assert.InDelta(t, 120, ParseDurationMinutes("2h"), 0.001)
	assert.InDelta(t, 0, ParseDurationMinutes(""), 0.001)
	assert.InDelta(t, 0, ParseDurationMinutes("soon"), 0.001)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45m", FormatDuration(45))
	assert.Equal(t, "1h 30m", FormatDuration(90))
	assert.Equal(t, "2h 0m", FormatDuration(120))
	assert.Equal(t, "0m", FormatDuration(0))
}

func TestSumLessonDurations(t *testing.T) {
	lessons := []models.Lesson{
		{Duration: "12:30"},
		{Duration: "15m"},
		{Duration: "1h 2m"},
	}
	// 12.5 + 15 + 62 = 89.5 -> 1h 30m (minutes rounded)
	assert.Equal(t, "1h 30m", SumLessonDurations(lessons))
}
