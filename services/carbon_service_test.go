package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreForAverageBands(t *testing.T) {
	assert.Equal(t, "A+", scoreForAverage(4.9))
	assert.Equal(t, "A", scoreForAverage(5))
	assert.Equal(t, "A", scoreForAverage(7.9))
	assert.Equal(t, "A-", scoreForAverage(8))
	assert.Equal(t, "A-", scoreForAverage(11.9))
	assert.Equal(t, "B", scoreForAverage(12))
	assert.Equal(t, "B", scoreForAverage(18))
	assert.Equal(t, "C", scoreForAverage(18.1))
}

func TestScoreForWindowNoLogsDefaultsToB(t *testing.T) {
	assert.Equal(t, "B", scoreForWindow(0, 0))
}

func TestScoreForWindowAveragesOverLoggedDaysOnly(t *testing.T) {
	// One 10 kg day in the window grades on 10, not 10/7.
	assert.Equal(t, "A-", scoreForWindow(10, 1))
	// A full week at 10 kg per day grades the same.
	assert.Equal(t, "A-", scoreForWindow(70, 7))
	// Three light days stay in the top band.
	assert.Equal(t, "A+", scoreForWindow(12, 3))
}
