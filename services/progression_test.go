package services

import (
	"testing"
	"time"

	"eco-learn-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestApplyFixedRewardBanksXP(t *testing.T) {
	u := &models.User{TotalXP: 100, Level: 1}

	res := applyFixedReward(u, 50, noon)

	assert.Equal(t, 50, res.XPEarned)
	assert.Equal(t, 150, u.TotalXP)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, 150, res.XP)
	assert.Equal(t, 1000, res.XPToNextLevel)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, u.Streak, "reward touches the streak")
}

func TestApplyFixedRewardLevelUp(t *testing.T) {
	u := &models.User{TotalXP: 950, Level: 1}

	res := applyFixedReward(u, 50, noon)

	assert.Equal(t, 2, res.Level)
	assert.Equal(t, 0, res.XP)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 1, res.PreviousLevel)
	assert.Equal(t, 2, u.Level)
}

func TestUnchangedResultMutatesNothing(t *testing.T) {
	last := StartOfDay(noon)
	u := &models.User{TotalXP: 1200, Level: 2, Streak: 4, LastActivityDate: &last}

	res := unchangedResult(u, true)

	assert.Equal(t, 0, res.XPEarned)
	assert.Equal(t, 2, res.Level)
	assert.Equal(t, 200, res.XP)
	assert.True(t, res.AlreadyCompleted)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1200, u.TotalXP)
	assert.Equal(t, 4, u.Streak)
}

func TestApplyQuizRewardFirstCompletion(t *testing.T) {
	u := &models.User{TotalXP: 0, Level: 1}

	res, banked := applyQuizReward(u, nil, 100, QuizScore{Score: 60, CorrectCount: 6, TotalQuestions: 10}, noon)

	assert.True(t, banked)
	assert.Equal(t, 60, res.XPEarned)
	assert.Equal(t, 60, u.TotalXP)
	assert.Equal(t, 1, u.QuizzesPassed)
	assert.Equal(t, 1, u.Streak)
}

func TestApplyQuizRewardImprovedScoreRetractsOldReward(t *testing.T) {
	// First attempt banked 60 XP; retake scores 90. Net contribution must be
	// 90, not 150.
	u := &models.User{TotalXP: 60, Level: 1, QuizzesPassed: 1}
	prior := &models.QuizResult{Score: 60, XPEarned: 60}

	res, banked := applyQuizReward(u, prior, 100, QuizScore{Score: 90, CorrectCount: 9, TotalQuestions: 10}, noon)

	assert.True(t, banked)
	assert.Equal(t, 90, res.XPEarned)
	assert.Equal(t, 90, u.TotalXP)
	assert.Equal(t, 1, u.QuizzesPassed, "retakes never recount the quiz")
}

func TestApplyQuizRewardWorseScoreKeepsBank(t *testing.T) {
	u := &models.User{TotalXP: 90, Level: 1, QuizzesPassed: 1}
	prior := &models.QuizResult{Score: 90, XPEarned: 90}

	res, banked := applyQuizReward(u, prior, 100, QuizScore{Score: 60, CorrectCount: 6, TotalQuestions: 10}, noon)

	assert.False(t, banked)
	assert.Equal(t, 60, res.XPEarned, "reports the attempt's worth")
	assert.Equal(t, 90, u.TotalXP, "the banked reward stays put")
	assert.Equal(t, 0, u.Streak, "rejected improvement does not touch the streak")
}

func TestApplyQuizRewardEqualScoreIsNotAnImprovement(t *testing.T) {
	u := &models.User{TotalXP: 90, Level: 1}
	prior := &models.QuizResult{Score: 90, XPEarned: 90}

	_, banked := applyQuizReward(u, prior, 100, QuizScore{Score: 90, CorrectCount: 9, TotalQuestions: 10}, noon)

	assert.False(t, banked)
	assert.Equal(t, 90, u.TotalXP)
}

func TestApplyQuizRewardRetractionClampsAtZero(t *testing.T) {
	// The bank says 80 XP was granted but the aggregate only holds 50
	// (out-of-band mutation). Retraction must not push the total negative.
	u := &models.User{TotalXP: 50, Level: 1}
	prior := &models.QuizResult{Score: 40, XPEarned: 80}

	res, banked := applyQuizReward(u, prior, 100, QuizScore{Score: 70, CorrectCount: 7, TotalQuestions: 10}, noon)

	assert.True(t, banked)
	assert.Equal(t, 70, u.TotalXP)
	assert.Equal(t, 70, res.XPEarned)
}

func TestApplyQuizRewardLevelUpBaselineIsPostRetraction(t *testing.T) {
	// The user stands at 1050 (level 2) with 100 XP banked from the prior
	// attempt. Retraction drops them to 950 (level 1) before the new reward
	// lands, so the retake reports a genuine 1 -> 2 level-up rather than
	// comparing against the pre-retraction level.
	u := &models.User{TotalXP: 1050, Level: 2, QuizzesPassed: 1}
	prior := &models.QuizResult{Score: 50, XPEarned: 100}

	res, banked := applyQuizReward(u, prior, 200, QuizScore{Score: 95, CorrectCount: 19, TotalQuestions: 20}, noon)

	require.True(t, banked)
	assert.Equal(t, 190, res.XPEarned)
	assert.Equal(t, 1140, u.TotalXP)
	assert.Equal(t, 1, res.PreviousLevel)
	assert.Equal(t, 2, res.Level)
	assert.True(t, res.LeveledUp)
}

func TestSettleLessonFirstCompletion(t *testing.T) {
	u := &models.User{TotalXP: 100, Level: 1}
	prog := &models.UserProgress{}

	res, granted := settleLesson(u, prog, noon)

	assert.True(t, granted)
	assert.Equal(t, LessonXP, res.XPEarned)
	assert.Equal(t, 150, u.TotalXP)
	assert.True(t, prog.Completed)
	assert.Equal(t, LessonXP, prog.XPEarned)
	require.NotNil(t, prog.CompletedAt)
	assert.Equal(t, noon, *prog.CompletedAt)
}

func TestSettleLessonRepeatYieldsZeroXP(t *testing.T) {
	last := StartOfDay(noon)
	u := &models.User{TotalXP: 500, Level: 1, Streak: 3, LastActivityDate: &last}
	prog := &models.UserProgress{Completed: true, XPEarned: LessonXP}

	res, granted := settleLesson(u, prog, noon.AddDate(0, 0, 1))

	assert.False(t, granted)
	assert.Equal(t, 0, res.XPEarned)
	assert.True(t, res.AlreadyCompleted)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 500, u.TotalXP, "repeat pays nothing")
	assert.Equal(t, 3, u.Streak, "repeat does not touch the streak")
	assert.Equal(t, last, *u.LastActivityDate)
}

func TestSettleTaskPaysPerTaskXP(t *testing.T) {
	u := &models.User{TotalXP: 0, Level: 1}
	completion := &models.TaskCompletion{Date: StartOfDay(noon)}

	res, err := settleTask(u, completion, 75, "/uploads/proofs/p.jpg", noon)

	require.NoError(t, err)
	assert.Equal(t, 75, res.XPEarned)
	assert.Equal(t, 75, u.TotalXP)
	assert.Equal(t, 1, u.TasksCompleted)
	assert.True(t, completion.Completed)
	assert.Equal(t, 75, completion.XPEarned)
	assert.Equal(t, "/uploads/proofs/p.jpg", completion.ProofURL)
}

func TestSettleTaskSameDayRepeatRejected(t *testing.T) {
	u := &models.User{TotalXP: 0, Level: 1}
	completion := &models.TaskCompletion{Date: StartOfDay(noon)}

	_, err := settleTask(u, completion, 50, "", noon)
	require.NoError(t, err)

	_, err = settleTask(u, completion, 50, "", noon)
	assert.ErrorIs(t, err, ErrDuplicateCompletion)
	assert.Equal(t, 50, u.TotalXP, "the second completion pays nothing")
	assert.Equal(t, 1, u.TasksCompleted)
}
