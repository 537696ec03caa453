package services

import (
	"testing"

	"eco-learn-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionsWithAnswers(correct ...int) []models.Question {
	qs := make([]models.Question, len(correct))
	for i, c := range correct {
		qs[i] = models.Question{Correct: c, Position: i + 1}
	}
	return qs
}

func TestScoreQuiz(t *testing.T) {
	qs := questionsWithAnswers(0, 1, 2, 3, 0, 1, 2, 3, 0, 1)

	score, err := ScoreQuiz(qs, []int{0, 1, 2, 3, 0, 1, 2, 3, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 90, score.Score)
	assert.Equal(t, 9, score.CorrectCount)
	assert.Equal(t, 10, score.TotalQuestions)
}

func TestScoreQuizAllWrong(t *testing.T) {
	qs := questionsWithAnswers(0, 0, 0)

	score, err := ScoreQuiz(qs, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0, score.Score)
	assert.Equal(t, 0, score.CorrectCount)
}

func TestScoreQuizRoundsToNearest(t *testing.T) {
	// 2 of 3 correct = 66.67 -> 67
	qs := questionsWithAnswers(0, 0, 0)

	score, err := ScoreQuiz(qs, []int{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 67, score.Score)
}

func TestScoreQuizAnswerCountMismatch(t *testing.T) {
	qs := questionsWithAnswers(0, 1)

	_, err := ScoreQuiz(qs, []int{0})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestScoreQuizNoQuestions(t *testing.T) {
	_, err := ScoreQuiz(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}
