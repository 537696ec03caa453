package services

import (
	"errors"
	"fmt"
	"math"

	"eco-learn-system/models"
)

// ErrInvalidSubmission marks a malformed quiz submission (caller error, not a
// server fault). Handlers translate it to 400.
var ErrInvalidSubmission = errors.New("invalid submission")

// QuizScore is the outcome of grading one submission.
type QuizScore struct {
	Score          int `json:"score"` // 0-100
	CorrectCount   int `json:"correctCount"`
	TotalQuestions int `json:"totalQuestions"`
}

// ScoreQuiz grades an ordered answer sequence against the quiz's questions.
// The answer count must match the question count, and a quiz with no
// questions cannot be graded at all.
func ScoreQuiz(questions []models.Question, answers []int) (QuizScore, error) {
	if len(questions) == 0 {
		return QuizScore{}, fmt.Errorf("%w: quiz has no questions", ErrInvalidSubmission)
	}
	if len(answers) != len(questions) {
		return QuizScore{}, fmt.Errorf("%w: expected %d answers, got %d",
			ErrInvalidSubmission, len(questions), len(answers))
	}

	correct := 0
	for i, q := range questions {
		if answers[i] == q.Correct {
			correct++
		}
	}

	return QuizScore{
		Score:          int(math.Round(float64(correct) / float64(len(questions)) * 100)),
		CorrectCount:   correct,
		TotalQuestions: len(questions),
	}, nil
}
