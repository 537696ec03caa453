package services

import (
	"errors"
	"math"
	"time"

	"eco-learn-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonXP is the fixed reward for completing any lesson, independent of its
// length or difficulty.
const LessonXP = 50

// ErrDuplicateCompletion is returned when a task is completed twice on the
// same calendar day. Unlike a repeated lesson completion (a valid zero-XP
// outcome), this is a rejected request.
var ErrDuplicateCompletion = errors.New("task already completed today")

// RewardResult is the common shape every reward trigger returns.
type RewardResult struct {
	XPEarned         int  `json:"xpEarned"`
	Level            int  `json:"level"`
	XP               int  `json:"xp"`
	XPToNextLevel    int  `json:"xpToNextLevel"`
	LeveledUp        bool `json:"leveledUp"`
	PreviousLevel    int  `json:"previousLevel"`
	AlreadyCompleted bool `json:"alreadyCompleted,omitempty"`
}

// QuizRewardResult extends RewardResult with the grading outcome.
type QuizRewardResult struct {
	RewardResult
	Score          int `json:"score"`
	CorrectCount   int `json:"correctCount"`
	TotalQuestions int `json:"totalQuestions"`
}

// ProgressionService is the reward ledger: the only writer of the user
// progression aggregate. Each grant runs as one transaction so a failed
// lookup can never leave partial XP behind, and the occurrence-key unique
// indexes serialize concurrent grants for the same (user, activity).
type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// EnsureUser finds or creates the local user row for a gateway identity
// (idempotent).
func (s *ProgressionService) EnsureUser(externalUserID string) (*models.User, error) {
	return ensureUserTx(s.DB, externalUserID)
}

func ensureUserTx(tx *gorm.DB, externalUserID string) (*models.User, error) {
	var user models.User
	err := tx.Where("external_user_id = ?", externalUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			Level:          1,
			CarbonScore:    "B",
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ── pure reward cores ────────────────────────────────────────────────────────
//
// The decision logic operates on plain structs so the rules stay testable
// without a database; the Grant* methods below only add fetch/persist around
// these.

// applyFixedReward banks a fixed XP amount on the user aggregate, recomputes
// the level and touches the streak.
func applyFixedReward(u *models.User, xp int, now time.Time) RewardResult {
	previousLevel := u.Level
	u.TotalXP += xp
	lp := CalculateLevelProgress(u.TotalXP)
	u.Level = lp.Level
	TouchStreak(u, now)

	return RewardResult{
		XPEarned:      xp,
		Level:         lp.Level,
		XP:            lp.XP,
		XPToNextLevel: lp.XPToNextLevel,
		LeveledUp:     lp.Level > previousLevel,
		PreviousLevel: previousLevel,
	}
}

// unchangedResult reports the user's current state without granting anything.
func unchangedResult(u *models.User, alreadyCompleted bool) RewardResult {
	lp := CalculateLevelProgress(u.TotalXP)
	return RewardResult{
		Level:            lp.Level,
		XP:               lp.XP,
		XPToNextLevel:    lp.XPToNextLevel,
		PreviousLevel:    u.Level,
		AlreadyCompleted: alreadyCompleted,
	}
}

// applyQuizReward reconciles the user aggregate with a fresh quiz score.
// XP moves only when there is no prior result or the score improved; the old
// reward is retracted first, so a quiz's net contribution is always
// round(maxXP * bestScore/100) — best score only, never stacked. Returns
// whether the reward was actually banked.
func applyQuizReward(u *models.User, prior *models.QuizResult, maxXP int, score QuizScore, now time.Time) (RewardResult, bool) {
	xpEarned := int(math.Round(float64(maxXP) * float64(score.Score) / 100))

	if prior != nil && score.Score <= prior.Score {
		res := unchangedResult(u, false)
		res.XPEarned = xpEarned // what this attempt was worth, not what was banked
		return res, false
	}

	if prior != nil {
		u.TotalXP -= prior.XPEarned
		if u.TotalXP < 0 {
			// Out-of-band XP mutations could make the retraction overshoot;
			// the totalXp >= 0 invariant wins.
			u.TotalXP = 0
		}
	}
	previousLevel := LevelForXP(u.TotalXP) // baseline after retraction, before the new reward
	u.TotalXP += xpEarned
	lp := CalculateLevelProgress(u.TotalXP)
	u.Level = lp.Level
	if prior == nil {
		u.QuizzesPassed++
	}
	TouchStreak(u, now)

	return RewardResult{
		XPEarned:      xpEarned,
		Level:         lp.Level,
		XP:            lp.XP,
		XPToNextLevel: lp.XPToNextLevel,
		LeveledUp:     lp.Level > previousLevel,
		PreviousLevel: previousLevel,
	}, true
}

// settleLesson decides one lesson completion against its progress record.
// A repeat is a valid zero-XP outcome (no mutation, no streak touch); a first
// completion marks the record and pays the fixed reward. Returns whether
// anything was granted.
func settleLesson(u *models.User, prog *models.UserProgress, now time.Time) (RewardResult, bool) {
	if prog.Completed {
		return unchangedResult(u, true), false
	}
	prog.Completed = true
	prog.XPEarned = LessonXP
	prog.CompletedAt = &now
	return applyFixedReward(u, LessonXP, now), true
}

// settleTask decides one task completion against today's completion record.
// A second completion on the same day is rejected outright.
func settleTask(u *models.User, completion *models.TaskCompletion, taskXP int, proofURL string, now time.Time) (RewardResult, error) {
	if completion.Completed {
		return RewardResult{}, ErrDuplicateCompletion
	}
	completion.Completed = true
	completion.CompletedAt = &now
	completion.XPEarned = taskXP
	if proofURL != "" {
		completion.ProofURL = proofURL
	}
	result := applyFixedReward(u, taskXP, now)
	u.TasksCompleted++
	return result, nil
}

// ── ledger operations ────────────────────────────────────────────────────────

// GrantForLesson marks a lesson complete and pays the fixed lesson XP at most
// once per (user, lesson). A repeat completion is a valid zero-XP outcome,
// reported via AlreadyCompleted — no mutation, no streak touch.
func (s *ProgressionService) GrantForLesson(externalUserID, lessonID string) (*RewardResult, error) {
	var result RewardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var lesson models.Lesson
		if err := tx.First(&lesson, "id = ?", lessonID).Error; err != nil {
			return err
		}
		user, err := ensureUserTx(tx, externalUserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()

		var prog models.UserProgress
		err = tx.Where("external_user_id = ? AND lesson_id = ?", externalUserID, lessonID).
			First(&prog).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			prog = models.UserProgress{
				ID:             uuid.NewString(),
				ExternalUserID: externalUserID,
				CourseID:       lesson.CourseID,
				LessonID:       &lesson.ID,
			}
		default:
			return err
		}

		reward, granted := settleLesson(user, &prog, now)
		result = reward
		if !granted {
			return nil
		}

		if err := tx.Save(&prog).Error; err != nil {
			return err
		}
		if err := tx.Save(user).Error; err != nil {
			return err
		}

		return updateCourseProgressTx(tx, externalUserID, lesson.CourseID)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GrantForTask completes a task for today. The occurrence key is
// (user, task, day): a new day pays again, a second completion on the same
// day is rejected with ErrDuplicateCompletion.
func (s *ProgressionService) GrantForTask(externalUserID, taskID, proofURL string) (*RewardResult, error) {
	var result RewardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			return err
		}
		user, err := ensureUserTx(tx, externalUserID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		day := StartOfDay(now)

		var completion models.TaskCompletion
		err = tx.Where("external_user_id = ? AND task_id = ? AND date = ?", externalUserID, taskID, day).
			First(&completion).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			completion = models.TaskCompletion{
				ID:             uuid.NewString(),
				ExternalUserID: externalUserID,
				TaskID:         taskID,
				Date:           day,
			}
		default:
			return err
		}

		reward, err := settleTask(user, &completion, task.XP, proofURL, now)
		if err != nil {
			return err
		}
		result = reward

		if err := tx.Save(&completion).Error; err != nil {
			return err
		}
		return tx.Save(user).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GrantForQuiz grades a submission and settles its reward. The stored result
// always takes the latest attempt's score and answers; the XP ledger moves
// only when the score improved on the previous best.
func (s *ProgressionService) GrantForQuiz(externalUserID, quizID string, answers []int) (*QuizRewardResult, error) {
	var result QuizRewardResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, "id = ?", quizID).Error; err != nil {
			return err
		}
		var questions []models.Question
		if err := tx.Where("quiz_id = ?", quizID).Order("position ASC").Find(&questions).Error; err != nil {
			return err
		}
		score, err := ScoreQuiz(questions, answers)
		if err != nil {
			return err
		}

		user, err := ensureUserTx(tx, externalUserID)
		if err != nil {
			return err
		}

		var prior *models.QuizResult
		var existing models.QuizResult
		err = tx.Where("external_user_id = ? AND quiz_id = ?", externalUserID, quizID).
			First(&existing).Error
		switch {
		case err == nil:
			prior = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		now := time.Now().UTC()
		reward, banked := applyQuizReward(user, prior, quiz.XP, score, now)

		if prior == nil {
			record := models.QuizResult{
				ID:             uuid.NewString(),
				ExternalUserID: externalUserID,
				QuizID:         quizID,
				Answers:        answers,
				Score:          score.Score,
				XPEarned:       reward.XPEarned,
				Completed:      true,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		} else {
			// Latest attempt always overwrites score and answers; XPEarned
			// keeps tracking the banked amount only.
			existing.Score = score.Score
			existing.Answers = answers
			if banked {
				existing.XPEarned = reward.XPEarned
			}
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
		}

		if banked {
			var totalQuizzes int64
			if err := tx.Model(&models.Quiz{}).Count(&totalQuizzes).Error; err != nil {
				return err
			}
			if int(totalQuizzes) > user.TotalQuizzes {
				user.TotalQuizzes = int(totalQuizzes)
			}
			if err := tx.Save(user).Error; err != nil {
				return err
			}
		}

		result = QuizRewardResult{
			RewardResult:   reward,
			Score:          score.Score,
			CorrectCount:   score.CorrectCount,
			TotalQuestions: score.TotalQuestions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// updateCourseProgressTx refreshes the user's percent-complete row for a
// course after a lesson completion.
func updateCourseProgressTx(tx *gorm.DB, externalUserID, courseID string) error {
	var totalLessons, completedLessons int64
	if err := tx.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&totalLessons).Error; err != nil {
		return err
	}
	if totalLessons == 0 {
		return nil
	}
	if err := tx.Model(&models.UserProgress{}).
		Where("external_user_id = ? AND course_id = ? AND lesson_id IS NOT NULL AND completed = true", externalUserID, courseID).
		Count(&completedLessons).Error; err != nil {
		return err
	}
	percent := int(completedLessons * 100 / totalLessons)

	var row models.UserProgress
	err := tx.Where("external_user_id = ? AND course_id = ? AND lesson_id IS NULL", externalUserID, courseID).
		First(&row).Error
	switch {
	case err == nil:
		row.Progress = percent
		return tx.Save(&row).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.UserProgress{
			ID:             uuid.NewString(),
			ExternalUserID: externalUserID,
			CourseID:       courseID,
			Progress:       percent,
		}
		return tx.Create(&row).Error
	default:
		return err
	}
}
