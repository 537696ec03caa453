package services

import (
	"errors"

	"eco-learn-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewQuizService(db *gorm.DB, progression *ProgressionService) *QuizService {
	return &QuizService{DB: db, Progression: progression}
}

// ListQuizzes returns all quizzes with question counts, overlaid with the
// caller's best result when authenticated.
func (s *QuizService) ListQuizzes(c *fiber.Ctx) error {
	var quizzes []models.Quiz
	if err := s.DB.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list quizzes", "cause": err.Error()})
	}

	type quizCount struct {
		QuizID string
		N      int
	}
	var counts []quizCount
	if err := s.DB.Model(&models.Question{}).
		Select("quiz_id, count(*) as n").
		Group("quiz_id").
		Scan(&counts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count questions", "cause": err.Error()})
	}
	countByQuiz := make(map[string]int, len(counts))
	for _, qc := range counts {
		countByQuiz[qc.QuizID] = qc.N
	}

	userID, _ := c.Locals("user_id").(string)
	resultByQuiz := make(map[string]models.QuizResult)
	if userID != "" {
		var results []models.QuizResult
		if err := s.DB.Where("external_user_id = ?", userID).Find(&results).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load results", "cause": err.Error()})
		}
		for _, r := range results {
			resultByQuiz[r.QuizID] = r
		}
	}

	response := make([]fiber.Map, 0, len(quizzes))
	for _, quiz := range quizzes {
		entry := fiber.Map{
			"id":          quiz.ID,
			"title":       quiz.Title,
			"description": quiz.Description,
			"difficulty":  quiz.Difficulty,
			"xp":          quiz.XP,
			"duration":    quiz.Duration,
			"questions":   countByQuiz[quiz.ID],
			"completed":   false,
			"score":       nil,
		}
		if result, ok := resultByQuiz[quiz.ID]; ok {
			entry["completed"] = true
			entry["score"] = result.Score
		}
		response = append(response, entry)
	}
	return c.JSON(response)
}

// GetQuiz returns one quiz with its question count.
func (s *QuizService) GetQuiz(c *fiber.Ctx) error {
	var quiz models.Quiz
	if err := s.DB.First(&quiz, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "quiz not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	var questionCount int64
	if err := s.DB.Model(&models.Question{}).Where("quiz_id = ?", quiz.ID).Count(&questionCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	return c.JSON(fiber.Map{
		"id":          quiz.ID,
		"title":       quiz.Title,
		"description": quiz.Description,
		"difficulty":  quiz.Difficulty,
		"xp":          quiz.XP,
		"duration":    quiz.Duration,
		"questions":   questionCount,
	})
}

// GetQuestions returns a quiz's questions in order with the correct-answer
// indexes stripped.
func (s *QuizService) GetQuestions(c *fiber.Ctx) error {
	var questions []models.Question
	if err := s.DB.Where("quiz_id = ?", c.Params("id")).Order("position ASC").Find(&questions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list questions", "cause": err.Error()})
	}

	response := make([]fiber.Map, 0, len(questions))
	for _, q := range questions {
		response = append(response, fiber.Map{
			"id":       q.ID,
			"quiz_id":  q.QuizID,
			"question": q.Text,
			"options":  q.Options,
			"order":    q.Position,
		})
	}
	return c.JSON(response)
}

// SubmitQuiz grades the submission and settles the reward through the ledger.
func (s *QuizService) SubmitQuiz(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req struct {
		Answers []int `json:"answers"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	result, err := s.Progression.GrantForQuiz(userID, c.Params("id"), req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSubmission):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "quiz not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to submit quiz", "cause": err.Error()})
		}
	}
	return c.JSON(result)
}

// CreateQuiz creates a quiz together with its ordered questions (admin only).
func (s *QuizService) CreateQuiz(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Difficulty  string `json:"difficulty"`
		XP          int    `json:"xp"`
		Duration    string `json:"duration"`
		Questions   []struct {
			Text    string   `json:"question"`
			Options []string `json:"options"`
			Correct int      `json:"correct"`
		} `json:"questions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Title == "" || req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and description are required"})
	}
	switch req.Difficulty {
	case "":
		req.Difficulty = "Easy"
	case "Easy", "Medium", "Hard":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "difficulty must be Easy, Medium or Hard"})
	}
	if req.XP <= 0 {
		req.XP = 100
	}
	if req.Duration == "" {
		req.Duration = "15 min"
	}
	for i, q := range req.Questions {
		if len(q.Options) != 4 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "question must have exactly 4 options", "question": i + 1})
		}
		if q.Correct < 0 || q.Correct > 3 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "correct index must be between 0 and 3", "question": i + 1})
		}
	}

	userID, _ := c.Locals("user_id").(string)
	quiz := models.Quiz{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  req.Difficulty,
		XP:          req.XP,
		Duration:    req.Duration,
		CreatedBy:   userID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for i, q := range req.Questions {
			question := models.Question{
				ID:       uuid.NewString(),
				QuizID:   quiz.ID,
				Text:     q.Text,
				Options:  q.Options,
				Correct:  q.Correct,
				Position: i + 1,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create quiz", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// UpdateQuiz updates quiz metadata (admin only). Questions are managed by
// recreating the quiz.
func (s *QuizService) UpdateQuiz(c *fiber.Ctx) error {
	var quiz models.Quiz
	if err := s.DB.First(&quiz, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "quiz not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Difficulty  *string `json:"difficulty"`
		XP          *int    `json:"xp"`
		Duration    *string `json:"duration"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Title != nil {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Difficulty != nil {
		switch *req.Difficulty {
		case "Easy", "Medium", "Hard":
			quiz.Difficulty = *req.Difficulty
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "difficulty must be Easy, Medium or Hard"})
		}
	}
	if req.XP != nil && *req.XP > 0 {
		quiz.XP = *req.XP
	}
	if req.Duration != nil {
		quiz.Duration = *req.Duration
	}

	if err := s.DB.Save(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update quiz", "cause": err.Error()})
	}
	return c.JSON(quiz)
}

// DeleteQuiz removes a quiz and cascades to its questions and results
// (admin only).
func (s *QuizService) DeleteQuiz(c *fiber.Ctx) error {
	id := c.Params("id")
	var quiz models.Quiz
	if err := s.DB.First(&quiz, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "quiz not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.QuizResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete quiz", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Quiz deleted"})
}
