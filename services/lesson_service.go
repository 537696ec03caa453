package services

import (
	"errors"
	"path/filepath"

	"eco-learn-system/models"
	"eco-learn-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewLessonService(db *gorm.DB, progression *ProgressionService) *LessonService {
	return &LessonService{DB: db, Progression: progression}
}

// ListLessons returns a course's lessons in order, overlaid with the calling
// user's completion flag and notes when authenticated.
func (s *LessonService) ListLessons(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	var lessons []models.Lesson
	if err := s.DB.Where("course_id = ?", courseID).Order("position ASC").Find(&lessons).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list lessons", "cause": err.Error()})
	}

	userID, _ := c.Locals("user_id").(string)
	progressByLesson := make(map[string]models.UserProgress)
	if userID != "" && len(lessons) > 0 {
		lessonIDs := make([]string, len(lessons))
		for i, l := range lessons {
			lessonIDs[i] = l.ID
		}
		var rows []models.UserProgress
		if err := s.DB.Where("external_user_id = ? AND lesson_id IN ?", userID, lessonIDs).Find(&rows).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load progress", "cause": err.Error()})
		}
		for _, row := range rows {
			if row.LessonID != nil {
				progressByLesson[*row.LessonID] = row
			}
		}
	}

	response := make([]fiber.Map, 0, len(lessons))
	for _, lesson := range lessons {
		row := progressByLesson[lesson.ID]
		response = append(response, fiber.Map{
			"id":        lesson.ID,
			"course_id": lesson.CourseID,
			"title":     lesson.Title,
			"duration":  lesson.Duration,
			"video_url": lesson.VideoURL,
			"order":     lesson.Position,
			"completed": row.Completed,
			"notes":     row.Notes,
		})
	}
	return c.JSON(response)
}

// GetLesson returns one lesson with the caller's completion state and notes.
func (s *LessonService) GetLesson(c *fiber.Ctx) error {
	var lesson models.Lesson
	if err := s.DB.First(&lesson, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	completed := false
	notes := ""
	if userID, _ := c.Locals("user_id").(string); userID != "" {
		var row models.UserProgress
		err := s.DB.Where("external_user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&row).Error
		if err == nil {
			completed = row.Completed
			notes = row.Notes
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load progress", "cause": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"id":        lesson.ID,
		"course_id": lesson.CourseID,
		"title":     lesson.Title,
		"duration":  lesson.Duration,
		"video_url": lesson.VideoURL,
		"order":     lesson.Position,
		"completed": completed,
		"notes":     notes,
	})
}

// CreateLesson appends a lesson to a course (admin only). Ordering is
// assigned automatically.
func (s *LessonService) CreateLesson(c *fiber.Ctx) error {
	var req struct {
		CourseID string `json:"course"`
		Title    string `json:"title"`
		Duration string `json:"duration"`
		VideoURL string `json:"video_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Title == "" || req.Duration == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and duration are required"})
	}

	var course models.Course
	if err := s.DB.First(&course, "id = ?", req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	var lessonCount int64
	if err := s.DB.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&lessonCount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	userID, _ := c.Locals("user_id").(string)
	lesson := models.Lesson{
		ID:        uuid.NewString(),
		CourseID:  course.ID,
		Title:     req.Title,
		Duration:  req.Duration,
		VideoURL:  req.VideoURL,
		Position:  int(lessonCount) + 1,
		CreatedBy: userID,
	}
	if err := s.DB.Create(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create lesson", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(lesson)
}

// UpdateLesson updates lesson fields (admin only).
func (s *LessonService) UpdateLesson(c *fiber.Ctx) error {
	var lesson models.Lesson
	if err := s.DB.First(&lesson, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	var req struct {
		Title    *string `json:"title"`
		Duration *string `json:"duration"`
		VideoURL *string `json:"video_url"`
		Position *int    `json:"order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Duration != nil {
		lesson.Duration = *req.Duration
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.Position != nil {
		lesson.Position = *req.Position
	}

	if err := s.DB.Save(&lesson).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update lesson", "cause": err.Error()})
	}
	return c.JSON(lesson)
}

// DeleteLesson removes a lesson and every user's progress row for it
// (admin only).
func (s *LessonService) DeleteLesson(c *fiber.Ctx) error {
	id := c.Params("id")
	var lesson models.Lesson
	if err := s.DB.First(&lesson, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&models.UserProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lesson).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete lesson", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Lesson deleted"})
}

// UploadVideo saves a lesson video locally (large files stay off the CDN
// bucket) and returns a URL served from /uploads (admin only).
func (s *LessonService) UploadVideo(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "video file is required"})
	}
	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".mp4"
	}
	filename := uuid.NewString() + ext
	destPath := utils.GetUploadPath("videos/" + filename)
	if err := utils.SaveFile(fileHeader, destPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save video", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{
		"message":  "Video uploaded successfully",
		"videoUrl": "/uploads/videos/" + filename,
		"filename": filename,
	})
}

// CompleteLesson is the lesson completion trigger: it hands the occurrence to
// the reward ledger and reports the reward result.
func (s *LessonService) CompleteLesson(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	result, err := s.Progression.GrantForLesson(userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to complete lesson", "cause": err.Error()})
	}

	message := "Lesson completed"
	if result.AlreadyCompleted {
		message = "Lesson already completed"
	}
	return c.JSON(fiber.Map{
		"message":          message,
		"xpEarned":         result.XPEarned,
		"level":            result.Level,
		"xp":               result.XP,
		"xpToNextLevel":    result.XPToNextLevel,
		"leveledUp":        result.LeveledUp,
		"previousLevel":    result.PreviousLevel,
		"alreadyCompleted": result.AlreadyCompleted,
	})
}

// SaveNotes upserts the caller's notes for a lesson. Notes never touch the
// reward ledger.
func (s *LessonService) SaveNotes(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}

	var lesson models.Lesson
	if err := s.DB.First(&lesson, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lesson not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	var row models.UserProgress
	err := s.DB.Where("external_user_id = ? AND lesson_id = ?", userID, lesson.ID).First(&row).Error
	switch {
	case err == nil:
		row.Notes = req.Notes
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.UserProgress{
			ID:             uuid.NewString(),
			ExternalUserID: userID,
			CourseID:       lesson.CourseID,
			LessonID:       &lesson.ID,
			Notes:          req.Notes,
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}
	if err := s.DB.Save(&row).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save notes", "cause": err.Error()})
	}

	return c.JSON(fiber.Map{
		"message": "Notes saved successfully",
		"notes":   row.Notes,
		"saved":   true,
	})
}
