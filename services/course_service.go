package services

import (
	"errors"
	"path/filepath"
	"strings"

	"eco-learn-system/models"
	"eco-learn-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type CourseService struct {
	DB *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{DB: db}
}

var categoryCaser = cases.Title(language.English)

// canonicalCategory normalizes free-form category input ("climate",
// "CLIMATE") to the stored form and reports whether it is allowed.
func canonicalCategory(raw string) (string, bool) {
	category := categoryCaser.String(strings.ToLower(strings.TrimSpace(raw)))
	for _, allowed := range models.CourseCategories {
		if category == allowed {
			return category, true
		}
	}
	return category, false
}

// courseStats is the computed read-side view of one course: lesson count and
// total duration are summed from lessons, never read from stored fields.
type courseStats struct {
	Lessons  int    `json:"lessons"`
	Duration string `json:"duration"`
}

func statsFor(lessons []models.Lesson) courseStats {
	return courseStats{
		Lessons:  len(lessons),
		Duration: SumLessonDurations(lessons),
	}
}

// ListCourses returns all courses with computed stats, plus the calling
// user's progress when the request carries an identity.
func (s *CourseService) ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := s.DB.Order("created_at DESC").Find(&courses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list courses", "cause": err.Error(),
		})
	}

	courseIDs := make([]string, len(courses))
	for i, course := range courses {
		courseIDs[i] = course.ID
	}
	var lessons []models.Lesson
	if len(courseIDs) > 0 {
		if err := s.DB.Where("course_id IN ?", courseIDs).Find(&lessons).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load lessons", "cause": err.Error(),
			})
		}
	}
	lessonsByCourse := make(map[string][]models.Lesson)
	for _, l := range lessons {
		lessonsByCourse[l.CourseID] = append(lessonsByCourse[l.CourseID], l)
	}

	// Course-level progress rows for the caller, if authenticated.
	userID, _ := c.Locals("user_id").(string)
	progressByCourse := make(map[string]int)
	if userID != "" && len(courseIDs) > 0 {
		var rows []models.UserProgress
		if err := s.DB.Where("external_user_id = ? AND course_id IN ? AND lesson_id IS NULL", userID, courseIDs).
			Find(&rows).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress", "cause": err.Error(),
			})
		}
		for _, row := range rows {
			progressByCourse[row.CourseID] = row.Progress
		}
	}

	response := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		stats := statsFor(lessonsByCourse[course.ID])
		entry := fiber.Map{
			"id":          course.ID,
			"title":       course.Title,
			"slug":        course.Slug,
			"description": course.Description,
			"thumbnail":   course.Thumbnail,
			"category":    course.Category,
			"lessons":     stats.Lessons,
			"duration":    stats.Duration,
			"created_at":  course.CreatedAt,
		}
		if userID != "" {
			progress := progressByCourse[course.ID]
			entry["progress"] = progress
			entry["lessonsCompleted"] = progress * stats.Lessons / 100
		}
		response = append(response, entry)
	}
	return c.JSON(response)
}

// GetCourse returns one course with computed stats.
func (s *CourseService) GetCourse(c *fiber.Ctx) error {
	var course models.Course
	if err := s.DB.First(&course, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	var lessons []models.Lesson
	if err := s.DB.Where("course_id = ?", course.ID).Find(&lessons).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load lessons", "cause": err.Error()})
	}
	stats := statsFor(lessons)

	return c.JSON(fiber.Map{
		"id":          course.ID,
		"title":       course.Title,
		"slug":        course.Slug,
		"description": course.Description,
		"thumbnail":   course.Thumbnail,
		"category":    course.Category,
		"lessons":     stats.Lessons,
		"duration":    stats.Duration,
		"created_at":  course.CreatedAt,
	})
}

// CreateCourse creates a course (admin only).
func (s *CourseService) CreateCourse(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Thumbnail   string `json:"thumbnail"`
		Category    string `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Title == "" || req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and description are required"})
	}
	category, ok := canonicalCategory(req.Category)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid category", "allowed": models.CourseCategories,
		})
	}

	courseSlug := slug.Make(req.Title)
	var count int64
	s.DB.Model(&models.Course{}).Where("slug = ?", courseSlug).Count(&count)
	if count > 0 {
		courseSlug = courseSlug + "-" + uuid.NewString()[:8]
	}

	userID, _ := c.Locals("user_id").(string)
	course := models.Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Slug:        courseSlug,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Category:    category,
		CreatedBy:   userID,
	}
	if err := s.DB.Create(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create course", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

// UpdateCourse updates course fields (admin only). The slug stays stable.
func (s *CourseService) UpdateCourse(c *fiber.Ctx) error {
	var course models.Course
	if err := s.DB.First(&course, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Thumbnail   *string `json:"thumbnail"`
		Category    *string `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Thumbnail != nil {
		course.Thumbnail = *req.Thumbnail
	}
	if req.Category != nil {
		category, ok := canonicalCategory(*req.Category)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid category", "allowed": models.CourseCategories,
			})
		}
		course.Category = category
	}

	if err := s.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update course", "cause": err.Error()})
	}
	return c.JSON(course)
}

// DeleteCourse removes a course and cascades to its lessons and all progress
// rows pointing at them (admin only).
func (s *CourseService) DeleteCourse(c *fiber.Ctx) error {
	id := c.Params("id")
	var course models.Course
	if err := s.DB.First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.UserProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete course", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Course deleted"})
}

// UploadThumbnail stores a course thumbnail in R2 and saves its CDN URL on
// the course (admin only).
func (s *CourseService) UploadThumbnail(c *fiber.Ctx) error {
	var course models.Course
	if err := s.DB.First(&course, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	fileHeader, err := c.FormFile("thumbnail")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "thumbnail file is required"})
	}
	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".png"
	}
	url, err := utils.UploadFileToR2(fileHeader, "thumbnails/"+uuid.NewString()+ext)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload thumbnail", "cause": err.Error()})
	}

	course.Thumbnail = url
	if err := s.DB.Save(&course).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save thumbnail", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Thumbnail uploaded", "thumbnailUrl": url})
}
