package services

import (
	"math"
	"strings"

	"eco-learn-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

// Dashboard returns platform-wide aggregates for the admin console.
func (s *AdminService) Dashboard(c *fiber.Ctx) error {
	var totalStudents, totalCourses, totalQuizzes int64
	if err := s.DB.Model(&models.User{}).Where("role = ?", "student").Count(&totalStudents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count students", "cause": err.Error()})
	}
	if err := s.DB.Model(&models.Course{}).Count(&totalCourses).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count courses", "cause": err.Error()})
	}
	if err := s.DB.Model(&models.Quiz{}).Count(&totalQuizzes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count quizzes", "cause": err.Error()})
	}

	// Average progress within the current level band, across all students.
	var students []models.User
	if err := s.DB.Where("role = ?", "student").Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load students", "cause": err.Error()})
	}
	avgProgress := 0
	if len(students) > 0 {
		sum := 0.0
		for _, student := range students {
			levelData := CalculateLevelProgress(student.TotalXP)
			sum += float64(levelData.XP) / float64(levelData.XPToNextLevel) * 100
		}
		avgProgress = int(math.Round(sum / float64(len(students))))
	}

	return c.JSON(fiber.Map{
		"totalStudents": totalStudents,
		"totalCourses":  totalCourses,
		"totalQuizzes":  totalQuizzes,
		"avgProgress":   avgProgress,
	})
}

// sortColumns maps the client's sort keys to real columns. Anything else
// falls back to XP.
var sortColumns = map[string]string{
	"xp":             "total_xp",
	"level":          "level",
	"streak":         "streak",
	"tasksCompleted": "tasks_completed",
	"name":           "name",
}

// Students lists students with substring search on name/email and sorting.
func (s *AdminService) Students(c *fiber.Ctx) error {
	search := strings.TrimSpace(c.Query("search", ""))
	sortBy := c.Query("sortBy", "xp")
	sortOrder := c.Query("sortOrder", "desc")

	column, ok := sortColumns[sortBy]
	if !ok {
		column = "total_xp"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	db := s.DB.Model(&models.User{}).Where("role = ?", "student")
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	var students []models.User
	if err := db.Order(column + " " + sortOrder).Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list students", "cause": err.Error()})
	}

	response := make([]fiber.Map, 0, len(students))
	for _, student := range students {
		levelData := CalculateLevelProgress(student.TotalXP)
		response = append(response, fiber.Map{
			"id":             student.ID,
			"external_id":    student.ExternalUserID,
			"name":           student.Name,
			"email":          student.Email,
			"avatar":         student.Avatar,
			"level":          levelData.Level,
			"xp":             student.TotalXP,
			"streak":         student.Streak,
			"tasksCompleted": student.TasksCompleted,
			"quizzesPassed":  student.QuizzesPassed,
			"carbonScore":    student.CarbonScore,
			"progress":       int(math.Round(float64(levelData.XP) / float64(levelData.XPToNextLevel) * 100)),
		})
	}
	return c.JSON(response)
}
