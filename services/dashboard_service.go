package services

import (
	"math"
	"time"

	"eco-learn-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardService is the read side: it composes persisted progression state
// into the views the client renders. It never mutates anything.
type DashboardService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewDashboardService(db *gorm.DB, progression *ProgressionService) *DashboardService {
	return &DashboardService{DB: db, Progression: progression}
}

// GetStats returns the student dashboard: level band position, streak,
// today's task tally (not lifetime), and quiz aggregates.
func (s *DashboardService) GetStats(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	user, err := s.Progression.EnsureUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load user", "cause": err.Error()})
	}
	levelData := CalculateLevelProgress(user.TotalXP)

	var totalTasks int64
	if err := s.DB.Model(&models.Task{}).Where("active = true").Count(&totalTasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count tasks", "cause": err.Error()})
	}

	today := StartOfDay(time.Now())
	var todayCompleted int64
	if err := s.DB.Model(&models.TaskCompletion{}).
		Where("external_user_id = ? AND completed = true AND date = ?", userID, today).
		Count(&todayCompleted).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to count completions", "cause": err.Error()})
	}

	var results []models.QuizResult
	if err := s.DB.Where("external_user_id = ?", userID).Find(&results).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load quiz results", "cause": err.Error()})
	}
	averageScore := 0
	if len(results) > 0 {
		total := 0
		for _, r := range results {
			total += r.Score
		}
		averageScore = int(math.Round(float64(total) / float64(len(results))))
	}

	return c.JSON(fiber.Map{
		"level":            levelData.Level,
		"xp":               levelData.XP,
		"xpToNextLevel":    levelData.XPToNextLevel,
		"totalXp":          user.TotalXP,
		"streak":           user.Streak,
		"tasksCompleted":   todayCompleted,
		"totalTasks":       totalTasks,
		"remainingTasks":   totalTasks - todayCompleted,
		"quizzesPassed":    user.QuizzesPassed,
		"totalQuizzes":     user.TotalQuizzes,
		"averageQuizScore": averageScore,
		"carbonScore":      user.CarbonScore,
	})
}

// GetProfile returns the caller's composed progression view.
func (s *DashboardService) GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	user, err := s.Progression.EnsureUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load user", "cause": err.Error()})
	}
	levelData := CalculateLevelProgress(user.TotalXP)

	return c.JSON(fiber.Map{
		"id":             user.ID,
		"external_id":    user.ExternalUserID,
		"name":           user.Name,
		"email":          user.Email,
		"role":           user.Role,
		"avatar":         user.Avatar,
		"level":          levelData.Level,
		"xp":             levelData.XP,
		"xpToNextLevel":  levelData.XPToNextLevel,
		"totalXp":        user.TotalXP,
		"streak":         user.Streak,
		"tasksCompleted": user.TasksCompleted,
		"quizzesPassed":  user.QuizzesPassed,
		"totalQuizzes":   user.TotalQuizzes,
		"carbonScore":    user.CarbonScore,
	})
}
