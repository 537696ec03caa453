package services

import (
	"errors"
	"log"
	"math"
	"time"

	"eco-learn-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CarbonService tracks daily emissions per user and derives the letter
// score shown on the dashboard from the last seven days.
type CarbonService struct {
	DB *gorm.DB
}

func NewCarbonService(db *gorm.DB) *CarbonService {
	return &CarbonService{DB: db}
}

// scoreForAverage buckets a daily average (kg CO2 per logged day) into a
// letter grade. B is the default band and the score for users with no data.
func scoreForAverage(avg float64) string {
	switch {
	case avg < 5:
		return "A+"
	case avg < 8:
		return "A"
	case avg < 12:
		return "A-"
	case avg > 18:
		return "C"
	default:
		return "B"
	}
}

// scoreForWindow grades a seven day window. Days without a log never drag
// the average down, and a user with no logs at all keeps the default "B".
func scoreForWindow(total float64, loggedDays int) string {
	if loggedDays == 0 {
		return "B"
	}
	return scoreForAverage(total / float64(loggedDays))
}

// LogEmissions records today's emissions for the caller. A second log on
// the same day overwrites the first; the day key keeps one row per day.
func (s *CarbonService) LogEmissions(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	req := struct {
		Transport float64 `json:"transport"`
		Food      float64 `json:"food"`
		Energy    float64 `json:"energy"`
		Shopping  float64 `json:"shopping"`
	}{}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "cause": err.Error()})
	}
	if req.Transport < 0 || req.Food < 0 || req.Energy < 0 || req.Shopping < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "emission values must be non-negative"})
	}

	today := StartOfDay(time.Now())
	total := req.Transport + req.Food + req.Energy + req.Shopping

	var entry models.CarbonEmission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("external_user_id = ? AND date = ?", userID, today).First(&entry).Error
		switch {
		case err == nil:
			entry.Transport = req.Transport
			entry.Food = req.Food
			entry.Energy = req.Energy
			entry.Shopping = req.Shopping
			entry.Total = total
			if err := tx.Save(&entry).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = models.CarbonEmission{
				ExternalUserID: userID,
				Date:           today,
				Transport:      req.Transport,
				Food:           req.Food,
				Energy:         req.Energy,
				Shopping:       req.Shopping,
				Total:          total,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return s.updateScoreTx(tx, userID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to log emissions", "cause": err.Error()})
	}
	return c.JSON(entry)
}

// GetEmissions returns a seven day chart ending today, with zero-filled
// days where nothing was logged.
func (s *CarbonService) GetEmissions(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	today := StartOfDay(time.Now())
	from := today.AddDate(0, 0, -6)

	var entries []models.CarbonEmission
	if err := s.DB.Where("external_user_id = ? AND date >= ?", userID, from).
		Order("date ASC").Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load emissions", "cause": err.Error()})
	}

	byDay := make(map[time.Time]models.CarbonEmission, len(entries))
	for _, e := range entries {
		byDay[StartOfDay(e.Date)] = e
	}

	chart := make([]fiber.Map, 0, 7)
	total := 0.0
	for i := 0; i < 7; i++ {
		day := from.AddDate(0, 0, i)
		point := fiber.Map{
			"day":       day.Weekday().String()[:3],
			"date":      day.Format("2006-01-02"),
			"transport": 0.0,
			"food":      0.0,
			"energy":    0.0,
			"shopping":  0.0,
			"total":     0.0,
		}
		if e, ok := byDay[day]; ok {
			point["transport"] = e.Transport
			point["food"] = e.Food
			point["energy"] = e.Energy
			point["shopping"] = e.Shopping
			point["total"] = e.Total
			total += e.Total
		}
		chart = append(chart, point)
	}
	average := 0.0
	if len(entries) > 0 {
		average = total / float64(len(entries))
	}

	return c.JSON(fiber.Map{
		"chart":   chart,
		"total":   math.Round(total*100) / 100,
		"average": math.Round(average*100) / 100,
		"score":   scoreForWindow(total, len(entries)),
	})
}

// GetScore returns the caller's persisted carbon score.
func (s *CarbonService) GetScore(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	var user models.User
	if err := s.DB.Where("external_user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"score": "B"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load user", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"score": user.CarbonScore})
}

// updateScoreTx recomputes one user's score from their last seven days.
func (s *CarbonService) updateScoreTx(tx *gorm.DB, userID string) error {
	from := StartOfDay(time.Now()).AddDate(0, 0, -6)
	var window struct {
		Total float64
		Days  int
	}
	if err := tx.Model(&models.CarbonEmission{}).
		Where("external_user_id = ? AND date >= ?", userID, from).
		Select("COALESCE(SUM(total), 0) as total, COUNT(*) as days").
		Scan(&window).Error; err != nil {
		return err
	}
	score := scoreForWindow(window.Total, window.Days)
	return tx.Model(&models.User{}).
		Where("external_user_id = ?", userID).
		Update("carbon_score", score).Error
}

// RecalculateAllScores refreshes every user's carbon score. Run nightly so
// scores decay as old logs fall out of the seven day window.
func (s *CarbonService) RecalculateAllScores() {
	var users []models.User
	if err := s.DB.Select("external_user_id").Find(&users).Error; err != nil {
		log.Printf("carbon score recalculation: failed to list users: %v", err)
		return
	}
	updated := 0
	for _, u := range users {
		if err := s.updateScoreTx(s.DB, u.ExternalUserID); err != nil {
			log.Printf("carbon score recalculation: user %s: %v", u.ExternalUserID, err)
			continue
		}
		updated++
	}
	log.Printf("carbon score recalculation: refreshed %d users", updated)
}
