package services

import (
	"errors"
	"path/filepath"
	"time"

	"eco-learn-system/models"
	"eco-learn-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewTaskService(db *gorm.DB, progression *ProgressionService) *TaskService {
	return &TaskService{DB: db, Progression: progression}
}

// ListTasks returns all active daily tasks with the caller's completion
// state for today only — yesterday's completions never show as done.
func (s *TaskService) ListTasks(c *fiber.Ctx) error {
	var tasks []models.Task
	if err := s.DB.Where("active = true").Order("created_at ASC").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list tasks", "cause": err.Error()})
	}

	userID, _ := c.Locals("user_id").(string)
	today := StartOfDay(time.Now())
	completionByTask := make(map[string]models.TaskCompletion)
	if userID != "" {
		var completions []models.TaskCompletion
		if err := s.DB.Where("external_user_id = ? AND date = ?", userID, today).Find(&completions).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load completions", "cause": err.Error()})
		}
		for _, completion := range completions {
			completionByTask[completion.TaskID] = completion
		}
	}

	response := make([]fiber.Map, 0, len(tasks))
	for _, task := range tasks {
		completion, ok := completionByTask[task.ID]
		entry := fiber.Map{
			"id":             task.ID,
			"title":          task.Title,
			"description":    task.Description,
			"icon":           task.Icon,
			"xp":             task.XP,
			"proof_required": task.ProofRequired,
			"completed":      ok && completion.Completed,
		}
		if ok {
			entry["completionId"] = completion.ID
		}
		response = append(response, entry)
	}
	return c.JSON(response)
}

// CompleteTask is the daily-task completion trigger. A second completion on
// the same day is rejected outright, per the ledger's occurrence rule.
func (s *TaskService) CompleteTask(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	result, err := s.Progression.GrantForTask(userID, c.Params("id"), "")
	if err != nil {
		return s.respondTaskError(c, err)
	}
	return c.JSON(taskRewardResponse("Task completed", result))
}

// UploadProof attaches proof to a task and completes it through the same
// ledger path. Proof is either an uploaded photo or a URL in the body.
func (s *TaskService) UploadProof(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	taskID := c.Params("id")

	proofURL := ""
	if fileHeader, err := c.FormFile("proof"); err == nil {
		ext := filepath.Ext(fileHeader.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		filename := uuid.NewString() + ext
		if err := utils.SaveFile(fileHeader, utils.GetUploadPath("proofs/"+filename)); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save proof", "cause": err.Error()})
		}
		proofURL = "/uploads/proofs/" + filename
	} else {
		var req struct {
			ProofURL string `json:"proofUrl"`
		}
		if err := c.BodyParser(&req); err == nil {
			proofURL = req.ProofURL
		}
	}

	var task models.Task
	if err := s.DB.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}
	if task.ProofRequired && proofURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "proof is required for this task"})
	}

	result, err := s.Progression.GrantForTask(userID, taskID, proofURL)
	if err != nil {
		return s.respondTaskError(c, err)
	}
	return c.JSON(taskRewardResponse("Proof uploaded and task completed", result))
}

func (s *TaskService) respondTaskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrDuplicateCompletion):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Task already completed today"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to complete task", "cause": err.Error()})
	}
}

func taskRewardResponse(message string, result *RewardResult) fiber.Map {
	return fiber.Map{
		"message":       message,
		"xpEarned":      result.XPEarned,
		"level":         result.Level,
		"xp":            result.XP,
		"xpToNextLevel": result.XPToNextLevel,
		"leveledUp":     result.LeveledUp,
		"previousLevel": result.PreviousLevel,
	}
}

// CreateTask creates a daily task (admin only).
func (s *TaskService) CreateTask(c *fiber.Ctx) error {
	var req struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		Icon          string `json:"icon"`
		XP            int    `json:"xp"`
		ProofRequired bool   `json:"proof_required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Title == "" || req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title and description are required"})
	}
	if req.XP <= 0 {
		req.XP = 50
	}
	if req.Icon == "" {
		req.Icon = "🌱"
	}

	task := models.Task{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Icon:          req.Icon,
		XP:            req.XP,
		ProofRequired: req.ProofRequired,
		Active:        true,
	}
	if err := s.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create task", "cause": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask updates task fields, including deactivation (admin only).
func (s *TaskService) UpdateTask(c *fiber.Ctx) error {
	var task models.Task
	if err := s.DB.First(&task, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	var req struct {
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		Icon          *string `json:"icon"`
		XP            *int    `json:"xp"`
		ProofRequired *bool   `json:"proof_required"`
		Active        *bool   `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Icon != nil {
		task.Icon = *req.Icon
	}
	if req.XP != nil && *req.XP > 0 {
		task.XP = *req.XP
	}
	if req.ProofRequired != nil {
		task.ProofRequired = *req.ProofRequired
	}
	if req.Active != nil {
		task.Active = *req.Active
	}

	if err := s.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update task", "cause": err.Error()})
	}
	return c.JSON(task)
}

// DeleteTask removes a task and its completion history (admin only).
func (s *TaskService) DeleteTask(c *fiber.Ctx) error {
	id := c.Params("id")
	var task models.Task
	if err := s.DB.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error", "cause": err.Error()})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete task", "cause": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Task deleted"})
}
