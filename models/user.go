package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the local snapshot of a learner plus their progression aggregate.
// Identity (registration, passwords, sessions) lives in the auth service;
// requests arrive with the user already resolved by the Gateway, and a row is
// created here lazily on first activity.
type User struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to auth service
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Role           string `gorm:"type:varchar(16);default:'student'" json:"role"` // student | admin
	Avatar         string `gorm:"type:text" json:"avatar,omitempty"`

	// Progression aggregate. Level is derived from TotalXP and rewritten on
	// every reward; it is never mutated independently.
	TotalXP          int        `gorm:"default:0" json:"total_xp"`
	Level            int        `gorm:"default:1" json:"level"`
	Streak           int        `gorm:"default:0" json:"streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"` // day-granular, UTC midnight

	// Lifetime counters
	TasksCompleted int `gorm:"default:0" json:"tasks_completed"`
	QuizzesPassed  int `gorm:"default:0" json:"quizzes_passed"`
	TotalQuizzes   int `gorm:"default:0" json:"total_quizzes"`

	CarbonScore string `gorm:"type:varchar(2);default:'B'" json:"carbon_score"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
