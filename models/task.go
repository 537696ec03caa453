package models

import "time"

// Task is a daily sustainability task. The same task can be completed once
// per calendar day, paying its XP each day.
type Task struct {
	ID            string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title         string `gorm:"not null" json:"title"`
	Description   string `gorm:"type:text;not null" json:"description"`
	Icon          string `gorm:"size:10;default:'🌱'" json:"icon"`
	XP            int    `gorm:"not null;default:50" json:"xp"`
	ProofRequired bool   `gorm:"default:false" json:"proof_required"`
	Active        bool   `gorm:"default:true" json:"active"`

	Timestamps
}

// TaskCompletion records one user finishing one task on one calendar day.
// The composite unique index is the occurrence key: it makes a concurrent
// double-complete fail at the store instead of double-paying XP.
type TaskCompletion struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string     `gorm:"uniqueIndex:idx_task_completion_occurrence;not null" json:"external_user_id"`
	TaskID         string     `gorm:"uniqueIndex:idx_task_completion_occurrence;not null" json:"task_id"`
	Date           time.Time  `gorm:"uniqueIndex:idx_task_completion_occurrence;not null" json:"date"` // UTC midnight
	Completed      bool       `gorm:"default:false" json:"completed"`
	ProofURL       string     `gorm:"type:text" json:"proof_url,omitempty"`
	XPEarned       int        `gorm:"default:0" json:"xp_earned"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	Timestamps
}
