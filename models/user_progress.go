package models

import "time"

// UserProgress tracks a user's state against one lesson, or — when LessonID
// is null — their percent-complete for a whole course. A lesson row flips to
// Completed exactly once; that flag is what the reward ledger consults to
// keep lesson XP single-shot.
type UserProgress struct {
	ID             string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string  `gorm:"index;uniqueIndex:idx_user_lesson;not null" json:"external_user_id"`
	CourseID       string  `gorm:"index" json:"course_id"`
	LessonID       *string `gorm:"uniqueIndex:idx_user_lesson" json:"lesson_id,omitempty"`
	Completed      bool    `gorm:"default:false" json:"completed"`
	XPEarned       int     `gorm:"default:0" json:"xp_earned"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Notes          string  `gorm:"type:text" json:"notes"`
	Progress       int     `gorm:"default:0" json:"progress"` // 0-100, course rows only

	Timestamps
}
