package models

// Quiz is a scored multiple-choice quiz. XP is the maximum reward; the amount
// actually paid scales with the score.
type Quiz struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Difficulty  string `gorm:"type:varchar(16);default:'Easy'" json:"difficulty"` // Easy | Medium | Hard
	XP          int    `gorm:"default:100" json:"xp"`
	Duration    string `gorm:"default:'15 min'" json:"duration"`
	CreatedBy   string `json:"created_by,omitempty"`

	Timestamps
}

// Question belongs to a quiz. Correct is the index into Options and is never
// exposed on the question-listing endpoint.
type Question struct {
	ID       string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	QuizID   string   `gorm:"index;not null" json:"quiz_id"`
	Text     string   `gorm:"type:text;not null" json:"question"`
	Options  []string `gorm:"serializer:json;type:jsonb;not null" json:"options"`
	Correct  int      `gorm:"not null" json:"correct"`
	Position int      `gorm:"default:0" json:"order"`

	Timestamps
}

// QuizResult is the single record per (user, quiz). Score and Answers always
// hold the latest attempt; XPEarned holds the amount actually banked, which
// only moves when the score improves.
type QuizResult struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex:idx_quiz_result_occurrence;not null" json:"external_user_id"`
	QuizID         string `gorm:"uniqueIndex:idx_quiz_result_occurrence;not null" json:"quiz_id"`
	Answers        []int  `gorm:"serializer:json;type:jsonb" json:"answers"`
	Score          int    `gorm:"not null" json:"score"`
	XPEarned       int    `gorm:"default:0" json:"xp_earned"`
	Completed      bool   `gorm:"default:true" json:"completed"`

	Timestamps
}
