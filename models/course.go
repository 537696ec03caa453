package models

// CourseCategories are the allowed course categories.
var CourseCategories = []string{"Climate", "Lifestyle", "Energy", "Wildlife", "Gardening"}

// Course groups an ordered set of video lessons. Lesson count and total
// duration are computed from the lessons at read time, never stored.
type Course struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Description string `gorm:"type:text;not null" json:"description"`
	Thumbnail   string `gorm:"type:text" json:"thumbnail"`
	Category    string `gorm:"type:varchar(32);not null" json:"category"`
	CreatedBy   string `gorm:"index" json:"created_by,omitempty"`

	Timestamps
}

// Lesson is a single video lesson inside a course. Duration is free text
// ("12:30", "15m", "1h 30m") — parsing happens in the course stats reader.
type Lesson struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CourseID  string `gorm:"index;not null" json:"course_id"`
	Title     string `gorm:"not null" json:"title"`
	Duration  string `gorm:"not null" json:"duration"`
	VideoURL  string `gorm:"type:text" json:"video_url"`
	Position  int    `gorm:"default:0" json:"order"`
	CreatedBy string `json:"created_by,omitempty"`

	Timestamps
}
