package models

import "time"

// CarbonEmission is one user's logged emissions for one calendar day,
// in kg CO2 per category. Re-logging the same day overwrites the row.
type CarbonEmission struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"uniqueIndex:idx_carbon_user_day;not null" json:"external_user_id"`
	Date           time.Time `gorm:"uniqueIndex:idx_carbon_user_day;not null" json:"date"` // UTC midnight
	Transport      float64   `gorm:"default:0" json:"transport"`
	Food           float64   `gorm:"default:0" json:"food"`
	Energy         float64   `gorm:"default:0" json:"energy"`
	Shopping       float64   `gorm:"default:0" json:"shopping"`
	Total          float64   `gorm:"default:0" json:"total"`

	Timestamps
}
