package models

import "time"

// RecommendationLog records one recommendation request for analytics
type RecommendationLog struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	RequestID          string    `gorm:"index" json:"request_id"`
	UserID             string    `gorm:"index" json:"user_id"`
	Genre              string    `gorm:"index" json:"genre"`
	Mood               string    `json:"mood"`
	Tempo              float64   `json:"tempo"`
	ChordCount         int       `json:"chord_count"`
	MelodyNotes        int       `json:"melody_notes"`
	TopPatternID       string    `gorm:"index" json:"top_pattern_id"`
	TopScore           int       `json:"top_score"`
	SuggestedIntensity float64   `json:"suggested_intensity"`
}

// ValidationLog records the corrections applied to one generated progression
type ValidationLog struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	RequestID    string    `gorm:"index" json:"request_id"`
	UserID       string    `gorm:"index" json:"user_id"`
	Genre        string    `gorm:"index" json:"genre"`
	WarningCount int       `json:"warning_count"`
	Warnings     string    `gorm:"type:text" json:"warnings"` // newline separated
}
