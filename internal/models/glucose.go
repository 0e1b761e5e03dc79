package models

import "time"

// GlucoseReading представляет единичное измерение уровня глюкозы пациента.
// ReadingType принимает значения fasting, pre_meal, post_meal, bedtime.
type GlucoseReading struct {
	UUID         string    `json:"id"`
	ProfileUID   string    `json:"profile_id"`
	GlucoseLevel int       `json:"glucose_level"` // мг/дл
	ReadingType  string    `json:"reading_type"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
