package models

import "time"

// Tag is a descriptive label (e.g. "Teaching", "Medical") that profiles carry.
type Tag struct {
	ID              uint   `gorm:"primaryKey"`
	TagName         string `gorm:"size:100;not null;index"`
	TagDescription  string `gorm:"type:text;not null;default:''"`
	TagIsPredefined bool   `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
