package models

import (
	"time"

	"gorm.io/datatypes"
)

// SearchHistory is an append-only log of the searches a user ran.
type SearchHistory struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           uint      `gorm:"not null;index"`
	SearchTime       time.Time `gorm:"autoCreateTime"`
	SearchText       string    `gorm:"type:text;not null"`
	SearchParameters datatypes.JSON

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

// TableName keeps the singular table name used by the SQL migrations.
func (SearchHistory) TableName() string {
	return "search_history"
}

// ExternalMedia is a link to media a user hosts elsewhere.
type ExternalMedia struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index"`
	MediaURL    string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null;default:''"`
	UploadedAt  time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

// TableName keeps the singular table name used by the SQL migrations.
func (ExternalMedia) TableName() string {
	return "external_media"
}
