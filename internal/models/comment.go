package models

import "time"

// ProfileComment is the one comment a user may leave on another user's profile.
type ProfileComment struct {
	ID          uint   `gorm:"primaryKey"`
	CommenterID uint   `gorm:"not null;uniqueIndex:idx_commenter_profile"`
	ProfileID   uint   `gorm:"not null;uniqueIndex:idx_commenter_profile;index"`
	Comment     string `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Commenter User    `gorm:"foreignKey:CommenterID;constraint:OnDelete:CASCADE;"`
	Profile   Profile `gorm:"foreignKey:ProfileID;references:UserID;constraint:OnDelete:CASCADE;"`
}
