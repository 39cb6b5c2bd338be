package models

import (
	"time"

	"gorm.io/gorm"
)

// ProfileTagging links a tag to a profile and records who attached it.
// AddedByID becomes NULL when the tagger's account is removed so the tagging
// history survives.
type ProfileTagging struct {
	ID          uint      `gorm:"primaryKey"`
	ProfileID   uint      `gorm:"not null;uniqueIndex:idx_profile_tag_adder"`
	TagID       uint      `gorm:"not null;uniqueIndex:idx_profile_tag_adder;index"`
	AddedByID   *uint     `gorm:"uniqueIndex:idx_profile_tag_adder"`
	AddedAt     time.Time `gorm:"autoCreateTime"`
	IsSelfAdded bool      `gorm:"not null;default:false"`

	Profile Profile `gorm:"foreignKey:ProfileID;references:UserID;constraint:OnDelete:CASCADE;"`
	Tag     Tag     `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE;"`
	AddedBy *User   `gorm:"foreignKey:AddedByID;constraint:OnDelete:SET NULL;"`
}

// BeforeSave recomputes IsSelfAdded; it is never taken from the caller.
func (t *ProfileTagging) BeforeSave(_ *gorm.DB) error {
	t.DeriveSelfAdded()
	return nil
}

// DeriveSelfAdded sets IsSelfAdded from the adder and the profile owner.
func (t *ProfileTagging) DeriveSelfAdded() {
	t.IsSelfAdded = t.AddedByID != nil && *t.AddedByID == t.ProfileID
}
