package models

import (
	"time"

	"gorm.io/gorm"
)

// UserType is the ministry role a profile plays in matchmaking.
type UserType string

const (
	UserTypeMissionary UserType = "missionary"
	UserTypeSupporter  UserType = "supporter"
	UserTypeOther      UserType = "other"
	// UserTypeUnset marks a profile that has not picked a role yet.
	UserTypeUnset UserType = ""
)

// Valid reports whether t is one of the known user types (unset included).
func (t UserType) Valid() bool {
	switch t {
	case UserTypeMissionary, UserTypeSupporter, UserTypeOther, UserTypeUnset:
		return true
	}
	return false
}

// Profile is the ministry/support identity of a user. Its primary key is the
// owning user's ID, so there is exactly one profile per user.
type Profile struct {
	UserID            uint     `gorm:"primaryKey;autoIncrement:false"`
	UserType          UserType `gorm:"size:15;not null;default:'';index"`
	FirstName         string   `gorm:"size:100;not null;default:''"`
	LastName          string   `gorm:"size:100;not null;default:''"`
	StreetAddress     string   `gorm:"size:100;not null;default:''"`
	City              string   `gorm:"size:100;not null;default:''"`
	State             string   `gorm:"size:100;not null;default:''"`
	Country           string   `gorm:"size:100;not null;default:''"`
	PhoneNumber       string   `gorm:"size:100;not null;default:''"`
	YearsOfExperience *int
	Description       string `gorm:"type:text;not null;default:''"`
	IsAnonymous       bool   `gorm:"not null;default:false;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	User     User             `gorm:"foreignKey:UserID;references:ID"`
	Taggings []ProfileTagging `gorm:"foreignKey:ProfileID;references:UserID"`
}

// BeforeSave blanks the identifying fields of anonymous profiles.
func (p *Profile) BeforeSave(_ *gorm.DB) error {
	p.Normalize()
	return nil
}

// Normalize applies the anonymous-profile convention: no type, no location,
// no description.
func (p *Profile) Normalize() {
	if !p.IsAnonymous {
		return
	}
	p.UserType = UserTypeUnset
	p.City = ""
	p.State = ""
	p.Country = ""
	p.Description = ""
}

// TagIDs returns the IDs of every tag attached to the profile, without duplicates.
func (p *Profile) TagIDs() []uint {
	seen := make(map[uint]bool, len(p.Taggings))
	ids := make([]uint, 0, len(p.Taggings))
	for _, t := range p.Taggings {
		if seen[t.TagID] {
			continue
		}
		seen[t.TagID] = true
		ids = append(ids, t.TagID)
	}
	return ids
}
