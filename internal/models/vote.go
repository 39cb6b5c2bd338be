package models

import "time"

// ProfileVote is a single up or down vote cast by a user on someone else's profile.
type ProfileVote struct {
	ID        uint `gorm:"primaryKey"`
	VoterID   uint `gorm:"not null;uniqueIndex:idx_voter_profile"`
	ProfileID uint `gorm:"not null;uniqueIndex:idx_voter_profile;index"`
	IsUpvote  bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Voter   User    `gorm:"foreignKey:VoterID;constraint:OnDelete:CASCADE;"`
	Profile Profile `gorm:"foreignKey:ProfileID;references:UserID;constraint:OnDelete:CASCADE;"`
}

// Weight is +1 for an upvote and -1 for a downvote.
func (v *ProfileVote) Weight() int64 {
	if v.IsUpvote {
		return 1
	}
	return -1
}
