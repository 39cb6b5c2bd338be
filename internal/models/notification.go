package models

import "time"

type NotificationType string

const (
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationGeneral       NotificationType = "general"
)

// Notification is a message for a single recipient. Listings are newest first.
type Notification struct {
	ID               uint             `gorm:"primaryKey"`
	RecipientID      uint             `gorm:"not null;index"`
	NotificationType NotificationType `gorm:"size:20;not null"`
	Message          string           `gorm:"type:text;not null"`
	CreatedAt        time.Time        `gorm:"index"`
	IsRead           bool             `gorm:"not null;default:false"`
	RelatedObjectID  *uint

	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE;"`
}
