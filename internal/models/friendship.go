package models

import "time"

// FriendshipStatus defines the state of a friend request.
type FriendshipStatus string

const (
	// StatusPending means the request has been sent and awaits the receiver.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the receiver accepted; the users are connected.
	StatusAccepted FriendshipStatus = "accepted"

	// StatusRejected means the receiver declined. It is terminal.
	StatusRejected FriendshipStatus = "rejected"
)

// Friendship is a directed friend request from Sender to Receiver.
type Friendship struct {
	ID         uint             `gorm:"primaryKey"`
	SenderID   uint             `gorm:"not null;index"`
	ReceiverID uint             `gorm:"not null;index"`
	Status     FriendshipStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Involves reports whether userID is either side of the request.
func (f *Friendship) Involves(userID uint) bool {
	return f.SenderID == userID || f.ReceiverID == userID
}

// Active reports whether the status blocks a new request between the pair.
func (s FriendshipStatus) Active() bool {
	return s == StatusPending || s == StatusAccepted
}
