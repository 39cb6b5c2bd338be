package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/hub"
	"missionmatch/backend/internal/logger"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

// FriendshipEvent is pushed to the sender when a request is answered.
type FriendshipEvent struct {
	ID         uint                    `json:"id"`
	SenderID   uint                    `json:"sender_id"`
	ReceiverID uint                    `json:"receiver_id"`
	Status     models.FriendshipStatus `json:"status"`
}

type FriendshipService struct {
	store         store.Store
	notifications *NotificationService
}

func NewFriendshipService(st store.Store, notifications *NotificationService) *FriendshipService {
	return &FriendshipService{store: st, notifications: notifications}
}

// Request sends a friend request and notifies the receiver. A pair of users
// can have one open or accepted request between them at a time.
func (s *FriendshipService) Request(ctx context.Context, senderID, receiverID uint) (*models.Friendship, error) {
	if receiverID == 0 {
		return nil, apperrors.Validation("receiver_id is required")
	}
	if senderID == receiverID {
		return nil, apperrors.Validation("You cannot send a friend request to yourself")
	}

	sender, err := s.store.Users().Get(ctx, senderID)
	if err != nil {
		return nil, storeErr(err, "User")
	}

	var (
		friendship   *models.Friendship
		notification *models.Notification
	)
	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.Users().Get(ctx, receiverID); err != nil {
			return storeErr(err, "User")
		}
		existing, err := tx.Friendships().Between(ctx, senderID, receiverID)
		if err != nil {
			return err
		}
		for _, f := range existing {
			switch f.Status {
			case models.StatusPending:
				return apperrors.Conflict("A friend request between you is already pending")
			case models.StatusAccepted:
				return apperrors.Conflict("You are already friends")
			}
		}

		friendship = &models.Friendship{SenderID: senderID, ReceiverID: receiverID, Status: models.StatusPending}
		if err := tx.Friendships().Create(ctx, friendship); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return apperrors.Conflict("A friend request between you is already pending")
			}
			return err
		}
		related := friendship.ID
		notification, err = s.notifications.create(ctx, tx, receiverID, models.NotificationFriendRequest,
			fmt.Sprintf("%s sent you a friend request", sender.Username), &related)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "User")
	}

	s.notifications.publish(notification)
	logger.FromContext(ctx).Info("friend request sent", "friendship_id", friendship.ID, "receiver_id", receiverID)
	return s.Get(ctx, senderID, friendship.ID)
}

// Respond accepts or rejects a pending request addressed to receiverID.
func (s *FriendshipService) Respond(ctx context.Context, receiverID, friendshipID uint, action string) (*models.Friendship, error) {
	var status models.FriendshipStatus
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "accept":
		status = models.StatusAccepted
	case "reject":
		status = models.StatusRejected
	default:
		return nil, apperrors.Validation("action must be accept or reject")
	}

	var notification *models.Notification
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		f, err := tx.Friendships().Get(ctx, friendshipID)
		if err != nil {
			return storeErr(err, "Friend request")
		}
		if f.ReceiverID != receiverID {
			return apperrors.Forbidden("Only the receiver can respond to a friend request")
		}
		if f.Status != models.StatusPending {
			return apperrors.Conflict("Friend request was already " + string(f.Status))
		}
		if err := tx.Friendships().UpdateStatus(ctx, friendshipID, status); err != nil {
			return err
		}
		if status == models.StatusAccepted {
			related := f.ID
			notification, err = s.notifications.create(ctx, tx, f.SenderID, models.NotificationGeneral,
				fmt.Sprintf("%s accepted your friend request", f.Receiver.Username), &related)
		}
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Friend request")
	}

	f, err := s.Get(ctx, receiverID, friendshipID)
	if err != nil {
		return nil, err
	}
	if notification != nil {
		s.notifications.publish(notification)
	}
	s.notifications.pub.Publish(f.SenderID, hub.Event{Type: hub.EventFriendshipUpdate, Payload: FriendshipEvent{
		ID:         f.ID,
		SenderID:   f.SenderID,
		ReceiverID: f.ReceiverID,
		Status:     f.Status,
	}})
	return f, nil
}

// Get loads a friendship userID is part of.
func (s *FriendshipService) Get(ctx context.Context, userID, friendshipID uint) (*models.Friendship, error) {
	f, err := s.store.Friendships().Get(ctx, friendshipID)
	if err != nil {
		return nil, storeErr(err, "Friend request")
	}
	if !f.Involves(userID) {
		return nil, apperrors.NotFound("Friend request")
	}
	return f, nil
}

func (s *FriendshipService) List(ctx context.Context, userID uint, status, direction string) ([]models.Friendship, error) {
	filter := store.FriendshipFilter{UserID: userID}

	switch st := models.FriendshipStatus(strings.ToLower(strings.TrimSpace(status))); st {
	case "", models.StatusPending, models.StatusAccepted, models.StatusRejected:
		filter.Status = st
	default:
		return nil, apperrors.Validation("status must be pending, accepted or rejected")
	}

	switch d := store.FriendshipDirection(strings.ToLower(strings.TrimSpace(direction))); d {
	case store.DirectionAny, store.DirectionIncoming, store.DirectionOutgoing:
		filter.Direction = d
	default:
		return nil, apperrors.Validation("direction must be incoming or outgoing")
	}

	out, err := s.store.Friendships().List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}
