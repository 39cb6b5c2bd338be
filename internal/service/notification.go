package service

import (
	"context"
	"time"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/hub"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

// NotificationEvent is the live copy of a new notification.
type NotificationEvent struct {
	ID               uint                    `json:"id"`
	NotificationType models.NotificationType `json:"notification_type"`
	Message          string                  `json:"message"`
	CreatedAt        time.Time               `json:"created_at"`
	RelatedObjectID  *uint                   `json:"related_object_id"`
}

type NotificationService struct {
	store store.Store
	pub   Publisher
}

func NewNotificationService(st store.Store, pub Publisher) *NotificationService {
	if pub == nil {
		pub = nopPublisher{}
	}
	return &NotificationService{store: st, pub: pub}
}

// create stores a notification through st, which may be a transaction. The
// caller publishes it once the write is committed.
func (s *NotificationService) create(ctx context.Context, st store.Store, recipientID uint, kind models.NotificationType, message string, related *uint) (*models.Notification, error) {
	n := &models.Notification{
		RecipientID:      recipientID,
		NotificationType: kind,
		Message:          message,
		RelatedObjectID:  related,
	}
	if err := st.Notifications().Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) publish(n *models.Notification) {
	s.pub.Publish(n.RecipientID, hub.Event{Type: hub.EventNotification, Payload: NotificationEvent{
		ID:               n.ID,
		NotificationType: n.NotificationType,
		Message:          n.Message,
		CreatedAt:        n.CreatedAt,
		RelatedObjectID:  n.RelatedObjectID,
	}})
}

func (s *NotificationService) List(ctx context.Context, recipientID uint, unreadOnly bool) ([]models.Notification, error) {
	out, err := s.store.Notifications().List(ctx, recipientID, unreadOnly)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	n, err := s.store.Notifications().CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, recipientID, id uint) (*models.Notification, error) {
	n, err := s.owned(ctx, recipientID, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Notifications().SetRead(ctx, id, true); err != nil {
		return nil, storeErr(err, "Notification")
	}
	n.IsRead = true
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	n, err := s.store.Notifications().MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, recipientID, id uint) error {
	if _, err := s.owned(ctx, recipientID, id); err != nil {
		return err
	}
	if err := s.store.Notifications().Delete(ctx, id); err != nil {
		return storeErr(err, "Notification")
	}
	return nil
}

// owned loads a notification, reporting someone else's as not found.
func (s *NotificationService) owned(ctx context.Context, recipientID, id uint) (*models.Notification, error) {
	n, err := s.store.Notifications().Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Notification")
	}
	if n.RecipientID != recipientID {
		return nil, apperrors.NotFound("Notification")
	}
	return n, nil
}
