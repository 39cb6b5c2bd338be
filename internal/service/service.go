// Package service holds the business rules. Every error it returns is an
// *apperrors.AppError.
package service

import (
	"errors"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/hub"
	"missionmatch/backend/internal/search"
	"missionmatch/backend/internal/store"
)

// Publisher pushes live events to a user's open streams.
type Publisher interface {
	Publish(userID uint, event hub.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(uint, hub.Event) {}

// Services bundles every service over one store.
type Services struct {
	Profiles      *ProfileService
	Tags          *TagService
	Votes         *VoteService
	Comments      *CommentService
	Friendships   *FriendshipService
	Notifications *NotificationService
	Search        *SearchService
	Media         *MediaService
}

type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// New wires the services. pub may be nil when no live delivery is needed.
func New(st store.Store, pub Publisher, cfg Config) *Services {
	if pub == nil {
		pub = nopPublisher{}
	}
	tags := search.NewTagIndex(st.Tags())
	engine := search.NewEngine(st.Profiles(), tags, search.EngineConfig{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	})
	notifications := NewNotificationService(st, pub)

	return &Services{
		Profiles:      NewProfileService(st),
		Tags:          NewTagService(st),
		Votes:         NewVoteService(st),
		Comments:      NewCommentService(st),
		Friendships:   NewFriendshipService(st, notifications),
		Notifications: notifications,
		Search:        NewSearchService(st, engine),
		Media:         NewMediaService(st),
	}
}

// storeErr maps a store error onto the error taxonomy.
func storeErr(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, store.ErrDuplicate):
		return apperrors.Conflict(resource + " already exists")
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Internal(err)
}
