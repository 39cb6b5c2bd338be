// Package store declares the repositories the services and the search engine
// run against. gormstore backs them with postgres, memstore keeps everything
// in process.
package store

import (
	"context"
	"errors"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/search"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness rule.
	ErrDuplicate = errors.New("duplicate record")
)

// Store groups the repositories. Transaction runs fn against a store whose
// writes commit together or not at all.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Tags() TagRepository
	Taggings() TaggingRepository
	Votes() VoteRepository
	Comments() CommentRepository
	Friendships() FriendshipRepository
	Notifications() NotificationRepository
	SearchHistory() SearchHistoryRepository
	Media() MediaRepository

	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uint) (*models.User, error)
	// FindByUsernameOrEmail returns ErrNotFound when neither is taken.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
}

type ProfileRepository interface {
	search.ProfileStore

	Create(ctx context.Context, profile *models.Profile) error
	// Get loads the profile with its user and taggings.
	Get(ctx context.Context, userID uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, userID uint) error
}

type TagRepository interface {
	search.TagStore

	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id uint) (*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
}

type TaggingRepository interface {
	// Find returns the tagging of tagID on profileID, whoever added it.
	Find(ctx context.Context, profileID, tagID uint) (*models.ProfileTagging, error)
	Create(ctx context.Context, tagging *models.ProfileTagging) error
	Delete(ctx context.Context, id uint) error
	ListForProfile(ctx context.Context, profileID uint) ([]models.ProfileTagging, error)
}

type VoteRepository interface {
	// Upsert inserts the vote or overwrites IsUpvote of the existing
	// (voter, profile) vote in one atomic statement.
	Upsert(ctx context.Context, vote *models.ProfileVote) error
	Get(ctx context.Context, voterID, profileID uint) (*models.ProfileVote, error)
	Delete(ctx context.Context, voterID, profileID uint) error
	// Tally returns upvotes minus downvotes per profile. Profiles without
	// votes are absent from the map.
	Tally(ctx context.Context, profileIDs []uint) (map[uint]int64, error)
	// ByVoter returns the voter's votes on the given profiles keyed by profile.
	ByVoter(ctx context.Context, voterID uint, profileIDs []uint) (map[uint]models.ProfileVote, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.ProfileComment) error
	Get(ctx context.Context, id uint) (*models.ProfileComment, error)
	Update(ctx context.Context, comment *models.ProfileComment) error
	Delete(ctx context.Context, id uint) error
	// ListForProfile returns comments oldest first with the commenter loaded.
	ListForProfile(ctx context.Context, profileID uint) ([]models.ProfileComment, error)
}

// FriendshipDirection restricts a friendship listing relative to the user.
type FriendshipDirection string

const (
	DirectionAny      FriendshipDirection = ""
	DirectionIncoming FriendshipDirection = "incoming"
	DirectionOutgoing FriendshipDirection = "outgoing"
)

type FriendshipFilter struct {
	UserID    uint
	Status    models.FriendshipStatus
	Direction FriendshipDirection
}

type FriendshipRepository interface {
	Create(ctx context.Context, f *models.Friendship) error
	Get(ctx context.Context, id uint) (*models.Friendship, error)
	// Between returns every request between a and b in either direction.
	Between(ctx context.Context, a, b uint) ([]models.Friendship, error)
	UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus) error
	// List returns matching requests newest first with both users loaded.
	List(ctx context.Context, filter FriendshipFilter) ([]models.Friendship, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	Get(ctx context.Context, id uint) (*models.Notification, error)
	// List returns the recipient's notifications newest first.
	List(ctx context.Context, recipientID uint, unreadOnly bool) ([]models.Notification, error)
	SetRead(ctx context.Context, id uint, read bool) error
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type SearchHistoryRepository interface {
	Append(ctx context.Context, entry *models.SearchHistory) error
	// List returns the user's most recent entries first, at most limit.
	List(ctx context.Context, userID uint, limit int) ([]models.SearchHistory, error)
	Clear(ctx context.Context, userID uint) (int64, error)
}

type MediaRepository interface {
	Create(ctx context.Context, m *models.ExternalMedia) error
	Get(ctx context.Context, id uint) (*models.ExternalMedia, error)
	List(ctx context.Context, userID uint) ([]models.ExternalMedia, error)
	Delete(ctx context.Context, id uint) error
}
