// Package gormstore implements store.Store on top of gorm and postgres.
package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"missionmatch/backend/internal/store"
)

// Store wraps a gorm handle. The handle must be opened with TranslateError
// so uniqueness and foreign key violations map onto store errors.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Users() store.UserRepository                  { return userRepo{s.db} }
func (s *Store) Profiles() store.ProfileRepository            { return profileRepo{s.db} }
func (s *Store) Tags() store.TagRepository                    { return tagRepo{s.db} }
func (s *Store) Taggings() store.TaggingRepository            { return taggingRepo{s.db} }
func (s *Store) Votes() store.VoteRepository                  { return voteRepo{s.db} }
func (s *Store) Comments() store.CommentRepository            { return commentRepo{s.db} }
func (s *Store) Friendships() store.FriendshipRepository      { return friendshipRepo{s.db} }
func (s *Store) Notifications() store.NotificationRepository  { return notificationRepo{s.db} }
func (s *Store) SearchHistory() store.SearchHistoryRepository { return historyRepo{s.db} }
func (s *Store) Media() store.MediaRepository                 { return mediaRepo{s.db} }

func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// mapErr converts gorm errors into the store sentinels.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return store.ErrNotFound
	}
	return err
}

// affected turns a write that touched no rows into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
