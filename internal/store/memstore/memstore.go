// Package memstore is an in-process implementation of store.Store. It backs
// the server when no database is configured and serves as the test double
// for services and handlers.
package memstore

import (
	"context"
	"maps"
	"sync"
	"time"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

type data struct {
	seq           map[string]uint
	users         map[uint]models.User
	profiles      map[uint]models.Profile
	tags          map[uint]models.Tag
	taggings      map[uint]models.ProfileTagging
	votes         map[uint]models.ProfileVote
	comments      map[uint]models.ProfileComment
	friendships   map[uint]models.Friendship
	notifications map[uint]models.Notification
	history       map[uint]models.SearchHistory
	media         map[uint]models.ExternalMedia
}

func newData() *data {
	return &data{
		seq:           make(map[string]uint),
		users:         make(map[uint]models.User),
		profiles:      make(map[uint]models.Profile),
		tags:          make(map[uint]models.Tag),
		taggings:      make(map[uint]models.ProfileTagging),
		votes:         make(map[uint]models.ProfileVote),
		comments:      make(map[uint]models.ProfileComment),
		friendships:   make(map[uint]models.Friendship),
		notifications: make(map[uint]models.Notification),
		history:       make(map[uint]models.SearchHistory),
		media:         make(map[uint]models.ExternalMedia),
	}
}

// clone copies every table. Rows are stored without associations, so a
// shallow copy of each map is a full snapshot.
func (d *data) clone() *data {
	return &data{
		seq:           maps.Clone(d.seq),
		users:         maps.Clone(d.users),
		profiles:      maps.Clone(d.profiles),
		tags:          maps.Clone(d.tags),
		taggings:      maps.Clone(d.taggings),
		votes:         maps.Clone(d.votes),
		comments:      maps.Clone(d.comments),
		friendships:   maps.Clone(d.friendships),
		notifications: maps.Clone(d.notifications),
		history:       maps.Clone(d.history),
		media:         maps.Clone(d.media),
	}
}

func (d *data) next(table string) uint {
	d.seq[table]++
	return d.seq[table]
}

// Store keeps all rows in maps guarded by a single lock.
type Store struct {
	mu   *sync.RWMutex
	d    *data
	inTx bool
	now  func() time.Time
}

type Option func(*Store)

// WithClock overrides the source of CreatedAt/UpdatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		mu:  &sync.RWMutex{},
		d:   newData(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ store.Store = (*Store)(nil)

func (s *Store) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Transaction runs fn on a snapshot while holding the write lock and swaps
// the snapshot in only if fn succeeds.
func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	tx := &Store{mu: s.mu, d: snapshot, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.d = snapshot
	return nil
}

func (s *Store) Users() store.UserRepository                  { return userRepo{s} }
func (s *Store) Profiles() store.ProfileRepository            { return profileRepo{s} }
func (s *Store) Tags() store.TagRepository                    { return tagRepo{s} }
func (s *Store) Taggings() store.TaggingRepository            { return taggingRepo{s} }
func (s *Store) Votes() store.VoteRepository                  { return voteRepo{s} }
func (s *Store) Comments() store.CommentRepository            { return commentRepo{s} }
func (s *Store) Friendships() store.FriendshipRepository      { return friendshipRepo{s} }
func (s *Store) Notifications() store.NotificationRepository  { return notificationRepo{s} }
func (s *Store) SearchHistory() store.SearchHistoryRepository { return historyRepo{s} }
func (s *Store) Media() store.MediaRepository                 { return mediaRepo{s} }

func (s *Store) stamp(created *time.Time) time.Time {
	now := s.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	return now
}
