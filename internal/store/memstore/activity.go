package memstore

import (
	"context"
	"sort"
	"time"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *models.Notification) error {
	defer r.s.lock()()
	if _, ok := r.s.d.users[n.RecipientID]; !ok {
		return store.ErrNotFound
	}
	n.ID = r.s.d.next("notifications")
	r.s.stamp(&n.CreatedAt)
	row := *n
	row.Recipient = models.User{}
	r.s.d.notifications[n.ID] = row
	return nil
}

func (r notificationRepo) Get(_ context.Context, id uint) (*models.Notification, error) {
	defer r.s.rlock()()
	n, ok := r.s.d.notifications[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &n, nil
}

func (r notificationRepo) List(_ context.Context, recipientID uint, unreadOnly bool) ([]models.Notification, error) {
	defer r.s.rlock()()
	out := []models.Notification{}
	for _, n := range r.s.d.notifications {
		if n.RecipientID != recipientID || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r notificationRepo) SetRead(_ context.Context, id uint, read bool) error {
	defer r.s.lock()()
	n, ok := r.s.d.notifications[id]
	if !ok {
		return store.ErrNotFound
	}
	n.IsRead = read
	r.s.d.notifications[id] = n
	return nil
}

func (r notificationRepo) MarkAllRead(_ context.Context, recipientID uint) (int64, error) {
	defer r.s.lock()()
	var changed int64
	for id, n := range r.s.d.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			n.IsRead = true
			r.s.d.notifications[id] = n
			changed++
		}
	}
	return changed, nil
}

func (r notificationRepo) CountUnread(_ context.Context, recipientID uint) (int64, error) {
	defer r.s.rlock()()
	var n int64
	for _, row := range r.s.d.notifications {
		if row.RecipientID == recipientID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (r notificationRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.d.notifications[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.d.notifications, id)
	return nil
}

type historyRepo struct{ s *Store }

func (r historyRepo) Append(_ context.Context, entry *models.SearchHistory) error {
	defer r.s.lock()()
	entry.ID = r.s.d.next("search_history")
	r.s.stamp(&entry.SearchTime)
	row := *entry
	row.User = models.User{}
	r.s.d.history[entry.ID] = row
	return nil
}

func (r historyRepo) List(_ context.Context, userID uint, limit int) ([]models.SearchHistory, error) {
	defer r.s.rlock()()
	out := []models.SearchHistory{}
	for _, h := range r.s.d.history {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].SearchTime, out[j].SearchTime, out[i].ID, out[j].ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r historyRepo) Clear(_ context.Context, userID uint) (int64, error) {
	defer r.s.lock()()
	var n int64
	for id, h := range r.s.d.history {
		if h.UserID == userID {
			delete(r.s.d.history, id)
			n++
		}
	}
	return n, nil
}

type mediaRepo struct{ s *Store }

func (r mediaRepo) Create(_ context.Context, m *models.ExternalMedia) error {
	defer r.s.lock()()
	if _, ok := r.s.d.users[m.UserID]; !ok {
		return store.ErrNotFound
	}
	m.ID = r.s.d.next("external_media")
	r.s.stamp(&m.UploadedAt)
	row := *m
	row.User = models.User{}
	r.s.d.media[m.ID] = row
	return nil
}

func (r mediaRepo) Get(_ context.Context, id uint) (*models.ExternalMedia, error) {
	defer r.s.rlock()()
	m, ok := r.s.d.media[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (r mediaRepo) List(_ context.Context, userID uint) ([]models.ExternalMedia, error) {
	defer r.s.rlock()()
	out := []models.ExternalMedia{}
	for _, m := range r.s.d.media {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].UploadedAt, out[j].UploadedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r mediaRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.d.media[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.d.media, id)
	return nil
}

func newerFirst(a, b time.Time, aID, bID uint) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID > bID
}
