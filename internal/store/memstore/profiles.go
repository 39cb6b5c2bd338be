package memstore

import (
	"context"
	"sort"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/search"
	"missionmatch/backend/internal/store"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	for _, u := range r.s.d.users {
		if u.Username == user.Username || u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	user.ID = r.s.d.next("users")
	user.UpdatedAt = r.s.stamp(&user.CreatedAt)
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	row := *user
	row.Profile = nil
	r.s.d.users[user.ID] = row
	return nil
}

func (r userRepo) Get(_ context.Context, id uint) (*models.User, error) {
	defer r.s.rlock()()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*models.User, error) {
	defer r.s.rlock()()
	for _, id := range sortedKeys(r.s.d.users) {
		u := r.s.d.users[id]
		if u.Username == username || u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

type profileRepo struct{ s *Store }

func (r profileRepo) Create(_ context.Context, profile *models.Profile) error {
	defer r.s.lock()()
	if _, ok := r.s.d.users[profile.UserID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := r.s.d.profiles[profile.UserID]; ok {
		return store.ErrDuplicate
	}
	profile.Normalize()
	profile.UpdatedAt = r.s.stamp(&profile.CreatedAt)
	r.s.d.profiles[profile.UserID] = stripProfile(*profile)
	return nil
}

func (r profileRepo) Get(_ context.Context, userID uint) (*models.Profile, error) {
	defer r.s.rlock()()
	p, ok := r.s.d.profiles[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	hydrated := r.s.d.hydrate(p)
	return &hydrated, nil
}

func (r profileRepo) Update(_ context.Context, profile *models.Profile) error {
	defer r.s.lock()()
	existing, ok := r.s.d.profiles[profile.UserID]
	if !ok {
		return store.ErrNotFound
	}
	profile.Normalize()
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = r.s.now()
	r.s.d.profiles[profile.UserID] = stripProfile(*profile)
	return nil
}

func (r profileRepo) Delete(_ context.Context, userID uint) error {
	defer r.s.lock()()
	d := r.s.d
	if _, ok := d.profiles[userID]; !ok {
		return store.ErrNotFound
	}
	delete(d.profiles, userID)
	for id, t := range d.taggings {
		if t.ProfileID == userID {
			delete(d.taggings, id)
		}
	}
	for id, v := range d.votes {
		if v.ProfileID == userID {
			delete(d.votes, id)
		}
	}
	for id, c := range d.comments {
		if c.ProfileID == userID {
			delete(d.comments, id)
		}
	}
	return nil
}

func (r profileRepo) CountProfiles(_ context.Context, where search.Predicate) (int64, error) {
	defer r.s.rlock()()
	return int64(len(r.s.d.filterProfiles(where))), nil
}

func (r profileRepo) FindProfiles(_ context.Context, q search.ProfileQuery) ([]models.Profile, error) {
	defer r.s.rlock()()
	matched := r.s.d.filterProfiles(q.Where)
	sort.SliceStable(matched, func(i, j int) bool {
		return q.Order.Less(&matched[i], &matched[j])
	})

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]models.Profile, 0, len(matched))
	for _, p := range matched {
		out = append(out, r.s.d.hydrate(p))
	}
	return out, nil
}

// filterProfiles returns bare rows matching where, in user ID order.
func (d *data) filterProfiles(where search.Predicate) []models.Profile {
	var out []models.Profile
	for _, id := range sortedKeys(d.profiles) {
		p := d.profiles[id]
		if search.Eval(where, d.record(&p)) {
			out = append(out, p)
		}
	}
	return out
}

func (d *data) hydrate(p models.Profile) models.Profile {
	p.User = d.users[p.UserID]
	p.User.Profile = nil
	p.Taggings = d.taggingsFor(p.UserID)
	return p
}

func (d *data) taggingsFor(profileID uint) []models.ProfileTagging {
	var out []models.ProfileTagging
	for _, id := range sortedKeys(d.taggings) {
		t := d.taggings[id]
		if t.ProfileID != profileID {
			continue
		}
		t.Tag = d.tags[t.TagID]
		out = append(out, t)
	}
	return out
}

type profileRecord struct {
	d    *data
	p    *models.Profile
	tags map[uint]bool
}

func (d *data) record(p *models.Profile) search.Record {
	tags := make(map[uint]bool)
	for _, t := range d.taggings {
		if t.ProfileID == p.UserID {
			tags[t.TagID] = true
		}
	}
	return profileRecord{d: d, p: p, tags: tags}
}

func (r profileRecord) Value(f search.Field) any {
	switch f {
	case search.FieldUserID:
		return r.p.UserID
	case search.FieldIsAnonymous:
		return r.p.IsAnonymous
	case search.FieldCreatedAt:
		return r.p.CreatedAt
	}
	return search.TextValue(f, r.p)
}

func (r profileRecord) HasTag(id uint) bool {
	return r.tags[id]
}

func (r profileRecord) ConnectedTo(userID uint) bool {
	for _, f := range r.d.friendships {
		if f.Status != models.StatusAccepted {
			continue
		}
		if (f.SenderID == userID && f.ReceiverID == r.p.UserID) ||
			(f.ReceiverID == userID && f.SenderID == r.p.UserID) {
			return true
		}
	}
	return false
}

func stripProfile(p models.Profile) models.Profile {
	p.User = models.User{}
	p.Taggings = nil
	return p
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
