package memstore

import (
	"context"
	"sort"
	"strings"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

type tagRepo struct{ s *Store }

func (r tagRepo) TagsByIDs(_ context.Context, ids []uint) ([]models.Tag, error) {
	defer r.s.rlock()()
	var out []models.Tag
	for _, id := range ids {
		if t, ok := r.s.d.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r tagRepo) TagsByNames(_ context.Context, names []string) ([]models.Tag, error) {
	defer r.s.rlock()()
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var out []models.Tag
	for _, id := range sortedKeys(r.s.d.tags) {
		t := r.s.d.tags[id]
		if wanted[strings.ToLower(t.TagName)] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r tagRepo) CreateTag(_ context.Context, tag *models.Tag) error {
	defer r.s.lock()()
	tag.ID = r.s.d.next("tags")
	tag.UpdatedAt = r.s.stamp(&tag.CreatedAt)
	r.s.d.tags[tag.ID] = *tag
	return nil
}

func (r tagRepo) List(_ context.Context) ([]models.Tag, error) {
	defer r.s.rlock()()
	out := make([]models.Tag, 0, len(r.s.d.tags))
	for _, t := range r.s.d.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].TagName), strings.ToLower(out[j].TagName)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r tagRepo) Get(_ context.Context, id uint) (*models.Tag, error) {
	defer r.s.rlock()()
	t, ok := r.s.d.tags[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (r tagRepo) Update(_ context.Context, tag *models.Tag) error {
	defer r.s.lock()()
	existing, ok := r.s.d.tags[tag.ID]
	if !ok {
		return store.ErrNotFound
	}
	tag.CreatedAt = existing.CreatedAt
	tag.UpdatedAt = r.s.now()
	r.s.d.tags[tag.ID] = *tag
	return nil
}

func (r tagRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.d.tags[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.d.tags, id)
	for tid, t := range r.s.d.taggings {
		if t.TagID == id {
			delete(r.s.d.taggings, tid)
		}
	}
	return nil
}

type taggingRepo struct{ s *Store }

func (r taggingRepo) Find(_ context.Context, profileID, tagID uint) (*models.ProfileTagging, error) {
	defer r.s.rlock()()
	for _, id := range sortedKeys(r.s.d.taggings) {
		t := r.s.d.taggings[id]
		if t.ProfileID == profileID && t.TagID == tagID {
			t.Tag = r.s.d.tags[t.TagID]
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r taggingRepo) Create(_ context.Context, tagging *models.ProfileTagging) error {
	defer r.s.lock()()
	d := r.s.d
	if _, ok := d.profiles[tagging.ProfileID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := d.tags[tagging.TagID]; !ok {
		return store.ErrNotFound
	}
	for _, t := range d.taggings {
		if t.ProfileID == tagging.ProfileID && t.TagID == tagging.TagID && sameAdder(t.AddedByID, tagging.AddedByID) {
			return store.ErrDuplicate
		}
	}
	tagging.DeriveSelfAdded()
	tagging.ID = d.next("taggings")
	if tagging.AddedAt.IsZero() {
		tagging.AddedAt = r.s.now()
	}
	row := *tagging
	row.Profile = models.Profile{}
	row.Tag = models.Tag{}
	row.AddedBy = nil
	d.taggings[row.ID] = row
	tagging.Tag = d.tags[tagging.TagID]
	return nil
}

func (r taggingRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.d.taggings[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.s.d.taggings, id)
	return nil
}

func (r taggingRepo) ListForProfile(_ context.Context, profileID uint) ([]models.ProfileTagging, error) {
	defer r.s.rlock()()
	return r.s.d.taggingsFor(profileID), nil
}

func sameAdder(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
