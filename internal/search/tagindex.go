package search

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"missionmatch/backend/internal/models"
)

// TagStore is the storage the tag index reads from and writes to.
type TagStore interface {
	TagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	// TagsByNames matches names case-insensitively.
	TagsByNames(ctx context.Context, names []string) ([]models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
}

// TagIndex resolves tags by ID or name. Tag names are not unique in storage;
// the index treats the oldest tag with a given name as the canonical one.
type TagIndex struct {
	store TagStore
}

func NewTagIndex(store TagStore) *TagIndex {
	return &TagIndex{store: store}
}

// Lookup finds a single tag by numeric ID or by name. It returns nil when
// nothing matches.
func (ix *TagIndex) Lookup(ctx context.Context, ref string) (*models.Tag, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	if id, err := strconv.ParseUint(ref, 10, 32); err == nil {
		tags, err := ix.store.TagsByIDs(ctx, []uint{uint(id)})
		if err != nil || len(tags) == 0 {
			return nil, err
		}
		return &tags[0], nil
	}
	byName, err := ix.byName(ctx, []string{ref})
	if err != nil {
		return nil, err
	}
	if tag, ok := byName[strings.ToLower(ref)]; ok {
		return &tag, nil
	}
	return nil, nil
}

// Resolve maps tag references to distinct tag IDs, preserving the order of
// first appearance. Numeric references are taken as IDs as-is; names that do
// not exist are dropped. requested reports whether any non-blank reference
// was given at all.
func (ix *TagIndex) Resolve(ctx context.Context, refs []string) ([]uint, bool, error) {
	parts := splitTagRefs(refs)
	if len(parts) == 0 {
		return nil, false, nil
	}

	var names []string
	for _, p := range parts {
		if _, err := strconv.ParseUint(p, 10, 32); err != nil {
			names = append(names, p)
		}
	}

	var byName map[string]models.Tag
	if len(names) > 0 {
		var err error
		if byName, err = ix.byName(ctx, names); err != nil {
			return nil, true, err
		}
	}

	seen := make(map[uint]bool, len(parts))
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		var id uint
		if n, err := strconv.ParseUint(p, 10, 32); err == nil {
			id = uint(n)
		} else if tag, ok := byName[strings.ToLower(p)]; ok {
			id = tag.ID
		} else {
			continue
		}
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, true, nil
}

// GetOrCreate returns the canonical tag called name, creating it when missing.
// created reports whether a new row was inserted.
func (ix *TagIndex) GetOrCreate(ctx context.Context, name, description string, predefined bool) (*models.Tag, bool, error) {
	name = strings.TrimSpace(name)
	existing, err := ix.byName(ctx, []string{name})
	if err != nil {
		return nil, false, err
	}
	if tag, ok := existing[strings.ToLower(name)]; ok {
		return &tag, false, nil
	}

	tag := &models.Tag{
		TagName:         name,
		TagDescription:  description,
		TagIsPredefined: predefined,
	}
	if err := ix.store.CreateTag(ctx, tag); err != nil {
		return nil, false, err
	}
	return tag, true, nil
}

// byName loads tags for the given names keyed by lower-cased name, keeping
// the lowest ID when several tags share a name.
func (ix *TagIndex) byName(ctx context.Context, names []string) (map[string]models.Tag, error) {
	tags, err := ix.store.TagsByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })

	out := make(map[string]models.Tag, len(tags))
	for _, t := range tags {
		key := strings.ToLower(t.TagName)
		if _, ok := out[key]; !ok {
			out[key] = t
		}
	}
	return out, nil
}
