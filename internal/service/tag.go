package service

import (
	"context"
	"errors"
	"strings"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/logger"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/search"
	"missionmatch/backend/internal/store"
)

type TagService struct {
	store store.Store
	index *search.TagIndex
}

func NewTagService(st store.Store) *TagService {
	return &TagService{store: st, index: search.NewTagIndex(st.Tags())}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.store.Tags().List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return tags, nil
}

// GetOrCreate returns the tag called name, creating it when nobody has used
// the name yet. created reports whether a row was inserted.
func (s *TagService) GetOrCreate(ctx context.Context, name, description string, predefined bool) (*models.Tag, bool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, false, apperrors.Validation("tag_name is required")
	}
	tag, created, err := s.index.GetOrCreate(ctx, name, description, predefined)
	if err != nil {
		return nil, false, apperrors.Internal(err)
	}
	return tag, created, nil
}

type TagUpdate struct {
	TagName         *string
	TagDescription  *string
	TagIsPredefined *bool
}

func (s *TagService) Update(ctx context.Context, id uint, in TagUpdate) (*models.Tag, error) {
	tag, err := s.store.Tags().Get(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Tag")
	}
	if in.TagName != nil {
		name := strings.TrimSpace(*in.TagName)
		if name == "" {
			return nil, apperrors.Validation("tag_name cannot be empty")
		}
		tag.TagName = name
	}
	if in.TagDescription != nil {
		tag.TagDescription = *in.TagDescription
	}
	if in.TagIsPredefined != nil {
		tag.TagIsPredefined = *in.TagIsPredefined
	}
	if err := s.store.Tags().Update(ctx, tag); err != nil {
		return nil, storeErr(err, "Tag")
	}
	return tag, nil
}

// Delete removes a tag and every tagging that uses it.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Tags().Delete(ctx, id); err != nil {
		return storeErr(err, "Tag")
	}
	return nil
}

// TagRef names a tag by ID or, when TagID is 0, by name.
type TagRef struct {
	TagID   uint
	TagName string
}

// AddToProfile attaches a tag to a profile on behalf of actorID. A tag can be
// on a profile once, whoever added it first.
func (s *TagService) AddToProfile(ctx context.Context, actorID, profileID uint, ref TagRef) (*models.ProfileTagging, error) {
	if profileID == 0 {
		return nil, apperrors.Validation("profile_id is required")
	}
	if ref.TagID == 0 && strings.TrimSpace(ref.TagName) == "" {
		return nil, apperrors.Validation("tag_id or tag_name is required")
	}

	if _, err := s.store.Profiles().Get(ctx, profileID); err != nil {
		return nil, storeErr(err, "Profile")
	}

	var tag *models.Tag
	var err error
	if ref.TagID != 0 {
		if tag, err = s.store.Tags().Get(ctx, ref.TagID); err != nil {
			return nil, storeErr(err, "Tag")
		}
	} else if tag, _, err = s.GetOrCreate(ctx, ref.TagName, "", false); err != nil {
		return nil, err
	}

	_, err = s.store.Taggings().Find(ctx, profileID, tag.ID)
	switch {
	case err == nil:
		return nil, apperrors.Conflict("Tag already added to this profile")
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperrors.Internal(err)
	}

	adder := actorID
	tagging := &models.ProfileTagging{
		ProfileID: profileID,
		TagID:     tag.ID,
		AddedByID: &adder,
	}
	if err := s.store.Taggings().Create(ctx, tagging); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.Conflict("Tag already added to this profile")
		}
		return nil, storeErr(err, "Tag")
	}

	logger.FromContext(ctx).Info("tag added", "profile_id", profileID, "tag_id", tag.ID, "self_added", tagging.IsSelfAdded)
	return tagging, nil
}

// RemoveFromProfile detaches a tag. A self-added tag may only be removed by
// the profile owner; any other tag by its adder or the owner.
func (s *TagService) RemoveFromProfile(ctx context.Context, actorID, profileID, tagID uint) error {
	if profileID == 0 || tagID == 0 {
		return apperrors.Validation("profile_id and tag_id are required")
	}

	tagging, err := s.store.Taggings().Find(ctx, profileID, tagID)
	if err != nil {
		return storeErr(err, "Tag on this profile")
	}
	if !CanRemoveTagging(tagging, actorID) {
		return apperrors.Forbidden("You do not have permission to remove this tag")
	}

	if err := s.store.Taggings().Delete(ctx, tagging.ID); err != nil {
		return storeErr(err, "Tag on this profile")
	}
	logger.FromContext(ctx).Info("tag removed", "profile_id", profileID, "tag_id", tagID)
	return nil
}

// CanRemoveTagging reports whether actorID may remove t.
func CanRemoveTagging(t *models.ProfileTagging, actorID uint) bool {
	if actorID == t.ProfileID {
		return true
	}
	if t.IsSelfAdded {
		return false
	}
	return t.AddedByID != nil && *t.AddedByID == actorID
}
