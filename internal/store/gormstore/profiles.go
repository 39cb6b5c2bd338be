package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/search"
)

type userRepo struct{ db *gorm.DB }

func (r userRepo) Create(ctx context.Context, user *models.User) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (r userRepo) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (r userRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", username, email).
		Order("id").
		First(&user).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

type profileRepo struct{ db *gorm.DB }

func withProfileAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").
		Preload("Taggings", func(db *gorm.DB) *gorm.DB { return db.Order("profile_taggings.id") }).
		Preload("Taggings.Tag")
}

func (r profileRepo) Create(ctx context.Context, profile *models.Profile) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(profile).Error)
}

func (r profileRepo) Get(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := withProfileAssociations(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &profile, nil
}

func (r profileRepo) Update(ctx context.Context, profile *models.Profile) error {
	profile.Normalize()
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", profile.UserID).
		Select("user_type", "first_name", "last_name", "street_address", "city", "state", "country",
			"phone_number", "years_of_experience", "description", "is_anonymous", "updated_at").
		Updates(profile)
	return affected(res)
}

// Delete removes the profile. Taggings, votes and comments on it go with it
// through ON DELETE CASCADE.
func (r profileRepo) Delete(ctx context.Context, userID uint) error {
	return affected(r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Profile{}))
}

func (r profileRepo) CountProfiles(ctx context.Context, where search.Predicate) (int64, error) {
	sql, args, err := whereSQL(where)
	if err != nil {
		return 0, err
	}
	var n int64
	err = r.db.WithContext(ctx).Model(&models.Profile{}).Where(sql, args...).Count(&n).Error
	return n, mapErr(err)
}

func (r profileRepo) FindProfiles(ctx context.Context, q search.ProfileQuery) ([]models.Profile, error) {
	sql, args, err := whereSQL(q.Where)
	if err != nil {
		return nil, err
	}
	order, err := orderBy(q.Order)
	if err != nil {
		return nil, err
	}

	tx := withProfileAssociations(r.db.WithContext(ctx)).Model(&models.Profile{}).Where(sql, args...)
	if order.Expression != nil {
		tx = tx.Order(order)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var profiles []models.Profile
	if err := tx.Find(&profiles).Error; err != nil {
		return nil, mapErr(err)
	}
	return profiles, nil
}

type tagRepo struct{ db *gorm.DB }

func (r tagRepo) TagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&tags).Error
	return tags, mapErr(err)
}

func (r tagRepo) TagsByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, strings.ToLower(strings.TrimSpace(n)))
	}
	if len(lowered) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	err := r.db.WithContext(ctx).Where("LOWER(tag_name) IN ?", lowered).Order("id").Find(&tags).Error
	return tags, mapErr(err)
}

func (r tagRepo) CreateTag(ctx context.Context, tag *models.Tag) error {
	// Select forces tag_is_predefined=false through instead of the column default.
	return mapErr(r.db.WithContext(ctx).Select("*").Omit("id").Create(tag).Error)
}

func (r tagRepo) List(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).Order("LOWER(tag_name)").Order("id").Find(&tags).Error
	return tags, mapErr(err)
}

func (r tagRepo) Get(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &tag, nil
}

func (r tagRepo) Update(ctx context.Context, tag *models.Tag) error {
	res := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("id = ?", tag.ID).
		Select("tag_name", "tag_description", "tag_is_predefined", "updated_at").
		Updates(tag)
	return affected(res)
}

func (r tagRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Tag{}, id))
}

type taggingRepo struct{ db *gorm.DB }

func (r taggingRepo) Find(ctx context.Context, profileID, tagID uint) (*models.ProfileTagging, error) {
	var t models.ProfileTagging
	err := r.db.WithContext(ctx).
		Preload("Tag").
		Where("profile_id = ? AND tag_id = ?", profileID, tagID).
		Order("id").
		First(&t).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (r taggingRepo) Create(ctx context.Context, tagging *models.ProfileTagging) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(tagging).Error; err != nil {
		return mapErr(err)
	}
	return mapErr(db.First(&tagging.Tag, tagging.TagID).Error)
}

func (r taggingRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.ProfileTagging{}, id))
}

func (r taggingRepo) ListForProfile(ctx context.Context, profileID uint) ([]models.ProfileTagging, error) {
	var out []models.ProfileTagging
	err := r.db.WithContext(ctx).
		Preload("Tag").
		Where("profile_id = ?", profileID).
		Order("id").
		Find(&out).Error
	return out, mapErr(err)
}
