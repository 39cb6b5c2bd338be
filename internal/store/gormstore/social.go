package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

type voteRepo struct{ db *gorm.DB }

// Upsert relies on the (voter_id, profile_id) unique index so concurrent
// votes from one voter collapse into a single row.
func (r voteRepo) Upsert(ctx context.Context, vote *models.ProfileVote) error {
	db := r.db.WithContext(ctx)
	err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "voter_id"}, {Name: "profile_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_upvote", "updated_at"}),
		}).
		Create(vote).Error
	if err != nil {
		return mapErr(err)
	}
	return mapErr(db.Where("voter_id = ? AND profile_id = ?", vote.VoterID, vote.ProfileID).First(vote).Error)
}

func (r voteRepo) Get(ctx context.Context, voterID, profileID uint) (*models.ProfileVote, error) {
	var v models.ProfileVote
	err := r.db.WithContext(ctx).Where("voter_id = ? AND profile_id = ?", voterID, profileID).First(&v).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

func (r voteRepo) Delete(ctx context.Context, voterID, profileID uint) error {
	return affected(r.db.WithContext(ctx).
		Where("voter_id = ? AND profile_id = ?", voterID, profileID).
		Delete(&models.ProfileVote{}))
}

func (r voteRepo) Tally(ctx context.Context, profileIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64)
	if len(profileIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ProfileID uint
		Total     int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ProfileVote{}).
		Select("profile_id, SUM(CASE WHEN is_upvote THEN 1 ELSE -1 END) AS total").
		Where("profile_id IN ?", profileIDs).
		Group("profile_id").
		Scan(&rows).Error
	if err != nil {
		return nil, mapErr(err)
	}
	for _, row := range rows {
		out[row.ProfileID] = row.Total
	}
	return out, nil
}

func (r voteRepo) ByVoter(ctx context.Context, voterID uint, profileIDs []uint) (map[uint]models.ProfileVote, error) {
	out := make(map[uint]models.ProfileVote)
	if len(profileIDs) == 0 {
		return out, nil
	}
	var votes []models.ProfileVote
	err := r.db.WithContext(ctx).
		Where("voter_id = ? AND profile_id IN ?", voterID, profileIDs).
		Find(&votes).Error
	if err != nil {
		return nil, mapErr(err)
	}
	for _, v := range votes {
		out[v.ProfileID] = v
	}
	return out, nil
}

type commentRepo struct{ db *gorm.DB }

func (r commentRepo) Create(ctx context.Context, c *models.ProfileComment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(c).Error; err != nil {
		return mapErr(err)
	}
	return mapErr(db.First(&c.Commenter, c.CommenterID).Error)
}

func (r commentRepo) Get(ctx context.Context, id uint) (*models.ProfileComment, error) {
	var c models.ProfileComment
	if err := r.db.WithContext(ctx).Preload("Commenter").First(&c, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r commentRepo) Update(ctx context.Context, c *models.ProfileComment) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProfileComment{}).
		Where("id = ?", c.ID).
		Select("comment", "updated_at").
		Updates(c)
	return affected(res)
}

func (r commentRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.ProfileComment{}, id))
}

func (r commentRepo) ListForProfile(ctx context.Context, profileID uint) ([]models.ProfileComment, error) {
	out := []models.ProfileComment{}
	err := r.db.WithContext(ctx).
		Preload("Commenter").
		Where("profile_id = ?", profileID).
		Order("created_at").Order("id").
		Find(&out).Error
	return out, mapErr(err)
}

type friendshipRepo struct{ db *gorm.DB }

func (r friendshipRepo) Create(ctx context.Context, f *models.Friendship) error {
	if f.Status == "" {
		f.Status = models.StatusPending
	}
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(f).Error)
}

func (r friendshipRepo) Get(ctx context.Context, id uint) (*models.Friendship, error) {
	var f models.Friendship
	if err := r.db.WithContext(ctx).Preload("Sender").Preload("Receiver").First(&f, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &f, nil
}

func (r friendshipRepo) Between(ctx context.Context, a, b uint) ([]models.Friendship, error) {
	var out []models.Friendship
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		Order("id").
		Find(&out).Error
	return out, mapErr(err)
}

func (r friendshipRepo) UpdateStatus(ctx context.Context, id uint, status models.FriendshipStatus) error {
	return affected(r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", id).
		Update("status", status))
}

func (r friendshipRepo) List(ctx context.Context, filter store.FriendshipFilter) ([]models.Friendship, error) {
	tx := r.db.WithContext(ctx).Preload("Sender").Preload("Receiver")
	switch filter.Direction {
	case store.DirectionIncoming:
		tx = tx.Where("receiver_id = ?", filter.UserID)
	case store.DirectionOutgoing:
		tx = tx.Where("sender_id = ?", filter.UserID)
	default:
		tx = tx.Where("sender_id = ? OR receiver_id = ?", filter.UserID, filter.UserID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}

	out := []models.Friendship{}
	err := tx.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, mapErr(err)
}
