package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"missionmatch/backend/internal/models"
)

type notificationRepo struct{ db *gorm.DB }

func (r notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error)
}

func (r notificationRepo) Get(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &n, nil
}

func (r notificationRepo) List(ctx context.Context, recipientID uint, unreadOnly bool) ([]models.Notification, error) {
	tx := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}
	out := []models.Notification{}
	err := tx.Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, mapErr(err)
}

func (r notificationRepo) SetRead(ctx context.Context, id uint, read bool) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("is_read", read)
	return affected(res)
}

func (r notificationRepo) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, mapErr(res.Error)
}

func (r notificationRepo) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, mapErr(err)
}

func (r notificationRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Notification{}, id))
}

type historyRepo struct{ db *gorm.DB }

func (r historyRepo) Append(ctx context.Context, entry *models.SearchHistory) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error)
}

func (r historyRepo) List(ctx context.Context, userID uint, limit int) ([]models.SearchHistory, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("search_time DESC").Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	out := []models.SearchHistory{}
	return out, mapErr(tx.Find(&out).Error)
}

func (r historyRepo) Clear(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.SearchHistory{})
	return res.RowsAffected, mapErr(res.Error)
}

type mediaRepo struct{ db *gorm.DB }

func (r mediaRepo) Create(ctx context.Context, m *models.ExternalMedia) error {
	return mapErr(r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error)
}

func (r mediaRepo) Get(ctx context.Context, id uint) (*models.ExternalMedia, error) {
	var m models.ExternalMedia
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (r mediaRepo) List(ctx context.Context, userID uint) ([]models.ExternalMedia, error) {
	out := []models.ExternalMedia{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("uploaded_at DESC").Order("id DESC").Find(&out).Error
	return out, mapErr(err)
}

func (r mediaRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&models.ExternalMedia{}, id))
}
