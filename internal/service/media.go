package service

import (
	"context"
	"net/url"
	"strings"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store"
)

type MediaService struct {
	store store.Store
}

func NewMediaService(st store.Store) *MediaService {
	return &MediaService{store: st}
}

// Add links a piece of externally hosted media to userID.
func (s *MediaService) Add(ctx context.Context, userID uint, mediaURL, description string) (*models.ExternalMedia, error) {
	mediaURL = strings.TrimSpace(mediaURL)
	u, err := url.ParseRequestURI(mediaURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperrors.Validation("media_url must be an http or https URL")
	}
	if len(mediaURL) > 255 {
		return nil, apperrors.Validation("media_url must be at most 255 characters")
	}

	m := &models.ExternalMedia{UserID: userID, MediaURL: mediaURL, Description: strings.TrimSpace(description)}
	if err := s.store.Media().Create(ctx, m); err != nil {
		return nil, storeErr(err, "User")
	}
	return m, nil
}

func (s *MediaService) List(ctx context.Context, userID uint) ([]models.ExternalMedia, error) {
	out, err := s.store.Media().List(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

// Delete removes a media link. Only its owner may do so.
func (s *MediaService) Delete(ctx context.Context, userID, id uint) error {
	m, err := s.store.Media().Get(ctx, id)
	if err != nil {
		return storeErr(err, "Media")
	}
	if m.UserID != userID {
		return apperrors.Forbidden("You can only delete your own media")
	}
	if err := s.store.Media().Delete(ctx, id); err != nil {
		return storeErr(err, "Media")
	}
	return nil
}
