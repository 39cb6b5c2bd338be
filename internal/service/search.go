package service

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/logger"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/search"
	"missionmatch/backend/internal/store"
)

// historyLimit caps how many past searches are listed.
const historyLimit = 50

type SearchService struct {
	store  store.Store
	engine *search.Engine
}

func NewSearchService(st store.Store, engine *search.Engine) *SearchService {
	return &SearchService{store: st, engine: engine}
}

// searchParameters is what a history entry records about a search.
type searchParameters struct {
	Query        string              `json:"q,omitempty"`
	UserType     string              `json:"user_type,omitempty"`
	Location     string              `json:"location,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	TagMatchType search.TagMatchType `json:"tag_match_type"`
	Sort         search.SortKey      `json:"sort"`
}

// Search runs a profile search for userID and logs it to the user's search
// history when any filter was given.
func (s *SearchService) Search(ctx context.Context, userID uint, req search.Request) (search.Page[models.Profile], error) {
	page, err := s.engine.Search(ctx, req)
	if err != nil {
		return search.Page[models.Profile]{}, apperrors.Internal(err)
	}

	if userID != 0 && !req.Filters.IsEmpty() {
		s.record(ctx, userID, req)
	}
	return page, nil
}

// record failures are logged, never surfaced: the search itself succeeded.
func (s *SearchService) record(ctx context.Context, userID uint, req search.Request) {
	params, err := json.Marshal(searchParameters{
		Query:        strings.TrimSpace(req.Query),
		UserType:     strings.TrimSpace(req.UserType),
		Location:     strings.TrimSpace(req.Location),
		Tags:         req.Tags,
		TagMatchType: search.ParseTagMatchType(string(req.TagMatchType)),
		Sort:         search.ParseSortKey(req.Sort),
	})
	if err != nil {
		logger.FromContext(ctx).Warn("encode search parameters", "error", err)
		return
	}

	entry := &models.SearchHistory{
		UserID:           userID,
		SearchText:       strings.TrimSpace(req.Query),
		SearchParameters: datatypes.JSON(params),
	}
	if err := s.store.SearchHistory().Append(ctx, entry); err != nil {
		logger.FromContext(ctx).Warn("record search history", "error", err)
	}
}

// Match returns the introduction candidates for userID.
func (s *SearchService) Match(ctx context.Context, userID uint) ([]models.Profile, error) {
	out, err := s.engine.Match(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *SearchService) History(ctx context.Context, userID uint) ([]models.SearchHistory, error) {
	out, err := s.store.SearchHistory().List(ctx, userID, historyLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

func (s *SearchService) ClearHistory(ctx context.Context, userID uint) (int64, error) {
	n, err := s.store.SearchHistory().Clear(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}
