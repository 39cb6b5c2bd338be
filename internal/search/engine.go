package search

import (
	"context"
	"fmt"

	"missionmatch/backend/internal/models"
)

// ProfileQuery is a storage-neutral profile query. Limit 0 means unbounded.
type ProfileQuery struct {
	Where  Predicate
	Order  Order
	Offset int
	Limit  int
}

// ProfileStore executes profile queries. Returned profiles carry their user
// and their taggings with tags loaded.
type ProfileStore interface {
	CountProfiles(ctx context.Context, where Predicate) (int64, error)
	FindProfiles(ctx context.Context, q ProfileQuery) ([]models.Profile, error)
}

// Request is a parsed search request.
type Request struct {
	Filters
	Sort     string
	Page     string
	PageSize string
}

// Engine runs profile searches and matches.
type Engine struct {
	profiles        ProfileStore
	builder         *Builder
	defaultPageSize int
	maxPageSize     int
}

type EngineConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

func NewEngine(profiles ProfileStore, tags TagResolver, cfg EngineConfig) *Engine {
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = 10
	}
	if cfg.MaxPageSize < 1 {
		cfg.MaxPageSize = 100
	}
	return &Engine{
		profiles:        profiles,
		builder:         NewBuilder(tags),
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}
}

// Search filters, ranks and pages visible profiles.
func (e *Engine) Search(ctx context.Context, req Request) (Page[models.Profile], error) {
	page := ParsePageRequest(req.Page, req.PageSize, e.defaultPageSize, e.maxPageSize)

	filter, err := e.builder.Build(ctx, req.Filters)
	if err != nil {
		return Page[models.Profile]{}, fmt.Errorf("build filter: %w", err)
	}
	where := AllOf(Visible(), filter)

	if _, none := where.(None); none {
		return Page[models.Profile]{Results: []models.Profile{}, Request: page}, nil
	}

	count, err := e.profiles.CountProfiles(ctx, where)
	if err != nil {
		return Page[models.Profile]{}, fmt.Errorf("count profiles: %w", err)
	}

	results, err := e.profiles.FindProfiles(ctx, ProfileQuery{
		Where:  where,
		Order:  OrderFor(ParseSortKey(req.Sort), req.Query),
		Offset: page.Offset(),
		Limit:  page.Limit(),
	})
	if err != nil {
		return Page[models.Profile]{}, fmt.Errorf("find profiles: %w", err)
	}
	if results == nil {
		results = []models.Profile{}
	}

	return Page[models.Profile]{Results: results, Count: count, Request: page}, nil
}

// Match returns the introduction candidates for userID's profile, ordered by
// user ID. A user without a profile has no candidates.
func (e *Engine) Match(ctx context.Context, userID uint) ([]models.Profile, error) {
	own, err := e.profiles.FindProfiles(ctx, ProfileQuery{
		Where: Equals{Field: FieldUserID, Value: userID},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if len(own) == 0 {
		return []models.Profile{}, nil
	}

	where := MatchCandidates(&own[0])
	if _, none := where.(None); none {
		return []models.Profile{}, nil
	}

	candidates, err := e.profiles.FindProfiles(ctx, ProfileQuery{Where: where, Order: ByUserID()})
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}
	if candidates == nil {
		candidates = []models.Profile{}
	}
	return candidates, nil
}
