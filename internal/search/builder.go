package search

import (
	"context"
	"strings"

	"missionmatch/backend/internal/models"
)

// TagMatchType selects how a multi-tag filter combines.
type TagMatchType string

const (
	TagMatchAny TagMatchType = "any"
	TagMatchAll TagMatchType = "all"
)

// ParseTagMatchType maps user input to a match type, defaulting to any.
func ParseTagMatchType(s string) TagMatchType {
	if strings.EqualFold(strings.TrimSpace(s), string(TagMatchAll)) {
		return TagMatchAll
	}
	return TagMatchAny
}

var (
	textFields     = []Field{FieldFirstName, FieldLastName, FieldDescription, FieldCity, FieldState, FieldCountry}
	locationFields = []Field{FieldCity, FieldState, FieldCountry}
)

// Filters are the optional, independently settable search parameters.
type Filters struct {
	Query        string       `json:"q,omitempty"`
	UserType     string       `json:"user_type,omitempty"`
	Location     string       `json:"location,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	TagMatchType TagMatchType `json:"tag_match_type,omitempty"`
}

// IsEmpty reports whether no filter constrains the result.
func (f Filters) IsEmpty() bool {
	return strings.TrimSpace(f.Query) == "" &&
		strings.TrimSpace(f.UserType) == "" &&
		strings.TrimSpace(f.Location) == "" &&
		len(splitTagRefs(f.Tags)) == 0
}

// TagResolver turns tag references (IDs or names) into tag IDs.
type TagResolver interface {
	Resolve(ctx context.Context, refs []string) (ids []uint, requested bool, err error)
}

// Builder translates Filters into a Predicate.
type Builder struct {
	tags TagResolver
}

func NewBuilder(tags TagResolver) *Builder {
	return &Builder{tags: tags}
}

// Build composes the filters into one predicate. Unset filters contribute no
// constraint. A tag filter whose references all fail to resolve matches nothing.
func (b *Builder) Build(ctx context.Context, f Filters) (Predicate, error) {
	parts := []Predicate{
		TermsPredicate(f.Query, textFields),
		TermsPredicate(f.Location, locationFields),
	}

	if t := strings.TrimSpace(f.UserType); t != "" {
		parts = append(parts, Equals{Field: FieldUserType, Value: t})
	}

	ids, requested, err := b.tags.Resolve(ctx, f.Tags)
	if err != nil {
		return nil, err
	}
	if requested {
		parts = append(parts, TagPredicate(ids, f.TagMatchType))
	}

	return AllOf(parts...), nil
}

// TermsPredicate splits text on whitespace and requires every term to match
// at least one of fields.
func TermsPredicate(text string, fields []Field) Predicate {
	terms := strings.Fields(text)
	perTerm := make([]Predicate, 0, len(terms))
	for _, term := range terms {
		alts := make([]Predicate, 0, len(fields))
		for _, f := range fields {
			alts = append(alts, Contains{Field: f, Value: term})
		}
		perTerm = append(perTerm, AnyOf(alts...))
	}
	return AllOf(perTerm...)
}

// TagPredicate filters on resolved tag IDs. An empty ID list matches nothing.
func TagPredicate(ids []uint, match TagMatchType) Predicate {
	if len(ids) == 0 {
		return None{}
	}
	if match == TagMatchAll {
		return HasAllTags{TagIDs: ids}
	}
	return HasAnyTag{TagIDs: ids}
}

// Visible is the standing filter applied to every search: anonymous profiles
// and profiles without a user type never show up.
func Visible() Predicate {
	return And{
		Equals{Field: FieldIsAnonymous, Value: false},
		Not{P: Blank{Field: FieldUserType}},
	}
}

// MatchCandidates is the fixed predicate of the match engine for profile p:
// someone else, not anonymous, sharing a tag, of a different user type and
// not already connected to p's owner.
func MatchCandidates(p *models.Profile) Predicate {
	tagIDs := p.TagIDs()
	if len(tagIDs) == 0 {
		return None{}
	}
	return AllOf(
		Not{P: Equals{Field: FieldUserID, Value: p.UserID}},
		Equals{Field: FieldIsAnonymous, Value: false},
		HasAnyTag{TagIDs: tagIDs},
		Not{P: Equals{Field: FieldUserType, Value: string(p.UserType)}},
		Not{P: ConnectedTo{UserID: p.UserID}},
	)
}
