package search

import (
	"strings"

	"missionmatch/backend/internal/models"
)

// SortKey is a supported result ordering.
type SortKey string

const (
	SortRecent    SortKey = "recent"
	SortName      SortKey = "name"
	SortLocation  SortKey = "location"
	SortRelevance SortKey = "relevance"
)

// ParseSortKey maps user input to a sort key. Unknown or empty input sorts by
// recency.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortName, SortLocation, SortRelevance:
		return k
	}
	return SortRecent
}

// OrderTerm orders by one field. Text fields compare case-insensitively.
type OrderTerm struct {
	Field Field
	Desc  bool
}

// Order is a total order over profiles. When Relevance is non-empty the
// relevance score for that query is the leading, descending key.
type Order struct {
	Relevance string
	Terms     []OrderTerm
}

var recentTerms = []OrderTerm{
	{Field: FieldCreatedAt, Desc: true},
	{Field: FieldUserID, Desc: true},
}

// OrderFor returns the order for a sort key. Relevance only applies with a
// non-blank query and otherwise degrades to recency.
func OrderFor(key SortKey, query string) Order {
	switch key {
	case SortName:
		return Order{Terms: []OrderTerm{
			{Field: FieldFirstName},
			{Field: FieldLastName},
			{Field: FieldUserID},
		}}
	case SortLocation:
		return Order{Terms: []OrderTerm{
			{Field: FieldCountry},
			{Field: FieldState},
			{Field: FieldCity},
			{Field: FieldUserID},
		}}
	case SortRelevance:
		if q := strings.TrimSpace(query); q != "" {
			return Order{Relevance: q, Terms: recentTerms}
		}
	}
	return Order{Terms: recentTerms}
}

// ByUserID is the stable order used where no ranking applies.
func ByUserID() Order {
	return Order{Terms: []OrderTerm{{Field: FieldUserID}}}
}

// RelevanceScore weighs how well query matches the profile's name: 2 for an
// exact case-insensitive match of first or last name, 1 for a substring match
// of either, 0 otherwise.
func RelevanceScore(query string, p *models.Profile) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}
	first := strings.ToLower(p.FirstName)
	last := strings.ToLower(p.LastName)
	switch {
	case first == q || last == q:
		return 2
	case strings.Contains(first, q) || strings.Contains(last, q):
		return 1
	}
	return 0
}

// Less reports whether a sorts before b.
func (o Order) Less(a, b *models.Profile) bool {
	if o.Relevance != "" {
		sa, sb := RelevanceScore(o.Relevance, a), RelevanceScore(o.Relevance, b)
		if sa != sb {
			return sa > sb
		}
	}
	for _, t := range o.Terms {
		c := compareField(t.Field, a, b)
		if c == 0 {
			continue
		}
		if t.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func compareField(f Field, a, b *models.Profile) int {
	switch f {
	case FieldUserID:
		return compareUint(a.UserID, b.UserID)
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return strings.Compare(strings.ToLower(TextValue(f, a)), strings.ToLower(TextValue(f, b)))
}

func compareUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// TextValue returns the value of a text field of p.
func TextValue(f Field, p *models.Profile) string {
	switch f {
	case FieldUserType:
		return string(p.UserType)
	case FieldFirstName:
		return p.FirstName
	case FieldLastName:
		return p.LastName
	case FieldDescription:
		return p.Description
	case FieldCity:
		return p.City
	case FieldState:
		return p.State
	case FieldCountry:
		return p.Country
	}
	return ""
}
