package gormstore

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/search"
)

var columns = map[search.Field]string{
	search.FieldUserID:      "profiles.user_id",
	search.FieldUserType:    "profiles.user_type",
	search.FieldFirstName:   "profiles.first_name",
	search.FieldLastName:    "profiles.last_name",
	search.FieldDescription: "profiles.description",
	search.FieldCity:        "profiles.city",
	search.FieldState:       "profiles.state",
	search.FieldCountry:     "profiles.country",
	search.FieldIsAnonymous: "profiles.is_anonymous",
	search.FieldCreatedAt:   "profiles.created_at",
}

const connectedSQL = "EXISTS (SELECT 1 FROM friendships f WHERE f.status = ? AND " +
	"((f.sender_id = ? AND f.receiver_id = profiles.user_id) OR (f.receiver_id = ? AND f.sender_id = profiles.user_id)))"

func column(f search.Field) (string, error) {
	col, ok := columns[f]
	if !ok {
		return "", fmt.Errorf("unknown profile field %q", f)
	}
	return col, nil
}

// whereSQL renders a predicate as a boolean SQL expression over the profiles
// table with positional placeholders.
func whereSQL(p search.Predicate) (string, []any, error) {
	switch v := p.(type) {
	case nil, search.All:
		return "TRUE", nil, nil
	case search.None:
		return "FALSE", nil, nil
	case search.And:
		return joinSQL([]search.Predicate(v), " AND ", "TRUE")
	case search.Or:
		return joinSQL([]search.Predicate(v), " OR ", "FALSE")
	case search.Not:
		sql, args, err := whereSQL(v.P)
		if err != nil {
			return "", nil, err
		}
		return "NOT (" + sql + ")", args, nil
	case search.Contains:
		col, err := column(v.Field)
		if err != nil {
			return "", nil, err
		}
		return col + " ILIKE ?", []any{"%" + escapeLike(v.Value) + "%"}, nil
	case search.Equals:
		col, err := column(v.Field)
		if err != nil {
			return "", nil, err
		}
		return col + " = ?", []any{v.Value}, nil
	case search.Blank:
		col, err := column(v.Field)
		if err != nil {
			return "", nil, err
		}
		return "COALESCE(" + col + ", '') = ''", nil, nil
	case search.HasAnyTag:
		if len(v.TagIDs) == 0 {
			return "FALSE", nil, nil
		}
		return "EXISTS (SELECT 1 FROM profile_taggings pt WHERE pt.profile_id = profiles.user_id AND pt.tag_id IN ?)",
			[]any{v.TagIDs}, nil
	case search.HasAllTags:
		ids := distinct(v.TagIDs)
		if len(ids) == 0 {
			return "TRUE", nil, nil
		}
		return "(SELECT COUNT(DISTINCT pt.tag_id) FROM profile_taggings pt WHERE pt.profile_id = profiles.user_id AND pt.tag_id IN ?) = ?",
			[]any{ids, len(ids)}, nil
	case search.ConnectedTo:
		return connectedSQL, []any{string(models.StatusAccepted), v.UserID, v.UserID}, nil
	}
	return "", nil, fmt.Errorf("unsupported predicate %T", p)
}

func joinSQL(children []search.Predicate, sep, empty string) (string, []any, error) {
	if len(children) == 0 {
		return empty, nil, nil
	}
	parts := make([]string, 0, len(children))
	var args []any
	for _, c := range children {
		sql, a, err := whereSQL(c)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		args = append(args, a...)
	}
	return strings.Join(parts, sep), args, nil
}

// orderBy renders an order as one ORDER BY expression. Text columns are
// lower-cased and compared bytewise so postgres sorts like the in-memory store.
func orderBy(o search.Order) (clause.OrderBy, error) {
	var parts []string
	var args []any

	if q := strings.ToLower(strings.TrimSpace(o.Relevance)); q != "" {
		like := "%" + escapeLike(q) + "%"
		parts = append(parts, "CASE WHEN LOWER(profiles.first_name) = ? OR LOWER(profiles.last_name) = ? THEN 2 "+
			"WHEN LOWER(profiles.first_name) LIKE ? OR LOWER(profiles.last_name) LIKE ? THEN 1 ELSE 0 END DESC")
		args = append(args, q, q, like, like)
	}

	for _, t := range o.Terms {
		col, err := column(t.Field)
		if err != nil {
			return clause.OrderBy{}, err
		}
		switch t.Field {
		case search.FieldUserID, search.FieldCreatedAt, search.FieldIsAnonymous:
		default:
			col = "LOWER(" + col + `) COLLATE "C"`
		}
		if t.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}

	if len(parts) == 0 {
		return clause.OrderBy{}, nil
	}
	return clause.OrderBy{Expression: clause.Expr{SQL: strings.Join(parts, ", "), Vars: args, WithoutParentheses: true}}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func distinct(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
