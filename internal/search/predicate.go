// Package search composes profile filters, orders and pages independently of
// the store that executes them. Stores either translate a Predicate into their
// own query language or evaluate it directly with Eval.
package search

// Field names a profile attribute a predicate or an order term can refer to.
type Field string

const (
	FieldUserID      Field = "user_id"
	FieldUserType    Field = "user_type"
	FieldFirstName   Field = "first_name"
	FieldLastName    Field = "last_name"
	FieldDescription Field = "description"
	FieldCity        Field = "city"
	FieldState       Field = "state"
	FieldCountry     Field = "country"
	FieldIsAnonymous Field = "is_anonymous"
	FieldCreatedAt   Field = "created_at"
)

// Predicate is a node of a boolean expression over profiles.
type Predicate interface {
	isPredicate()
}

// All matches every profile.
type All struct{}

// None matches no profile.
type None struct{}

// And matches when every child matches. An empty And matches everything.
type And []Predicate

// Or matches when at least one child matches. An empty Or matches nothing.
type Or []Predicate

// Not negates its operand.
type Not struct {
	P Predicate
}

// Contains is a case-insensitive substring test on a text field.
type Contains struct {
	Field Field
	Value string
}

// Equals is an exact comparison. Value is a string for text fields, bool for
// FieldIsAnonymous and uint for FieldUserID.
type Equals struct {
	Field Field
	Value any
}

// Blank matches profiles whose text field is empty.
type Blank struct {
	Field Field
}

// HasAnyTag matches profiles carrying at least one of the tags.
type HasAnyTag struct {
	TagIDs []uint
}

// HasAllTags matches profiles carrying every one of the tags.
type HasAllTags struct {
	TagIDs []uint
}

// ConnectedTo matches profiles whose owner has an accepted friendship with
// UserID in either direction.
type ConnectedTo struct {
	UserID uint
}

func (All) isPredicate()         {}
func (None) isPredicate()        {}
func (And) isPredicate()         {}
func (Or) isPredicate()          {}
func (Not) isPredicate()         {}
func (Contains) isPredicate()    {}
func (Equals) isPredicate()      {}
func (Blank) isPredicate()       {}
func (HasAnyTag) isPredicate()   {}
func (HasAllTags) isPredicate()  {}
func (ConnectedTo) isPredicate() {}

// AllOf conjoins predicates, dropping All operands and flattening nested Ands.
// It returns All for no operands and None as soon as one operand is None.
func AllOf(ps ...Predicate) Predicate {
	var out And
	for _, p := range ps {
		switch v := p.(type) {
		case nil, All:
			continue
		case None:
			return None{}
		case And:
			flat := AllOf(v...)
			switch f := flat.(type) {
			case All:
			case None:
				return None{}
			case And:
				out = append(out, f...)
			default:
				out = append(out, f)
			}
		default:
			out = append(out, v)
		}
	}
	switch len(out) {
	case 0:
		return All{}
	case 1:
		return out[0]
	}
	return out
}

// AnyOf disjoins predicates, dropping None operands. It returns None for no
// operands and All as soon as one operand is All.
func AnyOf(ps ...Predicate) Predicate {
	var out Or
	for _, p := range ps {
		switch v := p.(type) {
		case nil, None:
			continue
		case All:
			return All{}
		default:
			out = append(out, v)
		}
	}
	switch len(out) {
	case 0:
		return None{}
	case 1:
		return out[0]
	}
	return out
}

// Record is the view of a profile that Eval needs.
type Record interface {
	Value(f Field) any
	HasTag(id uint) bool
	ConnectedTo(userID uint) bool
}

// Eval evaluates p against a single record.
func Eval(p Predicate, r Record) bool {
	switch v := p.(type) {
	case nil, All:
		return true
	case None:
		return false
	case And:
		for _, c := range v {
			if !Eval(c, r) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range v {
			if Eval(c, r) {
				return true
			}
		}
		return false
	case Not:
		return !Eval(v.P, r)
	case Contains:
		s, _ := r.Value(v.Field).(string)
		return containsFold(s, v.Value)
	case Equals:
		return r.Value(v.Field) == v.Value
	case Blank:
		s, _ := r.Value(v.Field).(string)
		return s == ""
	case HasAnyTag:
		for _, id := range v.TagIDs {
			if r.HasTag(id) {
				return true
			}
		}
		return false
	case HasAllTags:
		for _, id := range v.TagIDs {
			if !r.HasTag(id) {
				return false
			}
		}
		return true
	case ConnectedTo:
		return r.ConnectedTo(v.UserID)
	}
	return false
}
