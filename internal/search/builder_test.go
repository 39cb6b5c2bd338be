package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionmatch/backend/internal/models"
)

type fakeResolver map[string]uint

func (f fakeResolver) Resolve(_ context.Context, refs []string) ([]uint, bool, error) {
	parts := splitTagRefs(refs)
	if len(parts) == 0 {
		return nil, false, nil
	}
	var ids []uint
	for _, p := range parts {
		if id, ok := f[p]; ok {
			ids = append(ids, id)
		}
	}
	return ids, true, nil
}

func profileRecordOf(p models.Profile, tags ...uint) fakeRecord {
	set := make(map[uint]bool, len(tags))
	for _, id := range tags {
		set[id] = true
	}
	values := map[Field]any{
		FieldUserID:      p.UserID,
		FieldIsAnonymous: p.IsAnonymous,
	}
	for _, f := range []Field{FieldUserType, FieldFirstName, FieldLastName, FieldDescription, FieldCity, FieldState, FieldCountry} {
		values[f] = TextValue(f, &p)
	}
	return fakeRecord{values: values, tags: set}
}

func TestBuildQueryTermsSpanFields(t *testing.T) {
	b := NewBuilder(fakeResolver{})
	p, err := b.Build(context.Background(), Filters{Query: "David Kim"})
	require.NoError(t, err)

	david := profileRecordOf(models.Profile{UserID: 1, FirstName: "David", LastName: "Kim"})
	davidLee := profileRecordOf(models.Profile{UserID: 2, FirstName: "David", LastName: "Lee"})
	kimberley := profileRecordOf(models.Profile{UserID: 3, FirstName: "Ana", City: "Kimberley", Description: "works with david"})

	assert.True(t, Eval(p, david))
	assert.False(t, Eval(p, davidLee))
	assert.True(t, Eval(p, kimberley))
}

func TestBuildLocationOnlyMatchesLocationFields(t *testing.T) {
	b := NewBuilder(fakeResolver{})
	p, err := b.Build(context.Background(), Filters{Location: "lima peru"})
	require.NoError(t, err)

	assert.True(t, Eval(p, profileRecordOf(models.Profile{City: "Lima", Country: "Peru"})))
	assert.False(t, Eval(p, profileRecordOf(models.Profile{FirstName: "Lima", Country: "Peru"})))
}

func TestBuildEmptyFiltersMatchEverything(t *testing.T) {
	b := NewBuilder(fakeResolver{})
	p, err := b.Build(context.Background(), Filters{Query: "   ", Tags: []string{" , "}})
	require.NoError(t, err)
	assert.Equal(t, All{}, p)
}

func TestBuildUserTypeIsExact(t *testing.T) {
	b := NewBuilder(fakeResolver{})
	p, err := b.Build(context.Background(), Filters{UserType: "supporter"})
	require.NoError(t, err)
	assert.Equal(t, Equals{Field: FieldUserType, Value: "supporter"}, p)
}

func TestBuildTags(t *testing.T) {
	b := NewBuilder(fakeResolver{"Teaching": 1, "Medical": 2})
	ctx := context.Background()
	tagged := profileRecordOf(models.Profile{UserID: 1}, 1)
	both := profileRecordOf(models.Profile{UserID: 2}, 1, 2)

	anyTag, err := b.Build(ctx, Filters{Tags: []string{"Teaching,Medical"}})
	require.NoError(t, err)
	assert.True(t, Eval(anyTag, tagged))
	assert.True(t, Eval(anyTag, both))

	allTags, err := b.Build(ctx, Filters{Tags: []string{"Teaching", "Medical"}, TagMatchType: TagMatchAll})
	require.NoError(t, err)
	assert.False(t, Eval(allTags, tagged))
	assert.True(t, Eval(allTags, both))

	unknown, err := b.Build(ctx, Filters{Tags: []string{"Nope"}})
	require.NoError(t, err)
	assert.Equal(t, None{}, unknown)
}

func TestParseTagMatchType(t *testing.T) {
	assert.Equal(t, TagMatchAll, ParseTagMatchType(" ALL "))
	assert.Equal(t, TagMatchAny, ParseTagMatchType("any"))
	assert.Equal(t, TagMatchAny, ParseTagMatchType("bogus"))
	assert.Equal(t, TagMatchAny, ParseTagMatchType(""))
}

func TestFiltersIsEmpty(t *testing.T) {
	assert.True(t, Filters{}.IsEmpty())
	assert.True(t, Filters{Tags: []string{""}, TagMatchType: TagMatchAll}.IsEmpty())
	assert.False(t, Filters{Location: "Lima"}.IsEmpty())
}

func TestMatchCandidates(t *testing.T) {
	own := &models.Profile{
		UserID:   1,
		UserType: models.UserTypeMissionary,
		Taggings: []models.ProfileTagging{{TagID: 5}, {TagID: 5}},
	}
	p := MatchCandidates(own)

	supporter := profileRecordOf(models.Profile{UserID: 2, UserType: models.UserTypeSupporter}, 5)
	assert.True(t, Eval(p, supporter))

	sameType := profileRecordOf(models.Profile{UserID: 3, UserType: models.UserTypeMissionary}, 5)
	assert.False(t, Eval(p, sameType))

	self := profileRecordOf(models.Profile{UserID: 1, UserType: models.UserTypeSupporter}, 5)
	assert.False(t, Eval(p, self))

	friend := profileRecordOf(models.Profile{UserID: 4, UserType: models.UserTypeSupporter}, 5)
	friend.connected = map[uint]bool{1: true}
	assert.False(t, Eval(p, friend))

	assert.Equal(t, None{}, MatchCandidates(&models.Profile{UserID: 1}))
}
