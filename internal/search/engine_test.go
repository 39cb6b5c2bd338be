package search_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/search"
	"missionmatch/backend/internal/store/memstore"
)

type fixture struct {
	t      *testing.T
	st     *memstore.Store
	engine *search.Engine
	tags   map[string]uint
	users  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := memstore.New(memstore.WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	return &fixture{
		t:      t,
		st:     st,
		engine: search.NewEngine(st.Profiles(), search.NewTagIndex(st.Tags()), search.EngineConfig{DefaultPageSize: 2, MaxPageSize: 50}),
		tags:   map[string]uint{},
	}
}

func (f *fixture) tag(name string) uint {
	if id, ok := f.tags[name]; ok {
		return id
	}
	tag := &models.Tag{TagName: name}
	require.NoError(f.t, f.st.Tags().CreateTag(context.Background(), tag))
	f.tags[name] = tag.ID
	return tag.ID
}

func (f *fixture) profile(p models.Profile, tags ...string) uint {
	ctx := context.Background()
	f.users++
	u := &models.User{Username: fmt.Sprintf("user%d", f.users), Email: fmt.Sprintf("user%d@example.com", f.users)}
	require.NoError(f.t, f.st.Users().Create(ctx, u))
	p.UserID = u.ID
	require.NoError(f.t, f.st.Profiles().Create(ctx, &p))
	for _, name := range tags {
		adder := u.ID
		require.NoError(f.t, f.st.Taggings().Create(ctx, &models.ProfileTagging{ProfileID: u.ID, TagID: f.tag(name), AddedByID: &adder}))
	}
	return u.ID
}

func ids(ps []models.Profile) []uint {
	out := make([]uint, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.UserID)
	}
	return out
}

func TestMatchScenario(t *testing.T) {
	f := newFixture(t)
	a := f.profile(models.Profile{UserType: models.UserTypeMissionary, FirstName: "A"}, "Teaching")
	b := f.profile(models.Profile{UserType: models.UserTypeSupporter, FirstName: "B"}, "Teaching")
	f.profile(models.Profile{UserType: models.UserTypeMissionary, FirstName: "C"}, "Teaching")
	f.profile(models.Profile{UserType: models.UserTypeSupporter, FirstName: "D"}, "Medical")
	f.profile(models.Profile{UserType: models.UserTypeSupporter, FirstName: "E", IsAnonymous: true}, "Teaching")

	got, err := f.engine.Match(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, []uint{b}, ids(got))
}

func TestMatchExcludesFriends(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.profile(models.Profile{UserType: models.UserTypeMissionary}, "Teaching")
	b := f.profile(models.Profile{UserType: models.UserTypeSupporter}, "Teaching")
	c := f.profile(models.Profile{UserType: models.UserTypeOther}, "Teaching")

	require.NoError(t, f.st.Friendships().Create(ctx, &models.Friendship{SenderID: b, ReceiverID: a, Status: models.StatusAccepted}))

	got, err := f.engine.Match(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []uint{c}, ids(got))
}

func TestMatchWithoutProfileOrTags(t *testing.T) {
	f := newFixture(t)
	untagged := f.profile(models.Profile{UserType: models.UserTypeMissionary})
	f.profile(models.Profile{UserType: models.UserTypeSupporter}, "Teaching")

	got, err := f.engine.Match(context.Background(), untagged)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.engine.Match(context.Background(), 999)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchQueryAcrossFields(t *testing.T) {
	f := newFixture(t)
	david := f.profile(models.Profile{UserType: models.UserTypeMissionary, FirstName: "David", LastName: "Kim"})
	f.profile(models.Profile{UserType: models.UserTypeMissionary, FirstName: "David", LastName: "Lee"})

	page, err := f.engine.Search(context.Background(), search.Request{Filters: search.Filters{Query: "David Kim"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	assert.Equal(t, []uint{david}, ids(page.Results))
}

func TestSearchHidesInvisibleProfiles(t *testing.T) {
	f := newFixture(t)
	visible := f.profile(models.Profile{UserType: models.UserTypeSupporter, FirstName: "Ruth"})
	f.profile(models.Profile{UserType: models.UserTypeSupporter, FirstName: "Ruth", IsAnonymous: true})
	f.profile(models.Profile{FirstName: "Ruth"})

	page, err := f.engine.Search(context.Background(), search.Request{Filters: search.Filters{Query: "ruth"}})
	require.NoError(t, err)
	assert.Equal(t, []uint{visible}, ids(page.Results))
}

func TestSearchTagsAnyAndAll(t *testing.T) {
	f := newFixture(t)
	teach := f.profile(models.Profile{UserType: models.UserTypeMissionary}, "Teaching")
	both := f.profile(models.Profile{UserType: models.UserTypeMissionary}, "Teaching", "Medical")
	f.profile(models.Profile{UserType: models.UserTypeMissionary}, "Agriculture")
	ctx := context.Background()

	page, err := f.engine.Search(ctx, search.Request{
		Filters:  search.Filters{Tags: []string{"teaching", "medical"}},
		Sort:     "name",
		PageSize: "all",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{teach, both}, ids(page.Results))

	page, err = f.engine.Search(ctx, search.Request{
		Filters:  search.Filters{Tags: []string{fmt.Sprint(f.tags["Teaching"]), "Medical"}, TagMatchType: search.TagMatchAll},
		PageSize: "all",
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{both}, ids(page.Results))

	page, err = f.engine.Search(ctx, search.Request{Filters: search.Filters{Tags: []string{"Unknown"}}})
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestSearchPaging(t *testing.T) {
	f := newFixture(t)
	var all []uint
	for i := 0; i < 5; i++ {
		all = append(all, f.profile(models.Profile{UserType: models.UserTypeSupporter}))
	}
	ctx := context.Background()

	// Default sort is newest first.
	page, err := f.engine.Search(ctx, search.Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Count)
	assert.Equal(t, []uint{all[4], all[3]}, ids(page.Results))
	assert.True(t, page.HasNext())
	assert.False(t, page.HasPrevious())

	page, err = f.engine.Search(ctx, search.Request{Page: "3"})
	require.NoError(t, err)
	assert.Equal(t, []uint{all[0]}, ids(page.Results))
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())

	page, err = f.engine.Search(ctx, search.Request{Page: "9"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Count)
	assert.Empty(t, page.Results)

	page, err = f.engine.Search(ctx, search.Request{Page: "1000000000000000000", PageSize: "10"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Count)
	assert.Empty(t, page.Results)
	assert.False(t, page.HasNext())

	page, err = f.engine.Search(ctx, search.Request{PageSize: "all"})
	require.NoError(t, err)
	assert.Len(t, page.Results, int(page.Count))
	assert.False(t, page.HasNext())
}
