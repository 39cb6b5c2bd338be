// Package storetest holds the behaviour every store.Store implementation must
// share. Each backend runs it from its own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/search"
	"missionmatch/backend/internal/store"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) store.Store

// Run runs the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s *seed)
	}{
		{"Users", testUsers},
		{"Profiles", testProfiles},
		{"ProfileDeleteCascades", testProfileDeleteCascades},
		{"FindProfiles", testFindProfiles},
		{"Tags", testTags},
		{"Taggings", testTaggings},
		{"Votes", testVotes},
		{"Comments", testComments},
		{"Friendships", testFriendships},
		{"Notifications", testNotifications},
		{"SearchHistory", testSearchHistory},
		{"Media", testMedia},
		{"TransactionRollback", testTransactionRollback},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, &seed{t: t, ctx: context.Background(), st: newStore(t)})
		})
	}
}

type seed struct {
	t   *testing.T
	ctx context.Context
	st  store.Store
	n   int
}

func (s *seed) user() uint {
	s.t.Helper()
	s.n++
	u := &models.User{
		Username:     fmt.Sprintf("user%d", s.n),
		Email:        fmt.Sprintf("user%d@example.com", s.n),
		PasswordHash: "x",
	}
	require.NoError(s.t, s.st.Users().Create(s.ctx, u))
	return u.ID
}

func (s *seed) profile(p models.Profile) uint {
	s.t.Helper()
	p.UserID = s.user()
	require.NoError(s.t, s.st.Profiles().Create(s.ctx, &p))
	return p.UserID
}

func (s *seed) tag(name string) uint {
	s.t.Helper()
	tag := &models.Tag{TagName: name}
	require.NoError(s.t, s.st.Tags().CreateTag(s.ctx, tag))
	return tag.ID
}

func (s *seed) tagging(profileID, tagID, adder uint) *models.ProfileTagging {
	s.t.Helper()
	t := &models.ProfileTagging{ProfileID: profileID, TagID: tagID, AddedByID: &adder}
	require.NoError(s.t, s.st.Taggings().Create(s.ctx, t))
	return t
}

func ids(ps []models.Profile) []uint {
	out := make([]uint, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.UserID)
	}
	return out
}

func testUsers(t *testing.T, s *seed) {
	id := s.user()
	u, err := s.st.Users().Get(s.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "user1", u.Username)
	assert.Equal(t, models.RoleUser, u.Role)

	err = s.st.Users().Create(s.ctx, &models.User{Username: "user1", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	found, err := s.st.Users().FindByUsernameOrEmail(s.ctx, "nobody", "user1@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = s.st.Users().FindByUsernameOrEmail(s.ctx, "nobody", "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.st.Users().Get(s.ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testProfiles(t *testing.T, s *seed) {
	err := s.st.Profiles().Create(s.ctx, &models.Profile{UserID: 999})
	assert.ErrorIs(t, err, store.ErrNotFound)

	id := s.profile(models.Profile{
		UserType:    models.UserTypeSupporter,
		FirstName:   "Ruth",
		City:        "Lima",
		Description: "hidden",
		IsAnonymous: true,
	})
	err = s.st.Profiles().Create(s.ctx, &models.Profile{UserID: id})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	p, err := s.st.Profiles().Get(s.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "user1", p.User.Username)
	assert.Equal(t, "Ruth", p.FirstName)
	assert.Equal(t, models.UserTypeUnset, p.UserType)
	assert.Empty(t, p.City)
	assert.Empty(t, p.Description)

	created := p.CreatedAt
	p.IsAnonymous = false
	p.UserType = models.UserTypeMissionary
	p.Country = "Peru"
	require.NoError(t, s.st.Profiles().Update(s.ctx, p))

	p, err = s.st.Profiles().Get(s.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeMissionary, p.UserType)
	assert.Equal(t, "Peru", p.Country)
	assert.True(t, created.Equal(p.CreatedAt), "created_at must not change")

	err = s.st.Profiles().Update(s.ctx, &models.Profile{UserID: 999})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testProfileDeleteCascades(t *testing.T, s *seed) {
	owner := s.profile(models.Profile{UserType: models.UserTypeMissionary})
	voter := s.profile(models.Profile{UserType: models.UserTypeSupporter})
	tag := s.tag("Teaching")
	s.tagging(owner, tag, voter)
	require.NoError(t, s.st.Votes().Upsert(s.ctx, &models.ProfileVote{VoterID: voter, ProfileID: owner, IsUpvote: true}))
	require.NoError(t, s.st.Comments().Create(s.ctx, &models.ProfileComment{CommenterID: voter, ProfileID: owner, Comment: "hi"}))

	require.NoError(t, s.st.Profiles().Delete(s.ctx, owner))

	_, err := s.st.Profiles().Get(s.ctx, owner)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.st.Users().Get(s.ctx, owner)
	assert.NoError(t, err)

	taggings, err := s.st.Taggings().ListForProfile(s.ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, taggings)
	_, err = s.st.Votes().Get(s.ctx, voter, owner)
	assert.ErrorIs(t, err, store.ErrNotFound)
	comments, err := s.st.Comments().ListForProfile(s.ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = s.st.Tags().Get(s.ctx, tag)
	assert.NoError(t, err)

	assert.ErrorIs(t, s.st.Profiles().Delete(s.ctx, owner), store.ErrNotFound)
}

func testFindProfiles(t *testing.T, s *seed) {
	david := s.profile(models.Profile{UserType: models.UserTypeMissionary, FirstName: "David", LastName: "Kim", Country: "Korea"})
	davidLee := s.profile(models.Profile{UserType: models.UserTypeSupporter, FirstName: "david", LastName: "Lee", Country: "Peru"})
	kimberly := s.profile(models.Profile{UserType: models.UserTypeSupporter, FirstName: "Kimberly", LastName: "Ortiz", City: "Cusco", Country: "Peru"})
	anon := s.profile(models.Profile{FirstName: "Kim", IsAnonymous: true})

	teaching := s.tag("Teaching")
	medical := s.tag("Medical")
	s.tagging(david, teaching, david)
	s.tagging(davidLee, teaching, david)
	s.tagging(davidLee, medical, davidLee)

	find := func(q search.ProfileQuery) []uint {
		t.Helper()
		ps, err := s.st.Profiles().FindProfiles(s.ctx, q)
		require.NoError(t, err)
		return ids(ps)
	}
	count := func(where search.Predicate) int64 {
		t.Helper()
		n, err := s.st.Profiles().CountProfiles(s.ctx, where)
		require.NoError(t, err)
		return n
	}

	byID := search.ByUserID()

	query := search.TermsPredicate("DAVID kim", []search.Field{search.FieldFirstName, search.FieldLastName})
	assert.Equal(t, []uint{david}, find(search.ProfileQuery{Where: query, Order: byID}))
	assert.Equal(t, int64(1), count(query))

	assert.Equal(t, []uint{david, davidLee, kimberly}, find(search.ProfileQuery{Where: search.Visible(), Order: byID}))
	assert.Equal(t, int64(3), count(search.Visible()))

	anyTag := search.HasAnyTag{TagIDs: []uint{teaching, medical}}
	assert.Equal(t, []uint{david, davidLee}, find(search.ProfileQuery{Where: anyTag, Order: byID}))
	allTags := search.HasAllTags{TagIDs: []uint{teaching, medical}}
	assert.Equal(t, []uint{davidLee}, find(search.ProfileQuery{Where: allTags, Order: byID}))

	blank := search.Blank{Field: search.FieldUserType}
	assert.Equal(t, []uint{anon}, find(search.ProfileQuery{Where: blank, Order: byID}))

	userType := search.Equals{Field: search.FieldUserType, Value: "supporter"}
	assert.Equal(t, []uint{davidLee, kimberly}, find(search.ProfileQuery{Where: userType, Order: byID}))

	// Exact first-name matches of "kim" rank above substring matches.
	relevance := search.OrderFor(search.SortRelevance, "kim")
	got := find(search.ProfileQuery{Where: search.All{}, Order: relevance})
	require.Len(t, got, 4)
	assert.ElementsMatch(t, []uint{david, anon}, got[:2])
	assert.Equal(t, kimberly, got[2])
	assert.Equal(t, davidLee, got[3])

	name := search.OrderFor(search.SortName, "")
	assert.Equal(t, []uint{david, davidLee, kimberly}, find(search.ProfileQuery{Where: search.Visible(), Order: name}))

	location := search.OrderFor(search.SortLocation, "")
	assert.Equal(t, []uint{david, davidLee, kimberly}, find(search.ProfileQuery{Where: search.Visible(), Order: location}))

	assert.Equal(t, []uint{davidLee}, find(search.ProfileQuery{Where: search.Visible(), Order: byID, Offset: 1, Limit: 1}))
	assert.Empty(t, find(search.ProfileQuery{Where: search.Visible(), Order: byID, Offset: 10}))

	require.NoError(t, s.st.Friendships().Create(s.ctx, &models.Friendship{SenderID: kimberly, ReceiverID: david, Status: models.StatusAccepted}))
	require.NoError(t, s.st.Friendships().Create(s.ctx, &models.Friendship{SenderID: david, ReceiverID: davidLee, Status: models.StatusPending}))
	connected := search.ConnectedTo{UserID: david}
	assert.Equal(t, []uint{kimberly}, find(search.ProfileQuery{Where: connected, Order: byID}))

	ps, err := s.st.Profiles().FindProfiles(s.ctx, search.ProfileQuery{Where: search.Equals{Field: search.FieldUserID, Value: davidLee}})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Len(t, ps[0].Taggings, 2)
	assert.Equal(t, "Teaching", ps[0].Taggings[0].Tag.TagName)
	assert.Equal(t, "user2", ps[0].User.Username)
}

func testTags(t *testing.T, s *seed) {
	first := s.tag("teaching")
	s.tag("Medical")
	dup := s.tag("Teaching")

	tags, err := s.st.Tags().TagsByNames(s.ctx, []string{"TEACHING"})
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	tags, err = s.st.Tags().TagsByIDs(s.ctx, []uint{dup, 999})
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Teaching", tags[0].TagName)

	list, err := s.st.Tags().List(s.ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Medical", list[0].TagName)
	assert.Equal(t, first, list[1].ID)
	assert.False(t, list[0].TagIsPredefined)

	tag, err := s.st.Tags().Get(s.ctx, first)
	require.NoError(t, err)
	tag.TagDescription = "classrooms"
	require.NoError(t, s.st.Tags().Update(s.ctx, tag))
	tag, err = s.st.Tags().Get(s.ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "classrooms", tag.TagDescription)

	profile := s.profile(models.Profile{UserType: models.UserTypeMissionary})
	s.tagging(profile, first, profile)
	require.NoError(t, s.st.Tags().Delete(s.ctx, first))
	taggings, err := s.st.Taggings().ListForProfile(s.ctx, profile)
	require.NoError(t, err)
	assert.Empty(t, taggings)

	assert.ErrorIs(t, s.st.Tags().Delete(s.ctx, first), store.ErrNotFound)
	assert.ErrorIs(t, s.st.Tags().Update(s.ctx, &models.Tag{ID: 999, TagName: "x"}), store.ErrNotFound)
}

func testTaggings(t *testing.T, s *seed) {
	owner := s.profile(models.Profile{UserType: models.UserTypeMissionary})
	other := s.user()
	tag := s.tag("Teaching")

	self := s.tagging(owner, tag, owner)
	assert.True(t, self.IsSelfAdded)
	assert.Equal(t, "Teaching", self.Tag.TagName)
	assert.False(t, self.AddedAt.IsZero())

	adder := owner
	err := s.st.Taggings().Create(s.ctx, &models.ProfileTagging{ProfileID: owner, TagID: tag, AddedByID: &adder})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	byOther := s.tagging(owner, tag, other)
	assert.False(t, byOther.IsSelfAdded)

	found, err := s.st.Taggings().Find(s.ctx, owner, tag)
	require.NoError(t, err)
	assert.Equal(t, self.ID, found.ID)

	err = s.st.Taggings().Create(s.ctx, &models.ProfileTagging{ProfileID: owner, TagID: 999, AddedByID: &adder})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.st.Taggings().Delete(s.ctx, self.ID))
	assert.ErrorIs(t, s.st.Taggings().Delete(s.ctx, self.ID), store.ErrNotFound)

	list, err := s.st.Taggings().ListForProfile(s.ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, byOther.ID, list[0].ID)
}

func testVotes(t *testing.T, s *seed) {
	target := s.profile(models.Profile{UserType: models.UserTypeMissionary})
	other := s.profile(models.Profile{UserType: models.UserTypeMissionary})
	a, b := s.user(), s.user()

	v := &models.ProfileVote{VoterID: a, ProfileID: target, IsUpvote: true}
	require.NoError(t, s.st.Votes().Upsert(s.ctx, v))
	firstID := v.ID

	v = &models.ProfileVote{VoterID: a, ProfileID: target, IsUpvote: false}
	require.NoError(t, s.st.Votes().Upsert(s.ctx, v))
	assert.Equal(t, firstID, v.ID)
	assert.False(t, v.IsUpvote)

	require.NoError(t, s.st.Votes().Upsert(s.ctx, &models.ProfileVote{VoterID: b, ProfileID: target, IsUpvote: false}))
	require.NoError(t, s.st.Votes().Upsert(s.ctx, &models.ProfileVote{VoterID: b, ProfileID: other, IsUpvote: true}))

	tally, err := s.st.Votes().Tally(s.ctx, []uint{target, other, 999})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{target: -2, other: 1}, tally)

	mine, err := s.st.Votes().ByVoter(s.ctx, b, []uint{target, other})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.True(t, mine[other].IsUpvote)

	err = s.st.Votes().Upsert(s.ctx, &models.ProfileVote{VoterID: a, ProfileID: 999, IsUpvote: true})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.st.Votes().Delete(s.ctx, a, target))
	assert.ErrorIs(t, s.st.Votes().Delete(s.ctx, a, target), store.ErrNotFound)
}

func testComments(t *testing.T, s *seed) {
	target := s.profile(models.Profile{UserType: models.UserTypeMissionary})
	a, b := s.user(), s.user()

	first := &models.ProfileComment{CommenterID: a, ProfileID: target, Comment: "first"}
	require.NoError(t, s.st.Comments().Create(s.ctx, first))
	require.NoError(t, s.st.Comments().Create(s.ctx, &models.ProfileComment{CommenterID: b, ProfileID: target, Comment: "second"}))

	err := s.st.Comments().Create(s.ctx, &models.ProfileComment{CommenterID: a, ProfileID: target, Comment: "again"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	list, err := s.st.Comments().ListForProfile(s.ctx, target)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Comment)
	assert.Equal(t, "user2", list[0].Commenter.Username)

	first.Comment = "edited"
	require.NoError(t, s.st.Comments().Update(s.ctx, first))
	got, err := s.st.Comments().Get(s.ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Comment)

	require.NoError(t, s.st.Comments().Delete(s.ctx, first.ID))
	_, err = s.st.Comments().Get(s.ctx, first.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testFriendships(t *testing.T, s *seed) {
	a, b, c := s.user(), s.user(), s.user()

	ab := &models.Friendship{SenderID: a, ReceiverID: b}
	require.NoError(t, s.st.Friendships().Create(s.ctx, ab))
	assert.Equal(t, models.StatusPending, ab.Status)
	ca := &models.Friendship{SenderID: c, ReceiverID: a, Status: models.StatusPending}
	require.NoError(t, s.st.Friendships().Create(s.ctx, ca))

	assert.ErrorIs(t, s.st.Friendships().Create(s.ctx, &models.Friendship{SenderID: a, ReceiverID: 999}), store.ErrNotFound)

	between, err := s.st.Friendships().Between(s.ctx, b, a)
	require.NoError(t, err)
	require.Len(t, between, 1)
	assert.Equal(t, ab.ID, between[0].ID)

	got, err := s.st.Friendships().Get(s.ctx, ab.ID)
	require.NoError(t, err)
	assert.Equal(t, "user1", got.Sender.Username)
	assert.Equal(t, "user2", got.Receiver.Username)

	require.NoError(t, s.st.Friendships().UpdateStatus(s.ctx, ab.ID, models.StatusAccepted))
	assert.ErrorIs(t, s.st.Friendships().UpdateStatus(s.ctx, 999, models.StatusAccepted), store.ErrNotFound)

	all, err := s.st.Friendships().List(s.ctx, store.FriendshipFilter{UserID: a})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, ca.ID, all[0].ID, "newest first")

	incoming, err := s.st.Friendships().List(s.ctx, store.FriendshipFilter{UserID: a, Direction: store.DirectionIncoming})
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, c, incoming[0].SenderID)

	accepted, err := s.st.Friendships().List(s.ctx, store.FriendshipFilter{UserID: a, Status: models.StatusAccepted})
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, ab.ID, accepted[0].ID)

	// At most one pending or accepted friendship per pair, in either direction.
	assert.ErrorIs(t, s.st.Friendships().Create(s.ctx, &models.Friendship{SenderID: b, ReceiverID: a}), store.ErrDuplicate)
	assert.ErrorIs(t, s.st.Friendships().Create(s.ctx, &models.Friendship{SenderID: a, ReceiverID: c}), store.ErrDuplicate)
	require.NoError(t, s.st.Friendships().UpdateStatus(s.ctx, ca.ID, models.StatusRejected))
	require.NoError(t, s.st.Friendships().Create(s.ctx, &models.Friendship{SenderID: a, ReceiverID: c}))
	require.NoError(t, s.st.Friendships().Create(s.ctx, &models.Friendship{SenderID: b, ReceiverID: c, Status: models.StatusRejected}))
}

func testNotifications(t *testing.T, s *seed) {
	a, b := s.user(), s.user()
	related := uint(5)

	first := &models.Notification{RecipientID: a, NotificationType: models.NotificationFriendRequest, Message: "one", RelatedObjectID: &related}
	require.NoError(t, s.st.Notifications().Create(s.ctx, first))
	require.NoError(t, s.st.Notifications().Create(s.ctx, &models.Notification{RecipientID: a, NotificationType: models.NotificationGeneral, Message: "two"}))
	require.NoError(t, s.st.Notifications().Create(s.ctx, &models.Notification{RecipientID: b, NotificationType: models.NotificationGeneral, Message: "other"}))

	list, err := s.st.Notifications().List(s.ctx, a, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "two", list[0].Message)
	assert.False(t, list[1].CreatedAt.IsZero())

	require.NoError(t, s.st.Notifications().SetRead(s.ctx, first.ID, true))
	unread, err := s.st.Notifications().CountUnread(s.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	unreadList, err := s.st.Notifications().List(s.ctx, a, true)
	require.NoError(t, err)
	require.Len(t, unreadList, 1)
	assert.Equal(t, "two", unreadList[0].Message)

	n, err := s.st.Notifications().MarkAllRead(s.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.st.Notifications().Get(s.ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	require.NotNil(t, got.RelatedObjectID)
	assert.Equal(t, related, *got.RelatedObjectID)

	require.NoError(t, s.st.Notifications().Delete(s.ctx, first.ID))
	assert.ErrorIs(t, s.st.Notifications().Delete(s.ctx, first.ID), store.ErrNotFound)
	assert.ErrorIs(t, s.st.Notifications().SetRead(s.ctx, first.ID, true), store.ErrNotFound)
}

func testSearchHistory(t *testing.T, s *seed) {
	a, b := s.user(), s.user()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.st.SearchHistory().Append(s.ctx, &models.SearchHistory{UserID: a, SearchText: fmt.Sprint("q", i)}))
	}
	require.NoError(t, s.st.SearchHistory().Append(s.ctx, &models.SearchHistory{UserID: b, SearchText: "b"}))

	list, err := s.st.SearchHistory().List(s.ctx, a, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "q2", list[0].SearchText)
	assert.Equal(t, "q1", list[1].SearchText)

	n, err := s.st.SearchHistory().Clear(s.ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	list, err = s.st.SearchHistory().List(s.ctx, b, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testMedia(t *testing.T, s *seed) {
	a := s.user()
	m := &models.ExternalMedia{UserID: a, MediaURL: "https://example.com/a", Description: "talk"}
	require.NoError(t, s.st.Media().Create(s.ctx, m))
	assert.False(t, m.UploadedAt.IsZero())

	assert.ErrorIs(t, s.st.Media().Create(s.ctx, &models.ExternalMedia{UserID: 999, MediaURL: "https://example.com/b"}), store.ErrNotFound)

	list, err := s.st.Media().List(s.ctx, a)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "talk", list[0].Description)

	require.NoError(t, s.st.Media().Delete(s.ctx, m.ID))
	_, err = s.st.Media().Get(s.ctx, m.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testTransactionRollback(t *testing.T, s *seed) {
	boom := errors.New("boom")
	err := s.st.Transaction(s.ctx, func(tx store.Store) error {
		u := &models.User{Username: "ghost", Email: "ghost@example.com", PasswordHash: "x"}
		if err := tx.Users().Create(s.ctx, u); err != nil {
			return err
		}
		if err := tx.Profiles().Create(s.ctx, &models.Profile{UserID: u.ID}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.st.Users().FindByUsernameOrEmail(s.ctx, "ghost", "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	var id uint
	err = s.st.Transaction(s.ctx, func(tx store.Store) error {
		u := &models.User{Username: "real", Email: "real@example.com", PasswordHash: "x"}
		if err := tx.Users().Create(s.ctx, u); err != nil {
			return err
		}
		id = u.ID
		return tx.Profiles().Create(s.ctx, &models.Profile{UserID: u.ID, FirstName: "Real", CreatedAt: time.Now()})
	})
	require.NoError(t, err)
	p, err := s.st.Profiles().Get(s.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Real", p.FirstName)
}
