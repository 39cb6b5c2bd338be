package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/hub"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store/memstore"
)

type published struct {
	userID uint
	event  hub.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(userID uint, event hub.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{userID: userID, event: event})
}

func (p *recordingPublisher) For(userID uint) []hub.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []hub.Event
	for _, e := range p.events {
		if e.userID == userID {
			out = append(out, e.event)
		}
	}
	return out
}

type testEnv struct {
	t   *testing.T
	ctx context.Context
	st  *memstore.Store
	pub *recordingPublisher
	svc *Services
	n   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := memstore.New()
	pub := &recordingPublisher{}
	return &testEnv{
		t:   t,
		ctx: context.Background(),
		st:  st,
		pub: pub,
		svc: New(st, pub, Config{DefaultPageSize: 10, MaxPageSize: 100}),
	}
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) signup(userType string) uint {
	e.t.Helper()
	e.n++
	p, err := e.svc.Profiles.Signup(e.ctx, SignupInput{
		Username: fmt.Sprintf("user%d", e.n),
		Email:    fmt.Sprintf("user%d@example.com", e.n),
		Password: "secret123",
		Profile: ProfileInput{
			UserType:  ptr(userType),
			FirstName: ptr(fmt.Sprintf("First%d", e.n)),
		},
	})
	require.NoError(e.t, err)
	return p.UserID
}

func assertCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, code), "want %s, got %v", code, err)
}

func tagNames(p *models.Profile) []string {
	var out []string
	for _, t := range p.Taggings {
		out = append(out, t.Tag.TagName)
	}
	return out
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)
	id := env.signup("Missionary")

	p, err := env.svc.Profiles.Get(env.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeMissionary, p.UserType)
	assert.Equal(t, "user1", p.User.Username)
	assert.NotEqual(t, "secret123", p.User.PasswordHash)

	_, err = env.svc.Profiles.Signup(env.ctx, SignupInput{Username: "user1", Email: "new@example.com", Password: "x"})
	assertCode(t, err, apperrors.CodeConflict)

	_, err = env.svc.Profiles.Signup(env.ctx, SignupInput{Username: "x", Email: "x@example.com", Password: "x",
		Profile: ProfileInput{UserType: ptr("pastor")}})
	assertCode(t, err, apperrors.CodeValidation)

	_, err = env.svc.Profiles.Signup(env.ctx, SignupInput{Username: "y"})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestUpdateAnonymousProfileClearsIdentity(t *testing.T) {
	env := newTestEnv(t)
	id := env.signup("supporter")

	p, err := env.svc.Profiles.Update(env.ctx, id, ProfileInput{City: ptr("Lima"), Description: ptr("hello")})
	require.NoError(t, err)
	assert.Equal(t, "Lima", p.City)

	p, err = env.svc.Profiles.Update(env.ctx, id, ProfileInput{IsAnonymous: ptr(true)})
	require.NoError(t, err)
	assert.True(t, p.IsAnonymous)
	assert.Equal(t, models.UserTypeUnset, p.UserType)
	assert.Empty(t, p.City)
	assert.Empty(t, p.Description)

	_, err = env.svc.Profiles.Update(env.ctx, id, ProfileInput{YearsOfExperience: ptr(-1)})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestDeleteProfileKeepsAccount(t *testing.T) {
	env := newTestEnv(t)
	id := env.signup("supporter")

	require.NoError(t, env.svc.Profiles.Delete(env.ctx, id))
	_, err := env.svc.Profiles.Get(env.ctx, id)
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = env.st.Users().Get(env.ctx, id)
	require.NoError(t, err)

	assertCode(t, env.svc.Profiles.Delete(env.ctx, id), apperrors.CodeNotFound)
}

func TestTagAddRemoveRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup("missionary")
	other := env.signup("supporter")

	before, err := env.svc.Profiles.Get(env.ctx, owner)
	require.NoError(t, err)

	tagging, err := env.svc.Tags.AddToProfile(env.ctx, other, owner, TagRef{TagName: "Teaching"})
	require.NoError(t, err)
	assert.False(t, tagging.IsSelfAdded)
	require.NotNil(t, tagging.AddedByID)
	assert.Equal(t, other, *tagging.AddedByID)

	mid, err := env.svc.Profiles.Get(env.ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"Teaching"}, tagNames(mid))

	require.NoError(t, env.svc.Tags.RemoveFromProfile(env.ctx, other, owner, tagging.TagID))

	after, err := env.svc.Profiles.Get(env.ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, tagNames(before), tagNames(after))
}

func TestTagAddRules(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup("missionary")
	other := env.signup("supporter")

	self, err := env.svc.Tags.AddToProfile(env.ctx, owner, owner, TagRef{TagName: "Medical"})
	require.NoError(t, err)
	assert.True(t, self.IsSelfAdded)

	// Names resolve case-insensitively to the same tag.
	_, err = env.svc.Tags.AddToProfile(env.ctx, other, owner, TagRef{TagName: "medical"})
	assertCode(t, err, apperrors.CodeConflict)

	_, err = env.svc.Tags.AddToProfile(env.ctx, other, owner, TagRef{TagID: self.TagID})
	assertCode(t, err, apperrors.CodeConflict)

	_, err = env.svc.Tags.AddToProfile(env.ctx, other, owner, TagRef{TagID: 999})
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = env.svc.Tags.AddToProfile(env.ctx, other, 999, TagRef{TagName: "Medical"})
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = env.svc.Tags.AddToProfile(env.ctx, other, owner, TagRef{})
	assertCode(t, err, apperrors.CodeValidation)

	tags, err := env.svc.Tags.List(env.ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestTagRemoveGuards(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup("missionary")
	adder := env.signup("supporter")
	stranger := env.signup("supporter")

	self, err := env.svc.Tags.AddToProfile(env.ctx, owner, owner, TagRef{TagName: "Medical"})
	require.NoError(t, err)
	byAdder, err := env.svc.Tags.AddToProfile(env.ctx, adder, owner, TagRef{TagName: "Teaching"})
	require.NoError(t, err)

	err = env.svc.Tags.RemoveFromProfile(env.ctx, adder, owner, self.TagID)
	assertCode(t, err, apperrors.CodeForbidden)

	err = env.svc.Tags.RemoveFromProfile(env.ctx, stranger, owner, byAdder.TagID)
	assertCode(t, err, apperrors.CodeForbidden)

	// The owner may remove anything on their profile.
	require.NoError(t, env.svc.Tags.RemoveFromProfile(env.ctx, owner, owner, byAdder.TagID))
	require.NoError(t, env.svc.Tags.RemoveFromProfile(env.ctx, owner, owner, self.TagID))

	err = env.svc.Tags.RemoveFromProfile(env.ctx, owner, owner, self.TagID)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCanRemoveTagging(t *testing.T) {
	adder := uint(2)
	selfAdder := uint(1)
	byOther := &models.ProfileTagging{ProfileID: 1, AddedByID: &adder}
	bySelf := &models.ProfileTagging{ProfileID: 1, AddedByID: &selfAdder, IsSelfAdded: true}
	orphan := &models.ProfileTagging{ProfileID: 1}

	assert.True(t, CanRemoveTagging(byOther, 1))
	assert.True(t, CanRemoveTagging(byOther, 2))
	assert.False(t, CanRemoveTagging(byOther, 3))
	assert.True(t, CanRemoveTagging(bySelf, 1))
	assert.False(t, CanRemoveTagging(bySelf, 2))
	assert.True(t, CanRemoveTagging(orphan, 1))
	assert.False(t, CanRemoveTagging(orphan, 2))
}

func TestTagAdminOperations(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signup("missionary")

	tag, created, err := env.svc.Tags.GetOrCreate(env.ctx, "Youth", "youth work", true)
	require.NoError(t, err)
	assert.True(t, created)

	_, err = env.svc.Tags.AddToProfile(env.ctx, owner, owner, TagRef{TagID: tag.ID})
	require.NoError(t, err)

	updated, err := env.svc.Tags.Update(env.ctx, tag.ID, TagUpdate{TagName: ptr("Youth Ministry")})
	require.NoError(t, err)
	assert.Equal(t, "Youth Ministry", updated.TagName)
	assert.Equal(t, "youth work", updated.TagDescription)

	require.NoError(t, env.svc.Tags.Delete(env.ctx, tag.ID))
	p, err := env.svc.Profiles.Get(env.ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, p.Taggings)

	assertCode(t, env.svc.Tags.Delete(env.ctx, tag.ID), apperrors.CodeNotFound)
}

func TestVoteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	target := env.signup("missionary")
	voter := env.signup("supporter")
	other := env.signup("supporter")

	first, total, err := env.svc.Votes.Cast(env.ctx, voter, target, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	second, total, err := env.svc.Votes.Cast(env.ctx, voter, target, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, first.ID, second.ID)

	_, total, err = env.svc.Votes.Cast(env.ctx, voter, target, false)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), total)

	_, total, err = env.svc.Votes.Cast(env.ctx, other, target, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	total, err = env.svc.Votes.Retract(env.ctx, voter, target)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, err = env.svc.Votes.Retract(env.ctx, voter, target)
	assertCode(t, err, apperrors.CodeNotFound)

	_, _, err = env.svc.Votes.Cast(env.ctx, target, target, true)
	assertCode(t, err, apperrors.CodeValidation)

	_, _, err = env.svc.Votes.Cast(env.ctx, voter, 999, true)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCommentRequiresVote(t *testing.T) {
	env := newTestEnv(t)
	target := env.signup("missionary")
	commenter := env.signup("supporter")
	stranger := env.signup("supporter")

	_, err := env.svc.Comments.Create(env.ctx, commenter, target, "Great work")
	assertCode(t, err, apperrors.CodeValidation)

	_, _, err = env.svc.Votes.Cast(env.ctx, commenter, target, true)
	require.NoError(t, err)

	c, err := env.svc.Comments.Create(env.ctx, commenter, target, "  Great work ")
	require.NoError(t, err)
	assert.Equal(t, "Great work", c.Comment)

	_, err = env.svc.Comments.Create(env.ctx, commenter, target, "again")
	assertCode(t, err, apperrors.CodeConflict)

	_, err = env.svc.Comments.Create(env.ctx, commenter, target, " ")
	assertCode(t, err, apperrors.CodeValidation)

	_, err = env.svc.Comments.Update(env.ctx, stranger, c.ID, "hijack")
	assertCode(t, err, apperrors.CodeForbidden)

	updated, err := env.svc.Comments.Update(env.ctx, commenter, c.ID, "Even better")
	require.NoError(t, err)
	assert.Equal(t, "Even better", updated.Comment)

	assertCode(t, env.svc.Comments.Delete(env.ctx, stranger, c.ID), apperrors.CodeForbidden)
	require.NoError(t, env.svc.Comments.Delete(env.ctx, commenter, c.ID))
	assertCode(t, env.svc.Comments.Delete(env.ctx, commenter, c.ID), apperrors.CodeNotFound)
}

func TestProfileViews(t *testing.T) {
	env := newTestEnv(t)
	target := env.signup("missionary")
	voter := env.signup("supporter")

	_, _, err := env.svc.Votes.Cast(env.ctx, voter, target, true)
	require.NoError(t, err)
	_, err = env.svc.Comments.Create(env.ctx, voter, target, "Amen")
	require.NoError(t, err)

	p, err := env.svc.Profiles.Get(env.ctx, target)
	require.NoError(t, err)

	views, err := env.svc.Profiles.Views(env.ctx, voter, []models.Profile{*p}, true)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), views[0].VoteCount)
	require.NotNil(t, views[0].CurrentUserVote)
	assert.True(t, *views[0].CurrentUserVote)
	require.Len(t, views[0].Comments, 1)
	assert.Equal(t, "Amen", views[0].Comments[0].Comment)

	views, err = env.svc.Profiles.Views(env.ctx, 0, []models.Profile{*p}, false)
	require.NoError(t, err)
	assert.Nil(t, views[0].CurrentUserVote)
	assert.Empty(t, views[0].Comments)
}

func TestFriendshipFlow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup("missionary")
	bob := env.signup("supporter")
	carol := env.signup("supporter")

	f, err := env.svc.Friendships.Request(env.ctx, alice, bob)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, f.Status)

	_, err = env.svc.Friendships.Request(env.ctx, bob, alice)
	assertCode(t, err, apperrors.CodeConflict)
	_, err = env.svc.Friendships.Request(env.ctx, alice, alice)
	assertCode(t, err, apperrors.CodeValidation)
	_, err = env.svc.Friendships.Request(env.ctx, alice, 999)
	assertCode(t, err, apperrors.CodeNotFound)

	unread, err := env.svc.Notifications.UnreadCount(env.ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
	events := env.pub.For(bob)
	require.Len(t, events, 1)
	assert.Equal(t, hub.EventNotification, events[0].Type)

	_, err = env.svc.Friendships.Respond(env.ctx, alice, f.ID, "accept")
	assertCode(t, err, apperrors.CodeForbidden)
	_, err = env.svc.Friendships.Respond(env.ctx, bob, f.ID, "maybe")
	assertCode(t, err, apperrors.CodeValidation)

	f, err = env.svc.Friendships.Respond(env.ctx, bob, f.ID, "accept")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, f.Status)

	_, err = env.svc.Friendships.Respond(env.ctx, bob, f.ID, "reject")
	assertCode(t, err, apperrors.CodeConflict)
	_, err = env.svc.Friendships.Request(env.ctx, alice, bob)
	assertCode(t, err, apperrors.CodeConflict)

	aliceEvents := env.pub.For(alice)
	require.Len(t, aliceEvents, 2)
	assert.Equal(t, hub.EventNotification, aliceEvents[0].Type)
	assert.Equal(t, hub.EventFriendshipUpdate, aliceEvents[1].Type)

	_, err = env.svc.Friendships.Get(env.ctx, carol, f.ID)
	assertCode(t, err, apperrors.CodeNotFound)

	accepted, err := env.svc.Friendships.List(env.ctx, alice, "accepted", "outgoing")
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, bob, accepted[0].ReceiverID)

	incoming, err := env.svc.Friendships.List(env.ctx, alice, "", "incoming")
	require.NoError(t, err)
	assert.Empty(t, incoming)

	_, err = env.svc.Friendships.List(env.ctx, alice, "blocked", "")
	assertCode(t, err, apperrors.CodeValidation)
}

func TestRejectedRequestCanBeResent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup("missionary")
	bob := env.signup("supporter")

	f, err := env.svc.Friendships.Request(env.ctx, alice, bob)
	require.NoError(t, err)
	_, err = env.svc.Friendships.Respond(env.ctx, bob, f.ID, "reject")
	require.NoError(t, err)

	events := env.pub.For(alice)
	require.Len(t, events, 1)
	assert.Equal(t, hub.EventFriendshipUpdate, events[0].Type)
	assert.Equal(t, models.StatusRejected, events[0].Payload.(FriendshipEvent).Status)

	_, err = env.svc.Friendships.Request(env.ctx, alice, bob)
	require.NoError(t, err)
}

func TestConcurrentRequestsCreateOneFriendship(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup("missionary")
	bob := env.signup("supporter")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		sender, receiver := alice, bob
		if i%2 == 1 {
			sender, receiver = bob, alice
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Friendships.Request(env.ctx, sender, receiver)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assertCode(t, err, apperrors.CodeConflict)
	}
	assert.Equal(t, 1, created)

	between, err := env.st.Friendships().Between(env.ctx, alice, bob)
	require.NoError(t, err)
	assert.Len(t, between, 1)
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup("missionary")
	bob := env.signup("supporter")
	carol := env.signup("supporter")

	_, err := env.svc.Friendships.Request(env.ctx, alice, bob)
	require.NoError(t, err)
	_, err = env.svc.Friendships.Request(env.ctx, carol, bob)
	require.NoError(t, err)

	list, err := env.svc.Notifications.List(env.ctx, bob, false)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Contains(t, list[0].Message, "user3")

	_, err = env.svc.Notifications.MarkRead(env.ctx, alice, list[0].ID)
	assertCode(t, err, apperrors.CodeNotFound)

	n, err := env.svc.Notifications.MarkRead(env.ctx, bob, list[0].ID)
	require.NoError(t, err)
	assert.True(t, n.IsRead)

	unread, err := env.svc.Notifications.List(env.ctx, bob, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	count, err := env.svc.Notifications.MarkAllRead(env.ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assertCode(t, env.svc.Notifications.Delete(env.ctx, carol, list[1].ID), apperrors.CodeNotFound)
	require.NoError(t, env.svc.Notifications.Delete(env.ctx, bob, list[1].ID))

	list, err = env.svc.Notifications.List(env.ctx, bob, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
