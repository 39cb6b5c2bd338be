package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "missionmatch/backend/docs"
	"missionmatch/backend/internal/hub"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/service"
	"missionmatch/backend/internal/store/memstore"
	"missionmatch/backend/pkg/jwt"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	st     *memstore.Store
	hub    *hub.Hub
	svc    *service.Services
	router *gin.Engine
	n      int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := memstore.New()
	events := hub.New()
	svc := service.New(st, events, service.Config{DefaultPageSize: 10, MaxPageSize: 100})
	return &testServer{
		t:   t,
		st:  st,
		hub: events,
		svc: svc,
		router: NewRouter(New(svc, events), RouterConfig{
			JWTSecret: testSecret,
			Users:     st.Users(),
		}),
	}
}

func (s *testServer) request(method, path string, userID uint, body any) *http.Request {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := jwt.GenerateToken(testSecret, userID, time.Hour)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (s *testServer) do(method, path string, userID uint, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, s.request(method, path, userID, body))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// signup creates an account through the API and returns its ID.
func (s *testServer) signup(fields map[string]any) uint {
	s.t.Helper()
	s.n++
	body := map[string]any{
		"username": fmt.Sprintf("user%d", s.n),
		"email":    fmt.Sprintf("user%d@example.com", s.n),
		"password": "password123",
	}
	for k, v := range fields {
		body[k] = v
	}
	w := s.do(http.MethodPost, "/api/v1/profiles", 0, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[ProfileDetail](s.t, w).UserID
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/ping", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestSwaggerDoc(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/swagger/doc.json", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Paths, "/profiles/search")
	assert.Contains(t, doc.Paths["/profiles/search"], "get")
	assert.Contains(t, doc.Paths, "/friendships/{id}/respond")
}

func TestSignupAndProfile(t *testing.T) {
	s := newTestServer(t)
	id := s.signup(map[string]any{"user_type": "Missionary", "first_name": "David", "city": "Nairobi"})

	w := s.do(http.MethodGet, "/api/v1/profiles/me", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/profiles/me", id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[map[string]any](t, w)
	assert.Equal(t, "missionary", summary["user_type"])
	assert.Equal(t, "user1", summary["username"])
	assert.NotContains(t, summary, "comments")
	assert.NotContains(t, summary, "phone_number")

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/profiles/%d?view=detail", id), id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[map[string]any](t, w)
	assert.Contains(t, detail, "comments")
	assert.NotContains(t, detail, "password_hash")

	w = s.do(http.MethodPut, "/api/v1/profiles/me", id, map[string]any{"is_anonymous": true})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[ProfileDetail](t, w)
	assert.True(t, updated.IsAnonymous)
	assert.Empty(t, updated.City)
	assert.Equal(t, "David", updated.FirstName)

	w = s.do(http.MethodDelete, "/api/v1/profiles/me", id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/v1/profiles/me", id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/profiles", 0, map[string]any{"username": "x", "password": "short"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[ErrorResponse](t, w)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Contains(t, body.Details, "email")
	assert.Contains(t, body.Details, "password")

	s.signup(nil)
	w = s.do(http.MethodPost, "/api/v1/profiles", 0, map[string]any{
		"username": "user1", "email": "fresh@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/profiles/abc", 1, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/profiles/search?q=david", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchPagination(t *testing.T) {
	s := newTestServer(t)
	me := s.signup(map[string]any{"is_anonymous": true})
	for _, name := range []string{"Carol", "Alice", "Bob"} {
		s.signup(map[string]any{"user_type": "supporter", "first_name": name})
	}

	w := s.do(http.MethodGet, "/api/v1/profiles/search?sort=name&page_size=2", me, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[PaginatedResponse[ProfileSummary]](t, w)
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "Alice", page.Results[0].FirstName)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://example.com/api/v1/profiles/search?page=2&page_size=2&sort=name", *page.Next)
	assert.Nil(t, page.Previous)

	w = s.do(http.MethodGet, "/api/v1/profiles/search?sort=name&page_size=2&page=2", me, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[PaginatedResponse[ProfileSummary]](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Carol", page.Results[0].FirstName)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://example.com/api/v1/profiles/search?page_size=2&sort=name", *page.Previous)

	w = s.do(http.MethodGet, "/api/v1/profiles/search?page_size=all", me, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[PaginatedResponse[ProfileSummary]](t, w)
	assert.Len(t, page.Results, int(page.Count))
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)

	w = s.do(http.MethodGet, "/api/v1/profiles/search?tags=Nonexistent", me, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/search/history", me, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]SearchHistoryResponse](t, w)
	require.Len(t, history, 1)
	assert.JSONEq(t, `{"tags":["Nonexistent"],"tag_match_type":"any","sort":"recent"}`, string(history[0].SearchParameters))
}

func TestTagEndpoints(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(map[string]any{"user_type": "missionary"})
	other := s.signup(map[string]any{"user_type": "supporter"})

	w := s.do(http.MethodPost, "/api/v1/tags", owner, map[string]any{"tag_name": "Teaching"})
	assert.Equal(t, http.StatusCreated, w.Code)
	tag := decode[TagResponse](t, w)
	w = s.do(http.MethodPost, "/api/v1/tags", other, map[string]any{"tag_name": "teaching"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tag.ID, decode[TagResponse](t, w).ID)

	w = s.do(http.MethodPost, "/api/v1/profiles/tags/add", owner, map[string]any{"profile_id": owner, "tag_id": tag.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	tagging := decode[TaggingResponse](t, w)
	assert.True(t, tagging.IsSelfAdded)

	w = s.do(http.MethodPost, "/api/v1/profiles/tags/add", other, map[string]any{"profile_id": owner, "tag_name": "Teaching"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/profiles/tags/remove", other, map[string]any{"profile_id": owner, "tag_id": tag.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/profiles/tags/remove", owner, map[string]any{"profile_id": owner})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Details, "tag_id")

	w = s.do(http.MethodPost, "/api/v1/profiles/tags/remove", owner, map[string]any{"profile_id": owner, "tag_id": tag.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/tags", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]TagResponse](t, w), 1)
}

func TestAdminTagRoutes(t *testing.T) {
	s := newTestServer(t)
	user := s.signup(nil)
	admin := &models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, s.st.Users().Create(context.Background(), admin))

	tag, _, err := s.svc.Tags.GetOrCreate(context.Background(), "Medical", "", true)
	require.NoError(t, err)
	path := fmt.Sprintf("/api/v1/admin/tags/%d", tag.ID)

	w := s.do(http.MethodPut, path, user, map[string]any{"tag_description": "clinics"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPut, path, admin.ID, map[string]any{"tag_description": "clinics"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "clinics", decode[TagResponse](t, w).TagDescription)

	w = s.do(http.MethodDelete, path, admin.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, path, admin.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVoteAndComment(t *testing.T) {
	s := newTestServer(t)
	target := s.signup(map[string]any{"user_type": "missionary"})
	voter := s.signup(map[string]any{"user_type": "supporter"})
	votePath := fmt.Sprintf("/api/v1/profiles/%d/vote", target)
	commentPath := fmt.Sprintf("/api/v1/profiles/%d/comments", target)

	w := s.do(http.MethodPost, commentPath, voter, map[string]any{"comment": "Great"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode[ErrorResponse](t, w).Code)

	w = s.do(http.MethodPost, votePath, voter, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for i := 0; i < 2; i++ {
		w = s.do(http.MethodPost, votePath, voter, map[string]any{"is_upvote": true})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(1), decode[VoteResponse](t, w).VoteCount)
	}

	w = s.do(http.MethodPost, commentPath, voter, map[string]any{"comment": "Great"})
	require.Equal(t, http.StatusCreated, w.Code)
	comment := decode[CommentResponse](t, w)
	assert.Equal(t, "user2", comment.CommenterUsername)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/profiles/%d?view=detail", target), voter, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[ProfileDetail](t, w)
	assert.Equal(t, int64(1), detail.VoteCount)
	require.NotNil(t, detail.CurrentUserVote)
	assert.True(t, *detail.CurrentUserVote)
	require.Len(t, detail.Comments, 1)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/profiles/%d?view=detail", target), 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	public := decode[ProfileDetail](t, w)
	assert.Equal(t, int64(1), public.VoteCount)
	assert.Nil(t, public.CurrentUserVote)

	w = s.do(http.MethodPut, fmt.Sprintf("/api/v1/comments/%d", comment.ID), target, map[string]any{"comment": "hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, votePath, voter, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[VoteResponse](t, w).VoteCount)
}

func TestMatchEndpoint(t *testing.T) {
	s := newTestServer(t)
	a := s.signup(map[string]any{"user_type": "missionary"})
	b := s.signup(map[string]any{"user_type": "supporter"})
	c := s.signup(map[string]any{"user_type": "missionary"})
	for _, id := range []uint{a, b, c} {
		w := s.do(http.MethodPost, "/api/v1/profiles/tags/add", id, map[string]any{"profile_id": id, "tag_name": "Teaching"})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(http.MethodGet, "/api/v1/profiles/match", a, nil)
	require.Equal(t, http.StatusOK, w.Code)
	matches := decode[[]ProfileSummary](t, w)
	require.Len(t, matches, 1)
	assert.Equal(t, b, matches[0].UserID)
}

func TestFriendshipAndNotifications(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup(nil)
	bob := s.signup(nil)

	w := s.do(http.MethodPost, "/api/v1/friendships", alice, map[string]any{"receiver_id": bob})
	require.Equal(t, http.StatusCreated, w.Code)
	f := decode[FriendshipResponse](t, w)
	assert.Equal(t, "pending", string(f.Status))
	assert.Equal(t, "user2", f.ReceiverUsername)

	w = s.do(http.MethodGet, "/api/v1/notifications/unread-count", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unread":1}`, w.Body.String())

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/friendships/%d/respond", f.ID), bob, map[string]any{"action": "maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/friendships/%d/respond", f.ID), bob, map[string]any{"action": "accept"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "accepted", string(decode[FriendshipResponse](t, w).Status))

	w = s.do(http.MethodGet, "/api/v1/friendships?status=accepted", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]FriendshipResponse](t, w), 1)

	w = s.do(http.MethodGet, "/api/v1/notifications", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notes := decode[[]NotificationResponse](t, w)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Message, "accepted")

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/notifications/%d/read", notes[0].ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/notifications/%d/read", notes[0].ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[NotificationResponse](t, w).IsRead)

	w = s.do(http.MethodPost, "/api/v1/notifications/read-all", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":1}`, w.Body.String())
}

func TestStreamNotifications(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup(nil)
	bob := s.signup(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := s.request(http.MethodGet, "/api/v1/notifications/stream", bob, nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.router.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool { return s.hub.Subscribers(bob) == 1 }, time.Second, 10*time.Millisecond)

	_, err := s.svc.Friendships.Request(context.Background(), alice, bob)
	require.NoError(t, err)

	// Give the stream a moment to write the event before closing it.
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after the client went away")
	}

	assert.Equal(t, 0, s.hub.Subscribers(bob))
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event:message")
	assert.Contains(t, body, `"type":"notification"`)
	assert.Contains(t, body, "user1 sent you a friend request")
}

func TestMedia(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(nil)
	other := s.signup(nil)

	w := s.do(http.MethodPost, "/api/v1/media", owner, map[string]any{"media_url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/media", owner, map[string]any{"media_url": "https://example.com/talk.mp4", "description": "talk"})
	require.Equal(t, http.StatusCreated, w.Code)
	m := decode[MediaResponse](t, w)

	w = s.do(http.MethodGet, "/api/v1/media", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]MediaResponse](t, w), 1)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/media/%d", m.ID), other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/media/%d", m.ID), owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
