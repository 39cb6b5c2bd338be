package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/store/memstore"
	"missionmatch/backend/pkg/jwt"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func whoami(c *gin.Context) {
	id, ok := CurrentUserID(c)
	c.JSON(http.StatusOK, gin.H{"id": id, "ok": ok})
}

func bearer(t *testing.T, userID uint) string {
	t.Helper()
	token, err := jwt.GenerateToken(secret, userID, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthMiddleware(secret), whoami)

	w := serve(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)

	w = serve(r, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, bearer(t, 9))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":9,"ok":true}`, w.Body.String())
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", OptionalAuthMiddleware(secret), whoami)

	w := serve(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":0,"ok":false}`, w.Body.String())

	w = serve(r, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":0,"ok":false}`, w.Body.String())

	w = serve(r, bearer(t, 3))
	assert.JSONEq(t, `{"id":3,"ok":true}`, w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	admin := &models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	plain := &models.User{Username: "plain", Email: "plain@example.com", PasswordHash: "x"}
	require.NoError(t, st.Users().Create(ctx, admin))
	require.NoError(t, st.Users().Create(ctx, plain))

	r := gin.New()
	r.GET("/", AuthMiddleware(secret), AdminMiddleware(st.Users()), whoami)

	assert.Equal(t, http.StatusOK, serve(r, bearer(t, admin.ID)).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, bearer(t, plain.ID)).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, bearer(t, 999)).Code)
}
