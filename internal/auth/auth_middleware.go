package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/logger"
	"missionmatch/backend/pkg/jwt"
)

// userIDKey is the gin context key holding the authenticated user ID.
const userIDKey = "userID"

// AuthMiddleware rejects requests without a valid bearer token and records
// the token's user ID for the handlers.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUser(c, secret)
		if !ok {
			apperrors.HandleError(c, apperrors.Unauthorized("Authentication credentials were not provided or are invalid"))
			return
		}
		setUser(c, userID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user ID, if any.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func bearerUser(c *gin.Context, secret string) (uint, bool) {
	authHeader := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return 0, false
	}
	userID, err := jwt.ParseToken(secret, strings.TrimSpace(token))
	if err != nil {
		return 0, false
	}
	return userID, true
}

func setUser(c *gin.Context, userID uint) {
	c.Set(userIDKey, userID)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
}
