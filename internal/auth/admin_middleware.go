package auth

import (
	"errors"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/store"
)

// AdminMiddleware creates a gin middleware to check for admin role.
// It must be used AFTER the standard AuthMiddleware.
func AdminMiddleware(users store.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			apperrors.HandleError(c, apperrors.Unauthorized("User not authenticated"))
			return
		}

		user, err := users.Get(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				apperrors.HandleError(c, apperrors.NotFound("Authenticated user"))
				return
			}
			apperrors.HandleError(c, apperrors.Internal(err))
			return
		}

		if !user.IsAdmin() {
			apperrors.HandleError(c, apperrors.Forbidden("Admin access required"))
			return
		}

		c.Next()
	}
}
