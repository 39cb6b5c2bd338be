package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/auth"
	"missionmatch/backend/internal/hub"
	"missionmatch/backend/internal/logger"
	"missionmatch/backend/internal/service"
)

// Handler serves the HTTP API on top of the services.
type Handler struct {
	svc *service.Services
	hub *hub.Hub
}

func New(svc *service.Services, h *hub.Hub) *Handler {
	return &Handler{svc: svc, hub: h}
}

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an ID and logs it once finished.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		logger.FromContext(c.Request.Context()).Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// currentUser returns the caller's ID. Routes using it sit behind
// AuthMiddleware, so a missing ID is answered with 401.
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := auth.CurrentUserID(c)
	if !ok {
		apperrors.HandleError(c, apperrors.Unauthorized("Authentication required"))
	}
	return id, ok
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.HandleError(c, apperrors.Validation("Invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		apperrors.HandleError(c, apperrors.Binding(err))
		return false
	}
	return true
}

// wantsDetail reads the view parameter; anything but "detail" is a summary.
func wantsDetail(c *gin.Context) bool {
	return c.Query("view") == "detail"
}
