package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/apperrors"
)

// keepAliveInterval spaces the comments that hold idle streams open.
var keepAliveInterval = 30 * time.Second

// GetNotifications godoc
// @Summary      The caller's notifications
// @Description  Newest first.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread  query  bool  false  "Only unread notifications"
// @Success      200  {array}   NotificationResponse
// @Router       /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	unread, _ := strconv.ParseBool(c.Query("unread"))

	list, err := h.svc.Notifications.List(c.Request.Context(), userID, unread)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, newNotificationResponse))
}

// GetUnreadCount godoc
// @Summary      Number of unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"unread": 2}"
// @Router       /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.svc.Notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Notification ID"
// @Success      200  {object}  NotificationResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.svc.Notifications.MarkRead(c.Request.Context(), userID, id)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newNotificationResponse(*n))
}

// MarkAllNotificationsRead godoc
// @Summary      Mark every notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"updated": 3}"
// @Router       /notifications/read-all [post]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.svc.Notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// DeleteNotification godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Notification ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id} [delete]
func (h *Handler) DeleteNotification(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Notifications.Delete(c.Request.Context(), userID, id); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Notification deleted"})
}

// StreamNotifications godoc
// @Summary      Live notification stream
// @Description  Server-sent events carrying new notifications and friendship updates as JSON.
// @Tags         notifications
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Router       /notifications/stream [get]
func (h *Handler) StreamNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	client := h.hub.Subscribe(userID)
	defer h.hub.Unsubscribe(userID, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, open := <-client:
			if !open {
				return
			}
			c.SSEvent("message", string(msg))
			c.Writer.Flush()
		case <-keepAlive.C:
			_, _ = c.Writer.WriteString(": keep-alive\n\n")
			c.Writer.Flush()
		}
	}
}
