package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/apperrors"
)

// SendFriendRequest godoc
// @Summary      Send a friend request
// @Description  Creates a pending request and notifies the receiver.
// @Tags         friendships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Receiver"
// @Success      201  {object}  FriendshipResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Receiver not found"
// @Failure      409  {object}  ErrorResponse "Already pending or friends"
// @Router       /friendships [post]
func (h *Handler) SendFriendRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input FriendRequestInput
	if !bindJSON(c, &input) {
		return
	}

	f, err := h.svc.Friendships.Request(c.Request.Context(), userID, input.ReceiverID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newFriendshipResponse(*f))
}

// RespondFriendRequest godoc
// @Summary      Accept or reject a friend request
// @Tags         friendships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int           true  "Friendship ID"
// @Param        input body  RespondInput  true  "Action"
// @Success      200  {object}  FriendshipResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not the receiver"
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "No longer pending"
// @Router       /friendships/{id}/respond [post]
func (h *Handler) RespondFriendRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input RespondInput
	if !bindJSON(c, &input) {
		return
	}

	f, err := h.svc.Friendships.Respond(c.Request.Context(), userID, id, input.Action)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFriendshipResponse(*f))
}

// GetFriendships godoc
// @Summary      The caller's friend requests
// @Tags         friendships
// @Produce      json
// @Security     BearerAuth
// @Param        status     query  string  false  "pending, accepted or rejected"
// @Param        direction  query  string  false  "incoming or outgoing"
// @Success      200  {array}   FriendshipResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /friendships [get]
func (h *Handler) GetFriendships(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.svc.Friendships.List(c.Request.Context(), userID, c.Query("status"), c.Query("direction"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, newFriendshipResponse))
}
