package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/apperrors"
)

// VoteProfile godoc
// @Summary      Vote on a profile
// @Description  Up or down votes a profile. Voting again replaces the caller's earlier vote.
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int        true  "Profile (user) ID"
// @Param        input body  VoteInput  true  "Vote"
// @Success      200  {object}  VoteResponse
// @Failure      400  {object}  ErrorResponse "Self-vote or invalid body"
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/{id}/vote [post]
func (h *Handler) VoteProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	profileID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input VoteInput
	if !bindJSON(c, &input) {
		return
	}

	vote, total, err := h.svc.Votes.Cast(c.Request.Context(), userID, profileID, *input.IsUpvote)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	up := vote.IsUpvote
	c.JSON(http.StatusOK, VoteResponse{ProfileID: profileID, IsUpvote: &up, VoteCount: total})
}

// RetractVote godoc
// @Summary      Remove the caller's vote
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Profile (user) ID"
// @Success      200  {object}  VoteResponse
// @Failure      404  {object}  ErrorResponse "No vote to remove"
// @Router       /profiles/{id}/vote [delete]
func (h *Handler) RetractVote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	profileID, ok := parseID(c, "id")
	if !ok {
		return
	}

	total, err := h.svc.Votes.Retract(c.Request.Context(), userID, profileID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, VoteResponse{ProfileID: profileID, VoteCount: total})
}

// CommentProfile godoc
// @Summary      Comment on a profile
// @Description  One comment per profile, and only after voting on it.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int           true  "Profile (user) ID"
// @Param        input body  CommentInput  true  "Comment"
// @Success      201  {object}  CommentResponse
// @Failure      400  {object}  ErrorResponse "No prior vote, self-comment or empty comment"
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Already commented"
// @Router       /profiles/{id}/comments [post]
func (h *Handler) CommentProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	profileID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input CommentInput
	if !bindJSON(c, &input) {
		return
	}

	comment, err := h.svc.Comments.Create(c.Request.Context(), userID, profileID, input.Comment)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCommentResponse(*comment))
}

// UpdateComment godoc
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int           true  "Comment ID"
// @Param        input body  CommentInput  true  "Comment"
// @Success      200  {object}  CommentResponse
// @Failure      403  {object}  ErrorResponse "Not the author"
// @Failure      404  {object}  ErrorResponse
// @Router       /comments/{id} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input CommentInput
	if !bindJSON(c, &input) {
		return
	}

	comment, err := h.svc.Comments.Update(c.Request.Context(), userID, id, input.Comment)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCommentResponse(*comment))
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Comment ID"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse "Not the author"
// @Failure      404  {object}  ErrorResponse
// @Router       /comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Comments.Delete(c.Request.Context(), userID, id); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Comment deleted"})
}
