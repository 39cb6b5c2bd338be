package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/apperrors"
)

// GetMedia godoc
// @Summary      The caller's external media
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   MediaResponse
// @Router       /media [get]
func (h *Handler) GetMedia(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.svc.Media.List(c.Request.Context(), userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, newMediaResponse))
}

// AddMedia godoc
// @Summary      Link external media
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MediaInput true "Media link"
// @Success      201  {object}  MediaResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /media [post]
func (h *Handler) AddMedia(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input MediaInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := h.svc.Media.Add(c.Request.Context(), userID, input.MediaURL, input.Description)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMediaResponse(*m))
}

// DeleteMedia godoc
// @Summary      Remove a media link
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Media ID"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse "Not the owner"
// @Failure      404  {object}  ErrorResponse
// @Router       /media/{id} [delete]
func (h *Handler) DeleteMedia(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Media.Delete(c.Request.Context(), userID, id); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Media deleted"})
}
