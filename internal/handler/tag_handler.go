package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/service"
)

// GetTags godoc
// @Summary      Get all tags
// @Description  Retrieves every tag, sorted by name.
// @Tags         tags
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   TagResponse
// @Router       /tags [get]
func (h *Handler) GetTags(c *gin.Context) {
	tags, err := h.svc.Tags.List(c.Request.Context())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(tags, newTagResponse))
}

// CreateTag godoc
// @Summary      Get or create a tag
// @Description  Returns the existing tag with this name (case-insensitive) or creates a user-defined one.
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body TagInput true "Tag Info"
// @Success      200  {object}  TagResponse "Existing tag"
// @Success      201  {object}  TagResponse "Created tag"
// @Failure      400  {object}  ErrorResponse
// @Router       /tags [post]
func (h *Handler) CreateTag(c *gin.Context) {
	var input TagInput
	if !bindJSON(c, &input) {
		return
	}

	tag, created, err := h.svc.Tags.GetOrCreate(c.Request.Context(), input.TagName, input.TagDescription, false)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, newTagResponse(*tag))
}

// UpdateTag godoc
// @Summary      Update a tag
// @Tags         admin-tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int             true  "Tag ID"
// @Param        input body TagUpdateInput true "New Tag Info"
// @Success      200  {object}  TagResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Router       /admin/tags/{id} [put]
func (h *Handler) UpdateTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input TagUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	tag, err := h.svc.Tags.Update(c.Request.Context(), id, service.TagUpdate{
		TagName:         input.TagName,
		TagDescription:  input.TagDescription,
		TagIsPredefined: input.TagIsPredefined,
	})
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTagResponse(*tag))
}

// DeleteTag godoc
// @Summary      Delete a tag
// @Description  Deletes a tag and removes it from every profile.
// @Tags         admin-tags
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Tag ID"
// @Success      200  {object}  MessageResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Tag not found"
// @Router       /admin/tags/{id} [delete]
func (h *Handler) DeleteTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Tags.Delete(c.Request.Context(), id); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Tag deleted"})
}

// AddProfileTag godoc
// @Summary      Tag a profile
// @Description  Adds a tag, by ID or name, to a profile. A tag can only be on a profile once.
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body AddTagInput true "Profile and tag"
// @Success      201  {object}  TaggingResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Tag already added"
// @Router       /profiles/tags/add [post]
func (h *Handler) AddProfileTag(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input AddTagInput
	if !bindJSON(c, &input) {
		return
	}

	tagging, err := h.svc.Tags.AddToProfile(c.Request.Context(), userID, input.ProfileID, service.TagRef{
		TagID:   input.TagID,
		TagName: input.TagName,
	})
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTaggingResponse(*tagging))
}

// RemoveProfileTag godoc
// @Summary      Untag a profile
// @Description  A self-added tag can only be removed by the profile owner; other tags by whoever added them or the owner.
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RemoveTagInput true "Profile and tag"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/tags/remove [post]
func (h *Handler) RemoveProfileTag(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input RemoveTagInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.svc.Tags.RemoveFromProfile(c.Request.Context(), userID, input.ProfileID, input.TagID); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Tag removed"})
}
