package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/auth"
	"missionmatch/backend/internal/models"
	"missionmatch/backend/internal/service"
)

// Signup godoc
// @Summary      Create an account and profile
// @Description  Creates a user account and its profile in one step. Tokens are issued by the identity provider.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        input body SignupInput true "Account and profile"
// @Success      201  {object}  ProfileDetail
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Username or email already taken"
// @Router       /profiles [post]
func (h *Handler) Signup(c *gin.Context) {
	var input SignupInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.svc.Profiles.Signup(c.Request.Context(), service.SignupInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Profile:  input.ProfileInput.toService(),
	})
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	h.renderProfile(c, http.StatusCreated, profile.UserID, profile, true)
}

// GetProfile godoc
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Description  Public; a bearer token adds current_user_vote.
// @Param        id    path   int     true   "Profile (user) ID"
// @Param        view  query  string  false  "summary (default) or detail"
// @Success      200  {object}  ProfileDetail
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/{id} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	viewer, _ := auth.CurrentUserID(c)

	profile, err := h.svc.Profiles.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	h.renderProfile(c, http.StatusOK, viewer, profile, wantsDetail(c))
}

// GetMyProfile godoc
// @Summary      Get the caller's profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        view  query  string  false  "summary (default) or detail"
// @Success      200  {object}  ProfileDetail
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/me [get]
func (h *Handler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	profile, err := h.svc.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	h.renderProfile(c, http.StatusOK, userID, profile, wantsDetail(c))
}

// UpdateMyProfile godoc
// @Summary      Update the caller's profile
// @Description  Only supplied fields change. Marking a profile anonymous clears its type, location and description.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProfileInput true "Fields to change"
// @Success      200  {object}  ProfileDetail
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/me [put]
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var input ProfileInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.svc.Profiles.Update(c.Request.Context(), userID, input.toService())
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	h.renderProfile(c, http.StatusOK, userID, profile, true)
}

// DeleteMyProfile godoc
// @Summary      Delete the caller's profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /profiles/me [delete]
func (h *Handler) DeleteMyProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.Profiles.Delete(c.Request.Context(), userID); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Profile deleted"})
}

func (h *Handler) renderProfile(c *gin.Context, status int, viewer uint, profile *models.Profile, detail bool) {
	views, err := h.svc.Profiles.Views(c.Request.Context(), viewer, []models.Profile{*profile}, detail)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	if detail {
		c.JSON(status, newProfileDetail(views[0]))
		return
	}
	c.JSON(status, newProfileSummary(views[0]))
}

// profileShapes renders profiles in the requested shape.
func (h *Handler) profileShapes(c *gin.Context, viewer uint, profiles []models.Profile, detail bool) ([]any, error) {
	views, err := h.svc.Profiles.Views(c.Request.Context(), viewer, profiles, detail)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(views))
	for _, v := range views {
		if detail {
			out = append(out, newProfileDetail(v))
		} else {
			out = append(out, newProfileSummary(v))
		}
	}
	return out, nil
}
