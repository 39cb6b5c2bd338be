package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/search"
)

// PaginatedProfileResponse documents the search envelope.
type PaginatedProfileResponse struct {
	Count    int64            `json:"count" example:"42"`
	Next     *string          `json:"next" example:"http://localhost:8080/api/v1/profiles/search?page=2"`
	Previous *string          `json:"previous"`
	Results  []ProfileSummary `json:"results"`
}

// SearchProfiles godoc
// @Summary      Search profiles
// @Description  Free text, user type, location and tag filters combine with AND. Anonymous profiles and profiles without a user type never appear.
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Param        q               query  string    false  "Terms matched against name, description and location"
// @Param        user_type       query  string    false  "missionary, supporter or other"
// @Param        location        query  string    false  "Terms matched against city, state and country"
// @Param        tags            query  []string  false  "Tag IDs or names, repeatable or comma separated" collectionFormat(multi)
// @Param        tag_match_type  query  string    false  "any (default) or all"
// @Param        sort            query  string    false  "recent (default), name, location or relevance"
// @Param        page            query  int       false  "Page number"
// @Param        page_size       query  string    false  "Page size or 'all'"
// @Param        view            query  string    false  "summary (default) or detail"
// @Success      200  {object}  PaginatedProfileResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /profiles/search [get]
func (h *Handler) SearchProfiles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	req := search.Request{
		Filters: search.Filters{
			Query:        c.Query("q"),
			UserType:     c.Query("user_type"),
			Location:     c.Query("location"),
			Tags:         c.QueryArray("tags"),
			TagMatchType: search.ParseTagMatchType(c.Query("tag_match_type")),
		},
		Sort:     c.Query("sort"),
		Page:     c.Query("page"),
		PageSize: c.Query("page_size"),
	}

	page, err := h.svc.Search.Search(c.Request.Context(), userID, req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	results, err := h.profileShapes(c, userID, page.Results, wantsDetail(c))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(c, search.Page[any]{
		Results: results,
		Count:   page.Count,
		Request: page.Request,
	}))
}

// MatchProfiles godoc
// @Summary      Suggested introductions
// @Description  Profiles of a different user type sharing at least one tag with the caller, excluding existing friends.
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ProfileSummary
// @Failure      401  {object}  ErrorResponse
// @Router       /profiles/match [get]
func (h *Handler) MatchProfiles(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	matches, err := h.svc.Search.Match(c.Request.Context(), userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	results, err := h.profileShapes(c, userID, matches, false)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetSearchHistory godoc
// @Summary      The caller's recent searches
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   SearchHistoryResponse
// @Router       /search/history [get]
func (h *Handler) GetSearchHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	history, err := h.svc.Search.History(c.Request.Context(), userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(history, newSearchHistoryResponse))
}

// ClearSearchHistory godoc
// @Summary      Forget the caller's searches
// @Tags         search
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64 "{"deleted": 3}"
// @Router       /search/history [delete]
func (h *Handler) ClearSearchHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.svc.Search.ClearHistory(c.Request.Context(), userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
