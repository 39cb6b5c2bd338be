package handler

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"missionmatch/backend/internal/search"
)

// PaginatedResponse defines the structure for a paginated list of any type.
// Next and Previous are absolute URLs of the neighbouring pages, or null.
type PaginatedResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPaginatedResponse renders a page, linking neighbours relative to the
// current request URL.
func NewPaginatedResponse[T any](c *gin.Context, page search.Page[T]) PaginatedResponse[T] {
	results := page.Results
	if results == nil {
		results = []T{}
	}
	resp := PaginatedResponse[T]{Count: page.Count, Results: results}
	if page.HasNext() {
		resp.Next = pageURL(c, page.Request.Number+1)
	}
	if page.HasPrevious() {
		resp.Previous = pageURL(c, page.Request.Number-1)
	}
	return resp
}

// pageURL rewrites the page parameter of the request URL. The first page
// is linked without one.
func pageURL(c *gin.Context, number int) *string {
	u := url.URL{
		Scheme: requestScheme(c),
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	q := c.Request.URL.Query()
	if number <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
