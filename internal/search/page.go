package search

import (
	"math"
	"strconv"
	"strings"
)

// PageSizeAll requests the entire result set as one page.
const PageSizeAll = "all"

// PageRequest is a validated paging instruction.
type PageRequest struct {
	Number int
	Size   int
	All    bool
}

// ParsePageRequest never fails. An absent page_size uses defaultSize; "all",
// garbage, or a non-positive size returns everything; larger sizes are clamped
// to maxSize. Page numbers below 1 or unparseable become 1; numbers too large
// to address a row are capped, which still lands past the end.
func ParsePageRequest(page, pageSize string, defaultSize, maxSize int) PageRequest {
	number, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || number < 1 {
		number = 1
	}

	raw := strings.TrimSpace(pageSize)
	if raw == "" {
		size := clamp(defaultSize, maxSize)
		return PageRequest{Number: capNumber(number, size), Size: size}
	}
	if strings.EqualFold(raw, PageSizeAll) {
		return PageRequest{Number: 1, All: true}
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 {
		return PageRequest{Number: 1, All: true}
	}
	size = clamp(size, maxSize)
	return PageRequest{Number: capNumber(number, size), Size: size}
}

// capNumber keeps number*size within int.
func capNumber(number, size int) int {
	if limit := math.MaxInt / size; number > limit {
		return limit
	}
	return number
}

func clamp(size, maxSize int) int {
	if size < 1 {
		size = 1
	}
	if maxSize > 0 && size > maxSize {
		return maxSize
	}
	return size
}

// Offset is the number of rows to skip.
func (r PageRequest) Offset() int {
	if r.All {
		return 0
	}
	return (r.Number - 1) * r.Size
}

// Limit is the number of rows to fetch, 0 meaning no limit.
func (r PageRequest) Limit() int {
	if r.All {
		return 0
	}
	return r.Size
}

// Page is one slice of a result set.
type Page[T any] struct {
	Results []T
	Count   int64
	Request PageRequest
}

// HasNext reports whether rows exist after this page.
func (p Page[T]) HasNext() bool {
	if p.Request.All {
		return false
	}
	if p.Request.Size < 1 {
		return false
	}
	size := int64(p.Request.Size)
	pages := (p.Count + size - 1) / size
	return int64(p.Request.Number) < pages
}

// HasPrevious reports whether this is not the first page.
func (p Page[T]) HasPrevious() bool {
	return !p.Request.All && p.Request.Number > 1
}

// MapPage converts the rows of a page while keeping its position.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Results))
	for _, r := range p.Results {
		out = append(out, fn(r))
	}
	return Page[U]{Results: out, Count: p.Count, Request: p.Request}
}
