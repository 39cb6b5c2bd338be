package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageRequest(t *testing.T) {
	cases := []struct {
		name           string
		page, pageSize string
		want           PageRequest
	}{
		{"defaults", "", "", PageRequest{Number: 1, Size: 10}},
		{"explicit", "3", "5", PageRequest{Number: 3, Size: 5}},
		{"all", "4", "all", PageRequest{Number: 1, All: true}},
		{"all any case", "", "ALL", PageRequest{Number: 1, All: true}},
		{"garbage size", "2", "lots", PageRequest{Number: 1, All: true}},
		{"zero size", "2", "0", PageRequest{Number: 1, All: true}},
		{"clamped", "1", "1000", PageRequest{Number: 1, Size: 100}},
		{"bad page", "x", "20", PageRequest{Number: 1, Size: 20}},
		{"negative page", "-2", "", PageRequest{Number: 1, Size: 10}},
		{"huge page", "1000000000000000000", "10", PageRequest{Number: math.MaxInt / 10, Size: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParsePageRequest(tc.page, tc.pageSize, 10, 100))
		})
	}
}

func TestPageRequestWindow(t *testing.T) {
	r := PageRequest{Number: 3, Size: 10}
	assert.Equal(t, 20, r.Offset())
	assert.Equal(t, 10, r.Limit())

	all := PageRequest{Number: 1, All: true}
	assert.Equal(t, 0, all.Offset())
	assert.Equal(t, 0, all.Limit())
}

func TestPageLinks(t *testing.T) {
	first := Page[int]{Count: 25, Request: PageRequest{Number: 1, Size: 10}}
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())

	last := Page[int]{Count: 25, Request: PageRequest{Number: 3, Size: 10}}
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())

	exact := Page[int]{Count: 20, Request: PageRequest{Number: 2, Size: 10}}
	assert.False(t, exact.HasNext())

	all := Page[int]{Count: 25, Request: PageRequest{Number: 1, All: true}}
	assert.False(t, all.HasNext())

	huge := Page[int]{Count: 25, Request: ParsePageRequest("1000000000000000000", "10", 10, 100)}
	assert.False(t, huge.HasNext())
	assert.True(t, huge.HasPrevious())
	assert.Greater(t, huge.Request.Offset(), 25)
	assert.False(t, all.HasPrevious())
}

func TestMapPage(t *testing.T) {
	p := Page[int]{Results: []int{1, 2}, Count: 7, Request: PageRequest{Number: 2, Size: 2}}
	out := MapPage(p, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c"}, out.Results)
	assert.Equal(t, int64(7), out.Count)
	assert.Equal(t, p.Request, out.Request)
}
