package paging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		name    string
		items   int
		perPage int
		want    int
	}{
		{name: "empty", items: 0, perPage: 5, want: 1},
		{name: "one item", items: 1, perPage: 5, want: 1},
		{name: "exact multiple", items: 10, perPage: 5, want: 2},
		{name: "remainder", items: 12, perPage: 5, want: 3},
		{name: "larger page", items: 12, perPage: 15, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageCount(seq(tt.items), tt.perPage))
		})
	}
}

func TestSlice_TwelveItemsFivePerPage(t *testing.T) {
	items := seq(12)
	require.Equal(t, 3, PageCount(items, 5))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, Slice(items, 5, 1))
	assert.Equal(t, []int{11, 12}, Slice(items, 5, 3))
	assert.Equal(t, []int{}, Slice(items, 5, 4))
	assert.Equal(t, []int{}, Slice(items, 5, 0))
	assert.Equal(t, []int{}, Slice(items, 5, -2))
	assert.Equal(t, []int{}, Slice(items, 5, math.MinInt+2))
	assert.Equal(t, []int{}, Slice(items, 5, math.MaxInt))
	assert.Equal(t, []int{}, Slice(seq(30), 10, math.MinInt+2))
}

func TestBounds_OutOfRange(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		perPage    int
		page       int
		start, end int
	}{
		{name: "first page", total: 12, perPage: 5, page: 1, start: 0, end: 5},
		{name: "last partial page", total: 12, perPage: 5, page: 3, start: 10, end: 12},
		{name: "past last page", total: 12, perPage: 5, page: 4},
		{name: "zero", total: 12, perPage: 5, page: 0},
		{name: "min int wraps", total: 30, perPage: 10, page: math.MinInt + 2},
		{name: "max int", total: 30, perPage: 10, page: math.MaxInt},
		{name: "empty set", total: 0, perPage: 5, page: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Bounds(tt.total, tt.perPage, tt.page)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestSlice_Empty(t *testing.T) {
	var items []string
	assert.Equal(t, 1, PageCount(items, 10))
	got := Slice(items, 10, 1)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSlice_PagesCoverAllItems(t *testing.T) {
	for n := 0; n <= 40; n++ {
		for _, p := range []int{1, 2, 3, 5, 10, 15} {
			items := seq(n)
			sum := 0
			var joined []int
			for page := 1; page <= PageCount(items, p); page++ {
				s := Slice(items, p, page)
				sum += len(s)
				joined = append(joined, s...)
			}
			assert.Equal(t, n, sum, "n=%d p=%d", n, p)
			if n > 0 {
				assert.Equal(t, items, joined, "n=%d p=%d", n, p)
			}
		}
	}
}

func TestSlice_DoesNotAliasOnAppend(t *testing.T) {
	items := seq(10)
	page := Slice(items, 5, 1)
	_ = append(page, 99)
	assert.Equal(t, 6, items[5])
}

func TestNonPositivePerPagePanics(t *testing.T) {
	assert.Panics(t, func() { PageCount(seq(3), 0) })
	assert.Panics(t, func() { Slice(seq(3), -1, 1) })
}

func TestParseItemsPerPage(t *testing.T) {
	n, err := ParseItemsPerPage("")
	require.NoError(t, err)
	assert.Equal(t, DefaultItemsPerPage, n)

	n, err = ParseItemsPerPage("15")
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	for _, bad := range []string{"0", "7", "-5", "ten"} {
		_, err := ParseItemsPerPage(bad)
		assert.ErrorIs(t, err, ErrInvalidItemsPerPage, bad)
	}
}

func TestState_RecomputeClamps(t *testing.T) {
	s := NewState()
	s.GoTo(3, 12)
	assert.Equal(t, 3, s.CurrentPage)
	assert.Equal(t, 3, s.TotalPages)

	// filtered set shrinks
	s.Recompute(4)
	assert.Equal(t, 1, s.TotalPages)
	assert.Equal(t, 1, s.CurrentPage)
}

func TestState_SetItemsPerPageClamps(t *testing.T) {
	s := NewState()
	s.GoTo(3, 12)
	require.NoError(t, s.SetItemsPerPage(10, 12))
	assert.Equal(t, 2, s.TotalPages)
	assert.Equal(t, 2, s.CurrentPage)

	err := s.SetItemsPerPage(7, 12)
	assert.ErrorIs(t, err, ErrInvalidItemsPerPage)
	assert.Equal(t, 10, s.ItemsPerPage)
}

func TestState_NextPrevious(t *testing.T) {
	s := NewState()
	s.Recompute(12)
	s.Previous(12)
	assert.Equal(t, 1, s.CurrentPage)
	s.Next(12)
	s.Next(12)
	s.Next(12)
	assert.Equal(t, 3, s.CurrentPage)

	m := s.Meta(12)
	assert.Equal(t, Meta{CurrentPage: 3, ItemsPerPage: 5, TotalPages: 3, TotalItems: 12, HasPrevious: true, HasNext: false}, m)
}

func TestNewMeta_OutOfRange(t *testing.T) {
	m := NewMeta(5, 4, 12)
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasPrevious)
	assert.False(t, m.HasNext)
}
