// Package paging slices filtered listing sets into fixed-size pages and keeps
// the per-session page selector consistent with the data it pages over.
package paging

import "fmt"

// PageCount returns ceil(len(items)/perPage), never less than 1 so an empty
// set still renders a single (empty) page.
func PageCount[T any](items []T, perPage int) int {
	return PagesFor(len(items), perPage)
}

// PagesFor is PageCount for a known item count.
func PagesFor(total, perPage int) int {
	mustPositive(perPage)
	if total <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// Slice returns the items of the 1-based page. Pages outside
// [1, PageCount] yield an empty slice. The result is capacity-limited so
// appends never write into items.
func Slice[T any](items []T, perPage, page int) []T {
	mustPositive(perPage)
	start, end := Bounds(len(items), perPage, page)
	if start >= end {
		return []T{}
	}
	return items[start:end:end]
}

// Bounds returns the half-open range [(page-1)*perPage, page*perPage)
// clamped to [0, total]. Pages outside [1, PagesFor(total, perPage)] yield
// an empty range, checked before multiplying so huge page numbers cannot
// wrap around.
func Bounds(total, perPage, page int) (start, end int) {
	mustPositive(perPage)
	if page < 1 || page > PagesFor(total, perPage) {
		return 0, 0
	}
	start = (page - 1) * perPage
	end = page * perPage
	start = clamp(start, 0, total)
	end = clamp(end, 0, total)
	return start, end
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mustPositive(perPage int) {
	if perPage <= 0 {
		panic(fmt.Sprintf("paging: items per page must be positive, got %d", perPage))
	}
}
