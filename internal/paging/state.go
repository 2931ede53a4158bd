package paging

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultItemsPerPage is the selector value a new session starts with.
const DefaultItemsPerPage = 5

// ItemsPerPageOptions are the values the items-per-page selector offers.
var ItemsPerPageOptions = []int{5, 10, 15}

var ErrInvalidItemsPerPage = errors.New("items per page must be one of 5, 10, 15")

// ValidItemsPerPage reports whether n is one of ItemsPerPageOptions.
func ValidItemsPerPage(n int) bool {
	for _, o := range ItemsPerPageOptions {
		if o == n {
			return true
		}
	}
	return false
}

// ParseItemsPerPage parses the selector value. Empty text yields the default.
func ParseItemsPerPage(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultItemsPerPage, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || !ValidItemsPerPage(n) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidItemsPerPage, s)
	}
	return n, nil
}

// State is the page selector of one screen session.
// After Recompute, 1 <= CurrentPage <= TotalPages.
type State struct {
	ItemsPerPage int `json:"itemsPerPage"`
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
}

func NewState() State {
	return State{ItemsPerPage: DefaultItemsPerPage, CurrentPage: 1, TotalPages: 1}
}

// Recompute derives TotalPages from the filtered item count and clamps
// CurrentPage into range.
func (s *State) Recompute(total int) {
	if !ValidItemsPerPage(s.ItemsPerPage) {
		s.ItemsPerPage = DefaultItemsPerPage
	}
	s.TotalPages = PagesFor(total, s.ItemsPerPage)
	s.CurrentPage = clamp(s.CurrentPage, 1, s.TotalPages)
}

// SetItemsPerPage changes the page size and recomputes.
func (s *State) SetItemsPerPage(n, total int) error {
	if !ValidItemsPerPage(n) {
		return fmt.Errorf("%w: %d", ErrInvalidItemsPerPage, n)
	}
	s.ItemsPerPage = n
	s.Recompute(total)
	return nil
}

// GoTo moves to page, clamped into [1, TotalPages].
func (s *State) GoTo(page, total int) {
	s.CurrentPage = page
	s.Recompute(total)
}

func (s *State) Next(total int)     { s.GoTo(s.CurrentPage+1, total) }
func (s *State) Previous(total int) { s.GoTo(s.CurrentPage-1, total) }

// Meta describes the current page of a filtered set.
type Meta struct {
	CurrentPage  int  `json:"currentPage"`
	ItemsPerPage int  `json:"itemsPerPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	HasPrevious  bool `json:"hasPrevious"`
	HasNext      bool `json:"hasNext"`
}

// NewMeta builds page metadata without clamping page, for stateless requests
// where an out-of-range page is answered with an empty page.
func NewMeta(perPage, page, total int) Meta {
	pages := PagesFor(total, perPage)
	return Meta{
		CurrentPage:  page,
		ItemsPerPage: perPage,
		TotalPages:   pages,
		TotalItems:   total,
		HasPrevious:  page > 1,
		HasNext:      page < pages,
	}
}

// Meta returns metadata for the state over total items.
func (s State) Meta(total int) Meta {
	return NewMeta(s.ItemsPerPage, s.CurrentPage, total)
}
