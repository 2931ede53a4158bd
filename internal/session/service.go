package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourorg/housing-api/internal/events"
	"github.com/yourorg/housing-api/internal/housing"
	"github.com/yourorg/housing-api/internal/logger"
	"github.com/yourorg/housing-api/internal/paging"
)

// View is what the screen renders for a session.
type View struct {
	Session       Session
	FilteredCount int
	Pagination    paging.Meta
	Listings      []housing.Listing
}

type Service struct {
	repo  housing.Repository
	store Store
	pub   events.Publisher
	now   func() time.Time
	newID func() string
}

// NewService wires a session service. pub may be nil.
func NewService(repo housing.Repository, store Store, pub events.Publisher) *Service {
	return &Service{
		repo:  repo,
		store: store,
		pub:   pub,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create opens a session and applies its (empty) filters, as the screen does
// when it mounts.
func (s *Service) Create(ctx context.Context) (View, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        s.newID(),
		Paging:    paging.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	v, err := s.apply(ctx, sess)
	if err != nil {
		return View{}, err
	}
	logger.FromContext(ctx).Info("session created", "session_id", sess.ID, "filtered_count", v.FilteredCount)
	return v, nil
}

// Get renders the session. The page is re-clamped against the current
// catalog without being persisted.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	filtered, err := s.filtered(ctx, sess)
	if err != nil {
		return View{}, err
	}
	return render(sess, filtered), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// UpdateFilters edits the draft form. Nothing is re-filtered until
// ApplyFilters.
func (s *Service) UpdateFilters(ctx context.Context, id string, patch housing.CriteriaPatch) (View, error) {
	return s.mutate(ctx, id, func(sess *Session, _ int) error {
		sess.Draft = sess.Draft.Merge(patch)
		return nil
	})
}

// ApplyFilters makes the draft form effective and recomputes pages.
func (s *Service) ApplyFilters(ctx context.Context, id string) (View, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	sess.Applied = sess.Draft
	v, err := s.apply(ctx, sess)
	if err != nil {
		return View{}, err
	}
	logger.FromContext(ctx).Info("filters applied", "session_id", id, "filtered_count", v.FilteredCount, "total_pages", v.Pagination.TotalPages)
	return v, nil
}

// SetItemsPerPage changes the page size. The current page is clamped to the
// new page count.
func (s *Service) SetItemsPerPage(ctx context.Context, id string, n int) (View, error) {
	return s.mutate(ctx, id, func(sess *Session, total int) error {
		return sess.Paging.SetItemsPerPage(n, total)
	})
}

// GoToPage moves to page, clamped into the valid range.
func (s *Service) GoToPage(ctx context.Context, id string, page int) (View, error) {
	return s.mutate(ctx, id, func(sess *Session, total int) error {
		sess.Paging.GoTo(page, total)
		return nil
	})
}

func (s *Service) NextPage(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, id, func(sess *Session, total int) error {
		sess.Paging.Next(total)
		return nil
	})
}

func (s *Service) PreviousPage(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, id, func(sess *Session, total int) error {
		sess.Paging.Previous(total)
		return nil
	})
}

// Select hands a listing of the session's filtered set to the navigation
// target and returns it.
func (s *Service) Select(ctx context.Context, id, listingID string) (housing.Listing, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return housing.Listing{}, err
	}
	filtered, err := s.filtered(ctx, sess)
	if err != nil {
		return housing.Listing{}, err
	}
	var (
		selected housing.Listing
		found    bool
	)
	for _, l := range filtered {
		if l.ID == listingID {
			selected, found = l, true
			break
		}
	}
	if !found {
		return housing.Listing{}, fmt.Errorf("%w: %s", housing.ErrListingNotFound, listingID)
	}
	sess.SelectedID = listingID
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return housing.Listing{}, err
	}
	if s.pub != nil {
		s.pub.PublishListingSelected(ctx, events.ListingSelected{SessionID: id, Listing: selected})
	}
	return selected, nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(sess *Session, total int) error) (View, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	filtered, err := s.filtered(ctx, sess)
	if err != nil {
		return View{}, err
	}
	sess.Paging.Recompute(len(filtered))
	if err := fn(&sess, len(filtered)); err != nil {
		return View{}, err
	}
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return View{}, err
	}
	return render(sess, filtered), nil
}

// apply recomputes pages for the applied filters and persists sess.
func (s *Service) apply(ctx context.Context, sess Session) (View, error) {
	filtered, err := s.filtered(ctx, sess)
	if err != nil {
		return View{}, err
	}
	sess.Paging.Recompute(len(filtered))
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		return View{}, err
	}
	return render(sess, filtered), nil
}

func (s *Service) filtered(ctx context.Context, sess Session) ([]housing.Listing, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	return housing.Apply(all, sess.Applied), nil
}

func render(sess Session, filtered []housing.Listing) View {
	sess.Paging.Recompute(len(filtered))
	return View{
		Session:       sess,
		FilteredCount: len(filtered),
		Pagination:    sess.Paging.Meta(len(filtered)),
		Listings:      paging.Slice(filtered, sess.Paging.ItemsPerPage, sess.Paging.CurrentPage),
	}
}
