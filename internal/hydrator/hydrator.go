package hydrator

import (
	"context"

	"github.com/yourorg/housing-api/internal/events"
	"github.com/yourorg/housing-api/internal/housing"
)

// Sink persists listings. *store.Store satisfies it.
type Sink interface {
	UpsertListing(ctx context.Context, source string, l housing.Listing) error
}

type Hydrator struct {
	Store Sink
	Pub   events.Publisher
}

func (h *Hydrator) Enabled() bool { return h != nil && h.Store != nil }

// Write persists a batch of listings and announces the change once. It stops
// at the first failure and reports how many were written.
func (h *Hydrator) Write(ctx context.Context, source string, listings []housing.Listing) (int, error) {
	if !h.Enabled() || len(listings) == 0 {
		return 0, nil
	}
	written := 0
	for _, l := range listings {
		if err := h.Store.UpsertListing(ctx, source, l); err != nil {
			h.announce(ctx, source, written)
			return written, err
		}
		written++
	}
	h.announce(ctx, source, written)
	return written, nil
}

func (h *Hydrator) announce(ctx context.Context, source string, n int) {
	if h.Pub == nil || n == 0 {
		return
	}
	h.Pub.PublishListingsChanged(ctx, events.ListingsChanged{Source: source, Count: n})
}
