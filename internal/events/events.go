package events

import (
	"context"

	"github.com/yourorg/housing-api/internal/housing"
)

// ListingsChanged is published after the listing catalog was written to.
type ListingsChanged struct {
	Source string
	Count  int
}

// ListingSelected is the navigation event of a screen session: the user asked
// for the details of one listing.
type ListingSelected struct {
	SessionID string
	Listing   housing.Listing
}

type Publisher interface {
	PublishListingsChanged(ctx context.Context, evt ListingsChanged)
	SubscribeListingsChanged() <-chan ListingsChanged
	PublishListingSelected(ctx context.Context, evt ListingSelected)
	SubscribeListingSelected() <-chan ListingSelected
}

type inMemory struct {
	changed  chan ListingsChanged
	selected chan ListingSelected
}

// NewInMemory returns a channel-backed publisher. Publishing never blocks:
// events are dropped when a buffer is full.
func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &inMemory{
		changed:  make(chan ListingsChanged, buffer),
		selected: make(chan ListingSelected, buffer),
	}
}

func (m *inMemory) PublishListingsChanged(_ context.Context, evt ListingsChanged) {
	select {
	case m.changed <- evt:
	default:
	}
}

func (m *inMemory) SubscribeListingsChanged() <-chan ListingsChanged { return m.changed }

func (m *inMemory) PublishListingSelected(_ context.Context, evt ListingSelected) {
	select {
	case m.selected <- evt:
	default:
	}
}

func (m *inMemory) SubscribeListingSelected() <-chan ListingSelected { return m.selected }
