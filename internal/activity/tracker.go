package activity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/yourorg/housing-api/internal/events"
)

// Counter is the subset of redisx.Client used for view counts.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	GetInt(ctx context.Context, key string) (int64, error)
}

// Invalidator drops cached listing data. *catalog.Catalog satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Tracker consumes catalog and navigation events: catalog writes invalidate
// the cached snapshot, listing selections bump a per-listing view counter.
type Tracker struct {
	Pub     events.Publisher
	Catalog Invalidator
	Counter Counter
	Logger  *slog.Logger
}

func viewsKey(listingID string) string { return "listing:views:" + listingID }

// Run blocks until ctx is done.
func (t *Tracker) Run(ctx context.Context) {
	log := t.Logger
	if log == nil {
		log = slog.Default()
	}
	changed := t.Pub.SubscribeListingsChanged()
	selected := t.Pub.SubscribeListingSelected()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-changed:
			if t.Catalog == nil {
				continue
			}
			if err := t.Catalog.Invalidate(ctx); err != nil {
				log.Warn("catalog invalidate failed", "source", evt.Source, "error", err)
				continue
			}
			log.Debug("catalog invalidated", "source", evt.Source, "count", evt.Count)
		case evt := <-selected:
			log.Info("listing selected", "session_id", evt.SessionID, "listing_id", evt.Listing.ID)
			if t.Counter == nil {
				continue
			}
			if _, err := t.Counter.Incr(ctx, viewsKey(evt.Listing.ID)); err != nil {
				log.Warn("view counter update failed", "listing_id", evt.Listing.ID, "error", err)
			}
		}
	}
}

// Views returns how often a listing was selected. Without a counter it is 0.
func (t *Tracker) Views(ctx context.Context, listingID string) (int64, error) {
	if t == nil || t.Counter == nil {
		return 0, nil
	}
	return t.Counter.GetInt(ctx, viewsKey(listingID))
}

// MemoryCounter is an in-process Counter used when Redis is not configured.
type MemoryCounter struct {
	mu sync.Mutex
	m  map[string]int64
}

func NewMemoryCounter() *MemoryCounter { return &MemoryCounter{m: map[string]int64{}} }

func (c *MemoryCounter) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key]++
	return c.m[key], nil
}

func (c *MemoryCounter) GetInt(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[key], nil
}
