// Package catalog serves the full listing set from a Redis snapshot and
// refreshes it in the background once it goes stale.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/housing-api/internal/housing"
	"github.com/yourorg/housing-api/internal/redisx"
	"github.com/yourorg/housing-api/internal/refresh"
)

const snapshotKey = "listings:snapshot"

// Cache is the subset of redisx.Client the catalog needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, val string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type Options struct {
	// TTL bounds how long a snapshot may be served at all (1h default).
	TTL time.Duration
	// StaleAfter triggers a background refresh while still serving (5m default).
	StaleAfter time.Duration
	Workers    int
	Logger     *slog.Logger
}

type snapshot struct {
	Listings   []housing.Listing `json:"listings"`
	FetchedAt  time.Time         `json:"fetched_at"`
	StaleAfter time.Time         `json:"stale_after"`
}

// Catalog implements housing.Repository on top of a slower source.
type Catalog struct {
	source    housing.Repository
	cache     Cache
	ttl       time.Duration
	stale     time.Duration
	log       *slog.Logger
	refresher *refresh.Refresher
	now       func() time.Time
}

// New wraps source. A nil cache makes the catalog a pass-through.
func New(source housing.Repository, cache Cache, opts Options) *Catalog {
	c := &Catalog{
		source: source,
		cache:  cache,
		ttl:    maxDur(opts.TTL, time.Hour),
		stale:  maxDur(opts.StaleAfter, 5*time.Minute),
		log:    opts.Logger,
		now:    time.Now,
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if cache != nil {
		c.refresher = refresh.New(4, opts.Workers, 15*time.Second, func(ctx context.Context, _ refresh.Job) {
			if _, err := c.Refresh(ctx); err != nil {
				c.log.Warn("catalog refresh failed", "error", err)
			}
		})
	}
	return c
}

// Close stops background refreshes.
func (c *Catalog) Close() {
	if c.refresher != nil {
		c.refresher.Close()
	}
}

func (c *Catalog) All(ctx context.Context) ([]housing.Listing, error) {
	if c.cache == nil {
		return c.source.All(ctx)
	}
	val, err := c.cache.Get(ctx, snapshotKey)
	switch {
	case err == nil:
		var snap snapshot
		if err := json.Unmarshal([]byte(val), &snap); err == nil {
			if c.now().After(snap.StaleAfter) {
				c.refresher.Enqueue(refresh.Job{Key: snapshotKey})
			}
			return snap.Listings, nil
		}
		c.log.Warn("catalog snapshot undecodable, reloading")
	case errors.Is(err, redisx.ErrMiss):
	default:
		c.log.Warn("catalog cache read failed", "error", err)
	}
	return c.Refresh(ctx)
}

func (c *Catalog) ByID(ctx context.Context, id string) (housing.Listing, error) {
	listings, err := c.All(ctx)
	if err != nil {
		return housing.Listing{}, err
	}
	for _, l := range listings {
		if l.ID == id {
			return l, nil
		}
	}
	return housing.Listing{}, fmt.Errorf("%w: %s", housing.ErrListingNotFound, id)
}

// Refresh reloads the source and rewrites the snapshot. A failed cache write
// is logged; the fresh listings are still returned.
func (c *Catalog) Refresh(ctx context.Context) ([]housing.Listing, error) {
	listings, err := c.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if c.cache == nil {
		return listings, nil
	}
	now := c.now()
	b, err := json.Marshal(snapshot{Listings: listings, FetchedAt: now, StaleAfter: now.Add(c.stale)})
	if err != nil {
		c.log.Warn("catalog snapshot encode failed", "error", err)
		return listings, nil
	}
	if err := c.cache.Set(ctx, snapshotKey, string(b), c.ttl); err != nil {
		c.log.Warn("catalog cache write failed", "error", err)
	}
	return listings, nil
}

// Invalidate drops the snapshot so the next read goes to the source.
func (c *Catalog) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Del(ctx, snapshotKey)
}

func maxDur(a, b time.Duration) time.Duration {
	if a > 0 {
		return a
	}
	return b
}
