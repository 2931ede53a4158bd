package housing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrListingNotFound = errors.New("listing not found")

// Repository supplies the full listing set.
type Repository interface {
	All(ctx context.Context) ([]Listing, error)
	ByID(ctx context.Context, id string) (Listing, error)
}

// StaticRepository serves a fixed in-memory listing set.
type StaticRepository struct {
	listings []Listing
	byID     map[string]int
}

func NewStaticRepository(listings []Listing) *StaticRepository {
	r := &StaticRepository{
		listings: append([]Listing(nil), listings...),
		byID:     make(map[string]int, len(listings)),
	}
	for i, l := range r.listings {
		r.byID[l.ID] = i
	}
	return r
}

// LoadFile reads a JSON array of listings, the same shape the feed serves.
func LoadFile(path string) (*StaticRepository, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var listings []Listing
	if err := json.Unmarshal(b, &listings); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return NewStaticRepository(listings), nil
}

func (r *StaticRepository) All(_ context.Context) ([]Listing, error) {
	return append([]Listing(nil), r.listings...), nil
}

func (r *StaticRepository) ByID(_ context.Context, id string) (Listing, error) {
	i, ok := r.byID[id]
	if !ok {
		return Listing{}, fmt.Errorf("%w: %s", ErrListingNotFound, id)
	}
	return r.listings[i], nil
}
