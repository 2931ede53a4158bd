package httpapi

import (
	"github.com/yourorg/housing-api/internal/housing"
)

// ListingCard is one entry of a rendered listing page.
type ListingCard struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Subtitle  string  `json:"subtitle"`
	Bathrooms int     `json:"bathrooms"`
	Bedrooms  int     `json:"bedrooms"`
	Price     float64 `json:"price"`
}

func listingsToCards(listings []housing.Listing) []ListingCard {
	cards := make([]ListingCard, 0, len(listings))
	for _, l := range listings {
		cards = append(cards, ListingCard{
			ID:        l.ID,
			Title:     l.Address.FormattedAddress,
			Subtitle:  l.Coordinates(),
			Bathrooms: l.Bathrooms,
			Bedrooms:  l.Bedrooms,
			Price:     l.Price,
		})
	}
	return cards
}

// ListingDetails is the payload of the details target a card navigates to.
type ListingDetails struct {
	housing.Listing
	Geohash string `json:"geohash"`
	Views   int64  `json:"views"`
}
