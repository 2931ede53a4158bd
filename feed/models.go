package feed

import "github.com/yourorg/housing-api/internal/housing"

// Page is one mapped page of the listing feed.
type Page struct {
	Listings []housing.Listing
	// Skipped counts records dropped by the mapper (no id or no address).
	Skipped int
}

type feedGeolocation struct {
	Lat stringNumber `json:"lat"`
	Lng stringNumber `json:"lng"`
}

type feedAddress struct {
	FormattedAddress string          `json:"formattedAddress"`
	Geolocation      feedGeolocation `json:"geolocation"`
}

type feedListing struct {
	ID            stringNumber `json:"id"`
	Address       feedAddress  `json:"address"`
	Bathrooms     stringNumber `json:"bathrooms"`
	Bedrooms      stringNumber `json:"bedrooms"`
	UsableArea    stringNumber `json:"usableArea"`
	Price         stringNumber `json:"price"`
	ParkingSpaces stringNumber `json:"parkingSpaces"`
}
