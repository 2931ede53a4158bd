// Package housing holds the listing model and the filter engine applied to
// in-memory listing sets.
package housing

import (
	"fmt"

	"github.com/mmcloughlin/geohash"
)

// GeohashPrecision is the number of characters kept for listing geohashes
// (~150m cells).
const GeohashPrecision = 7

type Geolocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	FormattedAddress string      `json:"formattedAddress"`
	Geolocation      Geolocation `json:"geolocation"`
}

// Listing is a single housing unit. Values are treated as immutable once
// loaded from a repository.
type Listing struct {
	ID            string  `json:"id"`
	Address       Address `json:"address"`
	Bathrooms     int     `json:"bathrooms"`
	Bedrooms      int     `json:"bedrooms"`
	UsableArea    float64 `json:"usableArea"`
	Price         float64 `json:"price"`
	ParkingSpaces int     `json:"parkingSpaces"`
}

// Geohash encodes the listing location.
func (l Listing) Geohash() string {
	return geohash.EncodeWithPrecision(l.Address.Geolocation.Lat, l.Address.Geolocation.Lng, GeohashPrecision)
}

// Coordinates renders the location the way listing cards show it.
func (l Listing) Coordinates() string {
	return fmt.Sprintf("%v : %v", l.Address.Geolocation.Lat, l.Address.Geolocation.Lng)
}
