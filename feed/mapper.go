package feed

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/yourorg/housing-api/internal/canon"
	"github.com/yourorg/housing-api/internal/housing"
)

// stringNumber accepts string or number JSON and stores as string
type stringNumber string

func (s *stringNumber) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = stringNumber(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = stringNumber(num.String())
	return nil
}

func (s stringNumber) float() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// int truncates fractional counts ("2.0" from some providers) and clamps
// into [0, math.MaxInt32].
func (s stringNumber) int() int {
	f := s.float()
	if f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// Decode validates raw against the feed schema and maps it to listings.
// Records without an id or an address are skipped rather than failing the
// whole page.
func Decode(raw []byte) (Page, error) {
	if err := Validate(raw); err != nil {
		return Page{}, err
	}
	var root struct {
		Listings []feedListing `json:"listings"`
	}
	if err := json.Unmarshal(raw, &root); err != nil {
		return Page{}, err
	}
	out := Page{Listings: make([]housing.Listing, 0, len(root.Listings))}
	for _, fl := range root.Listings {
		l, ok := mapListing(fl)
		if !ok {
			out.Skipped++
			continue
		}
		out.Listings = append(out.Listings, l)
	}
	return out, nil
}

func mapListing(fl feedListing) (housing.Listing, bool) {
	id := strings.TrimSpace(string(fl.ID))
	addr := canon.Clean(fl.Address.FormattedAddress)
	if id == "" || addr == "" {
		return housing.Listing{}, false
	}
	return housing.Listing{
		ID: id,
		Address: housing.Address{
			FormattedAddress: addr,
			Geolocation: housing.Geolocation{
				Lat: fl.Address.Geolocation.Lat.float(),
				Lng: fl.Address.Geolocation.Lng.float(),
			},
		},
		Bathrooms:     fl.Bathrooms.int(),
		Bedrooms:      fl.Bedrooms.int(),
		UsableArea:    math.Max(fl.UsableArea.float(), 0),
		Price:         math.Max(fl.Price.float(), 0),
		ParkingSpaces: fl.ParkingSpaces.int(),
	}, true
}
