package housing

import "github.com/yourorg/housing-api/internal/canon"

// Apply returns the listings that satisfy every set field of c, in input
// order. The input slice is never modified.
func Apply(listings []Listing, c Criteria) []Listing {
	return ApplyConstraints(listings, c.Constraints())
}

// ApplyConstraints is Apply for already parsed criteria.
func ApplyConstraints(listings []Listing, cons Constraints) []Listing {
	out := make([]Listing, 0, len(listings))
	if cons.IsZero() {
		return append(out, listings...)
	}
	needle := ""
	if cons.Address != "" {
		needle = canon.Fold(cons.Address)
	}
	for _, l := range listings {
		if cons.matches(l, needle) {
			out = append(out, l)
		}
	}
	return out
}

// Matches reports whether a single listing satisfies the constraints.
func (c Constraints) Matches(l Listing) bool {
	needle := ""
	if c.Address != "" {
		needle = canon.Fold(c.Address)
	}
	return c.matches(l, needle)
}

// matches takes the folded address needle so Apply folds it once.
func (c Constraints) matches(l Listing, foldedAddress string) bool {
	if foldedAddress != "" && !canon.ContainsFold(l.Address.FormattedAddress, foldedAddress) {
		return false
	}
	if c.MaxBathrooms != nil && l.Bathrooms > *c.MaxBathrooms {
		return false
	}
	if c.MaxBedrooms != nil && l.Bedrooms > *c.MaxBedrooms {
		return false
	}
	if c.MinUsableArea != nil && l.UsableArea < *c.MinUsableArea {
		return false
	}
	if c.MinPrice != nil && l.Price < *c.MinPrice {
		return false
	}
	if c.MinParkingSpaces != nil && l.ParkingSpaces < *c.MinParkingSpaces {
		return false
	}
	return true
}
