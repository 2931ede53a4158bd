package housing

import (
	"math"
	"strconv"
	"strings"
)

// Criteria is the filter form as typed by the user. Every field is free text;
// empty or unparseable values mean "no constraint".
type Criteria struct {
	FormattedAddress string `json:"filterFormattedAddress"`
	Bathrooms        string `json:"filterBathrooms"`     // max
	Bedrooms         string `json:"filterBedrooms"`      // max
	UsableArea       string `json:"filterUsableArea"`    // min
	Price            string `json:"filterPrice"`         // min
	ParkingSpaces    string `json:"filterParkingSpaces"` // min
}

// CriteriaPatch carries a partial update of the filter form. Nil fields are
// left untouched.
type CriteriaPatch struct {
	FormattedAddress *string `json:"filterFormattedAddress,omitempty"`
	Bathrooms        *string `json:"filterBathrooms,omitempty"`
	Bedrooms         *string `json:"filterBedrooms,omitempty"`
	UsableArea       *string `json:"filterUsableArea,omitempty"`
	Price            *string `json:"filterPrice,omitempty"`
	ParkingSpaces    *string `json:"filterParkingSpaces,omitempty"`
}

// Merge returns c with the non-nil fields of p applied.
func (c Criteria) Merge(p CriteriaPatch) Criteria {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.FormattedAddress, p.FormattedAddress)
	set(&c.Bathrooms, p.Bathrooms)
	set(&c.Bedrooms, p.Bedrooms)
	set(&c.UsableArea, p.UsableArea)
	set(&c.Price, p.Price)
	set(&c.ParkingSpaces, p.ParkingSpaces)
	return c
}

// Constraints is the parsed form of Criteria. A nil field is not applied.
type Constraints struct {
	Address          string
	MaxBathrooms     *int
	MaxBedrooms      *int
	MinUsableArea    *float64
	MinPrice         *float64
	MinParkingSpaces *int
}

// Constraints parses the text fields. Parsing never fails: bad input simply
// leaves the matching constraint unset.
func (c Criteria) Constraints() Constraints {
	return Constraints{
		Address:          strings.TrimSpace(c.FormattedAddress),
		MaxBathrooms:     ParseOptionalInt(c.Bathrooms),
		MaxBedrooms:      ParseOptionalInt(c.Bedrooms),
		MinUsableArea:    ParseOptionalFloat(c.UsableArea),
		MinPrice:         ParseOptionalFloat(c.Price),
		MinParkingSpaces: ParseOptionalInt(c.ParkingSpaces),
	}
}

// IsZero reports whether no constraint is set.
func (c Constraints) IsZero() bool {
	return c.Address == "" && c.MaxBathrooms == nil && c.MaxBedrooms == nil &&
		c.MinUsableArea == nil && c.MinPrice == nil && c.MinParkingSpaces == nil
}

// ParseOptionalInt returns nil for empty or non-integer text.
func ParseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &i
}

// ParseOptionalFloat returns nil for empty, non-numeric or non-finite text.
func ParseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
