package housing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleListings() []Listing {
	return []Listing{
		{ID: "1", Address: Address{FormattedAddress: "Rua Augusta, 100 - São Paulo"}, Bathrooms: 1, Bedrooms: 2, UsableArea: 50, Price: 1000, ParkingSpaces: 0},
		{ID: "2", Address: Address{FormattedAddress: "Avenida Paulista, 900 - São Paulo"}, Bathrooms: 2, Bedrooms: 3, UsableArea: 85, Price: 2000, ParkingSpaces: 1},
		{ID: "3", Address: Address{FormattedAddress: "Rua Oscar Freire, 12 - São Paulo"}, Bathrooms: 1, Bedrooms: 2, UsableArea: 60, Price: 1500, ParkingSpaces: 2},
		{ID: "4", Address: Address{FormattedAddress: "Rua da Consolação, 40 - São Paulo"}, Bathrooms: 3, Bedrooms: 4, UsableArea: 140, Price: 4200, ParkingSpaces: 3},
	}
}

func ids(listings []Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func TestApply_UnsetCriteriaIsIdentity(t *testing.T) {
	in := sampleListings()
	got := Apply(in, Criteria{})
	assert.Equal(t, in, got)

	got[0].ID = "mutated"
	assert.Equal(t, "1", in[0].ID, "result must not alias the input")
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, Criteria{Bedrooms: "2"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_MaxBedroomsPreservesOrder(t *testing.T) {
	in := []Listing{
		{ID: "a", Price: 1000, Bedrooms: 2},
		{ID: "b", Price: 2000, Bedrooms: 3},
		{ID: "c", Price: 1500, Bedrooms: 2},
	}
	got := Apply(in, Criteria{Bedrooms: "2"})
	assert.Equal(t, []string{"a", "c"}, ids(got))
}

func TestApply_UnparseableNumberIsIgnored(t *testing.T) {
	in := sampleListings()
	assert.Equal(t, in, Apply(in, Criteria{Price: "abc"}))
	assert.Equal(t, in, Apply(in, Criteria{Bathrooms: "two", ParkingSpaces: "1.5", UsableArea: "NaN"}))
}

func TestApply_Fields(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "address substring case insensitive", criteria: Criteria{FormattedAddress: "rua"}, want: []string{"1", "3", "4"}},
		{name: "address with accents", criteria: Criteria{FormattedAddress: "CONSOLAÇÃO"}, want: []string{"4"}},
		{name: "address blank is unset", criteria: Criteria{FormattedAddress: "   "}, want: []string{"1", "2", "3", "4"}},
		{name: "max bathrooms", criteria: Criteria{Bathrooms: "1"}, want: []string{"1", "3"}},
		{name: "max bedrooms with spaces", criteria: Criteria{Bedrooms: " 3 "}, want: []string{"1", "2", "3"}},
		{name: "min usable area", criteria: Criteria{UsableArea: "60"}, want: []string{"2", "3", "4"}},
		{name: "min usable area decimal", criteria: Criteria{UsableArea: "59.5"}, want: []string{"2", "3", "4"}},
		{name: "min price", criteria: Criteria{Price: "1500"}, want: []string{"2", "3", "4"}},
		{name: "min parking", criteria: Criteria{ParkingSpaces: "2"}, want: []string{"3", "4"}},
		{name: "combined", criteria: Criteria{FormattedAddress: "rua", Bedrooms: "2", Price: "1200"}, want: []string{"3"}},
		{name: "no match", criteria: Criteria{Price: "100000"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(sampleListings(), tt.criteria)))
		})
	}
}

func TestApply_ResultSatisfiesConstraints(t *testing.T) {
	criteria := []Criteria{
		{Bathrooms: "2"},
		{Bedrooms: "3", ParkingSpaces: "1"},
		{UsableArea: "55", Price: "abc"},
		{FormattedAddress: "paulo", Price: "1000"},
	}
	in := sampleListings()
	for _, c := range criteria {
		cons := c.Constraints()
		got := Apply(in, c)
		last := -1
		for _, l := range got {
			assert.True(t, cons.Matches(l), "listing %s violates %+v", l.ID, c)
			idx := -1
			for i := range in {
				if in[i].ID == l.ID {
					idx = i
				}
			}
			require.GreaterOrEqual(t, idx, 0, "listing %s not from input", l.ID)
			assert.Greater(t, idx, last, "order not preserved")
			last = idx
		}
	}
}

func TestCriteriaMerge(t *testing.T) {
	price := "900"
	empty := ""
	c := Criteria{FormattedAddress: "rua", Price: "100"}
	got := c.Merge(CriteriaPatch{Price: &price, FormattedAddress: &empty})
	assert.Equal(t, Criteria{Price: "900"}, got)
	assert.Equal(t, "rua", c.FormattedAddress)
}

func TestParseOptional(t *testing.T) {
	require.NotNil(t, ParseOptionalInt("3"))
	assert.Equal(t, 3, *ParseOptionalInt("3"))
	assert.Nil(t, ParseOptionalInt(""))
	assert.Nil(t, ParseOptionalInt("2.5"))
	assert.Nil(t, ParseOptionalInt("x"))

	require.NotNil(t, ParseOptionalFloat("2.5"))
	assert.InDelta(t, 2.5, *ParseOptionalFloat(" 2.5 "), 1e-9)
	assert.Nil(t, ParseOptionalFloat("Inf"))
	assert.Nil(t, ParseOptionalFloat("abc"))
}
