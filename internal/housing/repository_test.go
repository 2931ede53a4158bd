package housing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRepository(t *testing.T) {
	repo := NewStaticRepository(sampleListings())
	ctx := context.Background()

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	l, err := repo.ByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, l.Price)

	_, err = repo.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.json")
	body := `[{"id":"x1","address":{"formattedAddress":"Rua A, 1","geolocation":{"lat":-23.55,"lng":-46.63}},"bathrooms":1,"bedrooms":2,"usableArea":48.5,"price":2100,"parkingSpaces":1}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	repo, err := LoadFile(path)
	require.NoError(t, err)
	l, err := repo.ByID(context.Background(), "x1")
	require.NoError(t, err)
	assert.Equal(t, "Rua A, 1", l.Address.FormattedAddress)
	assert.InDelta(t, -46.63, l.Address.Geolocation.Lng, 1e-9)
	assert.Len(t, l.Geohash(), GeohashPrecision)
	assert.Equal(t, "-23.55 : -46.63", l.Coordinates())
}
