package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/housing-api/internal/events"
	"github.com/yourorg/housing-api/internal/housing"
	"github.com/yourorg/housing-api/internal/paging"
	"github.com/yourorg/housing-api/internal/redisx"
)

// twelve listings: ids l01..l12, bedrooms alternate 2/3, price 1000*i
func catalog12() []housing.Listing {
	out := make([]housing.Listing, 12)
	for i := range out {
		n := i + 1
		out[i] = housing.Listing{
			ID:       fmt.Sprintf("l%02d", n),
			Address:  housing.Address{FormattedAddress: fmt.Sprintf("Rua %d", n)},
			Bedrooms: 2 + i%2,
			Price:    float64(1000 * n),
		}
	}
	return out
}

func newService(t *testing.T) (*Service, events.Publisher) {
	t.Helper()
	pub := events.NewInMemory(8)
	svc := NewService(housing.NewStaticRepository(catalog12()), NewMemoryStore(), pub)
	svc.newID = func() string { return "sess-1" }
	svc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, pub
}

func strp(s string) *string { return &s }

func TestService_CreateAppliesOnMount(t *testing.T) {
	svc, _ := newService(t)
	v, err := svc.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sess-1", v.Session.ID)
	assert.Equal(t, 12, v.FilteredCount)
	assert.Equal(t, paging.Meta{CurrentPage: 1, ItemsPerPage: 5, TotalPages: 3, TotalItems: 12, HasNext: true}, v.Pagination)
	assert.Len(t, v.Listings, 5)
}

func TestService_DraftDoesNotFilterUntilApplied(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx)
	require.NoError(t, err)

	v, err := svc.UpdateFilters(ctx, "sess-1", housing.CriteriaPatch{Bedrooms: strp("2")})
	require.NoError(t, err)
	assert.Equal(t, "2", v.Session.Draft.Bedrooms)
	assert.Equal(t, 12, v.FilteredCount)

	v, err = svc.ApplyFilters(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 6, v.FilteredCount)
	assert.Equal(t, 2, v.Pagination.TotalPages)
	for _, l := range v.Listings {
		assert.Equal(t, 2, l.Bedrooms)
	}
}

func TestService_ApplyClampsPage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx)
	require.NoError(t, err)

	v, err := svc.GoToPage(ctx, "sess-1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Pagination.CurrentPage)
	assert.Len(t, v.Listings, 2)

	_, err = svc.UpdateFilters(ctx, "sess-1", housing.CriteriaPatch{Price: strp("9000")})
	require.NoError(t, err)
	v, err = svc.ApplyFilters(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 4, v.FilteredCount)
	assert.Equal(t, 1, v.Pagination.TotalPages)
	assert.Equal(t, 1, v.Pagination.CurrentPage)
	assert.Len(t, v.Listings, 4)
}

func TestService_ItemsPerPageClampsPage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = svc.GoToPage(ctx, "sess-1", 3)
	require.NoError(t, err)

	v, err := svc.SetItemsPerPage(ctx, "sess-1", 15)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Pagination.TotalPages)
	assert.Equal(t, 1, v.Pagination.CurrentPage)
	assert.Len(t, v.Listings, 12)

	_, err = svc.SetItemsPerPage(ctx, "sess-1", 4)
	assert.ErrorIs(t, err, paging.ErrInvalidItemsPerPage)
}

func TestService_UnparseableFilterIsIgnored(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx)
	require.NoError(t, err)
	_, err = svc.UpdateFilters(ctx, "sess-1", housing.CriteriaPatch{Price: strp("abc")})
	require.NoError(t, err)
	v, err := svc.ApplyFilters(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 12, v.FilteredCount)
}

func TestService_NextPrevious(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx)
	require.NoError(t, err)

	v, err := svc.PreviousPage(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Pagination.CurrentPage)

	for i := 0; i < 5; i++ {
		v, err = svc.NextPage(ctx, "sess-1")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, v.Pagination.CurrentPage)
	assert.False(t, v.Pagination.HasNext)
	assert.Equal(t, "l11", v.Listings[0].ID)
}

func TestService_SelectEmitsNavigation(t *testing.T) {
	svc, pub := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx)
	require.NoError(t, err)

	l, err := svc.Select(ctx, "sess-1", "l07")
	require.NoError(t, err)
	assert.Equal(t, 7000.0, l.Price)

	evt := <-pub.SubscribeListingSelected()
	assert.Equal(t, "sess-1", evt.SessionID)
	assert.Equal(t, "l07", evt.Listing.ID)

	v, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "l07", v.Session.SelectedID)

	_, err = svc.UpdateFilters(ctx, "sess-1", housing.CriteriaPatch{Bedrooms: strp("2")})
	require.NoError(t, err)
	_, err = svc.ApplyFilters(ctx, "sess-1")
	require.NoError(t, err)
	_, err = svc.Select(ctx, "sess-1", "l02")
	assert.ErrorIs(t, err, housing.ErrListingNotFound, "filtered out listings cannot be selected")
}

func TestService_UnknownSession(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.ApplyFilters(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "nope"), ErrSessionNotFound)
}

type mapKV struct{ m map[string]string }

func (k *mapKV) Get(_ context.Context, key string) (string, error) {
	v, ok := k.m[key]
	if !ok {
		return "", redisx.ErrMiss
	}
	return v, nil
}

func (k *mapKV) Set(_ context.Context, key, val string, _ time.Duration) error {
	k.m[key] = val
	return nil
}

func (k *mapKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(k.m, key)
	}
	return nil
}

func (k *mapKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := k.m[key]
	return ok, nil
}

func TestRedisStore_RoundTrip(t *testing.T) {
	st := &RedisStore{KV: &mapKV{m: map[string]string{}}}
	ctx := context.Background()
	sess := Session{ID: "r1", Draft: housing.Criteria{Price: "10"}, Paging: paging.NewState()}
	require.NoError(t, st.Save(ctx, sess))

	got, err := st.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, sess.Draft, got.Draft)
	assert.Equal(t, sess.Paging, got.Paging)

	require.NoError(t, st.Delete(ctx, "r1"))
	_, err = st.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, st.Delete(ctx, "r1"), ErrSessionNotFound)
}
