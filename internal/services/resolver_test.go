package services

import (
	"context"
	"testing"
	"trip-planner-service/internal/adapters/gazetteer"
	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationResolverFirstMatchWins(t *testing.T) {
	first := &fakeGeocoder{name: "a", known: map[string]domain.GeoLocation{
		"Trieste": {Name: "Trieste", Lat: 45.64, Lng: 13.77, Provider: domain.ProviderGeoNames},
	}}
	second := &fakeGeocoder{name: "b", known: map[string]domain.GeoLocation{
		"Trieste": {Name: "Trieste (b)", Provider: domain.ProviderORS},
		"Graz":    {Name: "Graz", Provider: domain.ProviderORS},
	}}
	r := NewLocationResolver(nil, 0, first, second)

	loc := r.Resolve(context.Background(), "  Trieste ")
	require.NotNil(t, loc)
	assert.Equal(t, "Trieste", loc.Name)
	assert.Empty(t, second.calls)

	loc = r.Resolve(context.Background(), "Graz")
	require.NotNil(t, loc)
	assert.Equal(t, domain.ProviderORS, loc.Provider)

	assert.Nil(t, r.Resolve(context.Background(), "Atlantis"))
	assert.Nil(t, r.Resolve(context.Background(), "   "))
}

func TestLocationResolverTreatsErrorsAsNoResult(t *testing.T) {
	broken := &fakeGeocoder{name: "broken", err: errProviderDown}
	r := NewLocationResolver(nil, 0, broken, gazetteer.MustLoad())

	loc := r.Resolve(context.Background(), "Zagreb")
	require.NotNil(t, loc)
	assert.Equal(t, domain.ProviderCurated, loc.Provider)
	assert.Equal(t, []string{"Zagreb"}, broken.calls)

	assert.Nil(t, NewLocationResolver(nil, 0, broken).Resolve(context.Background(), "Zagreb"))
}

func TestLocationResolverUsesCache(t *testing.T) {
	cache := newMemGeocodeCache()
	network := &fakeGeocoder{name: "net", known: map[string]domain.GeoLocation{
		"Padua": {Name: "Padova", Provider: domain.ProviderGeoNames},
	}}
	r := NewLocationResolver(cache, 0, network, gazetteer.MustLoad())

	require.NotNil(t, r.Resolve(context.Background(), "Padua"))
	assert.Equal(t, "Padova", cache.rows["padua"].Name)

	loc := r.Resolve(context.Background(), "PADUA")
	require.NotNil(t, loc)
	assert.Equal(t, "Padova", loc.Name)
	assert.Len(t, network.calls, 1)

	// curated answers are not written back
	require.NotNil(t, r.Resolve(context.Background(), "Bled"))
	_, cached := cache.rows["bled"]
	assert.False(t, cached)
}

func TestLocationResolverSurvivesCacheFailure(t *testing.T) {
	cache := newMemGeocodeCache()
	cache.err = errProviderDown

	loc := NewLocationResolver(cache, 0, gazetteer.MustLoad()).Resolve(context.Background(), "Piran")
	require.NotNil(t, loc)
	assert.Equal(t, "Piran", loc.Name)
}

func TestLocationResolverStopsOnCancelledContext(t *testing.T) {
	g := &fakeGeocoder{name: "a"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, NewLocationResolver(nil, 0, g).Resolve(ctx, "Zagreb"))
	assert.Empty(t, g.calls)
}
