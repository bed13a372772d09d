package services

import (
	"context"
	"errors"
	"sync"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

var errProviderDown = errors.New("provider down")

type fakeGeocoder struct {
	name  string
	known map[string]domain.GeoLocation
	err   error

	mu    sync.Mutex
	calls []string
}

func (g *fakeGeocoder) Name() string { return g.name }

func (g *fakeGeocoder) Geocode(_ context.Context, q string) (*domain.GeoLocation, error) {
	g.mu.Lock()
	g.calls = append(g.calls, q)
	g.mu.Unlock()

	if g.err != nil {
		return nil, g.err
	}
	if loc, ok := g.known[q]; ok {
		return &loc, nil
	}
	return nil, nil
}

type memGeocodeCache struct {
	mu   sync.Mutex
	rows map[string]domain.GeoLocation
	err  error
}

func newMemGeocodeCache() *memGeocodeCache {
	return &memGeocodeCache{rows: map[string]domain.GeoLocation{}}
}

func (c *memGeocodeCache) GetMany(_ context.Context, queries []string) (map[string]domain.GeoLocation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	out := map[string]domain.GeoLocation{}
	for _, q := range queries {
		if loc, ok := c.rows[q]; ok {
			out[q] = loc
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.GeoLocation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	for k, v := range results {
		c.rows[k] = v
	}
	return nil
}

type fakeRouter struct {
	res *domain.RouteResult
	err error
}

func (r *fakeRouter) Route(context.Context, []domain.Coordinates) (*domain.RouteResult, error) {
	return r.res, r.err
}

type fakePOISource struct {
	name string
	pois []domain.PointOfInterest
	err  error

	mu    sync.Mutex
	calls int
	cats  []domain.Category
}

func (s *fakePOISource) Name() string { return s.name }

func (s *fakePOISource) PoisNear(_ context.Context, _ domain.Coordinates, _ int, c domain.Category) ([]domain.PointOfInterest, error) {
	s.mu.Lock()
	s.calls++
	s.cats = append(s.cats, c)
	s.mu.Unlock()
	return s.pois, s.err
}

func (s *fakePOISource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeDiscoverer struct {
	places []ports.DiscoveredPlace
	err    error
}

func (d *fakeDiscoverer) DiscoverPlaces(context.Context, string, domain.GeoLocation) ([]ports.DiscoveredPlace, error) {
	return d.places, d.err
}

type fakeGenerator struct {
	out *ports.GeneratedItinerary
	err error

	mu      sync.Mutex
	prompts []string
}

func (g *fakeGenerator) GenerateItinerary(_ context.Context, prompt string) (*ports.GeneratedItinerary, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.out, g.err
}

type fakeSuggester struct {
	out []ports.SuggestedDestination
	err error
}

func (s *fakeSuggester) SuggestDestinations(context.Context, ports.SuggestionQuery) ([]ports.SuggestedDestination, error) {
	return s.out, s.err
}

func poi(label, url string, p domain.Provider) domain.PointOfInterest {
	return domain.PointOfInterest{Label: label, Lat: 45.65, Lng: 13.77, ReferenceURL: url, Provider: p}
}
