package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for turning a free-text place name into coordinates.
type Geocoder interface {
	// Return the best match for the query, or nil with a nil error when
	// the provider has no result.
	Geocode(ctx context.Context, query string) (*domain.GeoLocation, error)
	// Name identifies the provider in logs.
	Name() string
}

// Persistent cache of resolved locations keyed by normalized query text.
type GeocodeCache interface {
	GetMany(ctx context.Context, queries []string) (map[string]domain.GeoLocation, error)
	PutMany(ctx context.Context, results map[string]domain.GeoLocation) error
}

// Read-only catalogue of curated cities used when nothing else yields destinations.
type CityCatalog interface {
	// Return all curated cities, grouped by country in catalogue order.
	Cities() []domain.GeoLocation
}
