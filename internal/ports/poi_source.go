package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for listing points of interest around a coordinate.
type POISource interface {
	PoisNear(
		ctx context.Context,
		center domain.Coordinates,
		radiusMeters int,
		category domain.Category,
	) ([]domain.PointOfInterest, error)
	// Name identifies the provider in logs and cache keys.
	Name() string
}
