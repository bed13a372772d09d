package ports

import (
	"context"
	"trip-planner-service/internal/domain"
)

// Contract for computing a drivable route through an ordered list of points.
type Router interface {
	// Return the route through all points in order. A nil result with a nil
	// error means the provider had no usable route.
	Route(ctx context.Context, points []domain.Coordinates) (*domain.RouteResult, error)
}
