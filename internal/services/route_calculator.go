package services

import (
	"context"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

const (
	fallbackSpeedKmh  = 50.0 // average coach speed when no router answers
	travelHoursPerDay = 9.0  // travel a group can take on per trip day
)

// RouteCalculator always produces a route: the provider's when it has one,
// otherwise a great-circle estimate.
type RouteCalculator struct {
	router  ports.Router
	timeout time.Duration
}

// NewRouteCalculator returns a calculator. router may be nil to always estimate.
func NewRouteCalculator(router ports.Router, timeout time.Duration) *RouteCalculator {
	return &RouteCalculator{router: router, timeout: timeout}
}

func (c *RouteCalculator) Route(ctx context.Context, points []domain.Coordinates) domain.RouteResult {
	if c.router != nil && len(points) >= 2 {
		cctx, cancel := withTimeout(ctx, c.timeout)
		res, err := c.router.Route(cctx, points)
		cancel()

		switch {
		case err != nil:
			obs.Logf(ctx, "op=route points=%d err=%q", len(points), err)
		case res != nil && res.DistanceMeters > 0:
			return completeRoute(*res, points)
		}
	}

	return EstimateRoute(points)
}

// completeRoute fills a missing duration at the fallback speed and a missing
// path with the input points.
func completeRoute(res domain.RouteResult, points []domain.Coordinates) domain.RouteResult {
	if res.DurationSeconds <= 0 {
		res.DurationSeconds = res.DistanceMeters / 1000 / fallbackSpeedKmh * 3600
	}
	if len(res.Path) == 0 {
		res.Path = make([]domain.Coordinates, len(points))
		copy(res.Path, points)
	}
	return res
}

// EstimateRoute sums the haversine legs between consecutive points.
func EstimateRoute(points []domain.Coordinates) domain.RouteResult {
	var meters float64
	for i := 1; i < len(points); i++ {
		meters += domain.HaversineMeters(points[i-1], points[i])
	}

	path := make([]domain.Coordinates, len(points))
	copy(path, points)

	return domain.RouteResult{
		DistanceMeters:  meters,
		DurationSeconds: meters / 1000 / fallbackSpeedKmh * 3600,
		Path:            path,
		Estimated:       true,
	}
}

// CheckFeasibility fails when the round trip does not fit into the trip days.
func CheckFeasibility(oneWayHours float64, days int) error {
	roundTrip := 2 * oneWayHours
	available := float64(days) * travelHoursPerDay
	if roundTrip > available {
		return &domain.InfeasibleError{RoundTripHours: roundTrip, AvailableHours: available}
	}
	return nil
}
