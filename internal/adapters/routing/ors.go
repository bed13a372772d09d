package routing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"trip-planner-service/internal/adapters/httpclient"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance *float64 `json:"distance"`
				Duration *float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSRouter implements ports.Router using the OpenRouteService directions API.
// The client must carry the ORS API key in its Authorization header.
type ORSRouter struct {
	client  *httpclient.Client
	baseURL string
	profile string
}

func NewORSRouter(client *httpclient.Client, baseURL, profile string) (*ORSRouter, error) {
	if client == nil {
		return nil, errors.New("ors router: client is nil")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	if profile == "" {
		profile = "driving-car"
	}

	return &ORSRouter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: profile,
	}, nil
}

// Route requests a single route visiting all points in order.
func (o *ORSRouter) Route(ctx context.Context, points []domain.Coordinates) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	if len(points) < 2 {
		return nil, errors.New("ors route: at least two points are required")
	}

	body := directionsRequest{Coordinates: make([][]float64, 0, len(points))}
	for _, p := range points {
		body.Coordinates = append(body.Coordinates, p.CoordsToList())
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	var decoded directionsResponse
	if err := o.client.PostJSON(ctx, endpoint, body, &decoded); err != nil {
		return nil, fmt.Errorf("ors route: %w", err)
	}

	if len(decoded.Features) == 0 {
		return nil, nil
	}

	f := decoded.Features[0]
	summary := f.Properties.Summary
	if summary.Distance == nil || *summary.Distance <= 0 {
		return nil, nil
	}

	duration := 0.0
	if summary.Duration != nil {
		duration = *summary.Duration
	}

	// GeoJSON coordinates are [lon, lat].
	path := make([]domain.Coordinates, 0, len(f.Geometry.Coordinates))
	for _, c := range f.Geometry.Coordinates {
		if len(c) < 2 {
			continue
		}
		path = append(path, domain.Coordinates{Lat: c[1], Lng: c[0]})
	}

	return &domain.RouteResult{
		DistanceMeters:  *summary.Distance,
		DurationSeconds: duration,
		Path:            path,
	}, nil
}
