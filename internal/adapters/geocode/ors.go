package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"trip-planner-service/internal/adapters/httpclient"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

type orsGeocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
			Name  string `json:"name"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSGeocoder resolves free text through OpenRouteService (/geocode/search).
// The client must carry the ORS API key in its Authorization header.
type ORSGeocoder struct {
	client  *httpclient.Client
	baseURL string
}

func NewORSGeocoder(client *httpclient.Client, baseURL string) (*ORSGeocoder, error) {
	if client == nil {
		return nil, errors.New("ors geocoder: client is nil")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	return &ORSGeocoder{client: client, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (o *ORSGeocoder) Name() string { return string(domain.ProviderORS) }

func (o *ORSGeocoder) Geocode(ctx context.Context, query string) (_ *domain.GeoLocation, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := strings.Join(strings.Fields(query), " ")
	if norm == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("text", norm)
	q.Set("size", "1")

	var decoded orsGeocodeResponse
	if err := o.client.GetJSON(ctx, o.baseURL+"/geocode/search", q, &decoded); err != nil {
		return nil, fmt.Errorf("ors geocode %q: %w", norm, err)
	}

	if len(decoded.Features) == 0 {
		return nil, nil
	}

	f := decoded.Features[0]
	coords := f.Geometry.Coordinates
	if len(coords) != 2 {
		return nil, fmt.Errorf("ors geocode %q: invalid coordinate format", norm)
	}

	name := f.Properties.Name
	if name == "" {
		name = f.Properties.Label
	}
	if name == "" {
		name = norm
	}

	return &domain.GeoLocation{
		Lat:      coords[1],
		Lng:      coords[0],
		Name:     name,
		Provider: domain.ProviderORS,
	}, nil
}
