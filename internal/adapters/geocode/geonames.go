package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"trip-planner-service/internal/adapters/httpclient"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

type geonamesResponse struct {
	Geonames []struct {
		GeonameID   int64  `json:"geonameId"`
		Name        string `json:"name"`
		CountryName string `json:"countryName"`
		Lat         string `json:"lat"`
		Lng         string `json:"lng"`
	} `json:"geonames"`
	Status *struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	} `json:"status"`
}

// GeoNamesGeocoder looks places up in the GeoNames gazetteer (/searchJSON).
type GeoNamesGeocoder struct {
	client   *httpclient.Client
	baseURL  string
	username string
}

func NewGeoNamesGeocoder(client *httpclient.Client, baseURL, username string) (*GeoNamesGeocoder, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("geonames username is empty")
	}
	if baseURL == "" {
		baseURL = "http://api.geonames.org"
	}

	return &GeoNamesGeocoder{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
	}, nil
}

func (g *GeoNamesGeocoder) Name() string { return string(domain.ProviderGeoNames) }

func (g *GeoNamesGeocoder) Geocode(ctx context.Context, query string) (_ *domain.GeoLocation, err error) {
	defer obs.Time(ctx, "geonames.Geocode")(&err)

	q := url.Values{}
	q.Set("q", query)
	q.Set("maxRows", "1")
	q.Set("orderby", "relevance")
	q.Set("username", g.username)

	var decoded geonamesResponse
	if err := g.client.GetJSON(ctx, g.baseURL+"/searchJSON", q, &decoded); err != nil {
		return nil, fmt.Errorf("geonames search %q: %w", query, err)
	}

	// GeoNames reports quota and auth problems in the body with a 200 status.
	if decoded.Status != nil {
		return nil, fmt.Errorf("geonames search %q: status %d: %s", query, decoded.Status.Value, decoded.Status.Message)
	}

	if len(decoded.Geonames) == 0 {
		return nil, nil
	}

	hit := decoded.Geonames[0]
	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geonames search %q: invalid latitude %q", query, hit.Lat)
	}
	lng, err := strconv.ParseFloat(hit.Lng, 64)
	if err != nil {
		return nil, fmt.Errorf("geonames search %q: invalid longitude %q", query, hit.Lng)
	}

	return &domain.GeoLocation{
		Lat:          lat,
		Lng:          lng,
		Name:         hit.Name,
		Provider:     domain.ProviderGeoNames,
		ReferenceURL: fmt.Sprintf("https://www.geonames.org/%d", hit.GeonameID),
	}, nil
}
