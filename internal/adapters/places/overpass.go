package places

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"trip-planner-service/internal/adapters/httpclient"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

var overpassFilters = map[domain.Category]string{
	domain.CategoryMuseum:  `["tourism"~"museum|gallery|attraction"]`,
	domain.CategoryScience: `["tourism"~"museum|aquarium|zoo"]`,
	domain.CategoryLeisure: `["leisure"~"park|water_park|nature_reserve"]`,
}

type overpassResponse struct {
	Elements []struct {
		Type   string  `json:"type"`
		ID     int64   `json:"id"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// OverpassSource lists named OpenStreetMap features around a point.
type OverpassSource struct {
	client   *httpclient.Client
	endpoint string
	limit    int
}

func NewOverpassSource(client *httpclient.Client, endpoint string) *OverpassSource {
	if endpoint == "" {
		endpoint = "https://overpass-api.de/api/interpreter"
	}
	return &OverpassSource{client: client, endpoint: endpoint, limit: 20}
}

func (o *OverpassSource) Name() string { return string(domain.ProviderOverpass) }

func (o *OverpassSource) PoisNear(
	ctx context.Context,
	center domain.Coordinates,
	radiusMeters int,
	category domain.Category,
) (_ []domain.PointOfInterest, err error) {
	defer obs.Time(ctx, "overpass.PoisNear")(&err)

	filter, ok := overpassFilters[category]
	if !ok {
		filter = overpassFilters[domain.CategoryMuseum]
	}

	around := fmt.Sprintf("(around:%d,%.6f,%.6f)", radiusMeters, center.Lat, center.Lng)
	query := fmt.Sprintf(
		`[out:json][timeout:10];(node%[1]s%[2]s["name"];way%[1]s%[2]s["name"];);out center %[3]d;`,
		around, filter, o.limit,
	)

	var decoded overpassResponse
	if err := o.client.PostForm(ctx, o.endpoint, url.Values{"data": {query}}, &decoded); err != nil {
		return nil, fmt.Errorf("overpass query: %w", err)
	}

	out := make([]domain.PointOfInterest, 0, len(decoded.Elements))
	for _, e := range decoded.Elements {
		name := strings.TrimSpace(e.Tags["name"])
		if name == "" {
			continue
		}

		lat, lon := e.Lat, e.Lon
		if e.Center != nil {
			lat, lon = e.Center.Lat, e.Center.Lon
		}

		ref := e.Tags["website"]
		if ref == "" && e.Tags["wikidata"] != "" {
			ref = "https://www.wikidata.org/wiki/" + e.Tags["wikidata"]
		}
		if ref == "" {
			ref = fmt.Sprintf("https://www.openstreetmap.org/%s/%d", e.Type, e.ID)
		}

		out = append(out, domain.PointOfInterest{
			Label:        name,
			Lat:          lat,
			Lng:          lon,
			ReferenceURL: ref,
			Provider:     domain.ProviderOverpass,
		})
	}

	return out, nil
}
