package places

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"trip-planner-service/internal/adapters/httpclient"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

type otmPlace struct {
	XID      string  `json:"xid"`
	Name     string  `json:"name"`
	Rate     float64 `json:"rate"`
	Wikidata string  `json:"wikidata"`
	Point    struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"point"`
}

var otmKinds = map[domain.Category]string{
	domain.CategoryMuseum:  "museums",
	domain.CategoryScience: "science_museums,planetariums,museums_of_science_and_technology",
	domain.CategoryLeisure: "amusements,gardens_and_parks",
}

// OpenTripMapSource lists rated places around a point.
// Each request takes the next key from the injected key ring.
type OpenTripMapSource struct {
	client  *httpclient.Client
	baseURL string
	keys    *httpclient.KeyRing
	limit   int
}

func NewOpenTripMapSource(client *httpclient.Client, baseURL string, keys *httpclient.KeyRing) (*OpenTripMapSource, error) {
	if keys == nil || keys.Len() == 0 {
		return nil, errors.New("opentripmap: at least one api key is required")
	}
	if baseURL == "" {
		baseURL = "https://api.opentripmap.com"
	}

	return &OpenTripMapSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		keys:    keys,
		limit:   20,
	}, nil
}

func (o *OpenTripMapSource) Name() string { return string(domain.ProviderOpenTripMap) }

func (o *OpenTripMapSource) PoisNear(
	ctx context.Context,
	center domain.Coordinates,
	radiusMeters int,
	category domain.Category,
) (_ []domain.PointOfInterest, err error) {
	defer obs.Time(ctx, "opentripmap.PoisNear")(&err)

	q := url.Values{}
	q.Set("radius", strconv.Itoa(radiusMeters))
	q.Set("lat", strconv.FormatFloat(center.Lat, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(center.Lng, 'f', 6, 64))
	q.Set("rate", "2")
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(o.limit))
	if kinds, ok := otmKinds[category]; ok {
		q.Set("kinds", kinds)
	}
	q.Set("apikey", o.keys.Next())

	var places []otmPlace
	if err := o.client.GetJSON(ctx, o.baseURL+"/0.1/en/places/radius", q, &places); err != nil {
		return nil, fmt.Errorf("opentripmap radius: %w", err)
	}

	// Highest rated first; the provider's distance order breaks ties.
	sort.SliceStable(places, func(i, j int) bool { return places[i].Rate > places[j].Rate })

	out := make([]domain.PointOfInterest, 0, len(places))
	for _, p := range places {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}

		ref := ""
		switch {
		case p.Wikidata != "":
			ref = "https://www.wikidata.org/wiki/" + p.Wikidata
		case p.XID != "":
			ref = "https://opentripmap.com/en/card/" + p.XID
		}

		out = append(out, domain.PointOfInterest{
			Label:        name,
			Lat:          p.Point.Lat,
			Lng:          p.Point.Lon,
			ReferenceURL: ref,
			Provider:     domain.ProviderOpenTripMap,
		})
	}

	return out, nil
}
