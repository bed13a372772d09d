package places

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"trip-planner-service/internal/adapters/httpclient"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// Wikidata classes queried per category (instances of subclasses included).
var wikidataClasses = map[domain.Category]string{
	domain.CategoryMuseum:  "Q33506",  // museum
	domain.CategoryScience: "Q588140", // science museum
	domain.CategoryLeisure: "Q194195", // amusement park
}

const sparqlAround = `SELECT ?place ?placeLabel ?location WHERE {
  SERVICE wikibase:around {
    ?place wdt:P625 ?location .
    bd:serviceParam wikibase:center "Point(%s %s)"^^geo:wktLiteral .
    bd:serviceParam wikibase:radius "%s" .
  }
  ?place wdt:P31/wdt:P279* wd:%s .
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}
LIMIT %d`

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// WikidataSource queries the Wikidata knowledge graph for classified sites near a point.
type WikidataSource struct {
	client   *httpclient.Client
	endpoint string
	limit    int
}

func NewWikidataSource(client *httpclient.Client, endpoint string) *WikidataSource {
	if endpoint == "" {
		endpoint = "https://query.wikidata.org/sparql"
	}
	return &WikidataSource{client: client, endpoint: endpoint, limit: 20}
}

func (w *WikidataSource) Name() string { return string(domain.ProviderWikidata) }

func (w *WikidataSource) PoisNear(
	ctx context.Context,
	center domain.Coordinates,
	radiusMeters int,
	category domain.Category,
) (_ []domain.PointOfInterest, err error) {
	defer obs.Time(ctx, "wikidata.PoisNear")(&err)

	class, ok := wikidataClasses[category]
	if !ok {
		class = wikidataClasses[domain.CategoryMuseum]
	}

	query := fmt.Sprintf(sparqlAround,
		strconv.FormatFloat(center.Lng, 'f', 6, 64),
		strconv.FormatFloat(center.Lat, 'f', 6, 64),
		strconv.FormatFloat(float64(radiusMeters)/1000, 'f', 2, 64),
		class,
		w.limit,
	)

	q := url.Values{}
	q.Set("format", "json")
	q.Set("query", query)

	var decoded sparqlResponse
	if err := w.client.GetJSON(ctx, w.endpoint, q, &decoded); err != nil {
		return nil, fmt.Errorf("wikidata sparql: %w", err)
	}

	out := make([]domain.PointOfInterest, 0, len(decoded.Results.Bindings))
	for _, b := range decoded.Results.Bindings {
		entity := b["place"].Value
		label := strings.TrimSpace(b["placeLabel"].Value)
		id := entity[strings.LastIndexByte(entity, '/')+1:]

		// The label service falls back to the bare entity ID when no English label exists.
		if label == "" || label == id {
			continue
		}

		coords, ok := parseWKTPoint(b["location"].Value)
		if !ok {
			continue
		}

		out = append(out, domain.PointOfInterest{
			Label:        label,
			Lat:          coords.Lat,
			Lng:          coords.Lng,
			ReferenceURL: "https://www.wikidata.org/wiki/" + id,
			Provider:     domain.ProviderWikidata,
		})
	}

	return out, nil
}

// parseWKTPoint reads "Point(lon lat)".
func parseWKTPoint(s string) (domain.Coordinates, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "Point(") || !strings.HasSuffix(s, ")") {
		return domain.Coordinates{}, false
	}

	parts := strings.Fields(s[len("Point(") : len(s)-1])
	if len(parts) != 2 {
		return domain.Coordinates{}, false
	}

	lng, err1 := strconv.ParseFloat(parts[0], 64)
	lat, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat, Lng: lng}, true
}
