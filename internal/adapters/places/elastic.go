package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	"github.com/olivere/elastic/v7"
)

// Document layout of the local POI index.
type indexedPOI struct {
	Name     string           `json:"name"`
	URL      string           `json:"url"`
	Category string           `json:"category"`
	Location elastic.GeoPoint `json:"location"`
}

// ElasticSource serves POIs from a locally curated Elasticsearch index
// with a geo_point "location" field.
type ElasticSource struct {
	client *elastic.Client
	index  string
	limit  int
}

// NewElasticClient connects to url. Sniffing stays off for single-node and
// proxied clusters.
func NewElasticClient(url string, sniff bool) (*elastic.Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("elastic url is empty")
	}

	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(sniff),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("create elastic client: %w", err)
	}
	return client, nil
}

func NewElasticSource(client *elastic.Client, index string) *ElasticSource {
	if index == "" {
		index = "pois"
	}
	return &ElasticSource{client: client, index: index, limit: 20}
}

func (e *ElasticSource) Name() string { return string(domain.ProviderLocalIndex) }

func (e *ElasticSource) PoisNear(
	ctx context.Context,
	center domain.Coordinates,
	radiusMeters int,
	category domain.Category,
) (_ []domain.PointOfInterest, err error) {
	defer obs.Time(ctx, "elastic.PoisNear")(&err)

	query := elastic.NewBoolQuery().Filter(
		elastic.NewGeoDistanceQuery("location").
			Lat(center.Lat).
			Lon(center.Lng).
			Distance(fmt.Sprintf("%dm", radiusMeters)),
	)
	if category != "" {
		query = query.Filter(elastic.NewTermQuery("category", string(category)))
	}

	result, err := e.client.Search().
		Index(e.index).
		Query(query).
		SortBy(elastic.NewGeoDistanceSort("location").
			Point(center.Lat, center.Lng).
			Asc().
			Unit("km").
			DistanceType("arc").
			IgnoreUnmapped(true)).
		Size(e.limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("elastic search %s: %w", e.index, err)
	}

	out := make([]domain.PointOfInterest, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		var doc indexedPOI
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			obs.Logf(ctx, "op=elastic.PoisNear index=%q id=%q err=%q", e.index, hit.Id, err)
			continue
		}
		if strings.TrimSpace(doc.Name) == "" {
			continue
		}

		out = append(out, domain.PointOfInterest{
			Label:        doc.Name,
			Lat:          doc.Location.Lat,
			Lng:          doc.Location.Lon,
			ReferenceURL: doc.URL,
			Provider:     domain.ProviderLocalIndex,
		})
	}

	return out, nil
}

const poiIndexMapping = `{
  "mappings": {
    "properties": {
      "name":     {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "url":      {"type": "keyword"},
      "category": {"type": "keyword"},
      "location": {"type": "geo_point"}
    }
  }
}`

// EnsureIndex creates the POI index with its geo_point mapping if it does not exist.
func (e *ElasticSource) EnsureIndex(ctx context.Context) (created bool, err error) {
	exists, err := e.client.IndexExists(e.index).Do(ctx)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", e.index, err)
	}
	if exists {
		return false, nil
	}

	resp, err := e.client.CreateIndex(e.index).BodyString(poiIndexMapping).Do(ctx)
	if err != nil {
		return false, fmt.Errorf("create index %s: %w", e.index, err)
	}
	if !resp.Acknowledged {
		obs.Logf(ctx, "op=elastic.EnsureIndex index=%q err=%q", e.index, "create index not acknowledged")
	}
	return true, nil
}

// IndexPOIs bulk-loads POIs under the given category.
func (e *ElasticSource) IndexPOIs(ctx context.Context, category domain.Category, pois []domain.PointOfInterest) error {
	if len(pois) == 0 {
		return nil
	}

	bulk := e.client.Bulk().Index(e.index)
	for _, p := range pois {
		bulk.Add(elastic.NewBulkIndexRequest().Doc(indexedPOI{
			Name:     p.Label,
			URL:      p.ReferenceURL,
			Category: string(category),
			Location: elastic.GeoPoint{Lat: p.Lat, Lon: p.Lng},
		}))
	}

	resp, err := bulk.Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index %s: %w", e.index, err)
	}
	if failed := resp.Failed(); len(failed) > 0 {
		return fmt.Errorf("bulk index %s: %d of %d documents failed", e.index, len(failed), len(pois))
	}
	return nil
}
