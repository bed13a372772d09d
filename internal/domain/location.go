package domain

import "strings"

// Provider identifies which external (or built-in) source produced a piece of data.
type Provider string

const (
	ProviderGeoNames    Provider = "geonames"
	ProviderORS         Provider = "openrouteservice"
	ProviderOpenTripMap Provider = "opentripmap"
	ProviderWikidata    Provider = "wikidata"
	ProviderOverpass    Provider = "overpass"
	ProviderLocalIndex  Provider = "local_index"
	ProviderAI          Provider = "ai"
	ProviderCurated     Provider = "curated"
)

// A resolved place. Immutable once produced by a geocoder.
// An empty ReferenceURL means the provider gave no link for it.
type GeoLocation struct {
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Name         string   `json:"name"`
	Provider     Provider `json:"source_provider"`
	ReferenceURL string   `json:"reference_url,omitempty"`
}

func (g GeoLocation) Coordinates() Coordinates {
	return Coordinates{Lat: g.Lat, Lng: g.Lng}
}

// A visitable site near a stop. Label is the deduplication key (exact match).
type PointOfInterest struct {
	Label        string   `json:"label"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	ReferenceURL string   `json:"reference_url,omitempty"`
	Provider     Provider `json:"source_provider"`
}

func (p PointOfInterest) Coordinates() Coordinates {
	return Coordinates{Lat: p.Lat, Lng: p.Lng}
}

// Category narrows a POI query. Providers map it to their own taxonomy.
type Category string

const (
	CategoryMuseum  Category = "museum"
	CategoryScience Category = "science"
	CategoryLeisure Category = "leisure"
)

// NormalizeQuery is the cache key form of a free-text place query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
