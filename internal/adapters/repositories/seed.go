package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type GeocodeSeed struct {
	Query        string  `json:"query"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Name         string  `json:"name"`
	ReferenceURL string  `json:"reference_url"`
}

// Pre-populate the geocode cache from a JSON file of known places.
// Seeded rows are attributed to the curated provider.
func SeedGeocodeCacheFromJSON(ctx context.Context, cache ports.GeocodeCache, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed geocode cache: read %q: %w", jsonPath, err)
	}

	var data []GeocodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed geocode cache: parse json: %w", err)
	}

	rows := make(map[string]domain.GeoLocation, len(data))
	for i, item := range data {
		query := domain.NormalizeQuery(item.Query)
		if query == "" {
			return 0, fmt.Errorf("seed geocode cache: item at index %d: query cannot be empty", i+1)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = strings.TrimSpace(item.Query)
		}

		if item.Lat < -90 || item.Lat > 90 || item.Lng < -180 || item.Lng > 180 {
			return 0, fmt.Errorf("seed geocode cache: item %q: coordinates out of range", item.Query)
		}

		rows[query] = domain.GeoLocation{
			Lat:          item.Lat,
			Lng:          item.Lng,
			Name:         name,
			Provider:     domain.ProviderCurated,
			ReferenceURL: strings.TrimSpace(item.ReferenceURL),
		}
	}

	if err := cache.PutMany(ctx, rows); err != nil {
		return 0, fmt.Errorf("seed geocode cache: %w", err)
	}

	return len(rows), nil
}

type POISeed struct {
	Label        string          `json:"label"`
	Category     domain.Category `json:"category"`
	Lat          float64         `json:"lat"`
	Lng          float64         `json:"lng"`
	ReferenceURL string          `json:"reference_url"`
}

// Read POIs for the local search index, grouped by category.
func LoadPOISeedsFromJSON(jsonPath string) (map[domain.Category][]domain.PointOfInterest, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("load poi seeds: read %q: %w", jsonPath, err)
	}

	var data []POISeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("load poi seeds: parse json: %w", err)
	}

	out := make(map[domain.Category][]domain.PointOfInterest)
	for i, item := range data {
		label := strings.TrimSpace(item.Label)
		if label == "" {
			return nil, fmt.Errorf("load poi seeds: item at index %d: label cannot be empty", i+1)
		}

		switch item.Category {
		case domain.CategoryMuseum, domain.CategoryScience, domain.CategoryLeisure:
		default:
			return nil, fmt.Errorf("load poi seeds: item %q: unknown category %q", label, item.Category)
		}

		if item.Lat < -90 || item.Lat > 90 || item.Lng < -180 || item.Lng > 180 {
			return nil, fmt.Errorf("load poi seeds: item %q: coordinates out of range", label)
		}

		out[item.Category] = append(out[item.Category], domain.PointOfInterest{
			Label:        label,
			Lat:          item.Lat,
			Lng:          item.Lng,
			ReferenceURL: strings.TrimSpace(item.ReferenceURL),
			Provider:     domain.ProviderLocalIndex,
		})
	}

	return out, nil
}
