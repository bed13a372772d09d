package gazetteer

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"strings"
	"trip-planner-service/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed cities.yaml
var citiesYAML []byte

type catalogFile struct {
	Countries []struct {
		Name   string `yaml:"name"`
		Cities []struct {
			Name    string   `yaml:"name"`
			Lat     float64  `yaml:"lat"`
			Lng     float64  `yaml:"lng"`
			Wiki    string   `yaml:"wiki"`
			Aliases []string `yaml:"aliases"`
		} `yaml:"cities"`
	} `yaml:"countries"`
}

// Catalog is the curated city list. It answers exact (case-insensitive)
// name lookups offline and supplies fallback destinations.
type Catalog struct {
	cities []domain.GeoLocation
	byName map[string]int
}

// Load parses the embedded catalogue.
func Load() (*Catalog, error) {
	return Parse(citiesYAML)
}

// MustLoad is like Load but panics if the embedded file is invalid.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse city catalogue: %w", err)
	}

	c := &Catalog{byName: make(map[string]int)}
	for _, country := range f.Countries {
		for _, city := range country.Cities {
			if strings.TrimSpace(city.Name) == "" {
				return nil, fmt.Errorf("parse city catalogue: unnamed city in %s", country.Name)
			}

			loc := domain.GeoLocation{
				Lat:      city.Lat,
				Lng:      city.Lng,
				Name:     city.Name,
				Provider: domain.ProviderCurated,
			}
			if city.Wiki != "" {
				loc.ReferenceURL = "https://en.wikipedia.org/wiki/" + url.PathEscape(city.Wiki)
			}

			idx := len(c.cities)
			c.cities = append(c.cities, loc)
			for _, n := range append([]string{city.Name}, city.Aliases...) {
				key := lookupKey(n)
				if _, dup := c.byName[key]; dup {
					return nil, fmt.Errorf("parse city catalogue: duplicate name %q", n)
				}
				c.byName[key] = idx
			}
		}
	}

	return c, nil
}

func lookupKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Cities returns a copy of the catalogue in file order.
func (c *Catalog) Cities() []domain.GeoLocation {
	out := make([]domain.GeoLocation, len(c.cities))
	copy(out, c.cities)
	return out
}

// Lookup finds a city by name or alias. Text after the first comma is ignored,
// so "Zagreb, Croatia" matches Zagreb.
func (c *Catalog) Lookup(name string) (domain.GeoLocation, bool) {
	if i := strings.IndexByte(name, ','); i >= 0 {
		name = name[:i]
	}
	idx, ok := c.byName[lookupKey(name)]
	if !ok {
		return domain.GeoLocation{}, false
	}
	return c.cities[idx], true
}

func (c *Catalog) Name() string { return string(domain.ProviderCurated) }

// Geocode implements ports.Geocoder over the catalogue.
func (c *Catalog) Geocode(_ context.Context, query string) (*domain.GeoLocation, error) {
	loc, ok := c.Lookup(query)
	if !ok {
		return nil, nil
	}
	return &loc, nil
}
