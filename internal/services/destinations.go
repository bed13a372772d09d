package services

import (
	"context"
	"sort"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

const (
	maxSuggestions   = 4
	maxCuratedCities = 12
)

// destinationSet is how the requested destinations map onto the three plans.
// It is either a sharedRoute or distinctDestinations.
type destinationSet interface {
	// legs returns the distinct stop lists to route.
	legs() [][]domain.GeoLocation
	// legFor returns the index into legs() used by the plan of tier i.
	legFor(i int) int
}

// sharedRoute: one multi-stop route used by all three tiers.
type sharedRoute struct {
	stops []domain.GeoLocation
}

func (s sharedRoute) legs() [][]domain.GeoLocation { return [][]domain.GeoLocation{s.stops} }

func (s sharedRoute) legFor(int) int { return 0 }

// distinctDestinations: every tier travels to its own single destination.
type distinctDestinations struct {
	picks [3]domain.GeoLocation
}

func (d distinctDestinations) legs() [][]domain.GeoLocation {
	out := make([][]domain.GeoLocation, len(d.picks))
	for i, p := range d.picks {
		out[i] = []domain.GeoLocation{p}
	}
	return out
}

func (d distinctDestinations) legFor(i int) int { return i }

// pickThree takes the first, middle and last candidate, repeating when there are fewer than three.
func pickThree(candidates []domain.GeoLocation) distinctDestinations {
	n := len(candidates)
	return distinctDestinations{picks: [3]domain.GeoLocation{
		candidates[0],
		candidates[n/2],
		candidates[n-1],
	}}
}

// DestinationFinder proposes destinations when a request names none.
type DestinationFinder struct {
	suggester ports.DestinationSuggester
	catalog   ports.CityCatalog
	resolver  *LocationResolver
	timeout   time.Duration
}

func NewDestinationFinder(
	suggester ports.DestinationSuggester,
	catalog ports.CityCatalog,
	resolver *LocationResolver,
	timeout time.Duration,
) *DestinationFinder {
	return &DestinationFinder{suggester: suggester, catalog: catalog, resolver: resolver, timeout: timeout}
}

// Find returns at least one candidate as long as the catalogue holds a city other than the origin.
func (f *DestinationFinder) Find(
	ctx context.Context,
	origin domain.GeoLocation,
	req domain.PlannerRequest,
	days int,
	useAI bool,
) []domain.GeoLocation {
	if useAI && f.suggester != nil {
		if found := f.suggest(ctx, origin, req, days); len(found) > 0 {
			return found
		}
	}
	return f.curated(origin, days)
}

func (f *DestinationFinder) suggest(
	ctx context.Context,
	origin domain.GeoLocation,
	req domain.PlannerRequest,
	days int,
) []domain.GeoLocation {
	cctx, cancel := withTimeout(ctx, f.timeout)
	suggestions, err := f.suggester.SuggestDestinations(cctx, ports.SuggestionQuery{
		Origin:    origin,
		Focus:     req.Focus,
		Days:      days,
		Transport: req.Transport,
		Limit:     maxSuggestions,
	})
	cancel()
	if err != nil {
		obs.Logf(ctx, "op=destinations.suggest origin=%q err=%q", origin.Name, err)
		return nil
	}

	seen := map[string]struct{}{origin.Name: {}}
	out := make([]domain.GeoLocation, 0, maxSuggestions)
	for _, s := range suggestions {
		if len(out) == maxSuggestions {
			break
		}

		query := s.Name
		if s.Country != "" {
			query += ", " + s.Country
		}
		loc := f.resolver.Resolve(ctx, query)
		if loc == nil {
			continue
		}
		if _, dup := seen[loc.Name]; dup {
			continue
		}
		seen[loc.Name] = struct{}{}

		oneWay := EstimateRoute([]domain.Coordinates{origin.Coordinates(), loc.Coordinates()}).DurationHours()
		if err := CheckFeasibility(oneWay, days); err != nil {
			obs.Logf(ctx, "op=destinations.suggest name=%q skipped=%q", loc.Name, err)
			continue
		}
		out = append(out, *loc)
	}
	return out
}

// curated lists catalogue cities nearest to the origin first. Cities out of
// reach for the trip length even in a straight line are left out, unless
// none is in reach.
func (f *DestinationFinder) curated(origin domain.GeoLocation, days int) []domain.GeoLocation {
	if f.catalog == nil {
		return nil
	}

	from := origin.Coordinates()

	var all, reachable []domain.GeoLocation
	for _, c := range f.catalog.Cities() {
		if strings.EqualFold(c.Name, origin.Name) {
			continue
		}
		all = append(all, c)

		oneWay := EstimateRoute([]domain.Coordinates{from, c.Coordinates()}).DurationHours()
		if CheckFeasibility(oneWay, days) == nil {
			reachable = append(reachable, c)
		}
	}

	cities := reachable
	if len(cities) == 0 {
		cities = all
	}

	sort.SliceStable(cities, func(i, j int) bool {
		return domain.HaversineMeters(from, cities[i].Coordinates()) < domain.HaversineMeters(from, cities[j].Coordinates())
	})

	if len(cities) > maxCuratedCities {
		cities = cities[:maxCuratedCities]
	}
	return cities
}
