package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	poiCap       = 12
	poiThreshold = 2
)

// POIProviders groups the sources of the aggregator by role.
type POIProviders struct {
	Discoverer ports.PlaceDiscoverer

	// Ratings-based sources, always queried.
	Rated []ports.POISource

	// Knowledge-graph sources, queried when the rated ones found too little.
	Knowledge []ports.POISource

	// Generic places-around-point sources, queried after the knowledge graph.
	Generic []ports.POISource
}

// POIAggregator merges points of interest from several providers.
// It never fails; a provider error only means that provider adds nothing.
type POIAggregator struct {
	providers POIProviders
	resolver  *LocationResolver
	timeout   time.Duration
}

func NewPOIAggregator(providers POIProviders, resolver *LocationResolver, timeout time.Duration) *POIAggregator {
	return &POIAggregator{providers: providers, resolver: resolver, timeout: timeout}
}

// labelSet keeps the first POI per exact label in insertion order, up to a cap.
type labelSet struct {
	m   *orderedmap.OrderedMap[string, domain.PointOfInterest]
	cap int
}

func newLabelSet(limit int) *labelSet {
	return &labelSet{m: orderedmap.New[string, domain.PointOfInterest](), cap: limit}
}

func (s *labelSet) full() bool { return s.m.Len() >= s.cap }

func (s *labelSet) add(p domain.PointOfInterest) {
	if s.full() || strings.TrimSpace(p.Label) == "" {
		return
	}
	if _, ok := s.m.Get(p.Label); ok {
		return
	}
	s.m.Set(p.Label, p)
}

func (s *labelSet) values() []domain.PointOfInterest {
	out := make([]domain.PointOfInterest, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// CategoryForFocus maps free-text focus onto a POI category.
func CategoryForFocus(focus string) domain.Category {
	f := strings.ToLower(focus)
	for _, kw := range []string{"science", "education", "stem", "technolog", "physics", "biology"} {
		if strings.Contains(f, kw) {
			return domain.CategoryScience
		}
	}
	for _, kw := range []string{"park", "entertainment", "leisure", "fun", "amusement", "nature"} {
		if strings.Contains(f, kw) {
			return domain.CategoryLeisure
		}
	}
	return domain.CategoryMuseum
}

// Collect gathers up to 12 POIs around anchor.
func (a *POIAggregator) Collect(
	ctx context.Context,
	anchor domain.GeoLocation,
	radiusMeters int,
	focus string,
	useAI bool,
) []domain.PointOfInterest {
	set := newLabelSet(poiCap)
	category := CategoryForFocus(focus)

	if useAI && a.providers.Discoverer != nil {
		for _, p := range a.discover(ctx, anchor, focus) {
			set.add(p)
		}
	}

	a.query(ctx, set, a.providers.Rated, anchor, radiusMeters, category)

	if set.m.Len() < poiThreshold {
		a.query(ctx, set, a.providers.Knowledge, anchor, radiusMeters, category)
		a.query(ctx, set, a.providers.Generic, anchor, radiusMeters, category)
	}

	return set.values()
}

func (a *POIAggregator) query(
	ctx context.Context,
	set *labelSet,
	sources []ports.POISource,
	anchor domain.GeoLocation,
	radiusMeters int,
	category domain.Category,
) {
	for _, src := range sources {
		if set.full() || ctx.Err() != nil {
			return
		}

		cctx, cancel := withTimeout(ctx, a.timeout)
		pois, err := src.PoisNear(cctx, anchor.Coordinates(), radiusMeters, category)
		cancel()
		if err != nil {
			obs.Logf(ctx, "op=pois provider=%s anchor=%q err=%q", src.Name(), anchor.Name, err)
			continue
		}

		for _, p := range pois {
			set.add(p)
		}
	}
}

// discover asks the AI for sites and pins each one to real coordinates.
// Places the resolver cannot find are dropped.
func (a *POIAggregator) discover(ctx context.Context, anchor domain.GeoLocation, focus string) []domain.PointOfInterest {
	if strings.TrimSpace(focus) == "" {
		focus = "general education"
	}
	prompt := fmt.Sprintf(
		"List up to %d real places in or near %s worth visiting with a school group. Focus: %s.",
		poiCap, anchor.Name, focus,
	)

	cctx, cancel := withTimeout(ctx, a.timeout)
	places, err := a.providers.Discoverer.DiscoverPlaces(cctx, prompt, anchor)
	cancel()
	if err != nil {
		obs.Logf(ctx, "op=pois.discover anchor=%q err=%q", anchor.Name, err)
		return nil
	}

	out := make([]domain.PointOfInterest, 0, len(places))
	for _, p := range places {
		coords := p.Coordinates
		if coords == nil {
			if a.resolver == nil {
				continue
			}
			loc := a.resolver.Resolve(ctx, p.Label+", "+anchor.Name)
			if loc == nil {
				continue
			}
			c := loc.Coordinates()
			coords = &c
		}

		out = append(out, domain.PointOfInterest{
			Label:        p.Label,
			Lat:          coords.Lat,
			Lng:          coords.Lng,
			ReferenceURL: p.ReferenceURL,
			Provider:     domain.ProviderAI,
		})
	}
	return out
}

// MergePOIs concatenates per-stop lists in stop order, deduplicated by label.
func MergePOIs(perStop [][]domain.PointOfInterest, limit int) []domain.PointOfInterest {
	set := newLabelSet(limit)
	for _, pois := range perStop {
		for _, p := range pois {
			set.add(p)
		}
	}
	return set.values()
}
