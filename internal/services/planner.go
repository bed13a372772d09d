package services

import (
	"context"
	"fmt"
	"strings"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"

	"golang.org/x/sync/errgroup"
)

const (
	poiRadiusMeters = 15000
	maxPlanPOIs     = 15
	stopFanOut      = 4
)

// Used when neither the requested nor the configured default origin resolves.
var builtinOrigin = domain.GeoLocation{
	Lat:          46.0569,
	Lng:          14.5058,
	Name:         "Ljubljana",
	Provider:     domain.ProviderCurated,
	ReferenceURL: "https://en.wikipedia.org/wiki/Ljubljana",
}

type PlannerConfig struct {
	Resolver     *LocationResolver
	Routes       *RouteCalculator
	POIs         *POIAggregator
	Itineraries  *ItinerarySynthesizer
	Destinations *DestinationFinder

	// Origin used when the request has none or it cannot be resolved.
	DefaultOrigin string
}

// Planner turns a planning request into three tiered trip plans.
type Planner struct {
	resolver      *LocationResolver
	routes        *RouteCalculator
	pois          *POIAggregator
	itineraries   *ItinerarySynthesizer
	destinations  *DestinationFinder
	defaultOrigin string
}

func NewPlanner(cfg PlannerConfig) *Planner {
	p := &Planner{
		resolver:      cfg.Resolver,
		routes:        cfg.Routes,
		pois:          cfg.POIs,
		itineraries:   cfg.Itineraries,
		destinations:  cfg.Destinations,
		defaultOrigin: cfg.DefaultOrigin,
	}
	if p.resolver == nil {
		p.resolver = NewLocationResolver(nil, 0)
	}
	if p.routes == nil {
		p.routes = NewRouteCalculator(nil, 0)
	}
	if p.itineraries == nil {
		p.itineraries = NewItinerarySynthesizer(nil, 0)
	}
	if p.destinations == nil {
		p.destinations = NewDestinationFinder(nil, nil, p.resolver, 0)
	}
	return p
}

// leg is the routed part of a plan shared by every tier that travels it.
type leg struct {
	stops []domain.GeoLocation
	route domain.RouteResult
	pois  []domain.PointOfInterest
}

// BuildPlans returns exactly three plans, ordered budget, balanced, premium.
// Only invalid input, an infeasible trip or a cancelled context fail it;
// every provider failure degrades into a fallback instead.
func (p *Planner) BuildPlans(
	ctx context.Context,
	req domain.PlannerRequest,
	skipAIProviders bool,
) (_ *domain.PlannerResult, err error) {
	defer obs.Time(ctx, "planner.BuildPlans")(&err)

	dates, err := req.Validate()
	if err != nil {
		return nil, err
	}
	useAI := !skipAIProviders

	origin := p.resolveOrigin(ctx, req.Origin)

	dests, err := p.resolveDestinations(ctx, origin, req, dates.Days, useAI)
	if err != nil {
		return nil, err
	}

	stopLists := dests.legs()
	legs := make([]leg, len(stopLists))

	g, gctx := errgroup.WithContext(ctx)
	for i, stops := range stopLists {
		i, stops := i, stops
		g.Go(func() error {
			l, err := p.computeLeg(gctx, origin, stops, dates.Days, req.Focus, useAI)
			if err != nil {
				return err
			}
			legs[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plans := make([]domain.TripPlan, len(domain.Tiers))

	g, gctx = errgroup.WithContext(ctx)
	for i, tier := range domain.Tiers {
		i, tier := i, tier
		g.Go(func() error {
			plans[i] = p.buildPlan(gctx, origin, req, dates.Days, tier, legs[dests.legFor(i)], useAI)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build plans: %w", err)
	}

	return &domain.PlannerResult{Origin: origin, Plans: plans}, nil
}

func (p *Planner) resolveOrigin(ctx context.Context, text string) domain.GeoLocation {
	if loc := p.resolver.Resolve(ctx, text); loc != nil {
		return *loc
	}
	if strings.TrimSpace(text) != "" {
		obs.Logf(ctx, "op=planner.origin query=%q err=%q", text, "unresolved, using default origin")
	}
	if loc := p.resolver.Resolve(ctx, p.defaultOrigin); loc != nil {
		return *loc
	}
	return builtinOrigin
}

func (p *Planner) resolveDestinations(
	ctx context.Context,
	origin domain.GeoLocation,
	req domain.PlannerRequest,
	days int,
	useAI bool,
) (destinationSet, error) {
	if texts := req.DestinationTexts(); len(texts) > 0 {
		resolved := make([]*domain.GeoLocation, len(texts))

		g, gctx := errgroup.WithContext(ctx)
		for i, text := range texts {
			i, text := i, text
			g.Go(func() error {
				resolved[i] = p.resolver.Resolve(gctx, text)
				return nil
			})
		}
		_ = g.Wait()

		stops := make([]domain.GeoLocation, 0, len(resolved))
		for _, loc := range resolved {
			if loc != nil {
				stops = append(stops, *loc)
			}
		}
		if len(stops) > 0 {
			return sharedRoute{stops: stops}, nil
		}
		obs.Logf(ctx, "op=planner.destinations count=%d err=%q", len(texts), "none resolved, suggesting destinations")
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resolve destinations: %w", err)
	}

	candidates := p.destinations.Find(ctx, origin, req, days, useAI)
	if len(candidates) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("resolve destinations: %w", err)
		}
		return nil, &domain.InputError{Field: "destinations", Reason: "no destination could be resolved or suggested"}
	}
	return pickThree(candidates), nil
}

func (p *Planner) computeLeg(
	ctx context.Context,
	origin domain.GeoLocation,
	stops []domain.GeoLocation,
	days int,
	focus string,
	useAI bool,
) (leg, error) {
	points := make([]domain.Coordinates, 0, len(stops)+1)
	points = append(points, origin.Coordinates())
	for _, s := range stops {
		points = append(points, s.Coordinates())
	}

	route := p.routes.Route(ctx, points)
	if err := ctx.Err(); err != nil {
		return leg{}, fmt.Errorf("route: %w", err)
	}
	if err := CheckFeasibility(route.DurationHours(), days); err != nil {
		return leg{}, err
	}

	l := leg{stops: stops, route: route}
	if !useAI || p.pois == nil {
		return l, nil
	}

	perStop := make([][]domain.PointOfInterest, len(stops))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stopFanOut)
	for i, stop := range stops {
		i, stop := i, stop
		g.Go(func() error {
			perStop[i] = p.pois.Collect(gctx, stop, poiRadiusMeters, focus, useAI)
			return nil
		})
	}
	_ = g.Wait()

	l.pois = MergePOIs(perStop, maxPlanPOIs)
	return l, nil
}

func (p *Planner) buildPlan(
	ctx context.Context,
	origin domain.GeoLocation,
	req domain.PlannerRequest,
	days int,
	tier domain.Tier,
	l leg,
	useAI bool,
) domain.TripPlan {
	names := make([]string, len(l.stops))
	for i, s := range l.stops {
		names[i] = s.Name
	}

	in := ItineraryInput{
		Stops:       names,
		Days:        days,
		GradeLevel:  req.GradeLevel,
		Focus:       req.Focus,
		Tier:        tier,
		Origin:      origin.Name,
		OneWayHours: l.route.DurationHours(),
		POIs:        l.pois,
		Notes:       req.Notes,
	}

	itinerary, descriptions := p.itineraries.Synthesize(ctx, in, useAI)
	source := domain.ItineraryFromAI
	if len(itinerary) == 0 {
		itinerary = TemplateItinerary(in)
		source = domain.ItineraryFromTemplate
	}

	sources := BuildSources(origin, l.stops, l.pois, descriptions)

	return domain.TripPlan{
		Tier:             tier,
		Destination:      strings.Join(names, " -> "),
		Stops:            l.stops,
		Days:             days,
		DistanceKm:       domain.Round2(l.route.DistanceKm()),
		DurationHours:    domain.Round2(l.route.DurationHours()),
		RouteEstimated:   l.route.Estimated,
		Path:             l.route.Path,
		Cost:             EstimateCost(req, l.route.DistanceKm(), days, tier),
		Itinerary:        itinerary,
		ItinerarySource:  source,
		POIs:             l.pois,
		Sources:          sources,
		ReliabilityScore: ReliabilityScore(sources),
	}
}
