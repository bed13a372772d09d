package services

import (
	"context"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// LocationResolver turns free text into a location by trying geocoders in
// priority order. It never fails: provider errors count as "no result".
type LocationResolver struct {
	cache     ports.GeocodeCache
	geocoders []ports.Geocoder
	timeout   time.Duration
}

// NewLocationResolver builds a resolver over the given chain. cache may be nil.
func NewLocationResolver(cache ports.GeocodeCache, timeout time.Duration, geocoders ...ports.Geocoder) *LocationResolver {
	return &LocationResolver{cache: cache, geocoders: geocoders, timeout: timeout}
}

// Resolve returns the first match in the chain, or nil when no provider knows the place.
func (r *LocationResolver) Resolve(ctx context.Context, query string) *domain.GeoLocation {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return nil
	}
	key := domain.NormalizeQuery(query)

	if r.cache != nil {
		hits, err := r.cache.GetMany(ctx, []string{key})
		if err != nil {
			obs.Logf(ctx, "op=resolve.cache query=%q err=%q", query, err)
		} else if loc, ok := hits[key]; ok {
			return &loc
		}
	}

	for _, g := range r.geocoders {
		if ctx.Err() != nil {
			return nil
		}

		loc := r.tryGeocoder(ctx, g, query)
		if loc == nil {
			continue
		}

		if r.cache != nil && loc.Provider != domain.ProviderCurated {
			if err := r.cache.PutMany(ctx, map[string]domain.GeoLocation{key: *loc}); err != nil {
				obs.Logf(ctx, "op=resolve.cache.put query=%q err=%q", query, err)
			}
		}
		return loc
	}

	return nil
}

func (r *LocationResolver) tryGeocoder(ctx context.Context, g ports.Geocoder, query string) *domain.GeoLocation {
	cctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	loc, err := g.Geocode(cctx, query)
	if err != nil {
		obs.Logf(ctx, "op=resolve provider=%s query=%q err=%q", g.Name(), query, err)
		return nil
	}
	return loc
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
