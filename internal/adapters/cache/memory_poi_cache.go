package cache

import (
	"context"
	"fmt"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultPOITTL      = time.Hour
	poiCleanupInterval = 2 * time.Hour
)

// MemoryPOICache wraps a POISource with an in-process TTL cache.
// Only successful lookups are cached.
type MemoryPOICache struct {
	next  ports.POISource
	store *gocache.Cache
}

// NewPOIStore returns a store that can be shared by several MemoryPOICache wrappers.
func NewPOIStore(ttl time.Duration) *gocache.Cache {
	if ttl <= 0 {
		ttl = DefaultPOITTL
	}
	return gocache.New(ttl, poiCleanupInterval)
}

func NewMemoryPOICache(next ports.POISource, store *gocache.Cache) *MemoryPOICache {
	return &MemoryPOICache{next: next, store: store}
}

func (c *MemoryPOICache) Name() string { return c.next.Name() }

func (c *MemoryPOICache) PoisNear(
	ctx context.Context,
	center domain.Coordinates,
	radiusMeters int,
	category domain.Category,
) ([]domain.PointOfInterest, error) {
	key := fmt.Sprintf("%s:%.3f:%.3f:%d:%s", c.next.Name(), center.Lat, center.Lng, radiusMeters, category)

	if v, ok := c.store.Get(key); ok {
		if pois, ok := v.([]domain.PointOfInterest); ok {
			return append([]domain.PointOfInterest(nil), pois...), nil
		}
	}

	pois, err := c.next.PoisNear(ctx, center, radiusMeters, category)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, append([]domain.PointOfInterest(nil), pois...), gocache.DefaultExpiration)
	return pois, nil
}
