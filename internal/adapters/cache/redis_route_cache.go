package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const DefaultRouteTTL = 24 * time.Hour

// RedisRouteCache wraps a Router and memoizes successful routes in Redis.
// Cache failures are logged and the wrapped router is used directly.
type RedisRouteCache struct {
	next ports.Router
	rdb  redis.UniversalClient
	ttl  time.Duration
}

func NewRedisRouteCache(next ports.Router, rdb redis.UniversalClient, ttl time.Duration) *RedisRouteCache {
	if ttl <= 0 {
		ttl = DefaultRouteTTL
	}
	return &RedisRouteCache{next: next, rdb: rdb, ttl: ttl}
}

func (c *RedisRouteCache) Route(ctx context.Context, points []domain.Coordinates) (*domain.RouteResult, error) {
	key := routeKey(points)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached domain.RouteResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			obs.Logf(ctx, "op=route.cache hit=true key=%s", key)
			return &cached, nil
		}
		obs.Logf(ctx, "op=route.cache key=%s err=%q", key, "undecodable entry")
	case !errors.Is(err, redis.Nil):
		obs.Logf(ctx, "op=route.cache key=%s err=%q", key, err)
	}

	res, err := c.next.Route(ctx, points)
	if err != nil || res == nil {
		return res, err
	}

	if b, err := json.Marshal(res); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			obs.Logf(ctx, "op=route.cache.set key=%s err=%q", key, err)
		}
	}

	return res, nil
}

// routeKey hashes the ordered points rounded to about 10 m.
func routeKey(points []domain.Coordinates) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.4f,%.4f", p.Lat, p.Lng)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ";")))
	return "route:" + hex.EncodeToString(sum[:])
}
