package geocode

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"atlas-service/internal/search"
)

const (
	cacheKeyPrefix = "geocode:"
	cacheTTL       = 24 * time.Hour
)

// CachedResolver memoizes successful Resolve calls in redis. Geocoded place
// names move slowly; a day of caching keeps repeat searches off the paid API.
// Cache failures fall through to the live call and never surface to callers.
type CachedResolver struct {
	inner  search.Resolver
	client *redis.Client
	logger *zap.Logger
}

func NewCachedResolver(inner search.Resolver, client *redis.Client, logger *zap.Logger) *CachedResolver {
	return &CachedResolver{inner: inner, client: client, logger: logger}
}

func (r *CachedResolver) Resolve(ctx context.Context, query string) (search.Location, error) {
	key := cacheKeyPrefix + strings.ToLower(strings.TrimSpace(query))

	if data, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var loc search.Location
		if err := json.Unmarshal(data, &loc); err == nil {
			return loc, nil
		}
		// Unreadable entry: drop it and fall through.
		r.client.Del(ctx, key)
	}

	loc, err := r.inner.Resolve(ctx, query)
	if err != nil {
		return search.Location{}, err
	}

	if data, err := json.Marshal(loc); err == nil {
		if err := r.client.Set(ctx, key, data, cacheTTL).Err(); err != nil {
			r.logger.Warn("failed to cache geocode result", zap.String("query", query), zap.Error(err))
		}
	}
	return loc, nil
}
