package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travelstay/marketplace-api/internal/api/metrics"
	"github.com/travelstay/marketplace-api/internal/core/domain"
)

const cityCacheTTL = time.Minute

// CityCache caches the top-cities aggregate in Redis, keyed by limit.
// The aggregate is public marketing data, so staleness within the TTL is
// acceptable. Role lookups are never cached anywhere in this service.
type CityCache struct {
	client *redis.Client
}

func NewCityCache(client *redis.Client) *CityCache {
	return &CityCache{client: client}
}

// Get returns the cached summaries for limit, reporting whether the key was
// present.
func (c *CityCache) Get(ctx context.Context, limit int) ([]domain.CitySummary, bool, error) {
	raw, err := c.client.Get(ctx, c.key(limit)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.TopCitiesCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("city cache get: %w", err)
	}

	var summaries []domain.CitySummary
	if err := json.Unmarshal([]byte(raw), &summaries); err != nil {
		return nil, false, fmt.Errorf("city cache decode: %w", err)
	}

	metrics.TopCitiesCacheTotal.WithLabelValues("hit").Inc()
	return summaries, true, nil
}

// Set stores the summaries for limit (expires after cityCacheTTL).
func (c *CityCache) Set(ctx context.Context, limit int, summaries []domain.CitySummary) error {
	raw, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("city cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(limit), raw, cityCacheTTL).Err()
}

func (c *CityCache) key(limit int) string {
	return fmt.Sprintf("topcities:%d", limit)
}
