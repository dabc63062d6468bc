package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/coinarb/arbradar/internal/domain"
)

// ResultCache implements domain.ResultCache using Redis string keys holding
// JSON-encoded results. Each query shape caches independently so repeated
// identical queries within the TTL return byte-identical responses.
type ResultCache struct {
	rdb *redis.Client
}

// NewResultCache creates a ResultCache backed by the given Client.
func NewResultCache(c *Client) *ResultCache {
	return &ResultCache{rdb: c.raw()}
}

func resultCacheKey(key string) string {
	return "result:" + key
}

// Get retrieves a cached result. It returns domain.ErrNotFound when the key
// does not exist or the stored payload cannot be decoded; a corrupt entry is
// treated as a miss so callers recompute rather than fail.
func (rc *ResultCache) Get(ctx context.Context, key string) (domain.OpportunitiesResult, error) {
	raw, err := rc.rdb.Get(ctx, resultCacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.OpportunitiesResult{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.OpportunitiesResult{}, fmt.Errorf("redis: get result %s: %w", key, err)
	}

	var result domain.OpportunitiesResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.OpportunitiesResult{}, domain.ErrNotFound
	}
	return result, nil
}

// Set stores a result under the given key with the given TTL.
func (rc *ResultCache) Set(ctx context.Context, key string, result domain.OpportunitiesResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redis: encode result %s: %w", key, err)
	}
	if err := rc.rdb.Set(ctx, resultCacheKey(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set result %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ResultCache = (*ResultCache)(nil)
