// Package memory provides in-process implementations of domain cache
// interfaces for deployments that run without Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/coinarb/arbradar/internal/domain"
)

type entry struct {
	result    domain.OpportunitiesResult
	expiresAt time.Time
}

// ResultCache implements domain.ResultCache with a mutex-guarded map.
// Expired entries are pruned lazily on read and write.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

// NewResultCache creates an empty ResultCache.
func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[string]entry)}
}

// Get retrieves a cached result. It returns domain.ErrNotFound when the key
// is absent or its TTL has elapsed.
func (rc *ResultCache) Get(_ context.Context, key string) (domain.OpportunitiesResult, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	e, ok := rc.entries[key]
	if !ok {
		return domain.OpportunitiesResult{}, domain.ErrNotFound
	}
	if time.Now().After(e.expiresAt) {
		delete(rc.entries, key)
		return domain.OpportunitiesResult{}, domain.ErrNotFound
	}
	return e.result, nil
}

// Set stores a result under the given key with the given TTL. Entries that
// expired before this write are swept opportunistically to bound growth.
func (rc *ResultCache) Set(_ context.Context, key string, result domain.OpportunitiesResult, ttl time.Duration) error {
	now := time.Now()

	rc.mu.Lock()
	defer rc.mu.Unlock()

	for k, e := range rc.entries {
		if now.After(e.expiresAt) {
			delete(rc.entries, k)
		}
	}
	rc.entries[key] = entry{result: result, expiresAt: now.Add(ttl)}
	return nil
}

// Compile-time interface check.
var _ domain.ResultCache = (*ResultCache)(nil)
