package domain

import (
	"context"
	"time"
)

// ResultCache stores assembled opportunity results keyed by query shape.
// Implementations return ErrNotFound for misses and for entries that fail to
// decode, so callers fall back to a full recompute in both cases.
type ResultCache interface {
	Get(ctx context.Context, key string) (OpportunitiesResult, error)
	Set(ctx context.Context, key string, result OpportunitiesResult, ttl time.Duration) error
}

// RateLimiter provides distributed rate limiting, used per exchange host on
// the fetch path and per client IP on the API surface.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
