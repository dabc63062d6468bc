package redis

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/coinarb/arbradar/internal/domain"
)

//go:embed scripts/sliding_window.lua
var slidingWindowLua string

// RateLimiter implements domain.RateLimiter as a sliding window over a Redis
// sorted set, advanced atomically by a Lua script. The same limiter instance
// serves outbound exchange fetch throttling and inbound per-client API
// limiting; keys carry their own namespaces.
type RateLimiter struct {
	rdb           *redis.Client
	slidingWindow *redis.Script
}

// NewRateLimiter creates a RateLimiter backed by the given Client.
func NewRateLimiter(c *Client) *RateLimiter {
	return &RateLimiter{
		rdb:           c.raw(),
		slidingWindow: redis.NewScript(slidingWindowLua),
	}
}

// Allow reports whether one more event for key fits inside the window. An
// allowed event is recorded; a denied one leaves the window untouched. Each
// event is stored under a unique member so concurrent callers landing on the
// same microsecond are all counted.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixMicro()

	res, err := rl.slidingWindow.Run(ctx, rl.rdb,
		[]string{"ratelimit:" + key},
		now, window.Microseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return false, fmt.Errorf("redis: rate limit %s: %w", key, err)
	}
	if len(res) != 2 {
		return false, fmt.Errorf("redis: rate limit %s: script returned %d values", key, len(res))
	}

	return res[0] == 1, nil
}

var _ domain.RateLimiter = (*RateLimiter)(nil)
