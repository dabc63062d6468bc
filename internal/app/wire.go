package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coinarb/arbradar/internal/aggregator"
	"github.com/coinarb/arbradar/internal/cache/memory"
	"github.com/coinarb/arbradar/internal/cache/redis"
	"github.com/coinarb/arbradar/internal/config"
	"github.com/coinarb/arbradar/internal/domain"
	"github.com/coinarb/arbradar/internal/engine"
	"github.com/coinarb/arbradar/internal/exchange"
	"github.com/coinarb/arbradar/internal/refdata"
)

// Dependencies bundles every component the application needs to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Tiers      *refdata.TierRegistry
	Classifier *refdata.SymbolClassifier
	Aggregator *aggregator.Aggregator
	Fetcher    *exchange.Fetcher
	Engine     *engine.Engine

	// RateLimiter is nil when Redis is disabled; both outbound fetch
	// throttling and the API middleware treat nil as "no limiting".
	RateLimiter domain.RateLimiter
	Results     domain.ResultCache
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{
		Tiers:      refdata.NewTierRegistry(cfg.Exchanges.TierOverrides),
		Classifier: refdata.NewSymbolClassifier(cfg.Exchanges.TrustedSymbols),
		Aggregator: aggregator.New(cfg.Engine.SnapshotTTL.Duration),
	}

	// --- Redis (optional) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.RateLimiter = redis.NewRateLimiter(redisClient)
		deps.Results = redis.NewResultCache(redisClient)
	} else {
		deps.Results = memory.NewResultCache()
	}

	// --- Exchange adapters and fetch fan-out ---
	adapters, err := exchange.BuildAdapters(cfg.Exchanges.Enabled)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: adapters: %w", err)
	}
	deps.Fetcher = exchange.NewFetcher(exchange.FetcherConfig{
		Adapters:          adapters,
		Tiers:             deps.Tiers,
		Limiter:           deps.RateLimiter,
		RequestsPerMinute: cfg.Exchanges.RequestsPerMinute,
		Timeout:           cfg.Exchanges.FetchTimeout.Duration,
		MaxConcurrent:     cfg.Exchanges.MaxConcurrent,
		MinQuoteVolume:    cfg.Exchanges.MinQuoteVolume,
		Logger:            logger,
	})

	// --- Engine ---
	deps.Engine = engine.New(engine.Config{
		Cfg:        cfg.Engine,
		Fetcher:    deps.Fetcher,
		Aggregator: deps.Aggregator,
		Tiers:      deps.Tiers,
		Classifier: deps.Classifier,
		Results:    deps.Results,
		Logger:     logger,
	})

	return deps, cleanup, nil
}
