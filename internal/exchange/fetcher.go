package exchange

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/coinarb/arbradar/internal/domain"
	"github.com/coinarb/arbradar/internal/refdata"
)

// FetcherConfig configures the fan-out fetcher.
type FetcherConfig struct {
	Adapters []Adapter
	Tiers    *refdata.TierRegistry
	// Limiter rate-limits requests per exchange host. Optional.
	Limiter domain.RateLimiter
	// RequestsPerMinute is the per-exchange limit applied through Limiter.
	RequestsPerMinute int
	// Timeout bounds one adapter call.
	Timeout time.Duration
	// MaxConcurrent caps simultaneous adapter fetches.
	MaxConcurrent int
	// MinQuoteVolume drops thin ticker rows before they reach the aggregator.
	MinQuoteVolume float64
	Logger         *slog.Logger
}

// Fetcher fans fetch tasks out across all adapters with bounded concurrency
// and converts their tickers into validated price snapshots. A failing or
// timed-out adapter is logged and skipped; it never fails the cycle.
type Fetcher struct {
	adapters       []Adapter
	tiers          *refdata.TierRegistry
	limiter        domain.RateLimiter
	perMinute      int
	timeout        time.Duration
	maxConcurrent  int
	minQuoteVolume float64
	logger         *slog.Logger
	perf           *PerfTracker
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = len(cfg.Adapters)
	}
	return &Fetcher{
		adapters:       cfg.Adapters,
		tiers:          cfg.Tiers,
		limiter:        cfg.Limiter,
		perMinute:      cfg.RequestsPerMinute,
		timeout:        cfg.Timeout,
		maxConcurrent:  maxConcurrent,
		minQuoteVolume: cfg.MinQuoteVolume,
		logger:         cfg.Logger.With(slog.String("component", "fetcher")),
		perf:           NewPerfTracker(),
	}
}

// FetchAll runs one fetch fan-out and returns every validated snapshot that
// arrived before ctx expired. Cancelling ctx stops waiting for further
// adapters but keeps everything already collected.
func (f *Fetcher) FetchAll(ctx context.Context) []domain.PriceSnapshot {
	var (
		mu    sync.Mutex
		snaps []domain.PriceSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)

	for _, adapter := range f.adapters {
		g.Go(func() error {
			collected := f.fetchOne(gctx, adapter)
			if len(collected) == 0 {
				return nil
			}
			mu.Lock()
			snaps = append(snaps, collected...)
			mu.Unlock()
			return nil
		})
	}

	// Tasks only ever return nil; partial data never fails the cycle.
	_ = g.Wait()
	return snaps
}

// fetchOne fetches a single adapter with its own timeout and converts the
// result to snapshots.
func (f *Fetcher) fetchOne(ctx context.Context, adapter Adapter) []domain.PriceSnapshot {
	name := adapter.Name()

	if f.limiter != nil && f.perMinute > 0 {
		allowed, err := f.limiter.Allow(ctx, "fetch:"+name, f.perMinute, time.Minute)
		if err == nil && !allowed {
			f.logger.DebugContext(ctx, "adapter fetch rate limited", slog.String("exchange", name))
			return nil
		}
		// Limiter errors fail open; a broken limiter must not stop ingestion.
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	tickers, err := adapter.FetchTickers(fetchCtx)
	elapsed := time.Since(start)
	f.perf.Record(name, elapsed, err == nil)

	if err != nil {
		f.logger.WarnContext(ctx, "adapter fetch failed",
			slog.String("exchange", name),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return nil
	}

	observed := time.Now()
	tier := f.tiers.Tier(name)
	snaps := make([]domain.PriceSnapshot, 0, len(tickers))
	for _, t := range tickers {
		if t.QuoteVolume < f.minQuoteVolume {
			continue
		}
		snap := domain.PriceSnapshot{
			Exchange:   name,
			Symbol:     t.Symbol,
			Price:      t.Price,
			Volume24h:  t.QuoteVolume,
			Change24h:  t.ChangePct,
			Tier:       tier,
			ObservedAt: observed,
		}
		if !snap.Valid() {
			continue
		}
		snaps = append(snaps, snap)
	}

	f.logger.DebugContext(ctx, "adapter fetch complete",
		slog.String("exchange", name),
		slog.Int("snapshots", len(snaps)),
		slog.Duration("elapsed", elapsed),
	)
	return snaps
}

// Perf returns the fetcher's performance tracker.
func (f *Fetcher) Perf() *PerfTracker { return f.perf }

// Exchanges returns the adapter names in registration order.
func (f *Fetcher) Exchanges() []string {
	names := make([]string, 0, len(f.adapters))
	for _, a := range f.adapters {
		names = append(names, a.Name())
	}
	return names
}
