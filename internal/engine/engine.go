package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/coinarb/arbradar/internal/aggregator"
	"github.com/coinarb/arbradar/internal/config"
	"github.com/coinarb/arbradar/internal/domain"
	"github.com/coinarb/arbradar/internal/exchange"
	"github.com/coinarb/arbradar/internal/refdata"
)

// freeSymbolLimit caps how many per-exchange prices a free caller sees on
// the symbol endpoint.
const freeSymbolLimit = 5

// insufficientDataMessage annotates the explicit empty response returned
// when no exchange responded and no cached result exists.
const insufficientDataMessage = "insufficient market data: no exchange feeds responded and no cached results are available"

// Config bundles the engine's dependencies.
type Config struct {
	Cfg        config.EngineConfig
	Fetcher    *exchange.Fetcher
	Aggregator *aggregator.Aggregator
	Tiers      *refdata.TierRegistry
	Classifier *refdata.SymbolClassifier
	// Results caches assembled responses; nil disables response caching.
	Results domain.ResultCache
	Logger  *slog.Logger
}

// Engine is the pull-based query surface over the detection pipeline. All
// state it computes is immutable once returned; detection, scoring, and
// ranking run over a snapshot of the aggregator taken at cycle start.
type Engine struct {
	cfg        config.EngineConfig
	fetcher    *exchange.Fetcher
	agg        *aggregator.Aggregator
	detector   *Detector
	scorer     *RiskScorer
	ranker     *Ranker
	gate       *TierGate
	asm        *Assembler
	tiers      *refdata.TierRegistry
	classifier *refdata.SymbolClassifier
	results    domain.ResultCache
	logger     *slog.Logger

	// sf coalesces concurrent refreshes onto one in-flight cycle.
	sf singleflight.Group

	mu        sync.Mutex
	ranked    []domain.Opportunity
	rankedAt  time.Time
	haveCycle bool
}

// New creates an Engine.
func New(ec Config) *Engine {
	cfg := ec.Cfg
	return &Engine{
		cfg:        cfg,
		fetcher:    ec.Fetcher,
		agg:        ec.Aggregator,
		detector:   NewDetector(cfg.MinProfitPercent, cfg.MinVolume24h),
		scorer:     NewRiskScorer(cfg.Risk, ec.Classifier),
		ranker:     NewRanker(cfg.Rank, cfg.MinVolume24h),
		gate:       NewTierGate(cfg.FreeLimit, cfg.PreviewExtra, cfg.MinProfitPercent, cfg.MinVolume24h),
		asm:        NewAssembler(ec.Aggregator, ec.Fetcher.Perf(), ec.Tiers),
		tiers:      ec.Tiers,
		classifier: ec.Classifier,
		results:    ec.Results,
		logger:     ec.Logger.With(slog.String("component", "engine")),
	}
}

// cycleOutcome is what one detection cycle (or its fallback) yields.
type cycleOutcome struct {
	ranked []domain.Opportunity
	at     time.Time
	stale  bool
}

// Opportunities answers a gated opportunity query. Within the result TTL and
// without forceRefresh, repeated identical queries are served byte-identical
// from the result cache. ForceRefresh triggers a fresh synchronous cycle;
// concurrent forced refreshes coalesce onto one in-flight computation.
func (e *Engine) Opportunities(ctx context.Context, criteria domain.FilterCriteria, premium, preview, forceRefresh bool) (domain.OpportunitiesResult, error) {
	key := resultKey(criteria, premium, preview)

	if !forceRefresh && e.results != nil {
		if res, err := e.results.Get(ctx, key); err == nil {
			return res, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			e.logger.WarnContext(ctx, "result cache read failed, recomputing",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	out, err := e.ensureRanked(ctx, forceRefresh)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			return e.asm.AssembleEmpty(premium, insufficientDataMessage), nil
		}
		return domain.OpportunitiesResult{}, err
	}

	gated := e.gate.Apply(out.ranked, criteria, premium, preview)
	res := e.asm.Assemble(gated, premium, out.stale, out.at)

	if e.results != nil && !out.stale {
		if err := e.results.Set(ctx, key, res, e.cfg.ResultTTL.Duration); err != nil {
			e.logger.WarnContext(ctx, "result cache write failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return res, nil
}

// SymbolPrices returns all live per-exchange snapshots for a symbol plus
// derived statistics. Free callers see at most freeSymbolLimit exchanges.
// It returns domain.ErrNotFound when no exchange reports the symbol.
func (e *Engine) SymbolPrices(ctx context.Context, symbol string, premium bool) (domain.SymbolPrices, error) {
	symbol = canonicalSymbol(symbol)

	snaps := e.agg.SnapshotsFor(symbol)
	if len(snaps) == 0 {
		// Cold start: run a cycle before concluding the symbol is unknown.
		if _, err := e.ensureRanked(ctx, false); err != nil && !errors.Is(err, domain.ErrInsufficientData) {
			return domain.SymbolPrices{}, err
		}
		snaps = e.agg.SnapshotsFor(symbol)
	}
	if len(snaps) == 0 {
		return domain.SymbolPrices{}, fmt.Errorf("engine: symbol %s: %w", symbol, domain.ErrNotFound)
	}

	stats := domain.SymbolStats{
		MinPrice:      snaps[0].Price,
		MaxPrice:      snaps[len(snaps)-1].Price,
		ExchangeCount: len(snaps),
	}
	var sum float64
	for _, s := range snaps {
		sum += s.Price
		stats.TotalVolume += s.Volume24h
	}
	stats.AvgPrice = sum / float64(len(snaps))
	if stats.MinPrice > 0 {
		stats.SpreadPercent = (stats.MaxPrice - stats.MinPrice) / stats.MinPrice * 100
	}

	if !premium && len(snaps) > freeSymbolLimit {
		snaps = snaps[:freeSymbolLimit]
	}

	return domain.SymbolPrices{
		Symbol:      symbol,
		Prices:      snaps,
		Stats:       stats,
		LastUpdated: e.agg.LastRefresh(),
	}, nil
}

// MarketOverview aggregates risk and category distributions, top symbols,
// and cache/performance statistics across the full (premium) ranked list.
func (e *Engine) MarketOverview(ctx context.Context, premium bool) (domain.MarketOverview, error) {
	overview := domain.MarketOverview{
		RiskDistribution:     map[domain.RiskLevel]int{},
		CategoryDistribution: map[string]int{},
		TopSymbols:           []string{},
		ExchangeHealth:       e.tiers.CountByTier(e.agg.ActiveExchanges()),
		Cache:                e.asm.CacheStats(),
		Performance:          e.fetcher.Perf().Snapshot(),
		LastUpdated:          time.Now().UTC(),
	}

	out, err := e.ensureRanked(ctx, false)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientData) {
			overview.Message = insufficientDataMessage
			return overview, nil
		}
		return domain.MarketOverview{}, err
	}

	ranked := out.ranked
	overview.TotalOpportunities = len(ranked)
	if len(ranked) > 0 {
		var sum float64
		for _, opp := range ranked {
			sum += opp.ProfitPercent
			if opp.ProfitPercent > overview.MaxProfit {
				overview.MaxProfit = opp.ProfitPercent
			}
			overview.RiskDistribution[opp.RiskLevel]++
			overview.CategoryDistribution[opp.Category]++
		}
		overview.AvgProfit = sum / float64(len(ranked))
	}

	topN := 10
	if !premium {
		topN = 5
		overview.Message = upgradeMessage
	}
	seen := map[string]bool{}
	for _, opp := range ranked {
		if seen[opp.Symbol] {
			continue
		}
		seen[opp.Symbol] = true
		overview.TopSymbols = append(overview.TopSymbols, opp.Symbol)
		if len(overview.TopSymbols) == topN {
			break
		}
	}
	return overview, nil
}

// FilterOptions enumerates the valid filter values.
func (e *Engine) FilterOptions() domain.FilterOptions {
	opts := domain.FilterOptions{
		RiskLevels: []domain.LabeledOption{
			{Value: string(domain.RiskLow), Label: "Low Risk", Description: "Conservative opportunities"},
			{Value: string(domain.RiskMedium), Label: "Medium Risk", Description: "Balanced risk/reward"},
			{Value: string(domain.RiskHigh), Label: "High Risk", Description: "High potential, high risk"},
		},
		VolumeRanges: []float64{10_000, 50_000, 100_000, 500_000, 1_000_000},
		ProfitRanges: []float64{0.5, 1.0, 2.0, 5.0, 10.0},
	}
	for _, ex := range e.tiers.Exchanges() {
		opts.Exchanges = append(opts.Exchanges, domain.ExchangeOption{Value: ex, Tier: e.tiers.Tier(ex)})
	}
	for _, cat := range e.classifier.Categories() {
		opts.Categories = append(opts.Categories, domain.LabeledOption{Value: cat, Label: categoryLabel(cat)})
	}
	return opts
}

// Refresh forces a synchronous detection cycle. The background refresher
// calls this on its interval.
func (e *Engine) Refresh(ctx context.Context) error {
	_, err := e.ensureRanked(ctx, true)
	if errors.Is(err, domain.ErrInsufficientData) {
		return nil
	}
	return err
}

// ensureRanked returns the current ranked list, recomputing it when the
// cycle is older than the result TTL or when forced. Concurrent callers
// coalesce onto one cycle.
func (e *Engine) ensureRanked(ctx context.Context, force bool) (cycleOutcome, error) {
	e.mu.Lock()
	if e.haveCycle && !force && time.Since(e.rankedAt) < e.cfg.ResultTTL.Duration {
		out := cycleOutcome{ranked: e.ranked, at: e.rankedAt}
		e.mu.Unlock()
		return out, nil
	}
	e.mu.Unlock()

	ch := e.sf.DoChan("cycle", func() (any, error) {
		// The cycle runs on its own timeout so that one impatient caller
		// cannot cancel a computation other callers are coalesced onto.
		cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.CycleTimeout.Duration)
		defer cancel()
		return e.runCycle(cycleCtx)
	})

	select {
	case <-ctx.Done():
		// The shared cycle keeps running for the remaining waiters.
		return cycleOutcome{}, fmt.Errorf("engine: wait for cycle: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return cycleOutcome{}, res.Err
		}
		return res.Val.(cycleOutcome), nil
	}
}

// runCycle performs one snapshot-based detection cycle: fetch fan-out,
// ingestion, then pure detection, scoring, and ranking passes over an
// immutable copy of the aggregator's state.
func (e *Engine) runCycle(ctx context.Context) (cycleOutcome, error) {
	cycleID := uuid.NewString()
	start := time.Now()

	snaps := e.fetcher.FetchAll(ctx)
	stored := e.agg.IngestBatch(snaps)

	table := e.agg.Table()
	if len(table) == 0 {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.haveCycle {
			e.logger.WarnContext(ctx, "cycle produced no live snapshots, serving stale result",
				slog.String("cycle_id", cycleID),
			)
			return cycleOutcome{ranked: e.ranked, at: e.rankedAt, stale: true}, nil
		}
		return cycleOutcome{}, domain.ErrInsufficientData
	}

	opps := e.detector.Detect(table)
	for i, opp := range opps {
		opps[i] = e.scorer.Score(opp)
	}
	ranked := e.ranker.Rank(opps)

	now := time.Now().UTC()
	e.mu.Lock()
	e.ranked = ranked
	e.rankedAt = now
	e.haveCycle = true
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "detection cycle complete",
		slog.String("cycle_id", cycleID),
		slog.Int("snapshots_fetched", len(snaps)),
		slog.Int("snapshots_stored", stored),
		slog.Int("symbols", len(table)),
		slog.Int("opportunities", len(ranked)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return cycleOutcome{ranked: ranked, at: now}, nil
}

// resultKey derives a deterministic cache key from the query shape.
func resultKey(c domain.FilterCriteria, premium, preview bool) string {
	cats := append([]string(nil), c.Categories...)
	sort.Strings(cats)
	exs := append([]string(nil), c.Exchanges...)
	sort.Strings(exs)
	return fmt.Sprintf("opps:v1:premium=%t:preview=%t:risk=%s:cats=%s:exs=%s:minp=%g:minv=%g",
		premium, preview, c.MaxRisk,
		strings.Join(cats, ","), strings.Join(exs, ","),
		c.MinProfitPercent, c.MinVolume24h,
	)
}

// quoteSuffixes are the quote currencies recognized on incoming symbol
// queries. A bare base asset ("btc") gets USDT appended; a suffix only counts
// as a quote when there is a base in front of it, so "BTC" itself is a base,
// not a BTC-quoted pair.
var quoteSuffixes = []string{"USDT", "USD", "BTC", "ETH"}

// canonicalSymbol upper-cases a symbol and defaults the quote currency to
// USDT when none is given (e.g. "btc" -> "BTCUSDT").
func canonicalSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, q := range quoteSuffixes {
		if len(s) > len(q) && strings.HasSuffix(s, q) {
			return s
		}
	}
	return s + "USDT"
}

// categoryLabel maps a category value to its display label.
func categoryLabel(cat string) string {
	switch cat {
	case domain.CategoryLayer0:
		return "Layer 0"
	case domain.CategoryLayer1:
		return "Layer 1"
	case domain.CategoryLayer2:
		return "Layer 2"
	case domain.CategoryDeFi:
		return "DeFi"
	case domain.CategoryExchange:
		return "Exchange Tokens"
	case domain.CategoryPayment:
		return "Payment"
	case domain.CategoryMeme:
		return "Meme Coins"
	default:
		return "Others"
	}
}
