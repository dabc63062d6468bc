package engine

import (
	"time"

	"github.com/coinarb/arbradar/internal/aggregator"
	"github.com/coinarb/arbradar/internal/domain"
	"github.com/coinarb/arbradar/internal/exchange"
	"github.com/coinarb/arbradar/internal/refdata"
)

// Assembler packages gated opportunity lists with cache and performance
// metadata. It is a pure assembly step with no business logic.
type Assembler struct {
	agg   *aggregator.Aggregator
	perf  *exchange.PerfTracker
	tiers *refdata.TierRegistry
}

// NewAssembler creates an Assembler.
func NewAssembler(agg *aggregator.Aggregator, perf *exchange.PerfTracker, tiers *refdata.TierRegistry) *Assembler {
	return &Assembler{agg: agg, perf: perf, tiers: tiers}
}

// CacheStats summarizes the aggregator's current state.
func (a *Assembler) CacheStats() domain.CacheStats {
	hits, misses := a.agg.Counters()
	stats := domain.CacheStats{
		Hits:            hits,
		Misses:          misses,
		LastRefresh:     a.agg.LastRefresh(),
		ExchangesByTier: a.tiers.CountByTier(a.agg.ActiveExchanges()),
		SymbolCount:     len(a.agg.AllSymbols()),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total) * 100
	}
	return stats
}

// Assemble builds the final result for one opportunity query.
func (a *Assembler) Assemble(gated GateResult, premium, stale bool, lastUpdated time.Time) domain.OpportunitiesResult {
	items := gated.Items
	if items == nil {
		items = []domain.Opportunity{}
	}
	return domain.OpportunitiesResult{
		Opportunities: items,
		Metadata: domain.ResponseMetadata{
			TotalFound:     gated.TotalFound,
			IsPremium:      premium,
			PreviewMode:    gated.PreviewMode,
			UpgradeMessage: gated.UpgradeMessage,
			Stale:          stale,
			LastUpdated:    lastUpdated,
			Cache:          a.CacheStats(),
			Performance:    a.perf.Snapshot(),
		},
	}
}

// AssembleEmpty builds the explicit insufficient-data response used when no
// exchange responded and no cached result exists.
func (a *Assembler) AssembleEmpty(premium bool, message string) domain.OpportunitiesResult {
	return domain.OpportunitiesResult{
		Opportunities: []domain.Opportunity{},
		Metadata: domain.ResponseMetadata{
			IsPremium:   premium,
			Message:     message,
			LastUpdated: time.Now().UTC(),
			Cache:       a.CacheStats(),
			Performance: a.perf.Snapshot(),
		},
	}
}
