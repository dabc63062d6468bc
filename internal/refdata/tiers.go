// Package refdata holds the static reference tables consulted by the engine:
// the exchange trust-tier registry and the symbol trust classifier. Both are
// loaded at construction and never mutated afterwards.
package refdata

import (
	"sort"

	"github.com/coinarb/arbradar/internal/domain"
)

// defaultTiers maps exchange identifiers to their trust tier. Unknown
// exchanges are treated as tier 3.
var defaultTiers = map[string]domain.Tier{
	"binance":  domain.Tier1,
	"coinbase": domain.Tier1,
	"kraken":   domain.Tier1,

	"kucoin": domain.Tier2,
	"gate":   domain.Tier2,
	"okx":    domain.Tier2,
	"bybit":  domain.Tier2,
	"bitget": domain.Tier2,

	"mexc":     domain.Tier3,
	"huobi":    domain.Tier3,
	"bitfinex": domain.Tier3,
	"bingx":    domain.Tier3,
	"lbank":    domain.Tier3,
}

// TierRegistry maps exchange identifiers to trust tiers.
type TierRegistry struct {
	tiers map[string]domain.Tier
}

// NewTierRegistry builds a registry from the built-in table merged with the
// given overrides (override tier 0 removes the entry).
func NewTierRegistry(overrides map[string]int) *TierRegistry {
	tiers := make(map[string]domain.Tier, len(defaultTiers)+len(overrides))
	for ex, t := range defaultTiers {
		tiers[ex] = t
	}
	for ex, t := range overrides {
		if t < 1 || t > 3 {
			delete(tiers, ex)
			continue
		}
		tiers[ex] = domain.Tier(t)
	}
	return &TierRegistry{tiers: tiers}
}

// Tier returns the trust tier for an exchange, defaulting to tier 3 for
// exchanges the registry does not know.
func (r *TierRegistry) Tier(exchange string) domain.Tier {
	if t, ok := r.tiers[exchange]; ok {
		return t
	}
	return domain.Tier3
}

// Exchanges returns all known exchange identifiers in lexical order.
func (r *TierRegistry) Exchanges() []string {
	out := make([]string, 0, len(r.tiers))
	for ex := range r.tiers {
		out = append(out, ex)
	}
	sort.Strings(out)
	return out
}

// CountByTier returns how many known exchanges fall in each tier, counting
// only exchanges present in the given active set when it is non-nil.
func (r *TierRegistry) CountByTier(active map[string]bool) domain.TierCounts {
	var counts domain.TierCounts
	for ex, t := range r.tiers {
		if active != nil && !active[ex] {
			continue
		}
		switch t {
		case domain.Tier1:
			counts.Tier1++
		case domain.Tier2:
			counts.Tier2++
		case domain.Tier3:
			counts.Tier3++
		}
	}
	return counts
}
