package engine

import (
	"github.com/coinarb/arbradar/internal/domain"
)

// upgradeMessage is shown to free-tier callers alongside truncated results.
const upgradeMessage = "Upgrade to premium for the full opportunity list and advanced filters"

// TierGate applies request filters and then truncates or redacts the ranked
// list according to the caller's entitlement.
type TierGate struct {
	freeLimit    int
	previewExtra int
	// System floors; request filters may only raise them.
	minProfitPercent float64
	minVolume24h     float64
}

// NewTierGate creates a TierGate.
func NewTierGate(freeLimit, previewExtra int, minProfitPercent, minVolume24h float64) *TierGate {
	return &TierGate{
		freeLimit:        freeLimit,
		previewExtra:     previewExtra,
		minProfitPercent: minProfitPercent,
		minVolume24h:     minVolume24h,
	}
}

// GateResult is the outcome of applying filters and entitlement.
type GateResult struct {
	Items          []domain.Opportunity
	TotalFound     int // post-filter, pre-gate count
	PreviewMode    bool
	UpgradeMessage string
}

// Apply filters the ranked list (criteria are intersective) and gates it by
// entitlement. Premium callers get the full filtered list. Free callers get
// at most the free limit; with preview requested, the next items are
// appended with numeric fields elided but existence and category shown.
func (g *TierGate) Apply(ranked []domain.Opportunity, criteria domain.FilterCriteria, premium, preview bool) GateResult {
	filtered := g.filter(ranked, criteria)

	res := GateResult{TotalFound: len(filtered)}
	if premium {
		res.Items = filtered
		return res
	}

	res.PreviewMode = true
	res.UpgradeMessage = upgradeMessage

	limit := g.freeLimit
	if limit > len(filtered) {
		limit = len(filtered)
	}
	res.Items = append([]domain.Opportunity(nil), filtered[:limit]...)

	if preview {
		end := limit + g.previewExtra
		if end > len(filtered) {
			end = len(filtered)
		}
		for _, opp := range filtered[limit:end] {
			res.Items = append(res.Items, elide(opp))
		}
	}
	return res
}

// filter keeps opportunities satisfying every populated criterion. Profit
// and volume minimums are clamped to the system floors; empty category and
// exchange sets impose no restriction.
func (g *TierGate) filter(ranked []domain.Opportunity, c domain.FilterCriteria) []domain.Opportunity {
	minProfit := c.MinProfitPercent
	if minProfit < g.minProfitPercent {
		minProfit = g.minProfitPercent
	}
	minVolume := c.MinVolume24h
	if minVolume < g.minVolume24h {
		minVolume = g.minVolume24h
	}

	categories := toSet(c.Categories)
	exchanges := toSet(c.Exchanges)

	out := make([]domain.Opportunity, 0, len(ranked))
	for _, opp := range ranked {
		if opp.ProfitPercent < minProfit {
			continue
		}
		if opp.Volume24h < minVolume {
			continue
		}
		if c.MaxRisk != "" && !opp.RiskLevel.AtMost(c.MaxRisk) {
			continue
		}
		if len(categories) > 0 && !categories[opp.Category] {
			continue
		}
		if len(exchanges) > 0 && !exchanges[opp.BuyExchange] && !exchanges[opp.SellExchange] {
			continue
		}
		out = append(out, opp)
	}
	return out
}

// elide blanks the numeric fields of a preview item. Symbol, category, and
// risk level stay visible so callers can see what they are missing.
func elide(opp domain.Opportunity) domain.Opportunity {
	return domain.Opportunity{
		Symbol:      opp.Symbol,
		Category:    opp.Category,
		RiskLevel:   opp.RiskLevel,
		ObservedAt:  opp.ObservedAt,
		PreviewOnly: true,
	}
}

func toSet(vals []string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}
