// Package engine implements the arbitrage detection pipeline: pairwise
// spread detection, risk scoring, composite ranking, entitlement gating,
// and the cached query engine that ties them together.
package engine

import (
	"math"

	"github.com/coinarb/arbradar/internal/domain"
)

// Detector finds profitable directional exchange pairs per symbol.
type Detector struct {
	minProfitPercent float64
	minVolume24h     float64
}

// NewDetector creates a Detector with the system floors.
func NewDetector(minProfitPercent, minVolume24h float64) *Detector {
	return &Detector{
		minProfitPercent: minProfitPercent,
		minVolume24h:     minVolume24h,
	}
}

// Detect enumerates, for every symbol with at least two live snapshots, all
// unordered exchange pairs and emits the profitable direction of each pair
// that clears the profit and volume floors. Volume is the minimum of the two
// sides' reported 24h volume. Output is bounded by C(n,2) opportunities per
// symbol. Risk and ranking fields are filled by later stages.
func (d *Detector) Detect(table map[string][]domain.PriceSnapshot) []domain.Opportunity {
	var opps []domain.Opportunity

	for symbol, snaps := range table {
		if len(snaps) < 2 {
			continue
		}
		for i := 0; i < len(snaps); i++ {
			for j := i + 1; j < len(snaps); j++ {
				buy, sell := snaps[i], snaps[j]
				if sell.Price < buy.Price {
					buy, sell = sell, buy
				}
				// A pair with equal prices has no profitable direction.
				if sell.Price <= buy.Price {
					continue
				}

				profitPercent := (sell.Price - buy.Price) / buy.Price * 100
				if profitPercent < d.minProfitPercent {
					continue
				}
				volume := math.Min(buy.Volume24h, sell.Volume24h)
				if volume < d.minVolume24h {
					continue
				}

				observed := buy.ObservedAt
				if sell.ObservedAt.After(observed) {
					observed = sell.ObservedAt
				}

				opps = append(opps, domain.Opportunity{
					Symbol:        symbol,
					BuyExchange:   buy.Exchange,
					SellExchange:  sell.Exchange,
					BuyPrice:      buy.Price,
					SellPrice:     sell.Price,
					ProfitPercent: profitPercent,
					ProfitAmount:  sell.Price - buy.Price,
					Volume24h:     volume,
					BuyTier:       buy.Tier,
					SellTier:      sell.Tier,
					ObservedAt:    observed,
				})
			}
		}
	}
	return opps
}
