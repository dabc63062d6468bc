package engine

import (
	"math"
	"sort"

	"github.com/coinarb/arbradar/internal/config"
	"github.com/coinarb/arbradar/internal/domain"
)

// Ranker assigns the composite opportunity score and produces the total
// order used for pagination and gating.
type Ranker struct {
	cfg         config.RankConfig
	volumeFloor float64
}

// NewRanker creates a Ranker. volumeFloor anchors the log-volume bonus.
func NewRanker(cfg config.RankConfig, volumeFloor float64) *Ranker {
	if volumeFloor <= 0 {
		volumeFloor = 1
	}
	return &Ranker{cfg: cfg, volumeFloor: volumeFloor}
}

// Score computes clamp(50 + profitWeight - riskWeight + volumeBonus, 0, 100)
// where profitWeight scales with profit up to a cap, riskWeight is the risk
// score times a factor, and volumeBonus grows with each order of magnitude
// of volume above the floor.
func (r *Ranker) Score(opp domain.Opportunity) float64 {
	profitWeight := opp.ProfitPercent * r.cfg.ProfitPerPct
	if profitWeight > r.cfg.ProfitCap {
		profitWeight = r.cfg.ProfitCap
	}

	riskWeight := float64(opp.RiskScore) * r.cfg.RiskFactor

	volumeBonus := 0.0
	if opp.Volume24h > r.volumeFloor {
		volumeBonus = math.Log10(opp.Volume24h / r.volumeFloor)
		if volumeBonus > r.cfg.VolumeCap {
			volumeBonus = r.cfg.VolumeCap
		}
	}

	score := 50 + profitWeight - riskWeight + volumeBonus
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Rank scores every opportunity and sorts descending by opportunity score,
// breaking ties by profit percent, then 24h volume, then symbol lexical
// order, then the exchange pair. The chain yields a fully deterministic
// order for identical inputs.
func (r *Ranker) Rank(opps []domain.Opportunity) []domain.Opportunity {
	ranked := make([]domain.Opportunity, len(opps))
	for i, opp := range opps {
		opp.Score = r.Score(opp)
		ranked[i] = opp
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ProfitPercent != b.ProfitPercent {
			return a.ProfitPercent > b.ProfitPercent
		}
		if a.Volume24h != b.Volume24h {
			return a.Volume24h > b.Volume24h
		}
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		if a.BuyExchange != b.BuyExchange {
			return a.BuyExchange < b.BuyExchange
		}
		return a.SellExchange < b.SellExchange
	})
	return ranked
}
