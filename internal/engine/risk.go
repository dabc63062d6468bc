package engine

import (
	"fmt"

	"github.com/coinarb/arbradar/internal/config"
	"github.com/coinarb/arbradar/internal/domain"
	"github.com/coinarb/arbradar/internal/refdata"
)

// RiskScorer computes the deterministic, additive, clamped risk score for a
// candidate opportunity, along with its level, the ordered list of factor
// labels that triggered, and a bounded confidence value.
type RiskScorer struct {
	cfg        config.RiskConfig
	classifier *refdata.SymbolClassifier
}

// NewRiskScorer creates a RiskScorer.
func NewRiskScorer(cfg config.RiskConfig, classifier *refdata.SymbolClassifier) *RiskScorer {
	return &RiskScorer{cfg: cfg, classifier: classifier}
}

// Score fills the risk fields of opp and returns the annotated copy. The
// four factors are profit magnitude, liquidity, exchange tier, and symbol
// trust; the score is their sum clamped to [0, cap].
func (s *RiskScorer) Score(opp domain.Opportunity) domain.Opportunity {
	score := 0
	var factors []string

	// Profit magnitude: unusually wide spreads are usually unrealizable.
	switch profit := opp.ProfitPercent; {
	case profit > s.cfg.HighProfitPct:
		score += 3
		factors = append(factors, fmt.Sprintf("high_profit_%.1f%%", profit))
	case profit > s.cfg.MediumProfitPct:
		score += 2
		factors = append(factors, fmt.Sprintf("medium_profit_%.1f%%", profit))
	case profit > s.cfg.LowProfitPct:
		score += 1
		factors = append(factors, fmt.Sprintf("low_profit_%.1f%%", profit))
	}

	// Liquidity.
	switch volume := opp.Volume24h; {
	case volume < s.cfg.LowVolume:
		score += 3
		factors = append(factors, fmt.Sprintf("low_volume_%.0fk", volume/1000))
	case volume < s.cfg.MediumVolume:
		score += 2
		factors = append(factors, fmt.Sprintf("medium_volume_%.0fk", volume/1000))
	}

	// Exchange tier.
	switch {
	case opp.BuyTier == domain.Tier3 && opp.SellTier == domain.Tier3:
		score += 3
		factors = append(factors, "tier3_exchanges")
	case opp.BuyTier == domain.Tier3 || opp.SellTier == domain.Tier3:
		score += 1
		factors = append(factors, "mixed_tier_exchanges")
	}

	// Symbol trust.
	info := s.classifier.Classify(opp.Symbol)
	switch {
	case !info.Trusted:
		score += 2
		factors = append(factors, "untrusted_symbol")
	case info.Premium:
		score -= 1
		factors = append(factors, "premium_coin")
	}

	if score < 0 {
		score = 0
	}
	if score > s.cfg.ScoreCap {
		score = s.cfg.ScoreCap
	}

	opp.RiskScore = score
	opp.RiskLevel = levelForScore(score)
	opp.RiskFactors = factors
	opp.Confidence = confidenceForScore(score)
	opp.Category = info.Category
	return opp
}

// levelForScore is the step function from risk score to level:
// low (0-2), medium (3-5), high (6+).
func levelForScore(score int) domain.RiskLevel {
	switch {
	case score >= 6:
		return domain.RiskHigh
	case score >= 3:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// confidenceForScore is the inverse, bounded proxy 100 - score*10, clamped
// to [0, 100]. It is not a statistical estimate.
func confidenceForScore(score int) float64 {
	c := 100 - float64(score)*10
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
