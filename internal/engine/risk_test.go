package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coinarb/arbradar/internal/config"
	"github.com/coinarb/arbradar/internal/domain"
	"github.com/coinarb/arbradar/internal/refdata"
)

func newTestScorer() *RiskScorer {
	return NewRiskScorer(config.Defaults().Engine.Risk, refdata.NewSymbolClassifier(nil))
}

func TestRiskScorer_MajorPairNarrowSpread(t *testing.T) {
	s := newTestScorer()

	// BTC between two reputable exchanges with deep volume: nothing adds
	// risk and the premium bonus cannot push the score below zero.
	opp := s.Score(domain.Opportunity{
		Symbol:        "BTCUSDT",
		BuyExchange:   "binance",
		SellExchange:  "kucoin",
		BuyPrice:      43250.50,
		SellPrice:     43512.30,
		ProfitPercent: 0.6053,
		Volume24h:     2_500_000,
		BuyTier:       domain.Tier1,
		SellTier:      domain.Tier2,
	})

	assert.Equal(t, 0, opp.RiskScore)
	assert.Equal(t, domain.RiskLow, opp.RiskLevel)
	assert.Equal(t, 100.0, opp.Confidence)
	assert.Equal(t, []string{"premium_coin"}, opp.RiskFactors)
	assert.Equal(t, domain.CategoryLayer1, opp.Category)
}

func TestRiskScorer_ThinAltcoinWideSpread(t *testing.T) {
	s := newTestScorer()

	// Unknown meme coin between two tier-3 venues on thin volume with a
	// suspiciously wide spread: every factor fires, clamped at the cap.
	opp := s.Score(domain.Opportunity{
		Symbol:        "SHIBUSDT",
		BuyExchange:   "mexc",
		SellExchange:  "lbank",
		BuyPrice:      0.00000845,
		SellPrice:     0.00000912,
		ProfitPercent: 7.9289,
		Volume24h:     45_000,
		BuyTier:       domain.Tier3,
		SellTier:      domain.Tier3,
	})

	assert.Equal(t, 10, opp.RiskScore)
	assert.Equal(t, domain.RiskHigh, opp.RiskLevel)
	assert.Equal(t, 0.0, opp.Confidence)
	assert.Equal(t, []string{
		"medium_profit_7.9%",
		"low_volume_45k",
		"tier3_exchanges",
		"untrusted_symbol",
	}, opp.RiskFactors)
	assert.Equal(t, domain.CategoryOther, opp.Category)
}

func TestRiskScorer_MixedTier(t *testing.T) {
	s := newTestScorer()

	opp := s.Score(domain.Opportunity{
		Symbol:        "LINKUSDT",
		ProfitPercent: 1.5,
		Volume24h:     500_000,
		BuyTier:       domain.Tier1,
		SellTier:      domain.Tier3,
	})

	// Only the mixed-tier factor fires: trusted symbol, deep volume,
	// profit below the lowest threshold.
	assert.Equal(t, 1, opp.RiskScore)
	assert.Equal(t, domain.RiskLow, opp.RiskLevel)
	assert.Equal(t, []string{"mixed_tier_exchanges"}, opp.RiskFactors)
	assert.Equal(t, 90.0, opp.Confidence)
}

func TestLevelForScore(t *testing.T) {
	assert.Equal(t, domain.RiskLow, levelForScore(0))
	assert.Equal(t, domain.RiskLow, levelForScore(2))
	assert.Equal(t, domain.RiskMedium, levelForScore(3))
	assert.Equal(t, domain.RiskMedium, levelForScore(5))
	assert.Equal(t, domain.RiskHigh, levelForScore(6))
	assert.Equal(t, domain.RiskHigh, levelForScore(10))
}
