package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinarb/arbradar/internal/config"
	"github.com/coinarb/arbradar/internal/domain"
)

func newTestRanker() *Ranker {
	return NewRanker(config.Defaults().Engine.Rank, 10_000)
}

func TestRanker_Score(t *testing.T) {
	r := newTestRanker()

	t.Run("baseline components", func(t *testing.T) {
		opp := domain.Opportunity{ProfitPercent: 1.0, RiskScore: 2, Volume24h: 100_000}
		// 50 + 1*2 - 2*3 + log10(10) = 47
		assert.InDelta(t, 47.0, r.Score(opp), 1e-9)
	})

	t.Run("profit weight is capped", func(t *testing.T) {
		low := r.Score(domain.Opportunity{ProfitPercent: 10, Volume24h: 10_000})
		high := r.Score(domain.Opportunity{ProfitPercent: 50, Volume24h: 10_000})
		assert.Equal(t, low, high)
	})

	t.Run("volume bonus is capped", func(t *testing.T) {
		opp := domain.Opportunity{ProfitPercent: 1, Volume24h: math.MaxFloat64}
		// 50 + 2 + 10: the bonus cannot exceed the cap.
		assert.InDelta(t, 62.0, r.Score(opp), 1e-9)
	})

	t.Run("clamped to [0,100]", func(t *testing.T) {
		worst := r.Score(domain.Opportunity{RiskScore: 100, Volume24h: 10})
		assert.Equal(t, 0.0, worst)
	})

	t.Run("higher risk scores lower", func(t *testing.T) {
		safe := r.Score(domain.Opportunity{ProfitPercent: 2, RiskScore: 0, Volume24h: 100_000})
		risky := r.Score(domain.Opportunity{ProfitPercent: 2, RiskScore: 8, Volume24h: 100_000})
		assert.Greater(t, safe, risky)
	})
}

func TestRanker_Rank(t *testing.T) {
	r := newTestRanker()

	t.Run("orders by score descending", func(t *testing.T) {
		opps := []domain.Opportunity{
			{Symbol: "AAAUSDT", ProfitPercent: 0.5, RiskScore: 8, Volume24h: 20_000},
			{Symbol: "BBBUSDT", ProfitPercent: 3, RiskScore: 0, Volume24h: 5_000_000},
			{Symbol: "CCCUSDT", ProfitPercent: 1, RiskScore: 3, Volume24h: 100_000},
		}
		ranked := r.Rank(opps)
		require.Len(t, ranked, 3)
		assert.Equal(t, "BBBUSDT", ranked[0].Symbol)
		assert.Equal(t, "CCCUSDT", ranked[1].Symbol)
		assert.Equal(t, "AAAUSDT", ranked[2].Symbol)
		for i := 1; i < len(ranked); i++ {
			assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
		}
	})

	t.Run("ties break on symbol then exchange pair", func(t *testing.T) {
		opps := []domain.Opportunity{
			{Symbol: "ZZZUSDT", BuyExchange: "kraken", SellExchange: "okx", ProfitPercent: 1, Volume24h: 50_000},
			{Symbol: "AAAUSDT", BuyExchange: "kraken", SellExchange: "okx", ProfitPercent: 1, Volume24h: 50_000},
			{Symbol: "AAAUSDT", BuyExchange: "binance", SellExchange: "okx", ProfitPercent: 1, Volume24h: 50_000},
		}
		ranked := r.Rank(opps)
		require.Len(t, ranked, 3)
		assert.Equal(t, "AAAUSDT", ranked[0].Symbol)
		assert.Equal(t, "binance", ranked[0].BuyExchange)
		assert.Equal(t, "AAAUSDT", ranked[1].Symbol)
		assert.Equal(t, "kraken", ranked[1].BuyExchange)
		assert.Equal(t, "ZZZUSDT", ranked[2].Symbol)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		opps := []domain.Opportunity{
			{Symbol: "AAAUSDT", ProfitPercent: 1, Volume24h: 50_000},
			{Symbol: "BBBUSDT", ProfitPercent: 5, Volume24h: 50_000},
		}
		_ = r.Rank(opps)
		assert.Equal(t, "AAAUSDT", opps[0].Symbol)
		assert.Zero(t, opps[0].Score)
	})
}
