package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinarb/arbradar/internal/domain"
)

func rankedFixture(n int) []domain.Opportunity {
	opps := make([]domain.Opportunity, n)
	for i := range opps {
		opps[i] = domain.Opportunity{
			Symbol:        fmt.Sprintf("SYM%02dUSDT", i),
			BuyExchange:   "binance",
			SellExchange:  "kucoin",
			BuyPrice:      100,
			SellPrice:     102,
			ProfitPercent: 2.0,
			Volume24h:     100_000,
			RiskLevel:     domain.RiskLow,
			Score:         float64(100 - i),
		}
	}
	return opps
}

func TestTierGate_Entitlement(t *testing.T) {
	g := NewTierGate(10, 5, 0.1, 10_000)

	t.Run("premium gets the full filtered list", func(t *testing.T) {
		res := g.Apply(rankedFixture(30), domain.FilterCriteria{}, true, false)
		assert.Len(t, res.Items, 30)
		assert.Equal(t, 30, res.TotalFound)
		assert.False(t, res.PreviewMode)
		assert.Empty(t, res.UpgradeMessage)
	})

	t.Run("free is capped with upgrade message", func(t *testing.T) {
		res := g.Apply(rankedFixture(30), domain.FilterCriteria{}, false, false)
		assert.Len(t, res.Items, 10)
		assert.Equal(t, 30, res.TotalFound)
		assert.True(t, res.PreviewMode)
		assert.NotEmpty(t, res.UpgradeMessage)
	})

	t.Run("free below the cap is untouched", func(t *testing.T) {
		res := g.Apply(rankedFixture(4), domain.FilterCriteria{}, false, false)
		assert.Len(t, res.Items, 4)
		assert.Equal(t, 4, res.TotalFound)
	})

	t.Run("preview appends elided items", func(t *testing.T) {
		res := g.Apply(rankedFixture(30), domain.FilterCriteria{}, false, true)
		require.Len(t, res.Items, 15)

		for _, opp := range res.Items[:10] {
			assert.False(t, opp.PreviewOnly)
			assert.NotZero(t, opp.BuyPrice)
		}
		for _, opp := range res.Items[10:] {
			assert.True(t, opp.PreviewOnly)
			assert.NotEmpty(t, opp.Symbol)
			assert.Zero(t, opp.BuyPrice)
			assert.Zero(t, opp.SellPrice)
			assert.Zero(t, opp.ProfitPercent)
			assert.Zero(t, opp.Score)
			assert.Empty(t, opp.RiskFactors)
		}
	})

	t.Run("preview for premium is a no-op", func(t *testing.T) {
		res := g.Apply(rankedFixture(30), domain.FilterCriteria{}, true, true)
		assert.Len(t, res.Items, 30)
		for _, opp := range res.Items {
			assert.False(t, opp.PreviewOnly)
		}
	})
}

func TestTierGate_Filters(t *testing.T) {
	g := NewTierGate(10, 5, 0.1, 10_000)

	ranked := []domain.Opportunity{
		{Symbol: "BTCUSDT", BuyExchange: "binance", SellExchange: "kucoin", ProfitPercent: 0.6, Volume24h: 2_500_000, RiskLevel: domain.RiskLow, Category: "layer1"},
		{Symbol: "LINKUSDT", BuyExchange: "kraken", SellExchange: "okx", ProfitPercent: 2.5, Volume24h: 300_000, RiskLevel: domain.RiskMedium, Category: "defi"},
		{Symbol: "PEPEUSDT", BuyExchange: "mexc", SellExchange: "lbank", ProfitPercent: 8.0, Volume24h: 45_000, RiskLevel: domain.RiskHigh, Category: "other"},
	}

	t.Run("max risk is an inclusive ceiling", func(t *testing.T) {
		res := g.Apply(ranked, domain.FilterCriteria{MaxRisk: domain.RiskMedium}, true, false)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "BTCUSDT", res.Items[0].Symbol)
		assert.Equal(t, "LINKUSDT", res.Items[1].Symbol)
	})

	t.Run("min profit only raises the floor", func(t *testing.T) {
		res := g.Apply(ranked, domain.FilterCriteria{MinProfitPercent: 2.0}, true, false)
		assert.Len(t, res.Items, 2)

		// A request below the system floor has no effect.
		res = g.Apply(ranked, domain.FilterCriteria{MinProfitPercent: 0.0001}, true, false)
		assert.Len(t, res.Items, 3)
	})

	t.Run("min volume filters", func(t *testing.T) {
		res := g.Apply(ranked, domain.FilterCriteria{MinVolume24h: 100_000}, true, false)
		assert.Len(t, res.Items, 2)
	})

	t.Run("categories restrict", func(t *testing.T) {
		res := g.Apply(ranked, domain.FilterCriteria{Categories: []string{"defi", "other"}}, true, false)
		assert.Len(t, res.Items, 2)
	})

	t.Run("exchanges match either side", func(t *testing.T) {
		res := g.Apply(ranked, domain.FilterCriteria{Exchanges: []string{"okx"}}, true, false)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "LINKUSDT", res.Items[0].Symbol)
	})

	t.Run("criteria intersect", func(t *testing.T) {
		res := g.Apply(ranked, domain.FilterCriteria{
			MaxRisk:          domain.RiskHigh,
			MinProfitPercent: 2.0,
			Exchanges:        []string{"mexc"},
		}, true, false)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "PEPEUSDT", res.Items[0].Symbol)
	})
}
