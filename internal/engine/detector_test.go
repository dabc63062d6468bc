package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinarb/arbradar/internal/domain"
)

func snap(exchange string, price, volume float64, tier domain.Tier) domain.PriceSnapshot {
	return domain.PriceSnapshot{
		Exchange:   exchange,
		Symbol:     "BTCUSDT",
		Price:      price,
		Volume24h:  volume,
		Tier:       tier,
		ObservedAt: time.Now(),
	}
}

func TestDetector_Detect(t *testing.T) {
	d := NewDetector(0.1, 10_000)

	t.Run("emits profitable direction of a pair", func(t *testing.T) {
		table := map[string][]domain.PriceSnapshot{
			"BTCUSDT": {
				snap("kucoin", 43512.30, 1_800_000, domain.Tier2),
				snap("binance", 43250.50, 2_500_000, domain.Tier1),
			},
		}
		opps := d.Detect(table)
		require.Len(t, opps, 1)

		opp := opps[0]
		assert.Equal(t, "binance", opp.BuyExchange)
		assert.Equal(t, "kucoin", opp.SellExchange)
		assert.Equal(t, 43250.50, opp.BuyPrice)
		assert.Equal(t, 43512.30, opp.SellPrice)
		assert.InDelta(t, 0.6053, opp.ProfitPercent, 0.001)
		// Volume is the min of the two sides.
		assert.Equal(t, 1_800_000.0, opp.Volume24h)
		assert.Equal(t, domain.Tier1, opp.BuyTier)
		assert.Equal(t, domain.Tier2, opp.SellTier)
	})

	t.Run("skips equal prices", func(t *testing.T) {
		table := map[string][]domain.PriceSnapshot{
			"BTCUSDT": {
				snap("binance", 43250.50, 2_500_000, domain.Tier1),
				snap("kraken", 43250.50, 1_200_000, domain.Tier1),
			},
		}
		assert.Empty(t, d.Detect(table))
	})

	t.Run("applies profit floor", func(t *testing.T) {
		table := map[string][]domain.PriceSnapshot{
			"BTCUSDT": {
				snap("binance", 43000, 2_500_000, domain.Tier1),
				snap("kraken", 43001, 1_200_000, domain.Tier1), // ~0.002%
			},
		}
		assert.Empty(t, d.Detect(table))
	})

	t.Run("applies volume floor on the min side", func(t *testing.T) {
		table := map[string][]domain.PriceSnapshot{
			"BTCUSDT": {
				snap("binance", 43000, 2_500_000, domain.Tier1),
				snap("lbank", 43500, 5_000, domain.Tier3),
			},
		}
		assert.Empty(t, d.Detect(table))
	})

	t.Run("single snapshot yields nothing", func(t *testing.T) {
		table := map[string][]domain.PriceSnapshot{
			"BTCUSDT": {snap("binance", 43000, 2_500_000, domain.Tier1)},
		}
		assert.Empty(t, d.Detect(table))
	})

	t.Run("bounded by unordered pairs", func(t *testing.T) {
		table := map[string][]domain.PriceSnapshot{
			"BTCUSDT": {
				snap("binance", 43000, 2_500_000, domain.Tier1),
				snap("kraken", 43200, 1_200_000, domain.Tier1),
				snap("kucoin", 43400, 900_000, domain.Tier2),
				snap("mexc", 43600, 500_000, domain.Tier3),
			},
		}
		// 4 exchanges: at most C(4,2)=6 opportunities, one per pair.
		opps := d.Detect(table)
		assert.LessOrEqual(t, len(opps), 6)

		seen := map[[2]string]bool{}
		for _, opp := range opps {
			pair := [2]string{opp.BuyExchange, opp.SellExchange}
			assert.False(t, seen[pair], "duplicate pair %v", pair)
			seen[pair] = true
			assert.Greater(t, opp.SellPrice, opp.BuyPrice)
		}
	})
}
