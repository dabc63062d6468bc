package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinarb/arbradar/internal/aggregator"
	"github.com/coinarb/arbradar/internal/cache/memory"
	"github.com/coinarb/arbradar/internal/config"
	"github.com/coinarb/arbradar/internal/domain"
	"github.com/coinarb/arbradar/internal/exchange"
	"github.com/coinarb/arbradar/internal/refdata"
)

// stubAdapter serves canned tickers, or an error, under an exchange name. A
// non-zero delay makes every fetch take that long.
type stubAdapter struct {
	name  string
	delay time.Duration

	mu      sync.Mutex
	tickers []exchange.Ticker
	err     error
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) FetchTickers(_ context.Context) ([]exchange.Ticker, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]exchange.Ticker(nil), s.tickers...), nil
}

func (s *stubAdapter) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.tickers = nil
}

func newTestEngine(t *testing.T, snapshotTTL time.Duration, adapters ...exchange.Adapter) *Engine {
	t.Helper()

	cfg := config.Defaults().Engine
	cfg.SnapshotTTL = config.Duration{Duration: snapshotTTL}
	cfg.FreeLimit = 2
	cfg.PreviewExtra = 2

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tiers := refdata.NewTierRegistry(nil)

	fetcher := exchange.NewFetcher(exchange.FetcherConfig{
		Adapters:      adapters,
		Tiers:         tiers,
		Timeout:       time.Second,
		MaxConcurrent: 4,
		Logger:        logger,
	})

	return New(Config{
		Cfg:        cfg,
		Fetcher:    fetcher,
		Aggregator: aggregator.New(snapshotTTL),
		Tiers:      tiers,
		Classifier: refdata.NewSymbolClassifier(nil),
		Results:    memory.NewResultCache(),
		Logger:     logger,
	})
}

func btcTicker(price float64) exchange.Ticker {
	return exchange.Ticker{Symbol: "BTCUSDT", Price: price, QuoteVolume: 2_000_000}
}

func TestEngine_Opportunities(t *testing.T) {
	ctx := context.Background()

	t.Run("detects spread across stub exchanges", func(t *testing.T) {
		e := newTestEngine(t, time.Minute,
			&stubAdapter{name: "binance", tickers: []exchange.Ticker{btcTicker(43250.50)}},
			&stubAdapter{name: "kucoin", tickers: []exchange.Ticker{btcTicker(43512.30)}},
		)

		res, err := e.Opportunities(ctx, domain.FilterCriteria{}, true, false, false)
		require.NoError(t, err)
		require.Len(t, res.Opportunities, 1)

		opp := res.Opportunities[0]
		assert.Equal(t, "BTCUSDT", opp.Symbol)
		assert.Equal(t, "binance", opp.BuyExchange)
		assert.Equal(t, "kucoin", opp.SellExchange)
		assert.InDelta(t, 0.6053, opp.ProfitPercent, 0.001)
		assert.True(t, res.Metadata.IsPremium)
		assert.False(t, res.Metadata.Stale)
		assert.Equal(t, 1, res.Metadata.TotalFound)
	})

	t.Run("identical queries within the ttl are byte-identical", func(t *testing.T) {
		e := newTestEngine(t, time.Minute,
			&stubAdapter{name: "binance", tickers: []exchange.Ticker{btcTicker(43250.50)}},
			&stubAdapter{name: "kucoin", tickers: []exchange.Ticker{btcTicker(43512.30)}},
		)

		first, err := e.Opportunities(ctx, domain.FilterCriteria{}, false, false, false)
		require.NoError(t, err)
		second, err := e.Opportunities(ctx, domain.FilterCriteria{}, false, false, false)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("no data and no history yields explicit empty response", func(t *testing.T) {
		down := &stubAdapter{name: "binance"}
		down.fail(errors.New("connection refused"))
		e := newTestEngine(t, time.Minute, down)

		res, err := e.Opportunities(ctx, domain.FilterCriteria{}, false, false, false)
		require.NoError(t, err)
		assert.Empty(t, res.Opportunities)
		assert.NotEmpty(t, res.Metadata.Message)
		assert.Zero(t, res.Metadata.TotalFound)
	})

	t.Run("serves stale last-good when feeds go dark", func(t *testing.T) {
		binance := &stubAdapter{name: "binance", tickers: []exchange.Ticker{btcTicker(43250.50)}}
		kucoin := &stubAdapter{name: "kucoin", tickers: []exchange.Ticker{btcTicker(43512.30)}}
		e := newTestEngine(t, 30*time.Millisecond, binance, kucoin)

		fresh, err := e.Opportunities(ctx, domain.FilterCriteria{}, true, false, false)
		require.NoError(t, err)
		require.Len(t, fresh.Opportunities, 1)

		binance.fail(errors.New("connection refused"))
		kucoin.fail(errors.New("connection refused"))
		time.Sleep(50 * time.Millisecond) // let snapshots expire

		stale, err := e.Opportunities(ctx, domain.FilterCriteria{}, true, false, true)
		require.NoError(t, err)
		assert.True(t, stale.Metadata.Stale)
		require.Len(t, stale.Opportunities, 1)
		assert.Equal(t, fresh.Opportunities[0].BuyPrice, stale.Opportunities[0].BuyPrice)
	})

	t.Run("free tier is capped", func(t *testing.T) {
		binance := &stubAdapter{name: "binance"}
		kucoin := &stubAdapter{name: "kucoin"}
		for _, sym := range []string{"AAAUSDT", "BBBUSDT", "CCCUSDT", "DDDUSDT"} {
			binance.tickers = append(binance.tickers, exchange.Ticker{Symbol: sym, Price: 100, QuoteVolume: 500_000})
			kucoin.tickers = append(kucoin.tickers, exchange.Ticker{Symbol: sym, Price: 101, QuoteVolume: 500_000})
		}
		e := newTestEngine(t, time.Minute, binance, kucoin)

		res, err := e.Opportunities(ctx, domain.FilterCriteria{}, false, false, false)
		require.NoError(t, err)
		assert.Len(t, res.Opportunities, 2)
		assert.Equal(t, 4, res.Metadata.TotalFound)
		assert.True(t, res.Metadata.PreviewMode)
		assert.NotEmpty(t, res.Metadata.UpgradeMessage)

		preview, err := e.Opportunities(ctx, domain.FilterCriteria{}, false, true, false)
		require.NoError(t, err)
		require.Len(t, preview.Opportunities, 4)
		assert.True(t, preview.Opportunities[2].PreviewOnly)
		assert.Zero(t, preview.Opportunities[2].BuyPrice)
	})

	t.Run("cancelled caller stops waiting while the cycle continues", func(t *testing.T) {
		e := newTestEngine(t, time.Minute,
			&stubAdapter{name: "binance", delay: 100 * time.Millisecond, tickers: []exchange.Ticker{btcTicker(43250.50)}},
			&stubAdapter{name: "kucoin", tickers: []exchange.Ticker{btcTicker(43512.30)}},
		)

		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := e.Opportunities(cctx, domain.FilterCriteria{}, true, false, false)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 80*time.Millisecond)

		// The coalesced cycle keeps running; its result serves later callers.
		require.Eventually(t, func() bool {
			res, err := e.Opportunities(ctx, domain.FilterCriteria{}, true, false, false)
			return err == nil && len(res.Opportunities) == 1
		}, time.Second, 20*time.Millisecond)
	})
}

func TestCanonicalSymbol(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"btc", "BTCUSDT"},
		{"eth", "ETHUSDT"},
		{"BTC", "BTCUSDT"},
		{"sol", "SOLUSDT"},
		{" link ", "LINKUSDT"},
		{"btcusdt", "BTCUSDT"},
		{"btcusd", "BTCUSD"},
		{"ethbtc", "ETHBTC"},
		{"soleth", "SOLETH"},
		{"usdt", "USDTUSDT"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, canonicalSymbol(tc.in), "input %q", tc.in)
	}
}

func TestEngine_SymbolPrices(t *testing.T) {
	ctx := context.Background()

	e := newTestEngine(t, time.Minute,
		&stubAdapter{name: "binance", tickers: []exchange.Ticker{btcTicker(43000)}},
		&stubAdapter{name: "kucoin", tickers: []exchange.Ticker{btcTicker(43430)}},
	)

	t.Run("computes statistics", func(t *testing.T) {
		prices, err := e.SymbolPrices(ctx, "btc", true)
		require.NoError(t, err)

		assert.Equal(t, "BTCUSDT", prices.Symbol)
		require.Len(t, prices.Prices, 2)
		// Sorted by price ascending.
		assert.Equal(t, "binance", prices.Prices[0].Exchange)
		assert.Equal(t, 43000.0, prices.Stats.MinPrice)
		assert.Equal(t, 43430.0, prices.Stats.MaxPrice)
		assert.InDelta(t, 43215.0, prices.Stats.AvgPrice, 1e-9)
		assert.InDelta(t, 1.0, prices.Stats.SpreadPercent, 1e-9)
		assert.Equal(t, 2, prices.Stats.ExchangeCount)
	})

	t.Run("unknown symbol returns not found", func(t *testing.T) {
		_, err := e.SymbolPrices(ctx, "NOSUCHCOIN", true)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEngine_MarketOverview(t *testing.T) {
	ctx := context.Background()

	e := newTestEngine(t, time.Minute,
		&stubAdapter{name: "binance", tickers: []exchange.Ticker{btcTicker(43250.50)}},
		&stubAdapter{name: "kucoin", tickers: []exchange.Ticker{btcTicker(43512.30)}},
	)

	overview, err := e.MarketOverview(ctx, false)
	require.NoError(t, err)

	assert.Equal(t, 1, overview.TotalOpportunities)
	assert.Equal(t, []string{"BTCUSDT"}, overview.TopSymbols)
	assert.Equal(t, 1, overview.RiskDistribution[domain.RiskLow])
	assert.Equal(t, 1, overview.CategoryDistribution["layer1"])
	assert.InDelta(t, 0.6053, overview.MaxProfit, 0.001)
	assert.NotEmpty(t, overview.Message) // free tier upgrade hint
}

func TestEngine_FilterOptions(t *testing.T) {
	e := newTestEngine(t, time.Minute, &stubAdapter{name: "binance"})

	opts := e.FilterOptions()
	assert.Len(t, opts.RiskLevels, 3)
	assert.Len(t, opts.Exchanges, 13)
	assert.NotEmpty(t, opts.Categories)
	assert.NotEmpty(t, opts.VolumeRanges)
	assert.NotEmpty(t, opts.ProfitRanges)
}
