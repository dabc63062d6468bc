package exchange

import (
	"context"
	"fmt"
	"net/http"
)

const binanceTickerURL = "https://api.binance.com/api/v3/ticker/24hr"

// BinanceAdapter fetches 24h tickers from the Binance spot REST API.
type BinanceAdapter struct {
	baseURL string
	client  *http.Client
}

// NewBinanceAdapter creates the Binance adapter. An empty baseURL uses the
// production endpoint.
func NewBinanceAdapter(baseURL string) *BinanceAdapter {
	if baseURL == "" {
		baseURL = binanceTickerURL
	}
	return &BinanceAdapter{baseURL: baseURL, client: newHTTPClient()}
}

func (a *BinanceAdapter) Name() string { return "binance" }

type binanceTicker struct {
	Symbol             string    `json:"symbol"`
	LastPrice          flexFloat `json:"lastPrice"`
	QuoteVolume        flexFloat `json:"quoteVolume"`
	PriceChangePercent flexFloat `json:"priceChangePercent"`
}

// FetchTickers returns all spot tickers with normalized symbols.
func (a *BinanceAdapter) FetchTickers(ctx context.Context) ([]Ticker, error) {
	var rows []binanceTicker
	if err := getJSON(ctx, a.client, a.baseURL, &rows); err != nil {
		return nil, fmt.Errorf("binance: fetch tickers: %w", err)
	}

	out := make([]Ticker, 0, len(rows))
	for _, r := range rows {
		out = append(out, Ticker{
			Symbol:      NormalizeSymbol(r.Symbol, a.Name()),
			Price:       float64(r.LastPrice),
			QuoteVolume: float64(r.QuoteVolume),
			ChangePct:   float64(r.PriceChangePercent),
		})
	}
	return out, nil
}
