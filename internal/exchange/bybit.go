package exchange

import (
	"context"
	"fmt"
	"net/http"
)

const bybitTickerURL = "https://api.bybit.com/v5/market/tickers?category=spot"

// BybitAdapter fetches spot tickers from the Bybit REST API.
type BybitAdapter struct {
	baseURL string
	client  *http.Client
}

// NewBybitAdapter creates the Bybit adapter.
func NewBybitAdapter(baseURL string) *BybitAdapter {
	if baseURL == "" {
		baseURL = bybitTickerURL
	}
	return &BybitAdapter{baseURL: baseURL, client: newHTTPClient()}
}

func (a *BybitAdapter) Name() string { return "bybit" }

type bybitTicker struct {
	Symbol       string    `json:"symbol"`
	LastPrice    flexFloat `json:"lastPrice"`
	Turnover24h  flexFloat `json:"turnover24h"` // quote-currency volume
	Price24hPcnt flexFloat `json:"price24hPcnt"`
}

type bybitResponse struct {
	RetCode int `json:"retCode"`
	Result  struct {
		List []bybitTicker `json:"list"`
	} `json:"result"`
}

// FetchTickers returns all spot tickers. Bybit reports the change as a
// fraction.
func (a *BybitAdapter) FetchTickers(ctx context.Context) ([]Ticker, error) {
	var resp bybitResponse
	if err := getJSON(ctx, a.client, a.baseURL, &resp); err != nil {
		return nil, fmt.Errorf("bybit: fetch tickers: %w", err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit: api error code %d", resp.RetCode)
	}

	out := make([]Ticker, 0, len(resp.Result.List))
	for _, t := range resp.Result.List {
		out = append(out, Ticker{
			Symbol:      NormalizeSymbol(t.Symbol, a.Name()),
			Price:       float64(t.LastPrice),
			QuoteVolume: float64(t.Turnover24h),
			ChangePct:   float64(t.Price24hPcnt) * 100,
		})
	}
	return out, nil
}
