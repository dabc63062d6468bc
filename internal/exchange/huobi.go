package exchange

import (
	"context"
	"fmt"
	"net/http"
)

const huobiTickerURL = "https://api.huobi.pro/market/tickers"

// HuobiAdapter fetches all market tickers from the Huobi (HTX) REST API.
type HuobiAdapter struct {
	baseURL string
	client  *http.Client
}

// NewHuobiAdapter creates the Huobi adapter.
func NewHuobiAdapter(baseURL string) *HuobiAdapter {
	if baseURL == "" {
		baseURL = huobiTickerURL
	}
	return &HuobiAdapter{baseURL: baseURL, client: newHTTPClient()}
}

func (a *HuobiAdapter) Name() string { return "huobi" }

type huobiTicker struct {
	Symbol string    `json:"symbol"`
	Close  flexFloat `json:"close"`
	Vol    flexFloat `json:"vol"` // quote-currency volume
	Open   flexFloat `json:"open"`
}

type huobiResponse struct {
	Status string        `json:"status"`
	Data   []huobiTicker `json:"data"`
}

// FetchTickers returns all tickers. Huobi reports only the 24h open, so the
// change percentage is derived.
func (a *HuobiAdapter) FetchTickers(ctx context.Context) ([]Ticker, error) {
	var resp huobiResponse
	if err := getJSON(ctx, a.client, a.baseURL, &resp); err != nil {
		return nil, fmt.Errorf("huobi: fetch tickers: %w", err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("huobi: api status %q", resp.Status)
	}

	out := make([]Ticker, 0, len(resp.Data))
	for _, t := range resp.Data {
		last := float64(t.Close)
		out = append(out, Ticker{
			Symbol:      NormalizeSymbol(t.Symbol, a.Name()),
			Price:       last,
			QuoteVolume: float64(t.Vol),
			ChangePct:   changeFromOpen(last, float64(t.Open)),
		})
	}
	return out, nil
}
