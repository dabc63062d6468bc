package exchange

import (
	"context"
	"fmt"
	"net/http"
)

const krakenTickerURL = "https://api.kraken.com/0/public/Ticker"

// KrakenAdapter fetches public tickers from the Kraken REST API.
type KrakenAdapter struct {
	baseURL string
	client  *http.Client
}

// NewKrakenAdapter creates the Kraken adapter.
func NewKrakenAdapter(baseURL string) *KrakenAdapter {
	if baseURL == "" {
		baseURL = krakenTickerURL
	}
	return &KrakenAdapter{baseURL: baseURL, client: newHTTPClient()}
}

func (a *KrakenAdapter) Name() string { return "kraken" }

// krakenPair is Kraken's ticker shape: c = last trade [price, lot volume],
// v = volume [today, last 24h] in base units, o = today's opening price.
type krakenPair struct {
	C []flexFloat `json:"c"`
	V []flexFloat `json:"v"`
	O flexFloat   `json:"o"`
}

type krakenResponse struct {
	Error  []string              `json:"error"`
	Result map[string]krakenPair `json:"result"`
}

// FetchTickers returns all pairs. Kraken reports base-unit volume, so the
// quote volume is derived as volume x last price.
func (a *KrakenAdapter) FetchTickers(ctx context.Context) ([]Ticker, error) {
	var resp krakenResponse
	if err := getJSON(ctx, a.client, a.baseURL, &resp); err != nil {
		return nil, fmt.Errorf("kraken: fetch tickers: %w", err)
	}
	if len(resp.Error) > 0 {
		return nil, fmt.Errorf("kraken: api error: %s", resp.Error[0])
	}

	out := make([]Ticker, 0, len(resp.Result))
	for pair, t := range resp.Result {
		if len(t.C) == 0 || len(t.V) < 2 {
			continue
		}
		last := float64(t.C[0])
		out = append(out, Ticker{
			Symbol:      NormalizeSymbol(pair, a.Name()),
			Price:       last,
			QuoteVolume: float64(t.V[1]) * last,
			ChangePct:   changeFromOpen(last, float64(t.O)),
		})
	}
	return out, nil
}
