package exchange

import (
	"context"
	"fmt"
	"net/http"
)

const okxTickerURL = "https://www.okx.com/api/v5/market/tickers?instType=SPOT"

// OkxAdapter fetches spot tickers from the OKX REST API.
type OkxAdapter struct {
	baseURL string
	client  *http.Client
}

// NewOkxAdapter creates the OKX adapter.
func NewOkxAdapter(baseURL string) *OkxAdapter {
	if baseURL == "" {
		baseURL = okxTickerURL
	}
	return &OkxAdapter{baseURL: baseURL, client: newHTTPClient()}
}

func (a *OkxAdapter) Name() string { return "okx" }

type okxTicker struct {
	InstID    string    `json:"instId"`
	Last      flexFloat `json:"last"`
	VolCcy24h flexFloat `json:"volCcy24h"` // quote-currency volume
	Open24h   flexFloat `json:"open24h"`
}

type okxResponse struct {
	Code string      `json:"code"`
	Data []okxTicker `json:"data"`
}

// FetchTickers returns all spot tickers. OKX reports only the 24h open, so
// the change percentage is derived.
func (a *OkxAdapter) FetchTickers(ctx context.Context) ([]Ticker, error) {
	var resp okxResponse
	if err := getJSON(ctx, a.client, a.baseURL, &resp); err != nil {
		return nil, fmt.Errorf("okx: fetch tickers: %w", err)
	}
	if resp.Code != "0" && resp.Code != "" {
		return nil, fmt.Errorf("okx: api error code %s", resp.Code)
	}

	out := make([]Ticker, 0, len(resp.Data))
	for _, t := range resp.Data {
		last := float64(t.Last)
		out = append(out, Ticker{
			Symbol:      NormalizeSymbol(t.InstID, a.Name()),
			Price:       last,
			QuoteVolume: float64(t.VolCcy24h),
			ChangePct:   changeFromOpen(last, float64(t.Open24h)),
		})
	}
	return out, nil
}
