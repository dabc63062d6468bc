package exchange

import (
	"context"
	"fmt"
	"net/http"
)

const lbankTickerURL = "https://api.lbkex.com/v2/ticker/24hr.do?symbol=all"

// LbankAdapter fetches 24h tickers from the LBank REST API.
type LbankAdapter struct {
	baseURL string
	client  *http.Client
}

// NewLbankAdapter creates the LBank adapter.
func NewLbankAdapter(baseURL string) *LbankAdapter {
	if baseURL == "" {
		baseURL = lbankTickerURL
	}
	return &LbankAdapter{baseURL: baseURL, client: newHTTPClient()}
}

func (a *LbankAdapter) Name() string { return "lbank" }

type lbankRow struct {
	Symbol string `json:"symbol"`
	Ticker struct {
		Latest   flexFloat `json:"latest"`
		Turnover flexFloat `json:"turnover"` // quote-currency volume
		Change   flexFloat `json:"change"`   // percent
	} `json:"ticker"`
}

type lbankResponse struct {
	Result string     `json:"result"`
	Data   []lbankRow `json:"data"`
}

// FetchTickers returns all tickers.
func (a *LbankAdapter) FetchTickers(ctx context.Context) ([]Ticker, error) {
	var resp lbankResponse
	if err := getJSON(ctx, a.client, a.baseURL, &resp); err != nil {
		return nil, fmt.Errorf("lbank: fetch tickers: %w", err)
	}
	if resp.Result != "" && resp.Result != "true" {
		return nil, fmt.Errorf("lbank: api result %q", resp.Result)
	}

	out := make([]Ticker, 0, len(resp.Data))
	for _, r := range resp.Data {
		out = append(out, Ticker{
			Symbol:      NormalizeSymbol(r.Symbol, a.Name()),
			Price:       float64(r.Ticker.Latest),
			QuoteVolume: float64(r.Ticker.Turnover),
			ChangePct:   float64(r.Ticker.Change),
		})
	}
	return out, nil
}
