package exchange

import (
	"context"
	"fmt"
	"net/http"
)

const gateTickerURL = "https://api.gateio.ws/api/v4/spot/tickers"

// GateAdapter fetches spot tickers from the Gate.io REST API.
type GateAdapter struct {
	baseURL string
	client  *http.Client
}

// NewGateAdapter creates the Gate.io adapter.
func NewGateAdapter(baseURL string) *GateAdapter {
	if baseURL == "" {
		baseURL = gateTickerURL
	}
	return &GateAdapter{baseURL: baseURL, client: newHTTPClient()}
}

func (a *GateAdapter) Name() string { return "gate" }

type gateTicker struct {
	CurrencyPair     string    `json:"currency_pair"`
	Last             flexFloat `json:"last"`
	QuoteVolume      flexFloat `json:"quote_volume"`
	ChangePercentage flexFloat `json:"change_percentage"`
}

// FetchTickers returns all spot tickers.
func (a *GateAdapter) FetchTickers(ctx context.Context) ([]Ticker, error) {
	var rows []gateTicker
	if err := getJSON(ctx, a.client, a.baseURL, &rows); err != nil {
		return nil, fmt.Errorf("gate: fetch tickers: %w", err)
	}

	out := make([]Ticker, 0, len(rows))
	for _, r := range rows {
		out = append(out, Ticker{
			Symbol:      NormalizeSymbol(r.CurrencyPair, a.Name()),
			Price:       float64(r.Last),
			QuoteVolume: float64(r.QuoteVolume),
			ChangePct:   float64(r.ChangePercentage),
		})
	}
	return out, nil
}
