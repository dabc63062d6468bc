package exchange

import (
	"context"
	"fmt"
	"net/http"
)

const mexcTickerURL = "https://api.mexc.com/api/v3/ticker/24hr"

// MexcAdapter fetches 24h tickers from the MEXC REST API, which mirrors the
// Binance ticker shape.
type MexcAdapter struct {
	baseURL string
	client  *http.Client
}

// NewMexcAdapter creates the MEXC adapter.
func NewMexcAdapter(baseURL string) *MexcAdapter {
	if baseURL == "" {
		baseURL = mexcTickerURL
	}
	return &MexcAdapter{baseURL: baseURL, client: newHTTPClient()}
}

func (a *MexcAdapter) Name() string { return "mexc" }

type mexcTicker struct {
	Symbol             string    `json:"symbol"`
	LastPrice          flexFloat `json:"lastPrice"`
	QuoteVolume        flexFloat `json:"quoteVolume"`
	PriceChangePercent flexFloat `json:"priceChangePercent"` // fraction
}

// FetchTickers returns all spot tickers. MEXC reports the change as a
// fraction despite the Binance-style field name.
func (a *MexcAdapter) FetchTickers(ctx context.Context) ([]Ticker, error) {
	var rows []mexcTicker
	if err := getJSON(ctx, a.client, a.baseURL, &rows); err != nil {
		return nil, fmt.Errorf("mexc: fetch tickers: %w", err)
	}

	out := make([]Ticker, 0, len(rows))
	for _, r := range rows {
		out = append(out, Ticker{
			Symbol:      NormalizeSymbol(r.Symbol, a.Name()),
			Price:       float64(r.LastPrice),
			QuoteVolume: float64(r.QuoteVolume),
			ChangePct:   float64(r.PriceChangePercent) * 100,
		})
	}
	return out, nil
}
