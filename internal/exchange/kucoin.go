package exchange

import (
	"context"
	"fmt"
	"net/http"
)

const kucoinTickerURL = "https://api.kucoin.com/api/v1/market/allTickers"

// KucoinAdapter fetches all tickers from the KuCoin REST API.
type KucoinAdapter struct {
	baseURL string
	client  *http.Client
}

// NewKucoinAdapter creates the KuCoin adapter.
func NewKucoinAdapter(baseURL string) *KucoinAdapter {
	if baseURL == "" {
		baseURL = kucoinTickerURL
	}
	return &KucoinAdapter{baseURL: baseURL, client: newHTTPClient()}
}

func (a *KucoinAdapter) Name() string { return "kucoin" }

type kucoinTicker struct {
	Symbol     string    `json:"symbol"`
	Last       flexFloat `json:"last"`
	VolValue   flexFloat `json:"volValue"`
	ChangeRate flexFloat `json:"changeRate"` // fraction, e.g. 0.0132
}

type kucoinResponse struct {
	Data struct {
		Ticker []kucoinTicker `json:"ticker"`
	} `json:"data"`
}

// FetchTickers returns all tickers. KuCoin reports the change as a fraction.
func (a *KucoinAdapter) FetchTickers(ctx context.Context) ([]Ticker, error) {
	var resp kucoinResponse
	if err := getJSON(ctx, a.client, a.baseURL, &resp); err != nil {
		return nil, fmt.Errorf("kucoin: fetch tickers: %w", err)
	}

	out := make([]Ticker, 0, len(resp.Data.Ticker))
	for _, t := range resp.Data.Ticker {
		out = append(out, Ticker{
			Symbol:      NormalizeSymbol(t.Symbol, a.Name()),
			Price:       float64(t.Last),
			QuoteVolume: float64(t.VolValue),
			ChangePct:   float64(t.ChangeRate) * 100,
		})
	}
	return out, nil
}
