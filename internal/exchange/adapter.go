// Package exchange implements the per-exchange ticker adapters and the
// bounded-concurrency fetcher that fans them out into a common snapshot
// shape.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Ticker is one raw 24h ticker row as reported by an exchange, after the
// adapter has normalized its symbol and units (volume in quote currency,
// change in percent).
type Ticker struct {
	Symbol      string
	Price       float64
	QuoteVolume float64
	ChangePct   float64
}

// Adapter fetches and normalizes one exchange's raw price/volume feed.
type Adapter interface {
	Name() string
	FetchTickers(ctx context.Context) ([]Ticker, error)
}

// userAgent is sent on every exchange request.
const userAgent = "arbradar/1.0"

// newHTTPClient returns the shared client configuration for REST adapters.
// Per-call deadlines come from the fetcher's context, so no client timeout.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// getJSON performs a GET request and decodes the JSON response into v.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// flexFloat decodes JSON numbers that exchanges report either as numbers or
// as quoted strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// NormalizeSymbol maps an exchange-native pair name to the canonical form
// used across the engine (e.g. "BTC-USDT", "btc_usdt" -> "BTCUSDT").
func NormalizeSymbol(symbol, exchange string) string {
	s := strings.ToUpper(symbol)
	s = strings.NewReplacer("/", "", "-", "", "_", "").Replace(s)

	switch exchange {
	case "bitfinex":
		s = strings.TrimPrefix(s, "T")
	case "kraken":
		s = strings.ReplaceAll(s, "XBT", "BTC")
	}
	return s
}

// changeFromOpen derives a 24h change percentage for exchanges that report
// only the open price.
func changeFromOpen(last, open float64) float64 {
	if open <= 0 {
		return 0
	}
	return (last - open) / open * 100
}
