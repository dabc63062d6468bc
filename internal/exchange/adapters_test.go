package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "arbradar/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBinanceAdapter_FetchTickers(t *testing.T) {
	srv := jsonServer(t, `[
		{"symbol":"BTCUSDT","lastPrice":"43250.50","quoteVolume":"2500000","priceChangePercent":"1.25"},
		{"symbol":"ETHUSDT","lastPrice":"2300.10","quoteVolume":"1200000","priceChangePercent":"-0.50"}
	]`)

	a := NewBinanceAdapter(srv.URL)
	tickers, err := a.FetchTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 2)

	assert.Equal(t, Ticker{Symbol: "BTCUSDT", Price: 43250.50, QuoteVolume: 2_500_000, ChangePct: 1.25}, tickers[0])
	assert.Equal(t, -0.50, tickers[1].ChangePct)
}

func TestKucoinAdapter_FetchTickers(t *testing.T) {
	srv := jsonServer(t, `{"data":{"ticker":[
		{"symbol":"BTC-USDT","last":"43512.30","volValue":"1800000","changeRate":"0.0132"}
	]}}`)

	a := NewKucoinAdapter(srv.URL)
	tickers, err := a.FetchTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 1)

	assert.Equal(t, "BTCUSDT", tickers[0].Symbol)
	assert.Equal(t, 43512.30, tickers[0].Price)
	// KuCoin reports the change as a fraction.
	assert.InDelta(t, 1.32, tickers[0].ChangePct, 1e-9)
}

func TestKrakenAdapter_FetchTickers(t *testing.T) {
	srv := jsonServer(t, `{"error":[],"result":{
		"XBTUSDT":{"c":["43100.00","0.05"],"v":["12.5","58.2"],"o":"42800.00"}
	}}`)

	a := NewKrakenAdapter(srv.URL)
	tickers, err := a.FetchTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 1)

	assert.Equal(t, "BTCUSDT", tickers[0].Symbol)
	assert.Equal(t, 43100.0, tickers[0].Price)
	// Base volume x last price.
	assert.InDelta(t, 58.2*43100.0, tickers[0].QuoteVolume, 1e-6)
	assert.InDelta(t, 0.7009, tickers[0].ChangePct, 0.001)
}

func TestKrakenAdapter_APIError(t *testing.T) {
	srv := jsonServer(t, `{"error":["EService:Unavailable"],"result":{}}`)

	a := NewKrakenAdapter(srv.URL)
	_, err := a.FetchTickers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EService:Unavailable")
}

func TestBybitAdapter_FetchTickers(t *testing.T) {
	srv := jsonServer(t, `{"retCode":0,"result":{"list":[
		{"symbol":"BTCUSDT","lastPrice":"43300","turnover24h":"900000","price24hPcnt":"0.021"}
	]}}`)

	a := NewBybitAdapter(srv.URL)
	tickers, err := a.FetchTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 1)
	assert.InDelta(t, 2.1, tickers[0].ChangePct, 1e-9)
}

func TestBybitAdapter_APIError(t *testing.T) {
	srv := jsonServer(t, `{"retCode":10001,"result":{"list":[]}}`)

	a := NewBybitAdapter(srv.URL)
	_, err := a.FetchTickers(context.Background())
	assert.Error(t, err)
}

func TestLbankAdapter_FetchTickers(t *testing.T) {
	srv := jsonServer(t, `{"result":"true","data":[
		{"symbol":"shib_usdt","ticker":{"latest":"0.00000912","turnover":"45000","change":"7.93"}}
	]}`)

	a := NewLbankAdapter(srv.URL)
	tickers, err := a.FetchTickers(context.Background())
	require.NoError(t, err)
	require.Len(t, tickers, 1)

	assert.Equal(t, "SHIBUSDT", tickers[0].Symbol)
	assert.Equal(t, 0.00000912, tickers[0].Price)
	assert.Equal(t, 45000.0, tickers[0].QuoteVolume)
	assert.Equal(t, 7.93, tickers[0].ChangePct)
}

func TestGetJSON_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	a := NewBinanceAdapter(srv.URL)
	_, err := a.FetchTickers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
