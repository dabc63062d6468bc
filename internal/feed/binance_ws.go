// Package feed runs the background ingestion loops: the periodic REST
// refresh cycle and the optional Binance WebSocket stream that keeps
// tier-1 snapshots fresher than the cycle interval.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/coinarb/arbradar/internal/aggregator"
	"github.com/coinarb/arbradar/internal/domain"
	"github.com/coinarb/arbradar/internal/refdata"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to the peer at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// reconnectDelay is the base delay before attempting to reconnect.
	reconnectDelay = 2 * time.Second

	// maxReconnectDelay caps the exponential backoff for reconnection.
	maxReconnectDelay = 60 * time.Second
)

// miniTicker is one element of Binance's !miniTicker@arr stream payload.
type miniTicker struct {
	Symbol      string `json:"s"`
	Close       string `json:"c"`
	Open        string `json:"o"`
	QuoteVolume string `json:"q"`
}

// BinanceWSFeed streams Binance 24h mini-tickers over WebSocket and ingests
// them as snapshots, keeping Binance prices fresher than the REST cycle
// interval. It reconnects with exponential backoff on disconnect.
type BinanceWSFeed struct {
	wsHost string
	stream string
	agg    *aggregator.Aggregator
	tier   domain.Tier
	logger *slog.Logger
}

// NewBinanceWSFeed creates a feed streaming the given combined stream name
// (e.g. "!miniTicker@arr") from the given host.
func NewBinanceWSFeed(wsHost, stream string, agg *aggregator.Aggregator, tiers *refdata.TierRegistry, logger *slog.Logger) *BinanceWSFeed {
	return &BinanceWSFeed{
		wsHost: wsHost,
		stream: stream,
		agg:    agg,
		tier:   tiers.Tier("binance"),
		logger: logger.With(slog.String("component", "binance_ws_feed")),
	}
}

// Run connects and streams until ctx is cancelled, reconnecting with
// exponential backoff on disconnect.
func (f *BinanceWSFeed) Run(ctx context.Context) error {
	delay := reconnectDelay
	for {
		err := f.runConnection(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		f.logger.Warn("binance ws disconnected, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("delay", delay),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

func (f *BinanceWSFeed) runConnection(ctx context.Context) error {
	url := fmt.Sprintf("%s/ws/%s", f.wsHost, f.stream)

	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("feed: binance ws connect: %w", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Close the connection when ctx ends so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				conn.Close()
				return
			case <-done:
				return
			case <-ticker.C:
				deadline := time.Now().Add(writeWait)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					conn.Close()
					return
				}
			}
		}
	}()

	f.logger.Info("binance ws connected", slog.String("stream", f.stream))

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("feed: binance ws read: %w", err)
		}
		f.handleMessage(msg)
	}
}

func (f *BinanceWSFeed) handleMessage(msg []byte) {
	var tickers []miniTicker
	if err := json.Unmarshal(msg, &tickers); err != nil {
		f.logger.Debug("binance ws unparseable message", slog.Int("payload_len", len(msg)))
		return
	}

	now := time.Now().UTC()
	var snaps []domain.PriceSnapshot
	for _, t := range tickers {
		price, err := strconv.ParseFloat(t.Close, 64)
		if err != nil || price <= 0 {
			continue
		}
		open, _ := strconv.ParseFloat(t.Open, 64)
		quoteVol, _ := strconv.ParseFloat(t.QuoteVolume, 64)

		var changePct float64
		if open > 0 {
			changePct = (price - open) / open * 100
		}

		snaps = append(snaps, domain.PriceSnapshot{
			Exchange:   "binance",
			Symbol:     t.Symbol,
			Price:      price,
			Volume24h:  quoteVol,
			Change24h:  changePct,
			Tier:       f.tier,
			ObservedAt: now,
		})
	}
	if len(snaps) > 0 {
		f.agg.IngestBatch(snaps)
	}
}
