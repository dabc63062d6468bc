// Package app provides the top-level application lifecycle for the arbitrage
// engine. It wires together all dependencies (adapters, aggregator, caches,
// engine, server, feeds) and runs them until the context is cancelled.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/coinarb/arbradar/internal/config"
	"github.com/coinarb/arbradar/internal/feed"
	"github.com/coinarb/arbradar/internal/server"
	"github.com/coinarb/arbradar/internal/server/handler"
)

// shutdownTimeout bounds graceful HTTP server shutdown after cancellation.
const shutdownTimeout = 10 * time.Second

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies, starts the background loops and the HTTP
// server, and blocks until the context is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("log_level", a.cfg.LogLevel),
		slog.Bool("redis", a.cfg.Redis.Enabled),
		slog.Bool("server", a.cfg.Server.Enabled),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	g, ctx := errgroup.WithContext(ctx)

	// Background refresh loop keeps results warm between requests.
	if a.cfg.Feed.RefreshInterval.Duration > 0 {
		refresher := feed.NewRefresher(deps.Engine, a.cfg.Feed.RefreshInterval.Duration, a.logger)
		g.Go(func() error {
			return refresher.Run(ctx)
		})
	}

	// Optional Binance streaming feed for sub-cycle price freshness.
	if a.cfg.Feed.BinanceStream {
		wsFeed := feed.NewBinanceWSFeed(
			a.cfg.Feed.BinanceWsHost,
			"!miniTicker@arr",
			deps.Aggregator,
			deps.Tiers,
			a.logger,
		)
		g.Go(func() error {
			return wsFeed.Run(ctx)
		})
	}

	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps)
	}

	return g.Wait()
}

// startHTTPServer adds the HTTP server and its graceful-shutdown watcher to
// the given errgroup.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	handlers := server.Handlers{
		Health:        handler.NewHealthHandler(),
		Opportunities: handler.NewOpportunitiesHandler(deps.Engine, a.logger),
		Symbols:       handler.NewSymbolHandler(deps.Engine, a.logger),
		Overview:      handler.NewOverviewHandler(deps.Engine, a.logger),
		Filters:       handler.NewFiltersHandler(deps.Engine),
	}

	srv := server.NewServer(server.Config{
		Port:              a.cfg.Server.Port,
		CORSOrigins:       a.cfg.Server.CORSOrigins,
		RequestsPerMinute: a.cfg.Server.RequestsPerMinute,
	}, handlers, deps.RateLimiter, a.logger)

	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
