package feed

import (
	"context"
	"log/slog"
	"time"
)

// Refreshable is the slice of the engine the refresher drives.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresher runs detection cycles on a fixed interval so query results stay
// warm between requests.
type Refresher struct {
	engine   Refreshable
	interval time.Duration
	logger   *slog.Logger
}

// NewRefresher creates a Refresher.
func NewRefresher(engine Refreshable, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		engine:   engine,
		interval: interval,
		logger:   logger.With(slog.String("component", "refresher")),
	}
}

// Run performs one immediate cycle then repeats on the interval until ctx is
// cancelled. Cycle failures are logged, not fatal.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", slog.Duration("interval", r.interval))
	defer r.logger.Info("refresher stopped")

	if err := r.engine.Refresh(ctx); err != nil && ctx.Err() == nil {
		r.logger.Warn("initial refresh failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.engine.Refresh(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("refresh failed", slog.String("error", err.Error()))
			}
		}
	}
}
