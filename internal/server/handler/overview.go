package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coinarb/arbradar/internal/domain"
)

// OverviewQuerier is the slice of the engine the overview handler uses.
type OverviewQuerier interface {
	MarketOverview(ctx context.Context, premium bool) (domain.MarketOverview, error)
}

// OverviewHandler serves the market-wide statistics endpoint.
type OverviewHandler struct {
	engine OverviewQuerier
	logger *slog.Logger
}

// NewOverviewHandler creates an OverviewHandler.
func NewOverviewHandler(engine OverviewQuerier, logger *slog.Logger) *OverviewHandler {
	return &OverviewHandler{
		engine: engine,
		logger: logger.With(slog.String("handler", "overview")),
	}
}

// Get handles GET /api/market/overview.
func (h *OverviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	overview, err := h.engine.MarketOverview(r.Context(), isPremium(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "overview query failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
