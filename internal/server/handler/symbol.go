package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coinarb/arbradar/internal/domain"
)

// SymbolQuerier is the slice of the engine the symbol handler uses.
type SymbolQuerier interface {
	SymbolPrices(ctx context.Context, symbol string, premium bool) (domain.SymbolPrices, error)
}

// SymbolHandler serves per-symbol price listings.
type SymbolHandler struct {
	engine SymbolQuerier
	logger *slog.Logger
}

// NewSymbolHandler creates a SymbolHandler.
func NewSymbolHandler(engine SymbolQuerier, logger *slog.Logger) *SymbolHandler {
	return &SymbolHandler{
		engine: engine,
		logger: logger.With(slog.String("handler", "symbol")),
	}
}

// Get handles GET /api/symbols/{symbol}.
func (h *SymbolHandler) Get(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	prices, err := h.engine.SymbolPrices(r.Context(), symbol, isPremium(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "symbol not found on any exchange")
			return
		}
		h.logger.ErrorContext(r.Context(), "symbol query failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, prices)
}
