package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/coinarb/arbradar/internal/domain"
)

// OpportunityQuerier is the slice of the engine the opportunity handlers use.
type OpportunityQuerier interface {
	Opportunities(ctx context.Context, criteria domain.FilterCriteria, premium, preview, forceRefresh bool) (domain.OpportunitiesResult, error)
}

// OpportunitiesHandler serves the gated opportunity listings.
type OpportunitiesHandler struct {
	engine OpportunityQuerier
	logger *slog.Logger
}

// NewOpportunitiesHandler creates an OpportunitiesHandler.
func NewOpportunitiesHandler(engine OpportunityQuerier, logger *slog.Logger) *OpportunitiesHandler {
	return &OpportunitiesHandler{
		engine: engine,
		logger: logger.With(slog.String("handler", "opportunities")),
	}
}

// List handles GET /api/opportunities.
func (h *OpportunitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

// Preview handles GET /api/opportunities/preview. For free callers the
// response appends elided teasers beyond the free cap; for premium callers
// it is identical to List.
func (h *OpportunitiesHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *OpportunitiesHandler) serve(w http.ResponseWriter, r *http.Request, preview bool) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.Opportunities(r.Context(), criteria, isPremium(r), preview, parseBool(r, "force_refresh"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "opportunity query failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
