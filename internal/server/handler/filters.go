package handler

import (
	"net/http"

	"github.com/coinarb/arbradar/internal/domain"
)

// FilterOptionsProvider is the slice of the engine the filters handler uses.
type FilterOptionsProvider interface {
	FilterOptions() domain.FilterOptions
}

// FiltersHandler serves the filter value enumeration.
type FiltersHandler struct {
	engine FilterOptionsProvider
}

// NewFiltersHandler creates a FiltersHandler.
func NewFiltersHandler(engine FilterOptionsProvider) *FiltersHandler {
	return &FiltersHandler{engine: engine}
}

// Options handles GET /api/filters/options.
func (h *FiltersHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.FilterOptions())
}
