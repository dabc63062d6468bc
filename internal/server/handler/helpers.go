// Package handler contains the HTTP handlers for the public API. Handlers
// parse and validate request shapes, delegate to the engine, and render
// JSON; they hold no business logic of their own.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/coinarb/arbradar/internal/domain"
)

// entitlementHeader carries the caller's tier as resolved by the upstream
// auth layer.
const entitlementHeader = "X-Entitlement"

// writeJSON marshals v as JSON and writes it to the response with the given
// HTTP status code. If marshaling fails, it falls back to a plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// isPremium reports whether the upstream auth layer marked the request as
// entitled to the premium tier.
func isPremium(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(entitlementHeader), "premium")
}

// parseCriteria extracts filter parameters from the query string. Invalid
// numeric values and unknown risk levels are reported as errors rather than
// silently ignored.
func parseCriteria(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()
	var c domain.FilterCriteria

	if v := q.Get("max_risk"); v != "" {
		level := domain.RiskLevel(strings.ToLower(v))
		if !level.Valid() {
			return c, errBadParam("max_risk", v)
		}
		c.MaxRisk = level
	}
	if v := q.Get("min_profit"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return c, errBadParam("min_profit", v)
		}
		c.MinProfitPercent = f
	}
	if v := q.Get("min_volume"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return c, errBadParam("min_volume", v)
		}
		c.MinVolume24h = f
	}
	c.Categories = splitParam(q.Get("categories"))
	c.Exchanges = splitParam(q.Get("exchanges"))
	return c, nil
}

// parseBool reads a boolean query parameter; absent or unparseable values
// are false.
func parseBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// splitParam splits a comma-separated query value into trimmed lower-case
// parts, dropping empties.
func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid value for " + e.name + ": " + e.value
}

func errBadParam(name, value string) error {
	return &paramError{name: name, value: value}
}
