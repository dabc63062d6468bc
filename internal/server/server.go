// Package server exposes the read-only HTTP API over the detection engine.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coinarb/arbradar/internal/domain"
	"github.com/coinarb/arbradar/internal/server/handler"
	"github.com/coinarb/arbradar/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port              int
	CORSOrigins       []string
	RequestsPerMinute int
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health        *handler.HealthHandler
	Opportunities *handler.OpportunitiesHandler
	Symbols       *handler.SymbolHandler
	Overview      *handler.OverviewHandler
	Filters       *handler.FiltersHandler
}

// Server is the HTTP API server for the arbitrage engine.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// It wires up middleware (request-id, logging, rate limiting, CORS). A nil
// limiter disables per-client rate limiting.
func NewServer(cfg Config, handlers Handlers, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	// --- Register routes ---

	// Health check.
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Opportunity endpoints.
	mux.HandleFunc("GET /api/opportunities", handlers.Opportunities.List)
	mux.HandleFunc("GET /api/opportunities/preview", handlers.Opportunities.Preview)

	// Symbol prices.
	mux.HandleFunc("GET /api/symbols/{symbol}", handlers.Symbols.Get)

	// Market overview and filter enumeration.
	mux.HandleFunc("GET /api/market/overview", handlers.Overview.Get)
	mux.HandleFunc("GET /api/filters/options", handlers.Filters.Options)

	// Build the middleware chain.
	var h http.Handler = mux

	h = middleware.RateLimit(limiter, cfg.RequestsPerMinute, time.Minute)(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID()(h)
	h = corsMiddleware(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// corsMiddleware returns middleware that sets CORS headers for the allowed
// origins. If no origins are specified, it defaults to allowing all origins.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				allowed := len(allowedOrigins) == 0 // allow all if none specified
				for _, o := range allowedOrigins {
					if strings.EqualFold(o, "*") || strings.EqualFold(o, origin) {
						allowed = true
						break
					}
				}

				if allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Entitlement, X-Request-ID")
					w.Header().Set("Access-Control-Max-Age", "86400")
				}
			}

			// Handle preflight requests.
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
