// Package api - Thin HTTP layer over the pricing core
// The API is ONLY responsible for: input ingestion, orchestration, output serialization.
// The API NEVER performs pricing logic.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"datapoint-pricing/core/catalog"
	"datapoint-pricing/core/selection"
	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
	"datapoint-pricing/internal/logging"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Server is the API server
type Server struct {
	mux      *http.ServeMux
	version  string
	catalog  *catalog.Catalog
	selector *selection.Selector
	bounds   types.Bounds
	metrics  *Metrics
	limiter  *rateLimiter
	logger   *zap.Logger
}

// Option configures a Server
type Option func(*Server)

// WithRateLimit limits each client IP to rps requests per second with the
// given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = newRateLimiter(rps, burst)
		}
	}
}

// NewServer creates a new API server pricing cat with sel. Usage values
// outside bounds are rejected.
func NewServer(version string, cat *catalog.Catalog, sel *selection.Selector, bounds types.Bounds, opts ...Option) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		version:  version,
		catalog:  cat,
		selector: sel,
		bounds:   bounds,
		metrics:  NewMetrics(),
		logger:   logging.Component("api"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.route("POST /quote", s.handleQuote)
	s.route("GET /trends", s.handleTrends)
	s.route("GET /tiers", s.handleTiers)
	s.route("GET /tiers/{id}", s.handleTier)

	// Supporting endpoints
	s.route("GET /health", s.handleHealth)
	s.route("GET /version", s.handleVersion)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

// route registers h under pattern with request IDs, logging and metrics
func (s *Server) route(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(pattern, h))
}

type ctxKey struct{}

// RequestID returns the request ID stored in ctx
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))
		if s.limiter != nil && !s.limiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			s.writeError(rec, r, errors.Newf(errors.TypeRateLimited, "rate limit exceeded"))
		} else {
			h(rec, r)
		}

		elapsed := time.Since(start)
		s.metrics.observe(route, rec.status, elapsed)
		s.logger.Debug("request served",
			logging.RequestID(id),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("writing response", zap.Error(err))
	}
}

// writeError maps a typed error onto a status code and error body
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := string(errors.TypeInternal)

	if t, ok := errors.TypeOf(err); ok {
		code = string(t)
		switch t {
		case errors.TypeInput, errors.TypeParsing:
			status = http.StatusBadRequest
		case errors.TypeNotFound:
			status = http.StatusNotFound
		case errors.TypeRateLimited:
			status = http.StatusTooManyRequests
		}
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", logging.RequestID(RequestID(r.Context())), zap.Error(err))
		message = "internal error"
	}

	s.writeJSON(w, ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: RequestID(r.Context()),
	}}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully,
// waiting at most shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(errors.TypeInternal, "server failed", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.TypeInternal, "shutdown failed", err)
	}
	return nil
}
