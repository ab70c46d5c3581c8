package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"datapoint-pricing/core/comparison"
	"datapoint-pricing/core/input"
	"datapoint-pricing/core/output"
	"datapoint-pricing/internal/errors"
	"datapoint-pricing/internal/logging"
)

// handleQuote handles POST /quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Parsing("invalid JSON body", err))
		return
	}
	if req.Usage == "" {
		s.writeError(w, r, errors.Input("usage is required"))
		return
	}

	usage, err := input.Parse(string(req.Usage), s.bounds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q, err := s.selector.Quote(s.catalog.Tiers(), usage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	display := make(map[string]string, len(q.Tiers))
	for _, tq := range q.Tiers {
		display[tq.Tier.ID] = output.FormatCurrency(tq.Price)
	}

	s.metrics.quoted(q.BestID)
	s.logger.Info("quote served",
		logging.RequestID(RequestID(r.Context())),
		logging.Usage(usage),
		logging.Tier(q.BestID),
	)

	s.writeJSON(w, QuoteResponse{
		RequestID: RequestID(r.Context()),
		Timestamp: time.Now().UTC(),
		Usage:     usage,
		BestTier:  q.BestID,
		Quote:     q,
		Display:   display,
	}, http.StatusOK)
}

// handleTrends handles GET /trends?usage=
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	usage := s.bounds.Default
	if raw := r.URL.Query().Get("usage"); raw != "" {
		v, err := input.Parse(raw, s.bounds)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		usage = v
	}

	tiers := s.catalog.Tiers()
	best, err := s.selector.Best(tiers, usage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	chart, err := comparison.Build(s.selector.Model(), tiers, usage, best.ID, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, TrendsResponse{
		RequestID: RequestID(r.Context()),
		Chart:     chart,
	}, http.StatusOK)
}

// handleTiers handles GET /tiers
func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	tiers := s.catalog.Tiers()
	s.writeJSON(w, TiersResponse{Tiers: tiers, Count: len(tiers)}, http.StatusOK)
}

// handleTier handles GET /tiers/{id}
func (s *Server) handleTier(w http.ResponseWriter, r *http.Request) {
	tier, err := s.catalog.Lookup(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, tier, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"tiers":   s.catalog.Len(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":      s.version,
		"service":      "datapoint-pricing",
		"model":        string(s.selector.Model().Kind()),
		"catalog_hash": s.catalog.ContentHash(),
		"api_version":  "v1",
	}, http.StatusOK)
}
