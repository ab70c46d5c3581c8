package api

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datapoint-pricing/core/catalog"
	"datapoint-pricing/core/pricing"
	"datapoint-pricing/core/selection"
	"datapoint-pricing/core/types"
)

func newTestServer() *Server {
	return NewServer("test", catalog.Default(), selection.New(), types.ContinuousBounds())
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(3), body["tiers"])

	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRequestIDPropagated(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/quote", strings.NewReader(`{"usage":"x"}`))
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
	var body ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, id, body.Error.RequestID)
}

func TestVersion(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/version", "")
	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, "linear", body["model"])
	assert.Equal(t, catalog.Default().ContentHash(), body["catalog_hash"])
}

func TestTiers(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/tiers", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body TiersResponse
	decode(t, rec, &body)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, catalog.Starter, body.Tiers[0].ID)
	assert.True(t, body.Tiers[1].IsPopular)
}

func TestTierByID(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodGet, "/tiers/enterprise", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tier types.Tier
	decode(t, rec, &tier)
	assert.Equal(t, "Enterprise", tier.Name)

	rec = do(t, s, http.MethodGet, "/tiers/platinum", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		usage int64
		best  string
	}{
		{"number", `{"usage": 5000000}`, 5_000_000, catalog.Enterprise},
		{"string", `{"usage": "1,500,000"}`, 1_500_000, catalog.Professional},
		{"suffix", `{"usage": "50k"}`, 50_000, catalog.Starter},
		{"tie keeps earlier tier", `{"usage": 400000}`, 400_000, catalog.Starter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(), http.MethodPost, "/quote", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var body QuoteResponse
			decode(t, rec, &body)
			assert.Equal(t, tt.usage, body.Usage)
			assert.Equal(t, tt.best, body.BestTier)
			assert.Len(t, body.Quote.Tiers, 3)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestQuoteDisplay(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/quote", `{"usage": 5000000}`)
	var body QuoteResponse
	decode(t, rec, &body)

	assert.Equal(t, "$2,499.00", body.Display[catalog.Starter])
	assert.Equal(t, "$1,799.00", body.Display[catalog.Professional])
	assert.Equal(t, "$999.00", body.Display[catalog.Enterprise])
	assert.True(t, body.Quote.Tiers[1].Price.Equal(pricing.MustPrice(catalog.DefaultTiers()[1], 5_000_000)))
}

func TestQuoteRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed", `{"usage":`, "PARSING_ERROR"},
		{"missing", `{}`, "INPUT_ERROR"},
		{"not a number", `{"usage": "lots"}`, "INPUT_ERROR"},
		{"negative", `{"usage": -5}`, "INPUT_ERROR"},
		{"below minimum", `{"usage": 10}`, "INPUT_ERROR"},
		{"above maximum", `{"usage": 60000000}`, "INPUT_ERROR"},
		{"fraction", `{"usage": 1000.5}`, "INPUT_ERROR"},
		{"wrong type", `{"usage": true}`, "PARSING_ERROR"},
		{"huge exponent", `{"usage": "1e999999999k"}`, "INPUT_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(), http.MethodPost, "/quote", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body ErrorResponse
			decode(t, rec, &body)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Less(t, rec.Body.Len(), 512)
		})
	}
}

func TestQuoteMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/quote", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestTrends(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodGet, "/trends?usage=6m", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body TrendsResponse
	decode(t, rec, &body)
	assert.Equal(t, int64(6_000_000), body.Chart.Usage)
	assert.Equal(t, int64(5_000_000), body.Chart.ClosestStep)
	assert.Equal(t, catalog.Enterprise, body.Chart.SelectedID)
	assert.Len(t, body.Chart.Trends, 3)

	rec = do(t, s, http.MethodGet, "/trends", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &body)
	assert.Equal(t, int64(1_000_000), body.Chart.Usage)

	rec = do(t, s, http.MethodGet, "/trends?usage=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer()
	do(t, s, http.MethodPost, "/quote", `{"usage": 5000000}`)
	do(t, s, http.MethodPost, "/quote", `{"usage": "x"}`)

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	out := rec.Body.String()
	assert.Contains(t, out, `datapoint_pricing_quotes_total{tier="enterprise"} 1`)
	assert.Contains(t, out, `datapoint_pricing_http_requests_total{code="200",route="POST /quote"} 1`)
	assert.Contains(t, out, `datapoint_pricing_http_requests_total{code="400",route="POST /quote"} 1`)
	assert.Contains(t, out, "datapoint_pricing_http_request_duration_seconds")
}

func TestSteppedModel(t *testing.T) {
	model, err := pricing.NewModel(pricing.ModelStepped, nil)
	require.NoError(t, err)
	s := NewServer("test", catalog.Default(), selection.New(selection.WithModel(model)), types.SteppedBounds())

	rec := do(t, s, http.MethodPost, "/quote", `{"usage": 300000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body QuoteResponse
	decode(t, rec, &body)
	assert.Equal(t, "$30,000.00", body.Display[catalog.Starter])
	assert.Nil(t, body.Quote.Tiers[0].Breakdown)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer().Run(ctx, addr, time.Second) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRateLimit(t *testing.T) {
	s := NewServer("test", catalog.Default(), selection.New(), types.ContinuousBounds(), WithRateLimit(0.001, 2))

	for i := 0; i < 2; i++ {
		rec := do(t, s, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	var body ErrorResponse
	decode(t, rec, &body)
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	other := httptest.NewRecorder()
	s.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)

	out := do(t, s, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, out, `datapoint_pricing_http_requests_total{code="429",route="GET /health"} 1`)
}

func TestRateLimitDisabled(t *testing.T) {
	s := NewServer("test", catalog.Default(), selection.New(), types.ContinuousBounds(), WithRateLimit(0, 1))
	assert.Nil(t, s.limiter)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
	}
}

func TestRateLimiterPrunesIdleClients(t *testing.T) {
	rl := newRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("a"))
	assert.False(t, rl.allow("a"))
	assert.True(t, rl.allow("b"))
	assert.Equal(t, 2, rl.size())

	now = now.Add(visitorTTL + time.Minute)
	assert.True(t, rl.allow("c"))
	assert.Equal(t, 1, rl.size())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", clientIP(r))

	r.RemoteAddr = "[2001:db8::1]"
	assert.Equal(t, "2001:db8::1", clientIP(r))
}
