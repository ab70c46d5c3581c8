// Package api - API types for the pricing endpoints
// API is stateless and deterministic: the same request always yields the
// same prices.
package api

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"

	"datapoint-pricing/core/comparison"
	"datapoint-pricing/core/selection"
	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

// UsageValue is a usage amount as sent by a client: a JSON number
// (1500000) or a string with optional separators or suffix ("1.5m").
type UsageValue string

// UnmarshalJSON accepts a number or a string
func (u *UsageValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UsageValue(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Parsing("usage must be a number or a string", err)
	}
	*u = UsageValue(n.String())
	return nil
}

// QuoteRequest is the input to POST /quote
type QuoteRequest struct {
	// Usage is the monthly data point count
	Usage UsageValue `json:"usage"`
}

// QuoteResponse is the output of POST /quote
type QuoteResponse struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`

	// Usage is the parsed usage
	Usage int64 `json:"usage"`

	// BestTier is the ID of the cheapest tier
	BestTier string `json:"best_tier"`

	// Quote is every tier priced at Usage
	Quote *selection.Quote `json:"quote"`

	// Display holds the formatted monthly price per tier ID
	Display map[string]string `json:"display"`
}

// TiersResponse is the output of GET /tiers
type TiersResponse struct {
	Tiers []types.Tier `json:"tiers"`
	Count int          `json:"count"`
}

// TrendsResponse is the output of GET /trends
type TrendsResponse struct {
	RequestID string            `json:"request_id"`
	Chart     *comparison.Chart `json:"chart"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse wraps ErrorBody
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
