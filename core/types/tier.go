// Package types - Pricing catalog types
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code
type Currency string

// CurrencyUSD is the only currency prices are quoted in.
const CurrencyUSD Currency = "USD"

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// UnitsPerRate is the number of data points a marginal rate is quoted for.
const UnitsPerRate = 1000

// Tier is a named pricing plan. Tiers are values; a catalog never hands out
// pointers into its own storage.
type Tier struct {
	// ID is the unique key of the tier (e.g. "starter")
	ID string `json:"id" yaml:"id"`

	// Name is the display name
	Name string `json:"name" yaml:"name"`

	// Description is the one-line marketing copy
	Description string `json:"description" yaml:"description"`

	// IncludedAllowance is the number of data points covered by BasePrice
	IncludedAllowance int64 `json:"included_allowance" yaml:"included_allowance"`

	// BasePrice is the flat monthly price
	BasePrice decimal.Decimal `json:"base_price" yaml:"base_price"`

	// MarginalRatePer1k is charged per 1,000 data points beyond the allowance
	MarginalRatePer1k decimal.Decimal `json:"marginal_rate_per_1k" yaml:"marginal_rate_per_1k"`

	// IsPopular marks the tier highlighted as "Most Popular"
	IsPopular bool `json:"is_popular,omitempty" yaml:"is_popular,omitempty"`

	// Features is the ordered feature list shown on the card
	Features []string `json:"features" yaml:"features"`
}

// String returns a short description for logs
func (t Tier) String() string {
	return fmt.Sprintf("%s(%d incl, $%s + $%s/1k)", t.ID, t.IncludedAllowance, t.BasePrice.StringFixed(2), t.MarginalRatePer1k.String())
}

// Covers reports whether usage falls inside the flat-rate region.
func (t Tier) Covers(usage int64) bool {
	return usage <= t.IncludedAllowance
}

// Clone returns a copy that shares no slices with t.
func (t Tier) Clone() Tier {
	c := t
	if t.Features != nil {
		c.Features = append([]string(nil), t.Features...)
	}
	return c
}
