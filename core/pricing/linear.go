// Package pricing - Tier price calculation
// Every price shown anywhere is produced by the functions in this package.
// They are pure: same tier and usage, same result.
package pricing

import (
	"github.com/shopspring/decimal"

	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

var unitsPerRate = decimal.NewFromInt(types.UnitsPerRate)

// Price returns the monthly price of tier at usage data points.
//
// Inside the included allowance the base price applies unchanged. Beyond it
// every data point over the allowance is charged at MarginalRatePer1k/1000;
// fractional thousands count proportionally.
func Price(tier types.Tier, usage int64) (decimal.Decimal, error) {
	if usage < 0 {
		return decimal.Zero, negativeUsage(usage)
	}
	return price(tier, usage), nil
}

// MustPrice is Price for usage already known to be non-negative.
func MustPrice(tier types.Tier, usage int64) decimal.Decimal {
	p, err := Price(tier, usage)
	if err != nil {
		panic(err)
	}
	return p
}

func price(tier types.Tier, usage int64) decimal.Decimal {
	if tier.Covers(usage) {
		return tier.BasePrice
	}
	return tier.BasePrice.Add(overage(tier, usage))
}

func overage(tier types.Tier, usage int64) decimal.Decimal {
	over := decimal.NewFromInt(usage - tier.IncludedAllowance)
	return over.Div(unitsPerRate).Mul(tier.MarginalRatePer1k)
}

// Breakdown splits a price into its base and usage components
type Breakdown struct {
	TierID string `json:"tier_id" yaml:"tier_id"`

	// Usage is the priced usage
	Usage int64 `json:"usage" yaml:"usage"`

	// Base is the flat base price
	Base decimal.Decimal `json:"base" yaml:"base"`

	// Overage is the usage charge beyond the allowance (zero inside it)
	Overage decimal.Decimal `json:"overage" yaml:"overage"`

	// OverageUnits is the number of data points beyond the allowance
	OverageUnits int64 `json:"overage_units" yaml:"overage_units"`

	// Total is Base + Overage
	Total decimal.Decimal `json:"total" yaml:"total"`

	// Exceeded is true when usage is beyond the allowance
	Exceeded bool `json:"exceeded" yaml:"exceeded"`
}

// BreakdownOf returns the itemized price of tier at usage.
func BreakdownOf(tier types.Tier, usage int64) (Breakdown, error) {
	if usage < 0 {
		return Breakdown{}, negativeUsage(usage)
	}

	b := Breakdown{
		TierID:  tier.ID,
		Usage:   usage,
		Base:    tier.BasePrice,
		Overage: decimal.Zero,
	}
	if !tier.Covers(usage) {
		b.Exceeded = true
		b.OverageUnits = usage - tier.IncludedAllowance
		b.Overage = overage(tier, usage)
	}
	b.Total = b.Base.Add(b.Overage)
	return b, nil
}

// UnitPrice returns the blended price per 1,000 data points at usage.
//
// Usage of zero or less has no meaningful unit price and yields zero. Inside
// the allowance the base price is spread over the whole allowance, beyond it
// the total price is spread over the actual usage.
func UnitPrice(tier types.Tier, usage int64) decimal.Decimal {
	if usage <= 0 {
		return decimal.Zero
	}
	if tier.Covers(usage) {
		return tier.BasePrice.Div(decimal.NewFromInt(tier.IncludedAllowance)).Mul(unitsPerRate)
	}
	return price(tier, usage).Div(decimal.NewFromInt(usage)).Mul(unitsPerRate)
}

func negativeUsage(usage int64) error {
	return errors.Inputf("usage must not be negative, got %d", usage).WithContext("usage", usage)
}
