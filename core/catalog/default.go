package catalog

import (
	"github.com/shopspring/decimal"

	"datapoint-pricing/core/types"
)

// Tier IDs of the built-in catalog
const (
	Starter      = "starter"
	Professional = "professional"
	Enterprise   = "enterprise"
)

// DefaultTiers returns the built-in tier table.
func DefaultTiers() []types.Tier {
	return []types.Tier{
		{
			ID:                Starter,
			Name:              "Starter",
			Description:       "Perfect for small projects and personal use",
			IncludedAllowance: 100_000,
			BasePrice:         decimal.NewFromInt(49),
			MarginalRatePer1k: decimal.RequireFromString("0.5"),
			Features: []string{
				"100k data points included",
				"Basic analytics",
				"Email support",
				"1 project",
				"7-day data retention",
			},
		},
		{
			ID:                Professional,
			Name:              "Professional",
			Description:       "Ideal for growing teams and businesses",
			IncludedAllowance: 1_000_000,
			BasePrice:         decimal.NewFromInt(199),
			MarginalRatePer1k: decimal.RequireFromString("0.4"),
			IsPopular:         true,
			Features: []string{
				"1M data points included",
				"Advanced analytics",
				"Priority support",
				"10 projects",
				"30-day data retention",
				"API access",
			},
		},
		{
			ID:                Enterprise,
			Name:              "Enterprise",
			Description:       "For large-scale applications and companies",
			IncludedAllowance: 10_000_000,
			BasePrice:         decimal.NewFromInt(999),
			MarginalRatePer1k: decimal.RequireFromString("0.2"),
			Features: []string{
				"10M data points included",
				"Enterprise analytics",
				"Dedicated support",
				"Unlimited projects",
				"90-day data retention",
				"Advanced API access",
				"Custom integrations",
				"SSO authentication",
			},
		},
	}
}

var defaultCatalog = MustNew(DefaultTiers())

// Default returns the built-in catalog
func Default() *Catalog {
	return defaultCatalog
}
