// Package catalog - Catalog validation
// Ensures every tier can be priced before the catalog is used.
package catalog

import (
	"fmt"

	"go.uber.org/multierr"

	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

// ValidationRule is a per-tier validation rule
type ValidationRule func(types.Tier) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateIdentity,
		validateAllowance,
		validatePrices,
	}
}

// Validate checks tiers against rules and returns every problem found,
// combined into a single CONFIG_ERROR.
func Validate(tiers []types.Tier, rules []ValidationRule) error {
	if len(tiers) == 0 {
		return errors.Config("catalog has no tiers")
	}

	var errs error
	seen := make(map[string]bool, len(tiers))
	for i, t := range tiers {
		for _, rule := range rules {
			if err := rule(t); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("tier %d (%q): %w", i, t.ID, err))
			}
		}
		if t.ID != "" && seen[t.ID] {
			errs = multierr.Append(errs, fmt.Errorf("tier %d: duplicate id %q", i, t.ID))
		}
		seen[t.ID] = true
	}

	if errs != nil {
		n := len(multierr.Errors(errs))
		return errors.Wrap(errors.TypeConfig, fmt.Sprintf("catalog has %d validation errors", n), errs)
	}
	return nil
}

func validateIdentity(t types.Tier) error {
	if t.ID == "" {
		return fmt.Errorf("id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func validateAllowance(t types.Tier) error {
	if t.IncludedAllowance < 0 {
		return fmt.Errorf("included allowance must not be negative, got %d", t.IncludedAllowance)
	}
	return nil
}

func validatePrices(t types.Tier) error {
	var errs error
	if t.BasePrice.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("base price must not be negative, got %s", t.BasePrice))
	}
	if t.MarginalRatePer1k.IsNegative() {
		errs = multierr.Append(errs, fmt.Errorf("marginal rate must not be negative, got %s", t.MarginalRatePer1k))
	}
	return errs
}
