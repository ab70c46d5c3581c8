// Package selection picks the cheapest tier for a usage value.
// Selection has no memory: every call starts from the catalog again.
package selection

import (
	"github.com/shopspring/decimal"

	"datapoint-pricing/core/pricing"
	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

// TieBreak decides which tier wins when two tiers cost the same
type TieBreak string

const (
	// TiePreferFirst keeps the earlier tier in catalog order
	TiePreferFirst TieBreak = "first"

	// TiePreferLast takes the later tier in catalog order
	TiePreferLast TieBreak = "last"
)

// ParseTieBreak validates a configured tie-break policy
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case TiePreferFirst, "":
		return TiePreferFirst, nil
	case TiePreferLast:
		return TiePreferLast, nil
	default:
		return "", errors.Newf(errors.TypeConfig, "unknown tie break %q (use first or last)", s)
	}
}

// Selector finds the cheapest tier under a pricing model
type Selector struct {
	model    pricing.Model
	tieBreak TieBreak
}

// Option configures a Selector
type Option func(*Selector)

// WithModel prices tiers with m instead of the linear model
func WithModel(m pricing.Model) Option {
	return func(s *Selector) {
		s.model = m
	}
}

// WithTieBreak sets the tie-break policy
func WithTieBreak(tb TieBreak) Option {
	return func(s *Selector) {
		s.tieBreak = tb
	}
}

// New creates a selector. Defaults: linear model, earlier tier wins ties.
func New(opts ...Option) *Selector {
	s := &Selector{
		model:    pricing.LinearModel{},
		tieBreak: TiePreferFirst,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Model returns the pricing model the selector compares tiers with
func (s *Selector) Model() pricing.Model {
	return s.model
}

// Best returns the tier with the lowest price at usage.
//
// Tiers are folded left to right. A later tier replaces the current best only
// when strictly cheaper, or when equal and the policy is TiePreferLast.
func (s *Selector) Best(tiers []types.Tier, usage int64) (types.Tier, error) {
	if len(tiers) == 0 {
		return types.Tier{}, errors.Input("no tiers to select from")
	}

	best := tiers[0]
	bestPrice, err := s.model.Price(best, usage)
	if err != nil {
		return types.Tier{}, err
	}

	for _, t := range tiers[1:] {
		p, err := s.model.Price(t, usage)
		if err != nil {
			return types.Tier{}, err
		}
		if s.replaces(p, bestPrice) {
			best, bestPrice = t, p
		}
	}
	return best, nil
}

func (s *Selector) replaces(candidate, current decimal.Decimal) bool {
	if s.tieBreak == TiePreferLast {
		return candidate.LessThanOrEqual(current)
	}
	return candidate.LessThan(current)
}

// SelectBestTier returns the cheapest tier at usage under the linear model,
// keeping the earlier tier on ties.
func SelectBestTier(tiers []types.Tier, usage int64) (types.Tier, error) {
	return New().Best(tiers, usage)
}
