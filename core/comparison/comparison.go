// Package comparison builds the data behind the price comparison charts:
// every tier at the current usage, and every tier across fixed usage levels.
package comparison

import (
	"github.com/shopspring/decimal"

	"datapoint-pricing/core/pricing"
	"datapoint-pricing/core/types"
)

// DefaultSteps are the usage levels of the price trend chart
var DefaultSteps = []int64{
	100_000,
	500_000,
	1_000_000,
	5_000_000,
	10_000_000,
	25_000_000,
	50_000_000,
}

// Bar is one tier priced at the current usage
type Bar struct {
	TierID     string          `json:"tier_id" yaml:"tier_id"`
	Name       string          `json:"name" yaml:"name"`
	Price      decimal.Decimal `json:"price" yaml:"price"`
	IsSelected bool            `json:"is_selected" yaml:"is_selected"`
}

// Point is a tier price at one usage level
type Point struct {
	Usage int64           `json:"usage" yaml:"usage"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

// Series is one tier priced at every trend step
type Series struct {
	TierID     string  `json:"tier_id" yaml:"tier_id"`
	Name       string  `json:"name" yaml:"name"`
	IsSelected bool    `json:"is_selected" yaml:"is_selected"`
	Points     []Point `json:"points" yaml:"points"`
}

// Chart is the complete comparison view
type Chart struct {
	Usage       int64    `json:"usage" yaml:"usage"`
	SelectedID  string   `json:"selected_id" yaml:"selected_id"`
	Current     []Bar    `json:"current" yaml:"current"`
	Trends      []Series `json:"trends" yaml:"trends"`
	ClosestStep int64    `json:"closest_step" yaml:"closest_step"`
}

// Current prices every tier at usage with model m.
func Current(m pricing.Model, tiers []types.Tier, usage int64, selectedID string) ([]Bar, error) {
	bars := make([]Bar, 0, len(tiers))
	for _, t := range tiers {
		p, err := m.Price(t, usage)
		if err != nil {
			return nil, err
		}
		bars = append(bars, Bar{
			TierID:     t.ID,
			Name:       t.Name,
			Price:      p,
			IsSelected: t.ID == selectedID,
		})
	}
	return bars, nil
}

// Trends prices every tier at each of steps with model m.
func Trends(m pricing.Model, tiers []types.Tier, steps []int64, selectedID string) ([]Series, error) {
	out := make([]Series, 0, len(tiers))
	for _, t := range tiers {
		s := Series{
			TierID:     t.ID,
			Name:       t.Name,
			IsSelected: t.ID == selectedID,
			Points:     make([]Point, 0, len(steps)),
		}
		for _, step := range steps {
			p, err := m.Price(t, step)
			if err != nil {
				return nil, err
			}
			s.Points = append(s.Points, Point{Usage: step, Price: p})
		}
		out = append(out, s)
	}
	return out, nil
}

// ClosestStep returns the step nearest to usage. On equal distance the
// earlier step wins. It returns 0 for no steps.
func ClosestStep(steps []int64, usage int64) int64 {
	if len(steps) == 0 {
		return 0
	}
	closest := steps[0]
	for _, s := range steps[1:] {
		if abs(s-usage) < abs(closest-usage) {
			closest = s
		}
	}
	return closest
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Build assembles the full chart for usage. A nil steps uses DefaultSteps.
func Build(m pricing.Model, tiers []types.Tier, usage int64, selectedID string, steps []int64) (*Chart, error) {
	if steps == nil {
		steps = DefaultSteps
	}
	current, err := Current(m, tiers, usage, selectedID)
	if err != nil {
		return nil, err
	}
	trends, err := Trends(m, tiers, steps, selectedID)
	if err != nil {
		return nil, err
	}
	return &Chart{
		Usage:       usage,
		SelectedID:  selectedID,
		Current:     current,
		Trends:      trends,
		ClosestStep: ClosestStep(steps, usage),
	}, nil
}
