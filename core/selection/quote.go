package selection

import (
	"github.com/shopspring/decimal"

	"datapoint-pricing/core/pricing"
	"datapoint-pricing/core/types"
)

// TierQuote is the price of one tier at a usage value
type TierQuote struct {
	Tier      types.Tier         `json:"tier" yaml:"tier"`
	Price     decimal.Decimal    `json:"price" yaml:"price"`
	UnitPrice decimal.Decimal    `json:"unit_price" yaml:"unit_price"`
	Breakdown *pricing.Breakdown `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
	Best      bool               `json:"best" yaml:"best"`
}

// Quote is every tier priced at one usage value, plus the cheapest one
type Quote struct {
	Usage  int64       `json:"usage" yaml:"usage"`
	Model  string      `json:"model" yaml:"model"`
	Tiers  []TierQuote `json:"tiers" yaml:"tiers"`
	BestID string      `json:"best_id" yaml:"best_id"`
}

// Best returns the quote of the selected tier
func (q *Quote) Best() TierQuote {
	for _, tq := range q.Tiers {
		if tq.Best {
			return tq
		}
	}
	return TierQuote{}
}

// Quote prices every tier at usage and marks the cheapest.
func (s *Selector) Quote(tiers []types.Tier, usage int64) (*Quote, error) {
	best, err := s.Best(tiers, usage)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		Usage:  usage,
		Model:  string(s.model.Kind()),
		Tiers:  make([]TierQuote, 0, len(tiers)),
		BestID: best.ID,
	}
	for _, t := range tiers {
		p, err := s.model.Price(t, usage)
		if err != nil {
			return nil, err
		}
		tq := TierQuote{
			Tier:  t,
			Price: p,
			Best:  t.ID == best.ID,
		}
		if s.model.Kind() == pricing.ModelLinear {
			tq.UnitPrice = pricing.UnitPrice(t, usage)
			b, err := pricing.BreakdownOf(t, usage)
			if err != nil {
				return nil, err
			}
			tq.Breakdown = &b
		} else if usage > 0 {
			tq.UnitPrice = p.Div(decimal.NewFromInt(usage)).Mul(decimal.NewFromInt(types.UnitsPerRate))
		}
		q.Tiers = append(q.Tiers, tq)
	}
	return q, nil
}
