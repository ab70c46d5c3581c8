package pricing

import (
	"github.com/shopspring/decimal"

	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

// ModelKind names a pricing model
type ModelKind string

const (
	// ModelLinear is base price plus a marginal rate beyond the allowance
	ModelLinear ModelKind = "linear"

	// ModelStepped is a bracketed flat rate applied to the whole usage
	ModelStepped ModelKind = "stepped"
)

// Model prices a tier at a usage value.
// The two models are alternatives and are never combined.
type Model interface {
	// Kind returns the model kind
	Kind() ModelKind

	// Price returns the price of tier at usage
	Price(tier types.Tier, usage int64) (decimal.Decimal, error)
}

// LinearModel prices with Price
type LinearModel struct{}

// Kind returns ModelLinear
func (LinearModel) Kind() ModelKind { return ModelLinear }

// Price returns Price(tier, usage)
func (LinearModel) Price(tier types.Tier, usage int64) (decimal.Decimal, error) {
	return Price(tier, usage)
}

// SteppedModel prices with a StepSchedule. The schedule ignores the tier,
// so every tier costs the same under this model.
type SteppedModel struct {
	Schedule *StepSchedule
}

// Kind returns ModelStepped
func (SteppedModel) Kind() ModelKind { return ModelStepped }

// Price returns Schedule.Total(usage)
func (m SteppedModel) Price(_ types.Tier, usage int64) (decimal.Decimal, error) {
	return m.Schedule.Total(usage)
}

// NewModel returns the model for kind. A nil schedule selects the default one.
func NewModel(kind ModelKind, schedule *StepSchedule) (Model, error) {
	switch kind {
	case ModelLinear, "":
		return LinearModel{}, nil
	case ModelStepped:
		if schedule == nil {
			schedule = DefaultStepSchedule()
		}
		return SteppedModel{Schedule: schedule}, nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "unknown pricing model %q (use linear or stepped)", kind)
	}
}
