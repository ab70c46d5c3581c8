// Package pricing - Step-function pricing
// A flat per-unit rate picked by bracket and applied to the ENTIRE usage.
// This is not a marginal schedule: crossing a bound reprices every unit.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"datapoint-pricing/internal/errors"
)

// Bracket is one step of a StepSchedule
type Bracket struct {
	// UpTo is the inclusive upper bound of the bracket
	UpTo int64 `json:"up_to"`

	// Rate is the price per data point for usage in the bracket
	Rate decimal.Decimal `json:"rate"`
}

// StepSchedule is an ordered list of brackets, ascending by UpTo
type StepSchedule struct {
	brackets []Bracket
}

// DefaultStepSchedule returns the schedule of the stepped calculator page.
func DefaultStepSchedule() *StepSchedule {
	return MustStepSchedule([]Bracket{
		{UpTo: 100_000, Rate: decimal.RequireFromString("0.15")},
		{UpTo: 700_000, Rate: decimal.RequireFromString("0.1")},
		{UpTo: 2_000_000, Rate: decimal.RequireFromString("0.08")},
		{UpTo: 5_000_000, Rate: decimal.RequireFromString("0.06")},
	})
}

// NewStepSchedule validates brackets and builds a schedule.
func NewStepSchedule(brackets []Bracket) (*StepSchedule, error) {
	if len(brackets) == 0 {
		return nil, errors.Config("step schedule has no brackets")
	}
	for i, b := range brackets {
		if b.Rate.IsNegative() {
			return nil, errors.Newf(errors.TypeConfig, "bracket %d: rate must not be negative, got %s", i, b.Rate)
		}
		if i > 0 && b.UpTo <= brackets[i-1].UpTo {
			return nil, errors.Newf(errors.TypeConfig, "bracket %d: bounds must be strictly ascending (%d after %d)", i, b.UpTo, brackets[i-1].UpTo)
		}
	}
	return &StepSchedule{brackets: append([]Bracket(nil), brackets...)}, nil
}

// MustStepSchedule is NewStepSchedule for static tables.
func MustStepSchedule(brackets []Bracket) *StepSchedule {
	s, err := NewStepSchedule(brackets)
	if err != nil {
		panic(err)
	}
	return s
}

// Brackets returns a copy of the brackets
func (s *StepSchedule) Brackets() []Bracket {
	return append([]Bracket(nil), s.brackets...)
}

// Match returns the bracket usage falls in: the first whose UpTo is >= usage.
// Usage above the last bound stays in the last bracket.
func (s *StepSchedule) Match(usage int64) Bracket {
	for _, b := range s.brackets {
		if usage <= b.UpTo {
			return b
		}
	}
	return s.brackets[len(s.brackets)-1]
}

// Total returns usage * rate of the matched bracket.
func (s *StepSchedule) Total(usage int64) (decimal.Decimal, error) {
	if usage < 0 {
		return decimal.Zero, negativeUsage(usage)
	}
	return decimal.NewFromInt(usage).Mul(s.Match(usage).Rate), nil
}

// String describes the schedule for logs
func (s *StepSchedule) String() string {
	out := ""
	for i, b := range s.brackets {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("<=%d@%s", b.UpTo, b.Rate)
	}
	return out
}
