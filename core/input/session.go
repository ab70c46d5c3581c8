package input

import (
	"strconv"

	"datapoint-pricing/core/selection"
	"datapoint-pricing/core/types"
)

// Calculator holds what a session needs that never changes: the usage
// bounds, the tiers and how to pick among them.
type Calculator struct {
	Bounds   types.Bounds
	Tiers    []types.Tier
	Selector *selection.Selector
}

// NewCalculator creates a calculator. A nil selector uses selection.New().
func NewCalculator(bounds types.Bounds, tiers []types.Tier, selector *selection.Selector) *Calculator {
	if selector == nil {
		selector = selection.New()
	}
	return &Calculator{Bounds: bounds, Tiers: tiers, Selector: selector}
}

// NewSession starts a session at the default usage.
func (c *Calculator) NewSession() Session {
	return Session{calc: c}.setUsage(c.Bounds.Default, true)
}

// Session is the state of one interactive calculator: the usage in effect,
// the text shown in the input field and the highlighted tier.
// Transitions return a new Session and leave the receiver untouched.
type Session struct {
	calc *Calculator

	// Usage is the usage value prices are computed for
	Usage int64

	// Text is what the input field shows; it may disagree with Usage
	// while the user is typing an out-of-range value
	Text string

	// SelectedTierID is the highlighted tier
	SelectedTierID string
}

// Calculator returns the calculator the session belongs to
func (s Session) Calculator() *Calculator {
	return s.calc
}

// Type handles a keystroke in the text field. Non-digits are dropped and an
// empty field counts as zero. Values above the maximum are not applied to
// Usage, although Text still shows them.
func (s Session) Type(raw string) Session {
	digits := Digits(raw)
	s.Text = digits

	v := int64(0)
	if digits != "" {
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			// too many digits for int64, certainly above the maximum
			return s
		}
		v = n
	}
	if v > s.calc.Bounds.Max {
		return s
	}
	return s.setUsage(v, false)
}

// Blur handles the text field losing focus: an empty or zero field is
// reset to the floor value.
func (s Session) Blur() Session {
	if s.Text == "" {
		return s.setUsage(s.calc.Bounds.Floor, true)
	}
	if n, err := strconv.ParseInt(s.Text, 10, 64); err == nil && n == 0 {
		return s.setUsage(s.calc.Bounds.Floor, true)
	}
	return s
}

// Slide handles a slider drag to v: snapped to the slider granularity,
// clamped to the bounds, and written to both Usage and Text.
func (s Session) Slide(v int64) Session {
	v = SnapToStep(v, s.calc.Bounds.Step)
	return s.setUsage(s.calc.Bounds.Clamp(v), true)
}

// Nudge moves the slider by steps positions (negative moves down).
func (s Session) Nudge(steps int) Session {
	return s.Slide(s.Usage + int64(steps)*s.stepAt(s.Usage, steps < 0))
}

func (s Session) stepAt(v int64, down bool) int64 {
	if s.calc.Bounds.Step > 0 {
		return s.calc.Bounds.Step
	}
	// stepped slider: use the granularity of the bracket being entered
	switch {
	case v < 200_000 || (down && v <= 200_000):
		return 100
	case v < 1_000_000 || (down && v <= 1_000_000):
		return 1_000
	default:
		return 10_000
	}
}

// Select highlights tier id until the next usage change. Unknown IDs are ignored.
func (s Session) Select(id string) Session {
	for _, t := range s.calc.Tiers {
		if t.ID == id {
			s.SelectedTierID = id
			return s
		}
	}
	return s
}

// Selected returns the highlighted tier
func (s Session) Selected() types.Tier {
	for _, t := range s.calc.Tiers {
		if t.ID == s.SelectedTierID {
			return t
		}
	}
	if len(s.calc.Tiers) > 0 {
		return s.calc.Tiers[0]
	}
	return types.Tier{}
}

// Quote prices every tier at the session usage
func (s Session) Quote() (*selection.Quote, error) {
	return s.calc.Selector.Quote(s.calc.Tiers, s.Usage)
}

func (s Session) setUsage(v int64, syncText bool) Session {
	s.Usage = v
	if syncText {
		s.Text = strconv.FormatInt(v, 10)
	}
	if best, err := s.calc.Selector.Best(s.calc.Tiers, v); err == nil {
		s.SelectedTierID = best.ID
	}
	return s
}
