// Package types - Usage bounds
package types

// Bounds describes the usage range a calculator variant accepts.
type Bounds struct {
	// Min is the lowest accepted usage
	Min int64 `json:"min"`

	// Max is the highest accepted usage
	Max int64 `json:"max"`

	// Floor is the value restored when the text field is left empty or zero
	Floor int64 `json:"floor"`

	// Default is the initial usage of a new session
	Default int64 `json:"default"`

	// Step is the slider granularity; 0 means snap by bracket
	Step int64 `json:"step"`
}

// ContinuousBounds is the range of the linear calculator page.
func ContinuousBounds() Bounds {
	return Bounds{
		Min:     1_000,
		Max:     50_000_000,
		Floor:   1_000,
		Default: 1_000_000,
		Step:    1_000,
	}
}

// SteppedBounds is the range of the step-function calculator page.
func SteppedBounds() Bounds {
	return Bounds{
		Min:     0,
		Max:     5_000_000,
		Floor:   1_000,
		Default: 100_000,
		Step:    0,
	}
}

// Clamp limits v to [Min, Max].
func (b Bounds) Clamp(v int64) int64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// Contains reports whether v is inside [Min, Max].
func (b Bounds) Contains(v int64) bool {
	return v >= b.Min && v <= b.Max
}
