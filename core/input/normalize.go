// Package input - Usage input normalization
// Raw text from a slider, text field, CLI argument or request body passes
// through here before it reaches a pricing function.
package input

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"datapoint-pricing/core/types"
	"datapoint-pricing/internal/errors"
)

// Digits strips every character that is not an ASCII digit. Compatibility
// forms such as fullwidth digits are folded to ASCII first.
func Digits(raw string) string {
	raw = norm.NFKC.String(raw)
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Snap quantizes a stepped-slider value by bracket: nearest 100 below
// 200,000, nearest 1,000 up to 1,000,000, nearest 10,000 above.
func Snap(v int64) int64 {
	switch {
	case v < 200_000:
		return roundTo(v, 100)
	case v <= 1_000_000:
		return roundTo(v, 1_000)
	default:
		return roundTo(v, 10_000)
	}
}

// SnapToStep rounds v to the nearest multiple of step. A step <= 0 uses Snap.
func SnapToStep(v, step int64) int64 {
	if step <= 0 {
		return Snap(v)
	}
	return roundTo(v, step)
}

func roundTo(v, step int64) int64 {
	if v < 0 {
		return -roundTo(-v, step)
	}
	return (v + step/2) / step * step
}

// Validate rejects usage outside b with an INPUT_ERROR.
func Validate(v int64, b types.Bounds) error {
	if v < 0 {
		return errors.Inputf("usage must not be negative, got %d", v).WithContext("usage", v)
	}
	if !b.Contains(v) {
		return errors.Inputf("usage %d is outside the accepted range %d..%d", v, b.Min, b.Max).
			WithContext("usage", v).
			WithContext("min", b.Min).
			WithContext("max", b.Max)
	}
	return nil
}

var suffixes = map[byte]int64{
	'k': 1_000,
	'm': 1_000_000,
}

// Parse reads a one-shot usage value such as "1500000", "1,500,000",
// "1_500_000", "1.5m" or "250k" and validates it against b.
// Unlike the interactive text field, stray characters are an error here.
func Parse(raw string, b types.Bounds) (int64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return 0, errors.Input("usage is required")
	}
	if len(s) > maxInputLen {
		return 0, errors.Inputf("usage is longer than %d characters", maxInputLen)
	}

	multiplier := int64(1)
	if m, ok := suffixes[s[len(s)-1]]; ok {
		multiplier = m
		s = s[:len(s)-1]
	}

	v, err := parseScaled(s, multiplier)
	if err != nil {
		return 0, errors.Wrap(errors.TypeInput, "invalid usage "+strconv.Quote(s), err)
	}
	if err := Validate(v, b); err != nil {
		return 0, err
	}
	return v, nil
}

const (
	// maxInputLen bounds one-shot usage text after separators are removed
	maxInputLen = 32

	// maxExponent bounds the decimal exponent of suffixed values
	maxExponent = 18
)

func parseScaled(s string, multiplier int64) (int64, error) {
	if multiplier == 1 {
		return strconv.ParseInt(s, 10, 64)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	// Comparisons rescale to a common exponent, so bound it first.
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return 0, errors.Input("value is out of range")
	}
	if d.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64 / multiplier)) {
		return 0, errors.Input("value is too large")
	}
	scaled := d.Mul(decimal.NewFromInt(multiplier))
	if !scaled.IsInteger() {
		return 0, errors.Input("value is not a whole number of data points")
	}
	return scaled.IntPart(), nil
}
