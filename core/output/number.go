package output

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// FormatCurrency renders a USD amount with thousands separators and two
// decimals, e.g. "$1,799.00".
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatRate renders a per-1k rate with four decimals, e.g. "$0.2660".
func FormatRate(d decimal.Decimal) string {
	return "$" + d.StringFixed(4)
}

// FormatCompactNumber abbreviates a data point count: "1.5M", "100.0K",
// or the plain integer below one thousand.
func FormatCompactNumber(n int64) string {
	v := decimal.NewFromInt(n)
	switch {
	case n >= 1_000_000:
		return v.Div(million).StringFixed(1) + "M"
	case n >= 1_000:
		return v.Div(thousand).StringFixed(1) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatCount renders n with thousands separators, e.g. "1,500,000".
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}
