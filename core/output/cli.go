package output

import (
	"io"

	"datapoint-pricing/core/comparison"
	"datapoint-pricing/core/selection"
	"datapoint-pricing/core/types"
	"datapoint-pricing/core/ui"
)

// CLIFormatter renders a report for a terminal
type CLIFormatter struct {
	NoColor bool
}

// Format returns FormatCLI
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render writes the report
func (f *CLIFormatter) Render(w io.Writer, report *Report) error {
	uw := ui.NewWriter(w, f.NoColor)

	if len(report.Tiers) > 0 {
		renderTiers(uw, report.Tiers)
	}
	if report.Quote != nil {
		renderQuote(uw, report.Quote)
	}
	if report.Chart != nil {
		renderChart(uw, report.Chart)
	}
	return nil
}

func renderTiers(uw *ui.Writer, tiers []types.Tier) {
	uw.Header("Pricing Tiers")
	t := uw.NewTable("Tier", "Base / month", "Included", "Per 1K over", "")
	for _, tier := range tiers {
		badge := ""
		if tier.IsPopular {
			badge = "★ Most Popular"
		}
		t.AddRow(
			tier.Name,
			FormatCurrency(tier.BasePrice),
			FormatCompactNumber(tier.IncludedAllowance),
			FormatRate(tier.MarginalRatePer1k),
			badge,
		)
	}
	t.Render()
}

func renderQuote(uw *ui.Writer, q *selection.Quote) {
	uw.Header("Quote for " + FormatCount(q.Usage) + " data points")

	for _, tq := range q.Tiers {
		card := uw.NewPlanCard()
		card.Name = tq.Tier.Name
		card.Description = tq.Tier.Description
		card.Price = FormatCurrency(tq.Price)
		card.Allowance = FormatCompactNumber(tq.Tier.IncludedAllowance)
		card.Features = tq.Tier.Features
		card.Popular = tq.Tier.IsPopular
		card.Selected = tq.Best
		if b := tq.Breakdown; b != nil && b.Exceeded {
			card.Exceeded = true
			card.Base = FormatCurrency(b.Base)
			card.Usage = FormatCurrency(b.Overage)
		}
		card.Render()
	}

	uw.Println("")
	t := uw.NewTable("Tier", "Monthly", "Effective per 1K")
	for _, tq := range q.Tiers {
		name := tq.Tier.Name
		if tq.Best {
			name += " ✓"
		}
		t.AddRow(name, FormatCurrency(tq.Price), FormatRate(tq.UnitPrice))
	}
	t.Render()

	uw.Println("")
	best := q.Best()
	uw.Success("Best value: %s at %s/month", best.Tier.Name, FormatCurrency(best.Price))
}

func renderChart(uw *ui.Writer, c *comparison.Chart) {
	uw.Header("Price Comparison at " + FormatCompactNumber(c.Usage) + " data points")

	bars := uw.NewBarChart("Current usage")
	for _, b := range c.Current {
		bars.Add(b.Name, b.Price.InexactFloat64(), FormatCurrency(b.Price), b.IsSelected)
	}
	bars.Render()
	uw.Println("")

	if len(c.Trends) == 0 {
		return
	}
	levels := make([]string, len(c.Trends[0].Points))
	for i, p := range c.Trends[0].Points {
		levels[i] = FormatCompactNumber(p.Usage)
	}
	names := make([]string, len(c.Trends))
	for i, s := range c.Trends {
		names[i] = s.Name
	}

	trend := uw.NewTrendChart("Price trends", levels, names)
	for col, s := range c.Trends {
		if s.IsSelected {
			trend.Focused = col
		}
		for row, p := range s.Points {
			trend.Set(row, col, FormatCurrency(p.Price))
			if p.Usage == c.ClosestStep {
				trend.Marked = row
			}
		}
	}
	trend.Render()
}
