package output

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter renders a report as GitHub-flavored markdown
type MarkdownFormatter struct{}

// Format returns FormatMarkdown
func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render writes the report
func (f *MarkdownFormatter) Render(w io.Writer, report *Report) error {
	var sb strings.Builder

	if len(report.Tiers) > 0 {
		sb.WriteString("## Pricing Tiers\n\n")
		sb.WriteString("| Tier | Base / month | Included | Per 1K over |\n")
		sb.WriteString("|------|-------------:|---------:|------------:|\n")
		for _, t := range report.Tiers {
			name := t.Name
			if t.IsPopular {
				name = "**" + name + "** (Most Popular)"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
				name, FormatCurrency(t.BasePrice), FormatCount(t.IncludedAllowance), FormatRate(t.MarginalRatePer1k))
		}
		sb.WriteString("\n")
	}

	if q := report.Quote; q != nil {
		fmt.Fprintf(&sb, "## Quote for %s data points\n\n", FormatCount(q.Usage))
		sb.WriteString("| Tier | Monthly | Base | Usage | Effective per 1K |\n")
		sb.WriteString("|------|--------:|-----:|------:|-----------------:|\n")
		for _, tq := range q.Tiers {
			name := tq.Tier.Name
			if tq.Best {
				name = "**" + name + "** ✓"
			}
			base, usage := "-", "-"
			if b := tq.Breakdown; b != nil {
				base = FormatCurrency(b.Base)
				usage = FormatCurrency(b.Overage)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				name, FormatCurrency(tq.Price), base, usage, FormatRate(tq.UnitPrice))
		}
		best := q.Best()
		fmt.Fprintf(&sb, "\n**Best value:** %s at %s/month\n\n", best.Tier.Name, FormatCurrency(best.Price))
	}

	if c := report.Chart; c != nil && len(c.Trends) > 0 {
		sb.WriteString("## Price Trends\n\n")
		sb.WriteString("| Usage |")
		for _, s := range c.Trends {
			fmt.Fprintf(&sb, " %s |", s.Name)
		}
		sb.WriteString("\n|------:|")
		sb.WriteString(strings.Repeat("------:|", len(c.Trends)))
		sb.WriteString("\n")
		for i, p := range c.Trends[0].Points {
			label := FormatCompactNumber(p.Usage)
			if p.Usage == c.ClosestStep {
				label = "**" + label + "**"
			}
			fmt.Fprintf(&sb, "| %s |", label)
			for _, s := range c.Trends {
				fmt.Fprintf(&sb, " %s |", FormatCurrency(s.Points[i].Price))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "_Prices in %s, generated %s._\n", report.Metadata.Currency, report.Metadata.GeneratedAt.Format("2006-01-02 15:04 MST"))

	_, err := io.WriteString(w, sb.String())
	return err
}
