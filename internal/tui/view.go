package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"datapoint-pricing/core/comparison"
	"datapoint-pricing/core/output"
	"datapoint-pricing/core/selection"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	editingFieldStyle = fieldStyle.
				BorderForeground(lipgloss.Color("12"))

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	fillStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("57"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(30)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("10"))

	nameStyle = lipgloss.NewStyle().Bold(true)

	priceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("11")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingLeft(1)
)

const sliderWidth = 50

// View renders the calculator to a string.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("  Data Point Pricing Calculator  "))
	sb.WriteString("\n\n")
	sb.WriteString(m.renderInput())
	sb.WriteString("\n")
	sb.WriteString(m.renderSlider())
	sb.WriteString("\n\n")

	q, err := m.session.Quote()
	if err != nil {
		sb.WriteString(errorStyle.Render("Error: " + err.Error()))
		sb.WriteString("\n")
	} else if m.view == viewPlans {
		sb.WriteString(m.renderPlans(q))
	} else {
		sb.WriteString(m.renderComparison())
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderStatus())
	return sb.String()
}

func (m Model) renderInput() string {
	s := m.session
	style := fieldStyle
	text := s.Text
	if m.editing {
		style = editingFieldStyle
		text += "▏"
	}

	parts := []string{
		labelStyle.Render("Monthly data points "),
		style.Render(text),
		" " + dimStyle.Render("≈ "+output.FormatCompactNumber(s.Usage)),
	}
	if limit := s.Calculator().Bounds.Max; aboveLimit(s.Text, limit) {
		parts = append(parts, " "+warnStyle.Render("max "+output.FormatCompactNumber(limit)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) renderSlider() string {
	b := m.session.Calculator().Bounds
	pos := 0
	if span := b.Max - b.Min; span > 0 {
		pos = int((m.session.Usage - b.Min) * sliderWidth / span)
	}
	if pos < 0 {
		pos = 0
	}
	if pos > sliderWidth {
		pos = sliderWidth
	}

	return output.FormatCompactNumber(b.Min) + " " +
		fillStyle.Render(strings.Repeat("━", pos)) +
		"●" +
		trackStyle.Render(strings.Repeat("─", sliderWidth-pos)) +
		" " + output.FormatCompactNumber(b.Max)
}

func (m Model) renderPlans(q *selection.Quote) string {
	cards := make([]string, 0, len(q.Tiers))
	for i, tq := range q.Tiers {
		cards = append(cards, m.renderCard(i, tq))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) renderCard(i int, tq selection.TierQuote) string {
	var sb strings.Builder

	t := tq.Tier
	if t.IsPopular {
		sb.WriteString(badgeStyle.Render("Most Popular"))
		sb.WriteString("\n")
	}
	sb.WriteString(nameStyle.Render(fmt.Sprintf("%d. %s", i+1, t.Name)))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(t.Description))
	sb.WriteString("\n\n")
	sb.WriteString(priceStyle.Render(output.FormatCurrency(tq.Price)))
	sb.WriteString(dimStyle.Render(" /month"))
	sb.WriteString("\n")

	if b := tq.Breakdown; b != nil && b.Exceeded {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("Base: %s + Usage: %s",
			output.FormatCurrency(b.Base), output.FormatCurrency(b.Overage))))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Using %s of %s included\n",
		output.FormatCompactNumber(m.session.Usage), output.FormatCompactNumber(t.IncludedAllowance)))
	if !tq.UnitPrice.IsZero() {
		sb.WriteString(dimStyle.Render(output.FormatRate(tq.UnitPrice) + " per 1K effective"))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	for _, f := range t.Features {
		sb.WriteString("✓ " + f + "\n")
	}

	style := cardStyle
	if t.ID == m.session.SelectedTierID {
		style = selectedCardStyle
	}
	return style.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) renderComparison() string {
	calc := m.session.Calculator()
	chart, err := comparison.Build(calc.Selector.Model(), calc.Tiers, m.session.Usage, m.session.SelectedTierID, nil)
	if err != nil {
		return errorStyle.Render("Error: " + err.Error())
	}

	var sb strings.Builder
	sb.WriteString(nameStyle.Render("Price at " + output.FormatCompactNumber(chart.Usage) + " data points"))
	sb.WriteString("\n")

	top := 0.0
	for _, b := range chart.Current {
		if f := b.Price.InexactFloat64(); f > top {
			top = f
		}
	}
	for _, b := range chart.Current {
		n := 0
		if top > 0 {
			n = int(b.Price.InexactFloat64() / top * 30)
		}
		bar := strings.Repeat("█", n)
		if b.IsSelected {
			bar = priceStyle.Render(bar)
		} else {
			bar = dimStyle.Render(bar)
		}
		sb.WriteString(fmt.Sprintf("%-14s %s %s\n", b.Name, bar, output.FormatCurrency(b.Price)))
	}

	sb.WriteString("\n")
	sb.WriteString(nameStyle.Render("Price trends"))
	sb.WriteString("\n")

	header := fmt.Sprintf("  %-8s", "Usage")
	for _, s := range chart.Trends {
		header += fmt.Sprintf(" %14s", s.Name)
	}
	sb.WriteString(labelStyle.Render(header))
	sb.WriteString("\n")
	if len(chart.Trends) > 0 {
		for row, p := range chart.Trends[0].Points {
			marker := "  "
			if p.Usage == chart.ClosestStep {
				marker = "▶ "
			}
			line := fmt.Sprintf("%s%-8s", marker, output.FormatCompactNumber(p.Usage))
			for _, s := range chart.Trends {
				line += fmt.Sprintf(" %14s", output.FormatCurrency(s.Points[row].Price))
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m Model) renderStatus() string {
	help := "←/→ adjust  shift/pgup/pgdn ×10  e edit  1-3 select  c compare  q quit"
	if m.editing {
		help = "type digits  backspace delete  ctrl+u clear  enter/tab/esc done"
	}
	if m.view == viewCompare && !m.editing {
		help = strings.Replace(help, "c compare", "c plans", 1)
	}
	return statusBarStyle.Render(help)
}

// aboveLimit reports whether the typed text exceeds limit and was therefore
// not applied.
func aboveLimit(text string, limit int64) bool {
	if text == "" {
		return false
	}
	v, err := strconv.ParseInt(text, 10, 64)
	return err != nil || v > limit
}
