package ui

import (
	"fmt"
	"strings"
)

// PlanCard renders one pricing tier as a boxed card. All amounts are
// preformatted by the caller.
type PlanCard struct {
	w *Writer

	Name        string
	Description string
	Price       string
	Base        string
	Usage       string
	Allowance   string
	Features    []string

	// Exceeded shows the "Base + Usage" split line
	Exceeded bool

	Popular  bool
	Selected bool
}

// NewPlanCard creates a plan card
func (w *Writer) NewPlanCard() *PlanCard {
	return &PlanCard{w: w}
}

const cardWidth = 44

// Render prints the card
func (c *PlanCard) Render() {
	border := Dim
	if c.Selected {
		border = Bold + Green
	}

	title := c.Name
	if c.Popular {
		title += "  ★ Most Popular"
	}
	if c.Selected {
		title += "  ✓ Best value"
	}

	c.w.line(c.w.color(border, "╭"+strings.Repeat("─", cardWidth)+"╮"))
	c.row(border, c.w.color(Bold, title), width(title))
	if c.Description != "" {
		c.row(border, c.w.color(Dim, c.Description), width(c.Description))
	}
	c.row(border, "", 0)

	price := c.Price + " /month"
	c.row(border, c.w.color(Bold+Green, c.Price)+" /month", width(price))
	if c.Exceeded {
		split := fmt.Sprintf("Base: %s + Usage: %s", c.Base, c.Usage)
		c.row(border, c.w.color(Yellow, split), width(split))
	}
	if c.Allowance != "" {
		incl := "Includes " + c.Allowance + " data points"
		c.row(border, incl, width(incl))
	}

	if len(c.Features) > 0 {
		c.row(border, "", 0)
		for _, f := range c.Features {
			c.row(border, c.w.color(Green, "✓ ")+f, width(f)+2)
		}
	}
	c.w.line(c.w.color(border, "╰"+strings.Repeat("─", cardWidth)+"╯"))
}

// row writes one line of content whose visible width is n
func (c *PlanCard) row(border, content string, n int) {
	fill := cardWidth - 2 - n
	if fill < 0 {
		fill = 0
	}
	c.w.line(c.w.color(border, "│") + " " + content + strings.Repeat(" ", fill) + " " + c.w.color(border, "│"))
}
