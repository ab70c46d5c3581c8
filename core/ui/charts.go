package ui

import (
	"strings"
)

// ChartBar is one bar of a BarChart
type ChartBar struct {
	Label     string
	Value     float64
	Display   string
	Highlight bool
}

// BarChart renders horizontal bars scaled to the largest value
type BarChart struct {
	w     *Writer
	Title string
	Width int
	Bars  []ChartBar
}

// NewBarChart creates a bar chart
func (w *Writer) NewBarChart(title string) *BarChart {
	return &BarChart{w: w, Title: title, Width: 30}
}

// Add appends a bar
func (c *BarChart) Add(label string, value float64, display string, highlight bool) {
	c.Bars = append(c.Bars, ChartBar{Label: label, Value: value, Display: display, Highlight: highlight})
}

// Render prints the chart
func (c *BarChart) Render() {
	if c.Title != "" {
		c.w.SubHeader(c.Title)
	}

	labelWidth := 0
	top := 0.0
	for _, b := range c.Bars {
		if width(b.Label) > labelWidth {
			labelWidth = width(b.Label)
		}
		if b.Value > top {
			top = b.Value
		}
	}

	for _, b := range c.Bars {
		filled := 0
		if top > 0 {
			filled = int(b.Value / top * float64(c.Width))
		}
		if b.Value > 0 && filled == 0 {
			filled = 1
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", c.Width-filled)

		color := Dim
		marker := "  "
		if b.Highlight {
			color = Green
			marker = "▶ "
		}
		c.w.line(marker + pad(b.Label, labelWidth) + " " + c.w.color(color, bar) + " " + b.Display)
	}
}

// TrendChart renders prices of several series across shared usage levels
// as a table, marking one row.
type TrendChart struct {
	w       *Writer
	Title   string
	Levels  []string
	Series  []string
	Values  [][]string
	Marked  int
	Focused int
}

// NewTrendChart creates a trend chart. levels label the rows and series
// the columns; Marked is the highlighted row index (-1 for none).
func (w *Writer) NewTrendChart(title string, levels, series []string) *TrendChart {
	values := make([][]string, len(levels))
	for i := range values {
		values[i] = make([]string, len(series))
	}
	return &TrendChart{w: w, Title: title, Levels: levels, Series: series, Values: values, Marked: -1, Focused: -1}
}

// Set stores the display value of series col at level row
func (c *TrendChart) Set(row, col int, value string) {
	c.Values[row][col] = value
}

// Render prints the chart
func (c *TrendChart) Render() {
	if c.Title != "" {
		c.w.SubHeader(c.Title)
	}

	headers := append([]string{"  Usage"}, c.Series...)
	if c.Focused >= 0 && c.Focused < len(c.Series) {
		headers[c.Focused+1] = c.Series[c.Focused] + " ●"
	}
	t := c.w.NewTable(headers...)
	for i, level := range c.Levels {
		marker := "  "
		if i == c.Marked {
			marker = "▶ "
		}
		t.AddRow(append([]string{marker + level}, c.Values[i]...)...)
	}
	t.Render()
}
