// Package tui provides the interactive pricing calculator. It is built on
// the bubbletea/lipgloss stack: a usage slider, a text field, and either
// the three plan cards or the comparison charts.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"datapoint-pricing/core/input"
	"datapoint-pricing/internal/logging"
)

// view identifies the content below the slider.
type view int

const (
	viewPlans view = iota
	viewCompare
)

// bigStep is how many slider positions shift/page keys move
const bigStep = 10

// Model is the top-level bubbletea model for the calculator.
type Model struct {
	session input.Session
	view    view
	editing bool
	width   int
	height  int
}

// New returns a Model starting at the calculator default usage.
func New(calc *input.Calculator) Model {
	return Model{session: calc.NewSession()}
}

// Session returns the current calculator state
func (m Model) Session() input.Session {
	return m.session
}

// Init has nothing to start; the calculator is driven by keys only.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update processes messages and returns an updated model plus any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	before := m.session.Usage

	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.session = m.session.Nudge(-1)
	case "right", "l":
		m.session = m.session.Nudge(1)
	case "shift+left", "pgdown":
		m.session = m.session.Nudge(-bigStep)
	case "shift+right", "pgup":
		m.session = m.session.Nudge(bigStep)
	case "home":
		m.session = m.session.Slide(m.session.Calculator().Bounds.Min)
	case "end":
		m.session = m.session.Slide(m.session.Calculator().Bounds.Max)
	case "1", "2", "3":
		tiers := m.session.Calculator().Tiers
		if i := int(key[0] - '1'); i < len(tiers) {
			m.session = m.session.Select(tiers[i].ID)
		}
	case "c":
		if m.view == viewPlans {
			m.view = viewCompare
		} else {
			m.view = viewPlans
		}
	case "e", "/":
		m.editing = true
	}

	if m.session.Usage != before {
		logging.Debug("usage changed", logging.Usage(m.session.Usage), logging.Tier(m.session.SelectedTierID))
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter, tea.KeyTab, tea.KeyEsc:
		m.session = m.session.Blur()
		m.editing = false
		logging.Debug("usage entered", logging.Usage(m.session.Usage), logging.Tier(m.session.SelectedTierID))
	case tea.KeyBackspace:
		// Text holds ASCII digits only
		if text := m.session.Text; text != "" {
			m.session = m.session.Type(text[:len(text)-1])
		}
	case tea.KeyCtrlU:
		m.session = m.session.Type("")
	case tea.KeyRunes:
		m.session = m.session.Type(m.session.Text + string(msg.Runes))
	}
	return m, nil
}
