package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

// MultiChoice is an option picker. Options are chosen with the arrow keys
// and enter, or directly with their number. Once revealed it shows which
// option was right.
type MultiChoice struct {
	Options  []string
	Selected int

	chosen   int
	correct  int
	revealed bool
}

// NewMultiChoice creates a picker over options.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options, chosen: -1, correct: -1}
}

// Update handles navigation. It returns the chosen index, or -1 when the
// key did not choose anything.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, int) {
	if m.revealed {
		return m, -1
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		return m, m.Selected
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
				return m, i
			}
		}
	}
	return m, -1
}

// Reveal marks chosen and correct options for feedback.
func (m *MultiChoice) Reveal(chosen, correct int) {
	m.chosen, m.correct, m.revealed = chosen, correct, true
}

// Revealed reports whether feedback is showing.
func (m MultiChoice) Revealed() bool { return m.revealed }

// View renders the options, wrapped to width.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.revealed {
			prefix = "▸ "
		}
		mark := ""
		style := lipgloss.NewStyle().Width(width).Foreground(theme.Text)
		switch {
		case m.revealed && i == m.correct:
			style = style.Foreground(theme.Success).Bold(true)
			mark = " ○"
		case m.revealed && i == m.chosen:
			style = style.Foreground(theme.Error).Bold(true)
			mark = " ×"
		case m.revealed:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d) %s%s", prefix, i+1, opt, mark)))
		b.WriteString("\n")
	}
	return b.String()
}
