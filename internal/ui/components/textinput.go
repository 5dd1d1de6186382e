package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

// maxNoteLength caps a question note.
const maxNoteLength = 500

// TextInput wraps bubbles/textinput for single-line note editing.
type TextInput struct {
	Model textinput.Model
	Label string
}

// NewTextInput creates a focused input prefilled with value.
func NewTextInput(label, placeholder, value string) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = maxNoteLength
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return TextInput{Model: ti, Label: label}
}

// Update forwards messages to the underlying input.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label and the input.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(t.Label)
	return label + " " + t.Model.View()
}

// Value returns the current text.
func (t TextInput) Value() string {
	return t.Model.Value()
}
