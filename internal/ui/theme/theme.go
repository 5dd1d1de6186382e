package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/corpus"
)

// Palette is a full set of UI colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
}

var (
	// Dark suits dark terminals; it is also used for "auto".
	Dark = Palette{
		Primary:   lipgloss.Color("#60A5FA"), // Sky
		Secondary: lipgloss.Color("#34D399"), // Emerald
		Accent:    lipgloss.Color("#FBBF24"), // Amber
		Success:   lipgloss.Color("#22C55E"),
		Error:     lipgloss.Color("#F43F5E"),
		Text:      lipgloss.Color("#F8FAFC"),
		TextDim:   lipgloss.Color("#94A3B8"),
		BgCard:    lipgloss.Color("#1E293B"),
		Border:    lipgloss.Color("#334155"),
	}

	Light = Palette{
		Primary:   lipgloss.Color("#1D4ED8"),
		Secondary: lipgloss.Color("#047857"),
		Accent:    lipgloss.Color("#B45309"),
		Success:   lipgloss.Color("#15803D"),
		Error:     lipgloss.Color("#BE123C"),
		Text:      lipgloss.Color("#0F172A"),
		TextDim:   lipgloss.Color("#64748B"),
		BgCard:    lipgloss.Color("#E2E8F0"),
		Border:    lipgloss.Color("#CBD5E1"),
	}
)

// Active palette colors. Set with Use.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	BgCard    color.Color
	Border    color.Color
)

func init() { Use("dark") }

// Use activates the palette for a settings theme name: "light", "dark" or
// "auto". Unknown names fall back to dark.
func Use(name string) {
	p := Dark
	if name == "light" {
		p = Light
	}
	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	Success, Error = p.Success, p.Error
	Text, TextDim = p.Text, p.TextDim
	BgCard, Border = p.BgCard, p.Border
}

// Category returns the display color of an exam category.
func Category(id string) color.Color {
	if c, ok := corpus.LookupCategory(id); ok {
		return lipgloss.Color(c.Color)
	}
	return TextDim
}

// Centered renders s across width in color fg.
func Centered(s string, width int, fg color.Color) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Render(s)
}

// Heading renders a bold centered line in the primary color.
func Heading(s string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(Primary).
		Bold(true).
		Render(s)
}

// Card wraps content in a rounded bordered box.
func Card(content string, width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Width(width).
		Padding(0, 2).
		Render(content)
}
