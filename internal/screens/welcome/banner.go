package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/fpdrill/fpdrill/internal/ui/theme"
)

const bannerArt = `
 ███████╗██████╗     ██████╗ ██████╗ ██╗██╗     ██╗
 ██╔════╝██╔══██╗    ██╔══██╗██╔══██╗██║██║     ██║
 █████╗  ██████╔╝    ██║  ██║██████╔╝██║██║     ██║
 ██╔══╝  ██╔═══╝     ██║  ██║██╔══██╗██║██║     ██║
 ██║     ██║         ██████╔╝██║  ██║██║███████╗███████╗
 ╚═╝     ╚═╝         ╚═════╝ ╚═╝  ╚═╝╚═╝╚══════╝╚══════╝`

const bannerCompact = "F P  D R I L L"

// RenderBanner returns the banner in the primary color, compact below 60
// columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 60 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
