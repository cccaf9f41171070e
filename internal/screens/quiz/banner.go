package quiz

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/iroquiz/internal/ui/theme"
)

const bannerArt = `
 ██╗██████╗  ██████╗  ██████╗ ██╗   ██╗██╗███████╗
 ██║██╔══██╗██╔═══██╗██╔═══██╗██║   ██║██║╚══███╔╝
 ██║██████╔╝██║   ██║██║   ██║██║   ██║██║  ███╔╝
 ██║██╔══██╗██║   ██║██║▄▄ ██║██║   ██║██║ ███╔╝
 ██║██║  ██║╚██████╔╝╚██████╔╝╚██████╔╝██║███████╗
 ╚═╝╚═╝  ╚═╝ ╚═════╝  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝`

const bannerCompact = "I R O Q U I Z"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 52

// renderBanner returns the app banner in the primary color, falling back to
// the compact form on narrow terminals.
func renderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
