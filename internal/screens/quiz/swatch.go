package quiz

import (
	"strings"

	"charm.land/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/abhisek/iroquiz/internal/ui/theme"
)

// lightThreshold is the CIE L* above which a dark label reads better.
const lightThreshold = 0.6

// parseSwatch parses a dataset rgb value. Three-digit shorthand is accepted.
func parseSwatch(rgb string) (colorful.Color, bool) {
	c, err := colorful.Hex(strings.TrimSpace(rgb))
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// labelColor picks black or white text for a swatch background.
func labelColor(c colorful.Color) string {
	l, _, _ := c.Lab()
	if l > lightThreshold {
		return "#000000"
	}
	return "#FFFFFF"
}

// renderSwatch draws a filled block in the entry's color with its hex code
// on top. Unparseable values render as a dimmed placeholder.
func renderSwatch(rgb string, width, height int) string {
	c, ok := parseSwatch(rgb)
	if !ok {
		return lipgloss.NewStyle().
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.TextDim).
			Render("no preview\n" + rgb)
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(labelColor(c))).
		Render(strings.ToUpper(c.Hex()))
}
