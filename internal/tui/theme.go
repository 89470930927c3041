package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The TUI must remain readable on both light and dark terminal backgrounds,
// so colors are lipgloss.AdaptiveColor pairs and "faint" styling is applied
// only on dark backgrounds (faint text on light terminals often becomes
// illegible).

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if hasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// hasDarkBackground honors POSTGRID_BACKGROUND=light|dark before falling
// back to terminal detection, so the theme is testable and scriptable.
func hasDarkBackground() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("POSTGRID_BACKGROUND"))) {
	case "light":
		return false
	case "dark":
		return true
	}
	return termenv.HasDarkBackground()
}

var (
	colorMuted    = ac("240", "243")
	colorAccent   = ac("27", "62") // blue
	colorSurface  = ac("235", "252")
	colorCardEdge = ac("250", "243")

	// Status accents for the small badge on each card.
	colorDraft      = ac("245", "246")
	colorScheduled  = ac("28", "35")  // green
	colorPublishing = ac("172", "214") // amber
	colorPublished  = ac("240", "243")
	colorFailed     = ac("160", "196") // red

	headerStyle = lipgloss.NewStyle().Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted)

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCardEdge).
			Foreground(colorSurface)

	cardSelectedStyle = cardStyle.
				BorderForeground(colorAccent)

	// Locked cards keep their slot; render them visibly inert.
	cardLockedStyle = cardStyle.
			BorderForeground(colorMuted).
			Foreground(colorMuted)

	// The dragged card while a gesture is in flight.
	cardDraggedStyle = cardStyle.
				BorderForeground(colorAccent).
				Bold(true)

	flashOKStyle   = lipgloss.NewStyle().Foreground(colorScheduled).Bold(true)
	flashErrStyle  = lipgloss.NewStyle().Foreground(colorFailed).Bold(true)
	cardTitleStyle = lipgloss.NewStyle().Bold(true)
	cardMetaStyle  = lipgloss.NewStyle().Foreground(ac("238", "250"))
)

func statusColor(status string) lipgloss.AdaptiveColor {
	switch status {
	case "draft":
		return colorDraft
	case "scheduled":
		return colorScheduled
	case "publishing":
		return colorPublishing
	case "published":
		return colorPublished
	case "failed":
		return colorFailed
	}
	return colorMuted
}
