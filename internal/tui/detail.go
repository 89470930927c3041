package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// viewDetailPane renders the selected post next to the grid: metadata plus
// the caption as markdown.
func (m appModel) viewDetailPane(width, height int) string {
	frame := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(0, 1)

	p, ok := m.seq.At(m.selected)
	if !ok {
		return frame.Render(faintIfDark(lipgloss.NewStyle().Foreground(colorMuted)).Render("No post selected."))
	}

	var b strings.Builder
	b.WriteString(cardTitleStyle.Render(p.ID))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(statusColor(string(p.Status))).Render(statusBadge(p.Status)))
	b.WriteString("\n")
	b.WriteString(cardMetaStyle.Render(p.ScheduledAt.Local().Format("Monday, Jan 2 2006 15:04")))
	b.WriteString("\n")
	if p.Platform != "" {
		b.WriteString(cardMetaStyle.Render(fmt.Sprintf("platform: %s", p.Platform)))
		b.WriteString("\n")
	}
	if p.MediaRef != "" {
		b.WriteString(cardMetaStyle.Render(fmt.Sprintf("media: %s", p.MediaRef)))
		b.WriteString("\n")
	}
	if !p.Movable() {
		b.WriteString(faintIfDark(lipgloss.NewStyle().Foreground(colorMuted)).Render("position locked"))
		b.WriteString("\n")
	}
	if caption := strings.TrimSpace(p.Caption); caption != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(caption, width-2))
	}

	return frame.Render(b.String())
}
