package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"postgrid/internal/model"
)

// dragSlot resolves the display slot the dragged post occupies while a drag
// is in flight. It can differ from the raw hovered index: hovering over a
// locked cell resolves to the nearest movable slot, and the locked cell
// itself keeps its card.
func (m appModel) dragSlot() (int, bool) {
	s, ok := m.ctl.Session()
	if !ok {
		return -1, false
	}
	return m.seq.EffectiveIndex(s.SourceIndex, s.SourceIndex, s.TargetIndex), true
}

// slotAssignments maps each display slot to the post rendered there, using
// the effective-index remapping while a drag is in flight.
func (m appModel) slotAssignments() []model.Post {
	n := m.seq.Len()
	slots := make([]model.Post, n)

	s, active := m.ctl.Session()
	for i := 0; i < n; i++ {
		p, _ := m.seq.At(i)
		slot := i
		if active {
			slot = m.seq.EffectiveIndex(i, s.SourceIndex, s.TargetIndex)
		}
		if slot >= 0 && slot < n {
			slots[slot] = p
		}
	}
	return slots
}

func (m appModel) viewGridPane() string {
	if m.geo.Zero() || m.seq.Len() == 0 {
		// Flow layout fallback: no measured width yet (or nothing to show).
		var b strings.Builder
		for _, p := range m.seq.Posts() {
			b.WriteString(cardMetaStyle.Render(p.ScheduledAt.Local().Format("Jan 2 15:04")))
			b.WriteString("  ")
			b.WriteString(truncate(p.Caption, 40))
			b.WriteString("\n")
		}
		if m.seq.Len() == 0 {
			b.WriteString(faintIfDark(lipgloss.NewStyle().Foreground(colorMuted)).Render("No posts yet. Try: postgrid posts add"))
		}
		return b.String()
	}

	slots := m.slotAssignments()
	draggedSlot, dragging := m.dragSlot()

	cellW := int(m.geo.CellWidth)
	cellH := int(m.geo.CellHeight)
	if cellH < 4 {
		cellH = 4
	}
	gap := int(m.geo.Gap)

	rows := make([]string, 0, m.geo.Rows(len(slots)))
	for row := 0; row < m.geo.Rows(len(slots)); row++ {
		cells := make([]string, 0, m.geo.Columns)
		for col := 0; col < m.geo.Columns; col++ {
			idx := row*m.geo.Columns + col
			if idx >= len(slots) {
				break
			}
			isPlaceholder := dragging && idx == draggedSlot
			cells = append(cells, m.renderCard(slots[idx], cellW, cellH, idx == m.selected, isPlaceholder))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cells, gap)...))
	}
	return strings.Join(rows, strings.Repeat("\n", gap+1))
}

func joinWithGap(cells []string, gap int) []string {
	if gap <= 0 || len(cells) < 2 {
		return cells
	}
	spacer := strings.Repeat(" ", gap)
	out := make([]string, 0, len(cells)*2-1)
	for i, c := range cells {
		if i > 0 {
			out = append(out, spacer)
		}
		out = append(out, c)
	}
	return out
}

func (m appModel) renderCard(p model.Post, w, h int, selected, placeholder bool) string {
	style := cardStyle
	switch {
	case placeholder:
		style = cardDraggedStyle
	case !p.Movable():
		style = cardLockedStyle
	case selected:
		style = cardSelectedStyle
	}

	innerW := w - style.GetHorizontalFrameSize()
	if innerW < 4 {
		innerW = 4
	}
	innerH := h - style.GetVerticalFrameSize()
	if innerH < 2 {
		innerH = 2
	}

	badge := lipgloss.NewStyle().Foreground(statusColor(string(p.Status))).Render(statusBadge(p.Status))
	lines := []string{
		truncate(badge+" "+cardMetaStyle.Render(p.ScheduledAt.Local().Format("Jan 2 15:04")), innerW),
		truncate(cardTitleStyle.Render(firstLine(p.Caption)), innerW),
	}
	if p.MediaRef != "" && innerH > 2 {
		lines = append(lines, truncate(cardMetaStyle.Render("▣ "+p.MediaRef), innerW))
	}
	if p.Platform != "" && innerH > len(lines) {
		lines = append(lines, truncate(cardMetaStyle.Render(p.Platform), innerW))
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	lines = lines[:innerH]

	return style.Width(innerW).Render(strings.Join(lines, "\n"))
}

func statusBadge(s model.Status) string {
	switch s {
	case model.StatusDraft:
		return "◌ draft"
	case model.StatusScheduled:
		return "● sched"
	case model.StatusPublishing:
		return "↑ going"
	case model.StatusPublished:
		return "✓ done"
	case model.StatusFailed:
		return "✗ failed"
	}
	return string(s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, w int) string {
	if w <= 1 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	return xansi.Cut(s, 0, w-1) + "…"
}

func fmtDragStatus(m appModel) string {
	s, ok := m.ctl.Session()
	if !ok {
		return ""
	}
	p, _ := m.seq.At(s.SourceIndex)
	return fmt.Sprintf("moving %s → slot %d (esc cancels)", p.ID, s.TargetIndex)
}
