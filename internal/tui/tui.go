// Package tui renders the schedule grid: posts in a fixed-column grid
// ordered by scheduled time, draggable with the mouse to reorder. Dropping a
// post recomputes its scheduled time and persists it optimistically.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"postgrid/internal/store"
)

func Run(s store.Store, cfg store.GridConfig, logger *log.Logger) error {
	db, err := s.Load(context.Background())
	if err != nil {
		return err
	}
	m := newAppModel(s, cfg, logger, db.Posts, s.SQLitePath())
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func (m appModel) View() string {
	mode := "4:5"
	if m.reel {
		mode = "9:16"
	}
	header := headerStyle.Render(fmt.Sprintf("postgrid  %d posts  %d movable  cols=%d  mode=%s",
		m.seq.Len(), m.seq.MovableCount(), m.geo.Columns, mode))

	var body string
	switch m.mode {
	case viewQueue:
		body = m.queue.View()
	default:
		detailH := m.bodyHeight()
		gridPane := lipgloss.NewStyle().Width(m.gridPaneWidth()).Render(m.viewGridPane())
		body = lipgloss.JoinHorizontal(lipgloss.Top, gridPane, " ", m.viewDetailPane(m.detailWidth(), detailH))
	}

	footer := footerStyle.Render("drag: reorder  </>: nudge  tab: queue  m: aspect  r: reload  q: quit")
	if st := fmtDragStatus(m); st != "" {
		footer = footerStyle.Render(st)
	}
	if m.flashMsg != "" {
		if m.flashErr {
			footer = flashErrStyle.Render(m.flashMsg)
		} else {
			footer = flashOKStyle.Render(m.flashMsg)
		}
	}

	return strings.Join([]string{header, "", body, footer}, "\n")
}
