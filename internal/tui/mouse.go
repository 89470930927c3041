package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"postgrid/internal/drag"
)

// gridTop is the number of rows above the grid pane (header + blank line);
// mouse coordinates are translated into pane-local space before they reach
// the gesture controller.
const gridTop = 2

// normalizeMouse converts a bubbletea mouse message into the controller's
// pointer-event shape. Wheel and non-left buttons are not part of the
// gesture contract and map to no event.
func normalizeMouse(msg tea.MouseMsg) (drag.Event, bool) {
	x := float64(msg.X)
	y := float64(msg.Y - gridTop)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return drag.Event{}, false
		}
		return drag.Event{Kind: drag.Press, X: x, Y: y}, true
	case tea.MouseActionMotion:
		return drag.Event{Kind: drag.Move, X: x, Y: y}, true
	case tea.MouseActionRelease:
		return drag.Event{Kind: drag.Release, X: x, Y: y}, true
	}
	return drag.Event{}, false
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != viewGrid {
		return m, nil
	}
	ev, ok := normalizeMouse(msg)
	if !ok {
		return m, nil
	}

	// A press resolves the post directly under the pointer; no drag is
	// active yet, so display slots coincide with absolute indices. The
	// strict hit test rejects presses outside any cell (past the grid,
	// in a gap band, over an empty slot) so they never start a drag.
	if ev.Kind == drag.Press {
		idx := m.geo.HitIndex(ev.X, ev.Y, m.seq.Len())
		if idx < 0 {
			return m, nil
		}
		if p, ok := m.seq.At(idx); ok {
			m.selected = idx
			ev.TargetID = p.ID
		}
	}

	commit, emitted := m.ctl.Handle(ev, m.seq, m.geo)
	if !emitted {
		return m, nil
	}
	return m, m.startCommit(commit)
}
