package tui

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"postgrid/internal/drag"
	"postgrid/internal/model"
	"postgrid/internal/store"
)

type fakeStore struct {
	mu        sync.Mutex
	posts     []model.Post
	updateErr error
	updates   int
}

func (f *fakeStore) Load(ctx context.Context) (*store.DB, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &store.DB{Version: 1, Posts: append([]model.Post{}, f.posts...)}, nil
}

func (f *fakeStore) UpdateScheduledTime(ctx context.Context, id string, newTime time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.posts {
		if f.posts[i].ID == id {
			f.posts[i].ScheduledAt = newTime
		}
	}
	return nil
}

var tuiBase = time.Date(2030, 3, 14, 9, 0, 0, 0, time.UTC)

func schedPost(id string, status model.Status, offset time.Duration) model.Post {
	return model.Post{ID: id, Caption: "post " + id, Status: status, ScheduledAt: tuiBase.Add(offset)}
}

func testModel(t *testing.T, f *fakeStore) appModel {
	t.Helper()
	cfg := store.DefaultGridConfig()
	m := newAppModel(f, cfg, log.New(io.Discard), f.posts, "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(appModel)
}

func seqTimes(m appModel) []time.Time {
	out := make([]time.Time, 0, m.seq.Len())
	for _, p := range m.seq.Posts() {
		out = append(out, p.ScheduledAt)
	}
	return out
}

func TestNudge_AppliesOptimisticallyAndPersists(t *testing.T) {
	t.Parallel()

	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusScheduled, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
		schedPost("c", model.StatusScheduled, 2*time.Hour),
	}}
	m := testModel(t, f)
	m.selected = 0

	cmd := m.nudgeSelected(1)
	if cmd == nil {
		t.Fatalf("expected a persistence command")
	}

	// Optimistic: a now sits between b and c before the store write resolves.
	order := []string{}
	for _, p := range m.seq.Posts() {
		order = append(order, p.ID)
	}
	if order[0] != "b" || order[1] != "a" || order[2] != "c" {
		t.Fatalf("optimistic order: %v", order)
	}

	msg := cmd().(commitResultMsg)
	if msg.err != nil {
		t.Fatalf("persist: %v", msg.err)
	}
	next, _ := m.finishCommit(msg)
	m = next.(appModel)

	if f.updates != 1 {
		t.Fatalf("store updates: want 1, got %d", f.updates)
	}
	if m.flashErr || m.flashMsg == "" {
		t.Fatalf("expected success flash, got %q err=%v", m.flashMsg, m.flashErr)
	}
}

func TestCommitFailure_RollsBackExactly(t *testing.T) {
	t.Parallel()

	// Three posts at 09:00, 10:00, 11:00; moving the first to the end and
	// failing persistence must restore the times exactly.
	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusScheduled, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
		schedPost("c", model.StatusScheduled, 2*time.Hour),
	}}
	f.updateErr = errors.New("network down")

	m := testModel(t, f)
	before := seqTimes(m)

	cmd := m.startCommit(drag.Commit{PostID: "a", SourceIndex: 0, TargetIndex: 2})
	if cmd == nil {
		t.Fatalf("expected a persistence command")
	}

	// Optimistically a moved past c's 11:00 and re-sorted to the end.
	absA, _ := m.seq.Find("a")
	pa, _ := m.seq.At(absA)
	if absA != 2 || !pa.ScheduledAt.After(tuiBase.Add(2*time.Hour)) {
		t.Fatalf("optimistic move to the end: idx=%d time=%v", absA, pa.ScheduledAt)
	}

	flashBefore := m.flashSeq
	next, _ := m.finishCommit(cmd().(commitResultMsg))
	m = next.(appModel)

	after := seqTimes(m)
	if len(after) != len(before) {
		t.Fatalf("length changed")
	}
	for i := range before {
		if !after[i].Equal(before[i]) {
			t.Fatalf("rollback mismatch at %d: want %v, got %v", i, before[i], after[i])
		}
	}
	if p, _ := m.seq.At(0); p.ID != "a" {
		t.Fatalf("order not restored, head is %s", p.ID)
	}
	if !m.flashErr || m.flashMsg == "" {
		t.Fatalf("expected failure flash, got %q", m.flashMsg)
	}
	if m.flashSeq != flashBefore+1 {
		t.Fatalf("failure notification must fire exactly once, seq %d -> %d", flashBefore, m.flashSeq)
	}
}

func TestCommitFailure_StaleRollbackDropped(t *testing.T) {
	t.Parallel()

	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusScheduled, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
	}}
	f.updateErr = errors.New("timeout")

	m := testModel(t, f)
	m.selected = 0
	cmd := m.nudgeSelected(1)
	if cmd == nil {
		t.Fatalf("expected a persistence command")
	}
	result := cmd().(commitResultMsg)

	// An authoritative refresh lands between the optimistic apply and the
	// failure: the server moved a somewhere else entirely.
	refreshed := tuiBase.Add(6 * time.Hour)
	f.mu.Lock()
	f.updateErr = nil
	f.posts[0].ScheduledAt = refreshed
	f.mu.Unlock()
	m.refreshFromStore()

	next, _ := m.finishCommit(result)
	m = next.(appModel)

	// The refresh wins; the stale rollback must not resurrect 09:00.
	abs, ok := m.seq.Find("a")
	if !ok {
		t.Fatalf("post a missing")
	}
	p, _ := m.seq.At(abs)
	if !p.ScheduledAt.Equal(refreshed) {
		t.Fatalf("stale rollback overwrote refresh: got %v, want %v", p.ScheduledAt, refreshed)
	}
	// The failure is still surfaced.
	if !m.flashErr {
		t.Fatalf("expected failure flash")
	}
}

func TestNudge_LockedPostIsNoOp(t *testing.T) {
	t.Parallel()

	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusPublished, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
	}}
	m := testModel(t, f)
	m.selected = 0

	if cmd := m.nudgeSelected(1); cmd != nil {
		t.Fatalf("locked post must not produce a commit")
	}
	if f.updates != 0 {
		t.Fatalf("store touched for a locked post")
	}
}

// End-to-end drag via mouse messages: A locked at 09:00, B/C/D movable.
// Dragging C to the front of the grid gives it a time before B's 10:00
// while A keeps its slot and time.
func TestMouseDrag_EndToEnd(t *testing.T) {
	t.Parallel()

	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusPublished, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
		schedPost("c", model.StatusScheduled, 2*time.Hour),
		schedPost("d", model.StatusScheduled, 3*time.Hour),
	}}
	m := testModel(t, f)

	// Press in the middle of c's cell (absolute index 2).
	px, py := m.geo.CenterOf(2)
	next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: int(px), Y: int(py) + gridTop})
	m = next.(appModel)
	if !m.ctl.Active() {
		t.Fatalf("drag did not start")
	}

	// Drag to cell 0.
	tx, ty := m.geo.CenterOf(0)
	next, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft, X: int(tx), Y: int(ty) + gridTop})
	m = next.(appModel)
	s, _ := m.ctl.Session()
	if s.TargetIndex != 0 {
		t.Fatalf("target: want 0, got %d", s.TargetIndex)
	}

	next, cmd := m.Update(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft, X: int(tx), Y: int(ty) + gridTop})
	m = next.(appModel)
	if m.ctl.Active() {
		t.Fatalf("session must end on release")
	}
	if cmd == nil {
		t.Fatalf("expected a persistence command")
	}
	next, _ = m.finishCommit(cmd().(commitResultMsg))
	m = next.(appModel)

	// c now precedes b (earlier than 10:00) and a is untouched at 09:00.
	absA, _ := m.seq.Find("a")
	pa, _ := m.seq.At(absA)
	if absA != 0 || !pa.ScheduledAt.Equal(tuiBase) {
		t.Fatalf("locked a moved: idx=%d time=%v", absA, pa.ScheduledAt)
	}
	absB, _ := m.seq.Find("b")
	absC, _ := m.seq.Find("c")
	pc, _ := m.seq.At(absC)
	if absC > absB {
		t.Fatalf("c (%d) should precede b (%d)", absC, absB)
	}
	if !pc.ScheduledAt.Before(tuiBase.Add(time.Hour)) {
		t.Fatalf("c time %v should be before b's 10:00", pc.ScheduledAt)
	}
	if f.updates != 1 {
		t.Fatalf("store updates: want 1, got %d", f.updates)
	}
}

func TestMousePress_OutsideCellsIsIgnored(t *testing.T) {
	t.Parallel()

	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusScheduled, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
	}}
	m := testModel(t, f)
	m.selected = 0

	// Far outside the grid (detail pane, below the rows), in the gap band
	// between the first two cells, and over the empty slot after the last
	// post: none of these touch a card, so none may start a drag.
	gapX := int(m.geo.CellWidth) + 1
	lastX, lastY := m.geo.CenterOf(2)
	presses := [][2]int{
		{5000, 5000},
		{int(m.geo.CellWidth*float64(m.geo.Columns)) + 50, 2 + gridTop},
		{gapX, 2 + gridTop},
		{int(lastX), int(lastY) + gridTop},
	}
	for _, pt := range presses {
		next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: pt[0], Y: pt[1]})
		m = next.(appModel)
		if m.ctl.Active() {
			t.Fatalf("press at (%d,%d) outside any card started a drag", pt[0], pt[1])
		}
	}
	if m.selected != 0 {
		t.Fatalf("empty-space press moved the selection to %d", m.selected)
	}
	if f.updates != 0 {
		t.Fatalf("store touched without a gesture")
	}
}

func TestMouseDrag_PressOnLockedIsIgnored(t *testing.T) {
	t.Parallel()

	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusPublished, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
	}}
	m := testModel(t, f)

	px, py := m.geo.CenterOf(0)
	next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: int(px), Y: int(py) + gridTop})
	m = next.(appModel)
	if m.ctl.Active() {
		t.Fatalf("press on a locked post must not start a drag")
	}
}

func TestSlotAssignments_MakeRoomDuringDrag(t *testing.T) {
	t.Parallel()

	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusScheduled, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
		schedPost("c", model.StatusScheduled, 2*time.Hour),
	}}
	m := testModel(t, f)

	px, py := m.geo.CenterOf(0)
	next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: int(px), Y: int(py) + gridTop})
	m = next.(appModel)
	tx, ty := m.geo.CenterOf(2)
	next, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft, X: int(tx), Y: int(ty) + gridTop})
	m = next.(appModel)

	slots := m.slotAssignments()
	got := []string{slots[0].ID, slots[1].ID, slots[2].ID}
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slots: want %v, got %v", want, got)
		}
	}
}

func TestDragSlot_LockedHoverResolvesToMovableSlot(t *testing.T) {
	t.Parallel()

	// a is locked at slot 0; dragging c over it must render the dragged
	// card in b's vacated movable slot, never in a's.
	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusPublished, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
		schedPost("c", model.StatusScheduled, 2*time.Hour),
	}}
	m := testModel(t, f)

	px, py := m.geo.CenterOf(2)
	next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: int(px), Y: int(py) + gridTop})
	m = next.(appModel)
	tx, ty := m.geo.CenterOf(0)
	next, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft, X: int(tx), Y: int(ty) + gridTop})
	m = next.(appModel)

	s, _ := m.ctl.Session()
	if s.TargetIndex != 0 {
		t.Fatalf("hover target: want 0, got %d", s.TargetIndex)
	}
	slot, ok := m.dragSlot()
	if !ok || slot != 1 {
		t.Fatalf("dragged slot: want 1 (nearest movable), got %d ok=%v", slot, ok)
	}

	slots := m.slotAssignments()
	if slots[0].ID != "a" {
		t.Fatalf("locked slot 0 lost its card: got %s", slots[0].ID)
	}
	if slots[slot].ID != "c" {
		t.Fatalf("dragged card not at its resolved slot: got %s", slots[slot].ID)
	}
}

func TestEscape_AbortsDragWithoutPersisting(t *testing.T) {
	t.Parallel()

	f := &fakeStore{posts: []model.Post{
		schedPost("a", model.StatusScheduled, 0),
		schedPost("b", model.StatusScheduled, time.Hour),
	}}
	m := testModel(t, f)

	px, py := m.geo.CenterOf(0)
	next, _ := m.Update(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: int(px), Y: int(py) + gridTop})
	m = next.(appModel)
	if !m.ctl.Active() {
		t.Fatalf("drag did not start")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(appModel)
	if m.ctl.Active() {
		t.Fatalf("esc must abort the drag")
	}
	if f.updates != 0 {
		t.Fatalf("abort must not persist anything")
	}
}
