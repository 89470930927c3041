package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"postgrid/internal/drag"
	"postgrid/internal/grid"
	"postgrid/internal/model"
	"postgrid/internal/reorder"
	"postgrid/internal/store"
)

// termCellAspect compensates for terminal cells being roughly twice as tall
// as they are wide, so the configured post aspect ratio survives rendering.
const termCellAspect = 0.5

type viewMode int

const (
	viewGrid viewMode = iota
	viewQueue
)

type (
	reloadTickMsg struct{}
	flashDoneMsg  struct{ seq int }

	commitResultMsg struct {
		seq  int
		plan reorder.Plan
		err  error
	}
)

// scheduleStore is the slice of the store the TUI needs; tests substitute a
// fake to exercise the rollback path.
type scheduleStore interface {
	Load(ctx context.Context) (*store.DB, error)
	UpdateScheduledTime(ctx context.Context, id string, newTime time.Time) error
}

// pendingCommit keys a rollback on the sequence snapshot taken immediately
// before the optimistic update.
type pendingCommit struct {
	plan     reorder.Plan
	snapshot *reorder.Sequence
}

type appModel struct {
	st     scheduleStore
	cfg    store.GridConfig
	logger *log.Logger
	keys   keyMap

	width, height int
	geo           grid.Geometry
	reel          bool

	seq      *reorder.Sequence
	selected int // absolute index of the keyboard selection

	ctl drag.Controller

	mode  viewMode
	queue list.Model

	flashSeq int
	flashMsg string
	flashErr bool

	commitSeq int
	pending   map[int]pendingCommit

	storePath    string
	lastModTime  time.Time
	reloadFailed bool
}

func newAppModel(st scheduleStore, cfg store.GridConfig, logger *log.Logger, posts []model.Post, storePath string) appModel {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	m := appModel{
		st:        st,
		cfg:       cfg,
		logger:    logger,
		keys:      newKeyMap(),
		seq:       reorder.NewSequence(posts),
		pending:   map[int]pendingCommit{},
		storePath: storePath,
	}
	m.queue = newQueueList()
	m.refreshQueue()
	m.lastModTime = fileModTime(storePath)
	return m
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.geo = m.layoutGeometry()
		m.queue.SetSize(msg.Width, m.bodyHeight())
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case reloadTickMsg:
		if mt := fileModTime(m.storePath); mt.After(m.lastModTime) {
			m.refreshFromStore()
		}
		return m, tickReload()

	case commitResultMsg:
		return m.finishCommit(msg)

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flashMsg = ""
			m.flashErr = false
		}
		return m, nil
	}

	if m.mode == viewQueue {
		var cmd tea.Cmd
		m.queue, cmd = m.queue.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case msg.String() == "esc":
		if m.ctl.Active() {
			m.ctl.Abort()
			return m, nil
		}

	case key.Matches(msg, m.keys.ToggleView):
		if m.ctl.Active() {
			m.ctl.Abort()
		}
		if m.mode == viewGrid {
			m.mode = viewQueue
		} else {
			m.mode = viewGrid
		}
		return m, nil

	case key.Matches(msg, m.keys.AspectMode):
		m.reel = !m.reel
		m.geo = m.layoutGeometry()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.refreshFromStore()
		return m, nil
	}

	if m.mode == viewQueue {
		var cmd tea.Cmd
		m.queue, cmd = m.queue.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-m.geo.Columns)
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(m.geo.Columns)
	case key.Matches(msg, m.keys.MoveEarly):
		return m, m.nudgeSelected(-1)
	case key.Matches(msg, m.keys.MoveLate):
		return m, m.nudgeSelected(1)
	}
	return m, nil
}

func (m *appModel) moveSelection(delta int) {
	n := m.seq.Len()
	if n == 0 {
		return
	}
	s := m.selected + delta
	if s < 0 {
		s = 0
	}
	if s > n-1 {
		s = n - 1
	}
	m.selected = s
}

// nudgeSelected reorders the keyboard selection one movable slot earlier or
// later, through the same commit path a mouse drop uses.
func (m *appModel) nudgeSelected(dir int) tea.Cmd {
	abs := m.selected
	pos, ok := m.seq.MovablePos(abs)
	if !ok {
		return nil // locked posts stay put
	}
	dst := pos + dir
	if dst < 0 || dst >= m.seq.MovableCount() {
		return nil
	}
	target, ok := m.seq.AbsIndex(dst)
	if !ok {
		return nil
	}
	p, _ := m.seq.At(abs)
	return m.startCommit(drag.Commit{PostID: p.ID, SourceIndex: abs, TargetIndex: target})
}

// startCommit runs the reorder plan and applies it optimistically: the grid
// re-sorts immediately and the persistence write happens in a tea.Cmd. The
// pre-commit snapshot is kept for rollback.
func (m *appModel) startCommit(c drag.Commit) tea.Cmd {
	srcPos, ok := m.seq.MovablePos(c.SourceIndex)
	if !ok {
		return nil
	}
	dstPos, ok := m.seq.MovablePosNear(c.TargetIndex)
	if !ok {
		return nil
	}

	plan, err := reorder.PlanReschedule(m.seq.Movable(), c.PostID, srcPos, dstPos, m.cfg.Spacing(), nil)
	if errors.Is(err, reorder.ErrPostNotFound) {
		// Stale commit against a refreshed sequence: drop it.
		m.logger.Warn("reorder target vanished", "post", c.PostID)
		return nil
	}
	if err != nil {
		m.logger.Error("reorder plan failed", "post", c.PostID, "err", err)
		return nil
	}
	if plan.NoOp {
		return nil
	}

	snapshot := m.seq
	m.seq = m.seq.WithScheduledAt(plan.PostID, plan.NewTime)
	for _, sh := range plan.Shifts {
		m.seq = m.seq.WithScheduledAt(sh.PostID, sh.NewTime)
	}
	m.refreshQueue()
	m.followPost(plan.PostID)

	m.commitSeq++
	seqNo := m.commitSeq
	m.pending[seqNo] = pendingCommit{plan: plan, snapshot: snapshot}
	m.logger.Debug("optimistic reorder applied", "post", plan.PostID, "newTime", plan.NewTime)

	st := m.st
	return func() tea.Msg {
		err := st.UpdateScheduledTime(context.Background(), plan.PostID, plan.NewTime)
		for _, sh := range plan.Shifts {
			if err != nil {
				break
			}
			err = st.UpdateScheduledTime(context.Background(), sh.PostID, sh.NewTime)
		}
		return commitResultMsg{seq: seqNo, plan: plan, err: err}
	}
}

func (m appModel) finishCommit(msg commitResultMsg) (tea.Model, tea.Cmd) {
	p, ok := m.pending[msg.seq]
	if !ok {
		return m, nil
	}
	delete(m.pending, msg.seq)

	if msg.err == nil {
		m.lastModTime = fileModTime(m.storePath)
		m.logger.Info("reorder persisted", "post", msg.plan.PostID, "newTime", msg.plan.NewTime)
		return m.flash(fmt.Sprintf("moved %s to %s", msg.plan.PostID, msg.plan.NewTime.Local().Format("Jan 2 15:04")), false)
	}

	// Roll back only while our optimistic write is still what the sequence
	// shows; if an authoritative refresh already rewrote the post, the
	// server state wins and the stale rollback is dropped.
	if abs, found := m.seq.Find(msg.plan.PostID); found {
		if cur, _ := m.seq.At(abs); cur.ScheduledAt.Equal(msg.plan.NewTime) {
			m.seq = p.snapshot
			m.refreshQueue()
			m.followPost(msg.plan.PostID)
		}
	}
	m.logger.Error("reorder persist failed", "post", msg.plan.PostID, "err", msg.err)
	return m.flash(fmt.Sprintf("reorder failed: %v", msg.err), true)
}

func (m appModel) flash(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.flashSeq++
	m.flashMsg = text
	m.flashErr = isErr
	seq := m.flashSeq
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// followPost keeps the keyboard selection on a post across re-sorts.
func (m *appModel) followPost(id string) {
	if abs, ok := m.seq.Find(id); ok {
		m.selected = abs
	}
	m.moveSelection(0)
}

func (m *appModel) refreshFromStore() {
	db, err := m.st.Load(context.Background())
	if err != nil {
		m.reloadFailed = true
		m.logger.Error("store reload failed", "err", err)
		return
	}
	m.reloadFailed = false

	// Authoritative data invalidates any in-flight gesture.
	if m.ctl.Active() {
		m.ctl.Abort()
	}

	var keep string
	if p, ok := m.seq.At(m.selected); ok {
		keep = p.ID
	}
	m.seq = reorder.NewSequence(db.Posts)
	m.refreshQueue()
	if keep != "" {
		m.followPost(keep)
	}
	m.moveSelection(0)
	m.lastModTime = fileModTime(m.storePath)
}

func (m appModel) layoutGeometry() grid.Geometry {
	cfg := m.cfg.Grid()
	if m.reel {
		cfg.AspectRatio = grid.AspectReel
	}
	// Stretch the ratio so cell height comes out in terminal rows.
	cfg.AspectRatio /= termCellAspect
	return cfg.Layout(float64(m.gridPaneWidth()))
}

func (m appModel) gridPaneWidth() int {
	w := m.width - m.detailWidth() - 1
	if w < 30 {
		w = 30
	}
	return w
}

func (m appModel) detailWidth() int {
	w := m.width / 3
	if w < 24 {
		w = 24
	}
	return w
}

func (m appModel) bodyHeight() int {
	h := m.height - 4 // header + footer + spacing
	if h < 8 {
		h = 8
	}
	return h
}

func tickReload() tea.Cmd {
	return tea.Tick(750*time.Millisecond, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func fileModTime(path string) time.Time {
	if path == "" {
		return time.Time{}
	}
	st, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}
