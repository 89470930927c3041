// Package drag owns the reorder gesture: a small state machine driven by
// normalized pointer events. It tracks the single in-flight drag session and
// emits a commit request when a drag is released over a new grid slot.
package drag

import (
	"postgrid/internal/grid"
	"postgrid/internal/reorder"
)

// Session is the ephemeral state of one in-flight drag. It exists only
// between press and release/cancel and is discarded unconditionally when the
// gesture ends.
type Session struct {
	PostID      string
	SourceIndex int // absolute index in the ordered sequence
	TargetIndex int // absolute index of the hovered cell

	// Offset of the press point from the source cell's origin; keeps the
	// dragged visual tracking the pointer instead of snapping to it.
	OffsetX, OffsetY float64

	PointerX, PointerY float64
}

// Visual returns the top-left corner of the dragged cell's bounding box for
// the current pointer position.
func (s Session) Visual() (x, y float64) {
	return s.PointerX - s.OffsetX, s.PointerY - s.OffsetY
}

// Commit is the reorder request emitted when a drag is dropped on a slot
// other than its source.
type Commit struct {
	PostID      string
	SourceIndex int
	TargetIndex int
}

// Controller is the gesture state machine. It is idle or dragging; at most
// one session exists, enforced at the press transition (the only entry
// point). The zero value is ready to use.
//
// The controller runs on the UI event loop and handles every pointer sample
// synchronously, so target recomputation never lags the latest move event.
type Controller struct {
	dragging bool
	session  Session
}

// Active reports whether a drag session is in flight.
func (c *Controller) Active() bool { return c.dragging }

// Session returns the current drag session, if any.
func (c *Controller) Session() (Session, bool) {
	return c.session, c.dragging
}

// Start handles a press event. It begins a drag only when no session is
// active and the pressed post is movable; a press on a locked post or during
// an active drag is silently ignored.
func (c *Controller) Start(ev Event, seq *reorder.Sequence, geo grid.Geometry) bool {
	if c.dragging || geo.Zero() {
		return false
	}
	abs, ok := seq.Find(ev.TargetID)
	if !ok {
		return false
	}
	p, _ := seq.At(abs)
	if !p.Movable() {
		return false
	}

	cellX, cellY := geo.PositionOf(abs)
	c.session = Session{
		PostID:      ev.TargetID,
		SourceIndex: abs,
		TargetIndex: abs,
		OffsetX:     ev.X - cellX,
		OffsetY:     ev.Y - cellY,
		PointerX:    ev.X,
		PointerY:    ev.Y,
	}
	c.dragging = true
	return true
}

// Track handles a move event: it updates the dragged visual and recomputes
// the candidate target slot from the center of the dragged bounding box.
// It returns true when the target slot changed, so callers can skip
// redundant re-renders.
func (c *Controller) Track(ev Event, geo grid.Geometry, itemCount int) bool {
	if !c.dragging {
		return false
	}
	c.session.PointerX = ev.X
	c.session.PointerY = ev.Y

	topX, topY := c.session.Visual()
	idx := geo.IndexAt(topX+geo.CellWidth/2, topY+geo.CellHeight/2, itemCount)
	if idx < 0 || idx == c.session.TargetIndex {
		return false
	}
	c.session.TargetIndex = idx
	return true
}

// Drop handles a release event. The session ends either way; a commit is
// emitted only when the drop landed on a slot other than the source.
func (c *Controller) Drop() (Commit, bool) {
	if !c.dragging {
		return Commit{}, false
	}
	s := c.session
	c.reset()
	if s.TargetIndex == s.SourceIndex {
		return Commit{}, false
	}
	return Commit{PostID: s.PostID, SourceIndex: s.SourceIndex, TargetIndex: s.TargetIndex}, true
}

// Abort discards the session without emitting a commit (pointer cancel,
// capture loss, or an explicit abort such as a data refresh).
func (c *Controller) Abort() {
	c.reset()
}

func (c *Controller) reset() {
	c.dragging = false
	c.session = Session{}
}

// Handle dispatches one pointer event through the state machine and returns
// the commit request when the event completed a reorder drop.
func (c *Controller) Handle(ev Event, seq *reorder.Sequence, geo grid.Geometry) (Commit, bool) {
	switch ev.Kind {
	case Press:
		c.Start(ev, seq, geo)
	case Move:
		c.Track(ev, geo, seq.Len())
	case Release:
		return c.Drop()
	case Cancel:
		c.Abort()
	}
	return Commit{}, false
}
