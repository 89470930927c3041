package drag

import (
	"testing"
	"time"

	"postgrid/internal/grid"
	"postgrid/internal/model"
	"postgrid/internal/reorder"
)

var dragBase = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func gridPosts(statuses ...model.Status) *reorder.Sequence {
	posts := make([]model.Post, 0, len(statuses))
	for i, st := range statuses {
		posts = append(posts, model.Post{
			ID:          string(rune('a' + i)),
			Status:      st,
			ScheduledAt: dragBase.Add(time.Duration(i) * time.Hour),
		})
	}
	return reorder.NewSequence(posts)
}

func testGeo() grid.Geometry {
	// 3 columns, 100x100 cells, gap 10.
	return grid.Config{Columns: 3, Gap: 10, AspectRatio: 1}.Layout(320)
}

func TestStart_CapturesOffsetAndSource(t *testing.T) {
	t.Parallel()

	seq := gridPosts(model.StatusScheduled, model.StatusScheduled, model.StatusScheduled, model.StatusScheduled)
	geo := testGeo()

	var c Controller
	// Press inside cell 1 (x 110..210), 15px from its origin.
	if !c.Start(Event{Kind: Press, X: 125, Y: 15, TargetID: "b"}, seq, geo) {
		t.Fatalf("press on movable post should start a drag")
	}

	s, ok := c.Session()
	if !ok {
		t.Fatalf("no active session")
	}
	if s.SourceIndex != 1 || s.TargetIndex != 1 {
		t.Fatalf("source/target: want 1/1, got %d/%d", s.SourceIndex, s.TargetIndex)
	}
	if s.OffsetX != 15 || s.OffsetY != 15 {
		t.Fatalf("captured offset: want (15,15), got (%v,%v)", s.OffsetX, s.OffsetY)
	}
	if x, y := s.Visual(); x != 110 || y != 0 {
		t.Fatalf("visual origin: want (110,0), got (%v,%v)", x, y)
	}
}

func TestStart_LockedPostIsNoOp(t *testing.T) {
	t.Parallel()

	seq := gridPosts(model.StatusPublished, model.StatusScheduled)
	var c Controller
	if c.Start(Event{Kind: Press, X: 5, Y: 5, TargetID: "a"}, seq, testGeo()) {
		t.Fatalf("press on locked post must not start a drag")
	}
	if c.Active() {
		t.Fatalf("controller should stay idle")
	}
}

func TestStart_SecondDragRejected(t *testing.T) {
	t.Parallel()

	seq := gridPosts(model.StatusScheduled, model.StatusScheduled)
	var c Controller
	if !c.Start(Event{Kind: Press, X: 5, Y: 5, TargetID: "a"}, seq, testGeo()) {
		t.Fatalf("first drag should start")
	}
	if c.Start(Event{Kind: Press, X: 115, Y: 5, TargetID: "b"}, seq, testGeo()) {
		t.Fatalf("second concurrent drag must be rejected")
	}
	s, _ := c.Session()
	if s.PostID != "a" {
		t.Fatalf("original session replaced: %+v", s)
	}
}

func TestStart_DegenerateGeometry(t *testing.T) {
	t.Parallel()

	seq := gridPosts(model.StatusScheduled)
	geo := grid.Config{Columns: 3, Gap: 10, AspectRatio: 1}.Layout(0)
	var c Controller
	if c.Start(Event{Kind: Press, X: 5, Y: 5, TargetID: "a"}, seq, geo) {
		t.Fatalf("drag must not start without measured geometry")
	}
}

func TestTrack_UpdatesTargetFromBoundingBoxCenter(t *testing.T) {
	t.Parallel()

	seq := gridPosts(model.StatusScheduled, model.StatusScheduled, model.StatusScheduled, model.StatusScheduled)
	geo := testGeo()

	var c Controller
	c.Start(Event{Kind: Press, X: 10, Y: 10, TargetID: "a"}, seq, geo)

	// Move the pointer so the dragged box center lands in cell 2.
	if changed := c.Track(Event{Kind: Move, X: 240, Y: 20}, geo, seq.Len()); !changed {
		t.Fatalf("target should change")
	}
	s, _ := c.Session()
	if s.TargetIndex != 2 {
		t.Fatalf("target: want 2, got %d", s.TargetIndex)
	}

	// A second sample inside the same cell is idempotent.
	if changed := c.Track(Event{Kind: Move, X: 242, Y: 22}, geo, seq.Len()); changed {
		t.Fatalf("same-cell move must not report a change")
	}
}

func TestDrop_EmitsCommitOnlyWhenMoved(t *testing.T) {
	t.Parallel()

	seq := gridPosts(model.StatusScheduled, model.StatusScheduled, model.StatusScheduled, model.StatusScheduled)
	geo := testGeo()

	var c Controller
	c.Start(Event{Kind: Press, X: 10, Y: 10, TargetID: "a"}, seq, geo)
	c.Track(Event{Kind: Move, X: 240, Y: 20}, geo, seq.Len())

	commit, ok := c.Drop()
	if !ok {
		t.Fatalf("expected a commit")
	}
	if commit.PostID != "a" || commit.SourceIndex != 0 || commit.TargetIndex != 2 {
		t.Fatalf("commit: %+v", commit)
	}
	if c.Active() {
		t.Fatalf("session must be destroyed on release")
	}

	// Press and release in place: no commit.
	c.Start(Event{Kind: Press, X: 10, Y: 10, TargetID: "a"}, seq, geo)
	if _, ok := c.Drop(); ok {
		t.Fatalf("no-op drop must not emit a commit")
	}
}

func TestAbort_DiscardsSession(t *testing.T) {
	t.Parallel()

	seq := gridPosts(model.StatusScheduled, model.StatusScheduled)
	var c Controller
	c.Start(Event{Kind: Press, X: 10, Y: 10, TargetID: "a"}, seq, testGeo())
	c.Abort()
	if c.Active() {
		t.Fatalf("abort must destroy the session")
	}
	if _, ok := c.Drop(); ok {
		t.Fatalf("drop after abort must not emit a commit")
	}
}

func TestHandle_DispatchesKinds(t *testing.T) {
	t.Parallel()

	seq := gridPosts(model.StatusScheduled, model.StatusScheduled, model.StatusScheduled, model.StatusScheduled)
	geo := testGeo()

	var c Controller
	c.Handle(Event{Kind: Press, X: 10, Y: 10, TargetID: "a"}, seq, geo)
	if !c.Active() {
		t.Fatalf("press should start session")
	}
	c.Handle(Event{Kind: Move, X: 240, Y: 20}, seq, geo)
	commit, ok := c.Handle(Event{Kind: Release}, seq, geo)
	if !ok || commit.TargetIndex != 2 {
		t.Fatalf("release: ok=%v commit=%+v", ok, commit)
	}

	c.Handle(Event{Kind: Press, X: 10, Y: 10, TargetID: "a"}, seq, geo)
	c.Handle(Event{Kind: Cancel}, seq, geo)
	if c.Active() {
		t.Fatalf("cancel should end session")
	}
}
