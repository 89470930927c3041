// Package reorder implements the position arithmetic behind grid reordering:
// the movable-subsequence view, the "make room" visual index mapping used
// while a drag is in flight, and the scheduled-time recalculation applied on
// drop.
package reorder

import (
	"sort"
	"time"

	"postgrid/internal/model"
)

// Sequence is the full ordered post list shown in the grid plus a derived
// bidirectional mapping between absolute indices and positions within the
// movable subsequence. Locked posts (publishing/published/failed) are part
// of the grid but not of the index space that reordering shifts.
//
// The sequence is rebuilt whenever authoritative data arrives; it is never
// mutated in place except through WithScheduledAt (the optimistic-update
// path).
type Sequence struct {
	posts []model.Post

	movableAbs []int       // movable position -> absolute index
	posByAbs   map[int]int // absolute index -> movable position
}

// SortPosts orders posts by scheduled time ascending, ties broken by ID so
// the order is stable across rebuilds.
func SortPosts(posts []model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.ScheduledAt.Equal(b.ScheduledAt) {
			return a.ScheduledAt.Before(b.ScheduledAt)
		}
		return a.ID < b.ID
	})
}

// NewSequence copies and sorts posts, then derives the movable view.
func NewSequence(posts []model.Post) *Sequence {
	cp := append([]model.Post{}, posts...)
	SortPosts(cp)

	s := &Sequence{
		posts:    cp,
		posByAbs: make(map[int]int),
	}
	for abs, p := range cp {
		if p.Movable() {
			s.posByAbs[abs] = len(s.movableAbs)
			s.movableAbs = append(s.movableAbs, abs)
		}
	}
	return s
}

func (s *Sequence) Len() int { return len(s.posts) }

// Posts returns the ordered posts. Callers must not mutate the slice.
func (s *Sequence) Posts() []model.Post { return s.posts }

func (s *Sequence) At(abs int) (model.Post, bool) {
	if abs < 0 || abs >= len(s.posts) {
		return model.Post{}, false
	}
	return s.posts[abs], true
}

// Find returns the absolute index of the post with the given ID.
func (s *Sequence) Find(id string) (int, bool) {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// MovableCount returns the size of the movable subsequence.
func (s *Sequence) MovableCount() int { return len(s.movableAbs) }

// Movable returns the movable posts in order.
func (s *Sequence) Movable() []model.Post {
	out := make([]model.Post, 0, len(s.movableAbs))
	for _, abs := range s.movableAbs {
		out = append(out, s.posts[abs])
	}
	return out
}

// MovablePos translates an absolute index to its position within the movable
// subsequence. ok is false when the index points at a locked post.
func (s *Sequence) MovablePos(abs int) (pos int, ok bool) {
	pos, ok = s.posByAbs[abs]
	return pos, ok
}

// MovablePosNear translates an arbitrary absolute index (possibly a locked
// cell, e.g. a drop target hovering over a published post) to the nearest
// movable position: the number of movable posts before it, clamped into the
// valid position range.
func (s *Sequence) MovablePosNear(abs int) (int, bool) {
	if len(s.movableAbs) == 0 {
		return 0, false
	}
	if pos, ok := s.posByAbs[abs]; ok {
		return pos, true
	}
	n := 0
	for _, m := range s.movableAbs {
		if m < abs {
			n++
		}
	}
	if n > len(s.movableAbs)-1 {
		n = len(s.movableAbs) - 1
	}
	return n, true
}

// AbsIndex translates a movable position back to its absolute index.
func (s *Sequence) AbsIndex(pos int) (int, bool) {
	if pos < 0 || pos >= len(s.movableAbs) {
		return -1, false
	}
	return s.movableAbs[pos], true
}

// WithScheduledAt returns a new sequence in which the post with the given ID
// carries a new scheduled time, re-sorted so the grid reflects the new order
// immediately. The receiver is left untouched (it remains the rollback
// snapshot for the optimistic-update path).
func (s *Sequence) WithScheduledAt(id string, t time.Time) *Sequence {
	cp := append([]model.Post{}, s.posts...)
	for i := range cp {
		if cp[i].ID == id {
			cp[i].ScheduledAt = t
			break
		}
	}
	return NewSequence(cp)
}
