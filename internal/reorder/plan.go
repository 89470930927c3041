package reorder

import (
	"errors"
	"time"

	"postgrid/internal/model"
)

// DefaultSpacing is the interval used when a post is moved to either end of
// the movable subsequence and has only one time-adjacent neighbor.
const DefaultSpacing = 30 * time.Minute

// pastClamp is the minimum lead the recomputed time keeps ahead of "now"
// when a front insertion would otherwise land in the past.
const pastClamp = time.Minute

var ErrPostNotFound = errors.New("post not found in movable subsequence")

// Shift is a neighbor correction carried by a plan when the insertion gap is
// exhausted (equal-timestamp neighbors leave no midpoint): the tail of the
// window is respaced so the order stays strict.
type Shift struct {
	PostID  string    `json:"postId"`
	NewTime time.Time `json:"newTime"`
}

// Plan is the outcome of a reschedule computation. NoOp plans carry the
// unchanged time and require no persistence.
type Plan struct {
	PostID  string    `json:"postId"`
	OldTime time.Time `json:"oldTime"`
	NewTime time.Time `json:"newTime"`
	NoOp    bool      `json:"noOp"`
	Shifts  []Shift   `json:"shifts,omitempty"`
}

// PlanReschedule computes the new scheduled time for moving the post with
// the given ID from sourcePos to destPos within the movable subsequence.
//
// movable must be ordered by scheduled time and contain movable posts only.
// The moved post is removed first; destPos addresses the insertion point in
// the remaining list (clamped in range). The new time is the midpoint of the
// insertion point's neighbors, or spacing outside the span when inserted at
// an end. A front insertion never produces a time in the past: it is clamped
// to now plus a small lead. When the neighbors carry the same timestamp the
// plan also shifts the posts after the insertion point so the order stays
// strict.
func PlanReschedule(movable []model.Post, id string, sourcePos, destPos int, spacing time.Duration, now func() time.Time) (Plan, error) {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	if now == nil {
		now = time.Now
	}

	srcIdx := -1
	for i := range movable {
		if movable[i].ID == id {
			srcIdx = i
			break
		}
	}
	if srcIdx < 0 {
		return Plan{}, ErrPostNotFound
	}
	moved := movable[srcIdx]

	if sourcePos == destPos {
		return Plan{PostID: id, OldTime: moved.ScheduledAt, NewTime: moved.ScheduledAt, NoOp: true}, nil
	}

	remaining := make([]model.Post, 0, len(movable)-1)
	for i := range movable {
		if i == srcIdx {
			continue
		}
		remaining = append(remaining, movable[i])
	}

	if destPos < 0 {
		destPos = 0
	}
	if destPos > len(remaining) {
		destPos = len(remaining)
	}

	// Sole movable post: nothing to order against.
	if len(remaining) == 0 {
		return Plan{PostID: id, OldTime: moved.ScheduledAt, NewTime: moved.ScheduledAt, NoOp: true}, nil
	}

	var newTime time.Time
	var shifts []Shift
	switch {
	case destPos == 0:
		after := remaining[0].ScheduledAt
		newTime = after.Add(-spacing)
		if min := now().Add(pastClamp); newTime.Before(min) {
			newTime = min
		}
	case destPos == len(remaining):
		newTime = remaining[len(remaining)-1].ScheduledAt.Add(spacing)
	default:
		before := remaining[destPos-1].ScheduledAt
		after := remaining[destPos].ScheduledAt
		if after.After(before) {
			newTime = before.Add(after.Sub(before) / 2)
		} else {
			// Equal-timestamp neighbors: no midpoint exists, so respace
			// the tail of the window to restore a strict order.
			newTime = before.Add(spacing)
			shifts = respace(remaining[destPos:], newTime, spacing)
		}
	}

	return Plan{PostID: id, OldTime: moved.ScheduledAt, NewTime: newTime, Shifts: shifts}, nil
}

// respace pushes each post whose time does not strictly follow the previous
// one to prev+spacing, cascading until the order is strict again.
func respace(tail []model.Post, prev time.Time, spacing time.Duration) []Shift {
	var shifts []Shift
	for i := range tail {
		if tail[i].ScheduledAt.After(prev) {
			break
		}
		prev = prev.Add(spacing)
		shifts = append(shifts, Shift{PostID: tail[i].ID, NewTime: prev})
	}
	return shifts
}
