package model

import "time"

type Status string

const (
	StatusDraft      Status = "draft"
	StatusScheduled  Status = "scheduled"
	StatusPublishing Status = "publishing"
	StatusPublished  Status = "published"
	StatusFailed     Status = "failed"
)

// Movable reports whether a post in this status may change position and
// scheduled time through a reorder. Everything past "scheduled" is pinned.
func (s Status) Movable() bool {
	return s == StatusDraft || s == StatusScheduled
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublishing, StatusPublished, StatusFailed:
		return true
	}
	return false
}

// Post is the schedulable unit shown in the grid. Media and platform fields
// are opaque to the reorder engine; it only reads ID, Status and ScheduledAt.
type Post struct {
	ID      string `json:"id"`
	Caption string `json:"caption,omitempty"`
	// MediaRef points at the uploaded asset (path or remote key); display-only here.
	MediaRef string `json:"mediaRef,omitempty"`
	Platform string `json:"platform,omitempty"`

	Status      Status    `json:"status"`
	ScheduledAt time.Time `json:"scheduledAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Post) Movable() bool { return p.Status.Movable() }
