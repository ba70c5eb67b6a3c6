// Package notify manages stacks of transient notifications.
//
// Each notification lives in its stack's queue until it is dismissed,
// cancelled, or its timer expires. Whatever ends it, the entry is removed from
// the queue first and its completion then settles exactly once with the
// terminal Record.
package notify

import (
	"context"
	"time"

	"github.com/Gaurav-Gosain/tuikit/internal/async"
)

// DefaultStack is the stack used when none is named.
const DefaultStack = "default"

// Status is the lifecycle state of a notification.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDismissed Status = "dismissed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Terminal reports whether s ends a notification.
func (s Status) Terminal() bool {
	switch s {
	case StatusDismissed, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Kind is the severity shown by the renderer.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Notification is the caller supplied content of an entry. A zero Duration
// never expires.
type Notification struct {
	ID       string
	Title    string
	Message  string
	Kind     Kind
	Duration time.Duration
}

// Record is a snapshot of an entry, live or terminal.
type Record struct {
	Notification
	Stack  string
	Status Status
	Added  time.Time
	// Removed is zero while the entry is live.
	Removed time.Time
	// Deadline is when the running timer fires; zero when none is running.
	Deadline time.Time
	// Timeout is the length of the running timer.
	Timeout time.Duration
}

// Remaining returns the time left before expiry, or zero when no timer runs.
func (r Record) Remaining(now time.Time) time.Duration {
	if r.Deadline.IsZero() || !r.Removed.IsZero() {
		return 0
	}
	return max(r.Deadline.Sub(now), 0)
}

// Progress returns the fraction of the running timer that is left, in [0, 1].
func (r Record) Progress(now time.Time) float64 {
	if r.Timeout <= 0 {
		return 0
	}
	return float64(r.Remaining(now)) / float64(r.Timeout)
}

// Patch holds the fields Update merges into a live entry. Nil fields are left
// alone.
type Patch struct {
	Title    *string
	Message  *string
	Kind     *Kind
	Duration *time.Duration
}

// RestartOptions configure Handle.Restart.
type RestartOptions struct {
	// Duration overrides the entry's duration for the new timer.
	Duration time.Duration
	// Unshift moves the entry to the front of its stack.
	Unshift bool
}

// Handle controls one added notification. It stays bound to that entry:
// once the entry has ended, a later entry reusing the id is out of its reach.
type Handle struct {
	stack *Stack
	id    string
	e     *entry
}

// ID returns the notification id.
func (h *Handle) ID() string { return h.id }

// Cancel ends the notification with status. Non-terminal statuses are
// treated as dismissed. It reports whether the entry was still live.
func (h *Handle) Cancel(status Status) bool {
	return h.stack.remove(h.id, h.e, status)
}

// Update merges p into the live entry. A duration change takes effect on the
// next Restart.
func (h *Handle) Update(p Patch) bool {
	return h.stack.update(h.id, h.e, p)
}

// Restart replaces the entry's timer.
func (h *Handle) Restart(opts RestartOptions) bool {
	return h.stack.restart(h.id, h.e, opts)
}

// Done is closed once the notification has ended.
func (h *Handle) Done() <-chan struct{} { return h.e.done.Done() }

// Wait blocks until the notification ends and returns its terminal record.
func (h *Handle) Wait(ctx context.Context) (Record, error) {
	return h.e.done.Wait(ctx)
}

// Record returns the live snapshot, or the terminal record once ended.
func (h *Handle) Record() Record {
	if rec, ok := h.e.done.Value(); ok {
		return rec
	}
	if rec, ok := h.stack.record(h.id, h.e); ok {
		return rec
	}
	// Ended between the two reads.
	rec, _ := h.e.done.Value()
	return rec
}
