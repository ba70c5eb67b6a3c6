package async

import (
	"sync"
	"time"

	"github.com/Gaurav-Gosain/tuikit/internal/clock"
)

// Debouncer collapses repeated Schedule calls into one trailing invocation of
// its function. At most one timer is pending per Debouncer.
type Debouncer struct {
	mu    sync.Mutex
	clock clock.Clock
	fn    func()
	timer clock.Timer
	gen   uint64
}

// NewDebouncer returns a Debouncer that runs fn on c.
func NewDebouncer(c clock.Clock, fn func()) *Debouncer {
	if c == nil {
		c = clock.Real()
	}
	return &Debouncer{clock: c, fn: fn}
}

// Schedule cancels any pending invocation and schedules a new one after delay.
func (d *Debouncer) Schedule(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(delay, func() {
		d.mu.Lock()
		if gen != d.gen || d.timer == nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn()
	})
}

// Cancel drops the pending invocation, if any. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	pending := d.timer != nil
	d.stopLocked()
	return pending
}

// Flush runs the pending invocation now instead of waiting for its timer.
// It reports whether anything was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.stopLocked()
	d.mu.Unlock()
	d.fn()
	return true
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
