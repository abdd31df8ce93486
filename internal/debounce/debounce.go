package debounce

import (
	"sync"
	"time"
)

// Timer runs at most one deferred action. Scheduling a new action
// supersedes the pending one instead of stacking.
type Timer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	pending bool
}

// New creates a Timer firing delay after each Schedule
func New(delay time.Duration) *Timer {
	return &Timer{delay: delay}
}

// Delay returns the configured delay
func (d *Timer) Delay() time.Duration {
	return d.delay
}

// Schedule arranges for fn to run once after the delay, cancelling any
// action scheduled earlier.
func (d *Timer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.pending = true

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen || !d.pending {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending action; returns true if one was pending
func (d *Timer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	wasPending := d.pending
	d.stopLocked()
	d.gen++
	return wasPending
}

// Pending reports whether an action is waiting to fire
func (d *Timer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Timer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}
