package ledger

import (
	"sync"
	"time"
)

// debouncer runs fn once after delay has passed with no new Schedule call.
type debouncer struct {
	clock Clock
	timer Timer
	fn    func()
	delay time.Duration
	mu    sync.Mutex
	// gen identifies the latest scheduled run; stale timers that fire after
	// being replaced see a different value and do nothing.
	gen uint64
}

func newDebouncer(clock Clock, delay time.Duration, fn func()) *debouncer {
	return &debouncer{clock: clock, delay: delay, fn: fn}
}

// Schedule replaces any pending run with one delay from now.
func (d *debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Stop cancels the pending run and reports whether one was pending.
func (d *debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Pending reports whether a run is scheduled.
func (d *debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
