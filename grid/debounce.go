package grid

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay long-text edits and filter value input
// wait before committing.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer owns the commit timer for debounced edits. Schedule
// replaces any pending value and restarts the timer; FlushNow fires
// the pending value immediately; Cancel drops it. The fire function
// runs on the timer goroutine, so hosts that need event-loop delivery
// should forward from there.
type Debouncer struct {
	delay time.Duration
	fire  func(value any)

	mu      sync.Mutex
	timer   *time.Timer
	value   any
	pending bool
}

// NewDebouncer builds a debouncer firing after delay. A non-positive
// delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration, fire func(value any)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fire: fire}
}

// Schedule queues value to fire after the delay, replacing any pending
// value and restarting the timer.
func (d *Debouncer) Schedule(value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value = value
	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.timeout)
}

// FlushNow fires the pending value immediately, if any.
func (d *Debouncer) FlushNow() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	v := d.value
	d.pending = false
	d.mu.Unlock()
	d.fire(v)
}

// Cancel drops any pending value without firing.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
	d.value = nil
}

// Pending reports whether a value is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) timeout() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	v := d.value
	d.pending = false
	d.mu.Unlock()
	d.fire(v)
}
