package tools

import (
	"sync"
	"time"
)

// Rate limiting primitives for the snapshot sync path. Continuous gestures
// (fog painting, box dragging) call into the store far faster than the sinks
// should be hit; these collapse the bursts. The callback passed to Do is the
// one that runs, so a caller may hand over a fresh closure on every call
// without losing a pending invocation.

// Debouncer collapses a burst of calls into one invocation of the most
// recently supplied callback, fired delay after the last call.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	fn      func()
	stopped bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.fn = fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	d.timer = nil
	stopped := d.stopped
	d.mu.Unlock()
	if fn != nil && !stopped {
		fn()
	}
}

// Flush runs a pending invocation immediately, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.fn
	d.fn = nil
	stopped := d.stopped
	d.mu.Unlock()
	if fn != nil && !stopped {
		fn()
	}
}

// Stop drops any pending invocation. The debouncer is dead afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.fn = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// LeadingDebouncer fires the first call of a burst immediately, then
// collapses the rest of the burst into one trailing invocation at the window
// boundary.
type LeadingDebouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	fn      func()
	last    time.Time
	stopped bool
}

func NewLeadingDebouncer(delay time.Duration) *LeadingDebouncer {
	return &LeadingDebouncer{delay: delay}
}

func (d *LeadingDebouncer) Do(fn func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	now := time.Now()
	if d.timer == nil && now.Sub(d.last) >= d.delay {
		d.last = now
		d.timer = time.AfterFunc(d.delay, d.fire)
		d.mu.Unlock()
		fn()
		return
	}
	d.fn = fn
	if d.timer == nil {
		remaining := d.delay - now.Sub(d.last)
		if remaining <= 0 {
			remaining = time.Nanosecond
		}
		d.timer = time.AfterFunc(remaining, d.fire)
	}
	d.mu.Unlock()
}

func (d *LeadingDebouncer) fire() {
	d.mu.Lock()
	fn := d.fn
	d.fn = nil
	d.timer = nil
	if fn != nil {
		d.last = time.Now()
	}
	stopped := d.stopped
	d.mu.Unlock()
	if fn != nil && !stopped {
		fn()
	}
}

func (d *LeadingDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.fn = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Throttler guarantees at most one invocation per delay window. The first
// call of a window runs immediately; later calls within the window are
// remembered (latest wins) and run once when the window closes. A closed
// window does not delay the next burst's leading call.
type Throttler struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	stopped bool
}

func NewThrottler(delay time.Duration) *Throttler {
	return &Throttler{delay: delay}
}

func (t *Throttler) Do(fn func()) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.fire)
		t.mu.Unlock()
		fn()
		return
	}
	t.pending = fn
	t.mu.Unlock()
}

func (t *Throttler) fire() {
	t.mu.Lock()
	fn := t.pending
	t.pending = nil
	t.timer = nil
	stopped := t.stopped
	t.mu.Unlock()
	if fn != nil && !stopped {
		fn()
	}
}

func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.pending = nil
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
