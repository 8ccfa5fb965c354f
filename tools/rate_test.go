package tools

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Timing tests use generous windows so they stay stable on loaded CI boxes.

type callLog struct {
	mu   sync.Mutex
	args []int
}

func (c *callLog) record(v int) func() {
	return func() {
		c.mu.Lock()
		c.args = append(c.args, v)
		c.mu.Unlock()
	}
}

func (c *callLog) snapshot() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.args))
	copy(out, c.args)
	return out
}

func TestDebouncerCollapsesBurstToLastCallback(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()
	log := &callLog{}

	d.Do(log.record(1))
	time.Sleep(10 * time.Millisecond)
	d.Do(log.record(2))
	time.Sleep(10 * time.Millisecond)
	d.Do(log.record(3))

	if got := log.snapshot(); len(got) != 0 {
		t.Fatalf("fired before the quiet window elapsed: %v", got)
	}
	time.Sleep(120 * time.Millisecond)
	if got := log.snapshot(); len(got) != 1 || got[0] != 3 {
		t.Fatalf("want single trailing call with latest args, got %v", got)
	}
}

func TestDebouncerFlushRunsPendingOnce(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()
	var n int32

	d.Do(func() { atomic.AddInt32(&n, 1) })
	d.Flush()
	d.Flush()
	if atomic.LoadInt32(&n) != 1 {
		t.Fatalf("flush count = %d, want 1", n)
	}
}

func TestDebouncerStopDropsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var n int32
	d.Do(func() { atomic.AddInt32(&n, 1) })
	d.Stop()
	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&n) != 0 {
		t.Fatal("stopped debouncer still fired")
	}
	d.Do(func() { atomic.AddInt32(&n, 1) })
	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&n) != 0 {
		t.Fatal("Do after Stop scheduled work")
	}
}

func TestLeadingDebouncerFiresFirstImmediately(t *testing.T) {
	d := NewLeadingDebouncer(50 * time.Millisecond)
	defer d.Stop()
	log := &callLog{}

	d.Do(log.record(1))
	if got := log.snapshot(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("leading call not immediate: %v", got)
	}

	d.Do(log.record(2))
	d.Do(log.record(3))
	time.Sleep(120 * time.Millisecond)
	if got := log.snapshot(); len(got) != 2 || got[1] != 3 {
		t.Fatalf("want trailing call with latest args, got %v", got)
	}
}

func TestThrottlerWindowing(t *testing.T) {
	// Calls at roughly t=0, 30, 60 and 150 with a 100ms window: the first runs
	// immediately, the latest of the in-window pair runs when the window
	// closes, and the late call opens a fresh window and runs immediately.
	th := NewThrottler(100 * time.Millisecond)
	defer th.Stop()
	log := &callLog{}

	th.Do(log.record(0))
	time.Sleep(30 * time.Millisecond)
	th.Do(log.record(30))
	time.Sleep(30 * time.Millisecond)
	th.Do(log.record(60))

	if got := log.snapshot(); len(got) != 1 || got[0] != 0 {
		t.Fatalf("after burst: %v", got)
	}

	time.Sleep(90 * time.Millisecond) // t ~ 150, past the window close
	if got := log.snapshot(); len(got) != 2 || got[1] != 60 {
		t.Fatalf("trailing fire wrong: %v", got)
	}

	th.Do(log.record(150))
	if got := log.snapshot(); len(got) != 3 || got[2] != 150 {
		t.Fatalf("new window's leading call not immediate: %v", got)
	}
}

func TestThrottlerTrailingFireDoesNotExtendWindow(t *testing.T) {
	th := NewThrottler(60 * time.Millisecond)
	defer th.Stop()
	var n int32

	th.Do(func() { atomic.AddInt32(&n, 1) })
	th.Do(func() { atomic.AddInt32(&n, 1) }) // pending, fires at window close
	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&n) != 2 {
		t.Fatalf("count = %d after window close, want 2", n)
	}

	// The trailing fire closed the window; an immediate follow-up leads again.
	th.Do(func() { atomic.AddInt32(&n, 1) })
	if atomic.LoadInt32(&n) != 3 {
		t.Fatalf("count = %d, want 3 (leading call after trailing fire)", n)
	}
}

func TestThrottlerStop(t *testing.T) {
	th := NewThrottler(20 * time.Millisecond)
	var n int32
	th.Do(func() { atomic.AddInt32(&n, 1) })
	th.Do(func() { atomic.AddInt32(&n, 1) })
	th.Stop()
	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&n) != 1 {
		t.Fatalf("pending call survived Stop: %d", n)
	}
}
