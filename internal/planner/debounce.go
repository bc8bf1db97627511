package planner

import (
	"sync"
	"time"
)

// Clock abstracts timer creation so the debounce pipelines can be driven
// by a fake clock in tests.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is the subset of *time.Timer the debouncer needs.
type Timer interface {
	Reset(d time.Duration) bool
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Debouncer coalesces a burst of Arm calls into a single run of fn after a
// quiet window, and guarantees at most one run in flight: an Arm that
// lands mid-run schedules exactly one follow-up run instead of queuing.
//
// fn is responsible for reading current state when it executes; the
// debouncer deliberately carries no payload, which is what keeps a slow
// run from ever persisting a stale snapshot.
type Debouncer struct {
	clock  Clock
	window time.Duration
	fn     func()

	mu      sync.Mutex
	timer   Timer
	pending bool
	running bool
}

// NewDebouncer builds a debouncer around fn. A non-positive window
// defaults to 2 seconds.
func NewDebouncer(clock Clock, window time.Duration, fn func()) *Debouncer {
	if window <= 0 {
		window = 2 * time.Second
	}
	if clock == nil {
		clock = realClock{}
	}
	return &Debouncer{clock: clock, window: window, fn: fn}
}

// Arm starts or restarts the quiet window. Only the last Arm in a burst
// leads to a run.
func (d *Debouncer) Arm() {
	d.mu.Lock()
	d.pending = true
	if d.timer == nil {
		d.timer = d.clock.AfterFunc(d.window, d.onTimer)
		d.mu.Unlock()
		return
	}
	d.timer.Reset(d.window)
	d.mu.Unlock()
}

func (d *Debouncer) onTimer() {
	d.mu.Lock()
	if d.running {
		// A run is in flight; check again after another window so its
		// follow-up picks up whatever is pending.
		if d.timer != nil {
			d.timer.Reset(d.window)
		}
		d.mu.Unlock()
		return
	}
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.fn()

	d.mu.Lock()
	d.running = false
	// An Arm landed while fn ran; schedule the single follow-up.
	if d.pending && d.timer != nil {
		d.timer.Reset(d.window)
	}
	d.mu.Unlock()
}

// Flush runs fn immediately if a run is pending and none is in flight.
// Used when a session closes so edits are not lost to a cancelled window.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	if !d.pending || d.running {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	d.fn()

	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
}

// Stop cancels any armed window without running fn.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = false
	d.mu.Unlock()
}
