// Package stopwatch tracks running/paused state and elapsed wall-clock time.
package stopwatch

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a two-state (stopped, running) elapsed-time tracker.
//
// Elapsed time is the banked total from prior run segments plus the length of
// the current segment when running. A segment that measures negative because
// the clock went backwards counts as zero.
type Timer struct {
	clock       clockwork.Clock
	running     bool
	startedAt   time.Time
	accumulated int64
}

// New returns a stopped timer reading from the given clock.
// A nil clock selects the real clock.
func New(clock clockwork.Clock) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Timer{clock: clock}
}

// Start begins a new run segment. It reports false and does nothing when the
// timer is already running.
func (t *Timer) Start() bool {
	if t.running {
		return false
	}
	t.startedAt = t.clock.Now()
	t.running = true
	return true
}

// Pause banks the current segment and stops the timer. It reports false and
// does nothing when the timer is not running.
func (t *Timer) Pause() bool {
	if !t.running {
		return false
	}
	t.accumulated += t.segment()
	t.startedAt = time.Time{}
	t.running = false
	return true
}

// Reset zeroes the timer and leaves it stopped.
func (t *Timer) Reset() {
	t.accumulated = 0
	t.startedAt = time.Time{}
	t.running = false
}

// Elapsed returns the total elapsed milliseconds.
func (t *Timer) Elapsed() int64 {
	if !t.running {
		return t.accumulated
	}
	return t.accumulated + t.segment()
}

// Running reports whether a run segment is in progress.
func (t *Timer) Running() bool {
	return t.running
}

// EnsureAtLeast raises elapsed time to ms if it is currently lower, in either
// state. It is used when resuming on top of laps restored from storage so that
// new splits are measured from the last recorded cumulative time.
func (t *Timer) EnsureAtLeast(ms int64) {
	if cur := t.Elapsed(); ms > cur {
		t.accumulated += ms - cur
	}
}

func (t *Timer) segment() int64 {
	d := t.clock.Since(t.startedAt).Milliseconds()
	if d < 0 {
		return 0
	}
	return d
}
