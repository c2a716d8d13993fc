package timer

import (
	"errors"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

var (
	// ErrCancelled is returned by every operation on a torn down timer.
	ErrCancelled = errors.New("timer: cancelled")

	// ErrInvalidPeriod is returned when a non-positive period is scheduled.
	ErrInvalidPeriod = errors.New("timer: period must be positive")
)

// State is the lifecycle state of a RepeatingTimer.
type State int

const (
	Suspended State = iota
	Resumed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Resumed:
		return "resumed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// RepeatingTimer wraps a Source so that Resume and Suspend are idempotent and
// Teardown can never cancel a suspended source. It is safe for concurrent use.
type RepeatingTimer struct {
	mu      sync.Mutex
	source  Source
	clock   clock.PassiveClock
	state   State
	handler func()

	// epoch is bumped on every reprogram; ticks carrying an older epoch are dropped
	epoch uint64
}

// New creates a suspended RepeatingTimer driven by a ClockSource on clk.
func New(clk clock.Clock) *RepeatingTimer {
	return NewWithSource(NewClockSource(clk), clk)
}

// NewWithSource wraps an existing, suspended Source.
func NewWithSource(src Source, clk clock.PassiveClock) *RepeatingTimer {
	return &RepeatingTimer{
		source: src,
		clock:  clk,
		state:  Suspended,
	}
}

// State returns the current lifecycle state.
func (t *RepeatingTimer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Schedule programs the first fire at deadline, then one every period, invoking
// handler each time. It does not change the suspended/resumed state.
func (t *RepeatingTimer) Schedule(deadline time.Time, period time.Duration, handler func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Cancelled {
		return ErrCancelled
	}
	return t.scheduleLocked(deadline, period, handler)
}

// Resume starts delivering ticks. Resuming a resumed timer is a no-op.
func (t *RepeatingTimer) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Cancelled {
		return ErrCancelled
	}
	t.resumeLocked()
	return nil
}

// Suspend stops delivering ticks and keeps the programmed period. Suspending a
// suspended timer is a no-op.
func (t *RepeatingTimer) Suspend() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Cancelled {
		return ErrCancelled
	}
	t.suspendLocked()
	return nil
}

// Restart suspends the timer, reprograms it to fire immediately and then every
// period with handler, and resumes it.
func (t *RepeatingTimer) Restart(period time.Duration, handler func()) error {
	return t.Reschedule(t.clock.Now(), period, handler)
}

// Reschedule is Restart with the first fire at deadline instead of now. The
// suspend, schedule and resume steps are applied under one lock so no tick can
// observe a half-applied period/handler pair.
func (t *RepeatingTimer) Reschedule(deadline time.Time, period time.Duration, handler func()) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Cancelled {
		return ErrCancelled
	}
	if period <= 0 {
		return ErrInvalidPeriod
	}

	t.suspendLocked()
	if err := t.scheduleLocked(deadline, period, handler); err != nil {
		return err
	}
	t.resumeLocked()
	return nil
}

// Teardown clears the handler and cancels the source, resuming it first when
// suspended. The timer is unusable afterwards; a second Teardown is a no-op.
func (t *RepeatingTimer) Teardown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == Cancelled {
		return
	}

	t.handler = nil
	t.epoch++
	t.source.SetHandler(func() {})

	// cancelling a suspended source is fatal, so balance it first
	t.resumeLocked()
	t.source.Cancel()
	t.state = Cancelled
}

func (t *RepeatingTimer) scheduleLocked(deadline time.Time, period time.Duration, handler func()) error {
	if period <= 0 {
		return ErrInvalidPeriod
	}

	t.epoch++
	epoch := t.epoch
	t.handler = handler

	t.source.SetHandler(func() { t.fire(epoch) })
	t.source.Schedule(deadline, period)
	return nil
}

func (t *RepeatingTimer) resumeLocked() {
	if t.state == Resumed {
		return
	}
	t.state = Resumed
	t.source.Resume()
}

func (t *RepeatingTimer) suspendLocked() {
	if t.state == Suspended {
		return
	}
	t.state = Suspended
	t.source.Suspend()
}

func (t *RepeatingTimer) fire(epoch uint64) {
	t.mu.Lock()
	if epoch != t.epoch || t.state != Resumed {
		t.mu.Unlock()
		return
	}
	handler := t.handler
	t.mu.Unlock()

	if handler != nil {
		handler()
	}
}
