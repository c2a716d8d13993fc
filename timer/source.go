package timer

import (
	"fmt"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Source is the periodic timer primitive a RepeatingTimer drives. Implementations
// start suspended and, like a dispatch timer source, treat an unbalanced Resume or a
// Cancel while suspended as fatal misuse.
type Source interface {
	// Schedule arms the next fire at deadline and every period after it.
	Schedule(deadline time.Time, period time.Duration)
	// SetHandler replaces the callback invoked on each fire.
	SetHandler(handler func())
	Resume()
	Suspend()
	// Cancel stops the source for good. It must only be called while resumed.
	Cancel()
}

// MisuseError is the panic value raised by ClockSource when its lifecycle
// contract is broken.
type MisuseError struct {
	Op     string
	Reason string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("timer source: %s: %s", e.Op, e.Reason)
}

// ClockSource is a deadline driven periodic Source backed by a k8s clock. Fires are
// computed from the programmed deadline rather than from the previous fire, so
// handler latency never accumulates into drift. Missed periods are coalesced into a
// single fire.
type ClockSource struct {
	clock clock.Clock

	mu           sync.Mutex
	suspendCount int
	resumedOnce  bool
	cancelled    bool
	handler      func()
	deadline     time.Time
	period       time.Duration

	kick chan struct{}
	done chan struct{}
}

var _ Source = (*ClockSource)(nil)

// NewClockSource creates a suspended source and starts its dispatch goroutine.
func NewClockSource(clk clock.Clock) *ClockSource {
	s := &ClockSource{
		clock:        clk,
		suspendCount: 1,
		kick:         make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *ClockSource) Schedule(deadline time.Time, period time.Duration) {
	s.mu.Lock()
	s.deadline = deadline
	s.period = period
	s.mu.Unlock()
	s.wake()
}

func (s *ClockSource) SetHandler(handler func()) {
	s.mu.Lock()
	s.handler = handler
	s.mu.Unlock()
}

func (s *ClockSource) Resume() {
	s.mu.Lock()
	if s.suspendCount == 0 {
		s.mu.Unlock()
		panic(&MisuseError{Op: "resume", Reason: "over-resume of a running source"})
	}
	s.suspendCount--
	if s.suspendCount == 0 {
		s.resumedOnce = true
	}
	s.mu.Unlock()
	s.wake()
}

func (s *ClockSource) Suspend() {
	s.mu.Lock()
	s.suspendCount++
	s.mu.Unlock()
	s.wake()
}

func (s *ClockSource) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.cancelled:
		return
	case !s.resumedOnce:
		panic(&MisuseError{Op: "cancel", Reason: "source was never resumed"})
	case s.suspendCount > 0:
		panic(&MisuseError{Op: "cancel", Reason: "source is suspended"})
	}
	s.cancelled = true
	s.handler = nil
	close(s.done)
}

func (s *ClockSource) wake() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// due returns the handler to invoke if a fire is due now, and otherwise how long to
// wait for the next one. ok is false when the source is not armed.
func (s *ClockSource) due() (handler func(), wait time.Duration, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelled || s.suspendCount > 0 || s.deadline.IsZero() || s.period <= 0 {
		return nil, 0, false
	}

	now := s.clock.Now()
	if wait := s.deadline.Sub(now); wait > 0 {
		return nil, wait, true
	}

	// coalesce any missed periods into this fire
	missed := now.Sub(s.deadline) / s.period
	s.deadline = s.deadline.Add((missed + 1) * s.period)

	return s.handler, 0, true
}

func (s *ClockSource) run() {
	for {
		select {
		case <-s.done:
			return
		default:
		}

		handler, wait, armed := s.due()
		if armed && wait == 0 {
			if handler != nil {
				handler()
			}
			continue
		}

		var t clock.Timer
		var fire <-chan time.Time
		if armed {
			t = s.clock.NewTimer(wait)
			fire = t.C()
		}

		select {
		case <-s.done:
			if t != nil {
				t.Stop()
			}
			return
		case <-s.kick:
			if t != nil {
				t.Stop()
			}
		case <-fire:
		}
	}
}
