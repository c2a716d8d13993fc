package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"k8s.io/utils/clock"
	testingclock "k8s.io/utils/clock/testing"
)

// recordingSource is a Source that records every call and enforces the same
// lifecycle contract as ClockSource, so misuse shows up as a panic in tests.
type recordingSource struct {
	mu           sync.Mutex
	calls        []string
	suspendCount int
	resumedOnce  bool
	cancelled    bool
	handler      func()
	deadline     time.Time
	period       time.Duration
}

func newRecordingSource() *recordingSource {
	return &recordingSource{suspendCount: 1}
}

func (s *recordingSource) Schedule(deadline time.Time, period time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "schedule")
	s.deadline = deadline
	s.period = period
}

func (s *recordingSource) SetHandler(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "handler")
	s.handler = handler
}

func (s *recordingSource) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspendCount == 0 {
		panic(&MisuseError{Op: "resume", Reason: "over-resume of a running source"})
	}
	s.calls = append(s.calls, "resume")
	s.suspendCount--
	if s.suspendCount == 0 {
		s.resumedOnce = true
	}
}

func (s *recordingSource) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "suspend")
	s.suspendCount++
}

func (s *recordingSource) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.resumedOnce || s.suspendCount > 0 {
		panic(&MisuseError{Op: "cancel", Reason: "source is suspended"})
	}
	s.calls = append(s.calls, "cancel")
	s.cancelled = true
}

// fire invokes the installed handler the way the primitive would on a tick.
func (s *recordingSource) fire() {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	if handler != nil {
		handler()
	}
}

func (s *recordingSource) currentHandler() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

func (s *recordingSource) count(call string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (s *recordingSource) history() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// tickRecorder collects tick instants delivered by a timer under test.
type tickRecorder struct {
	ch chan time.Time
}

func newTickRecorder() *tickRecorder {
	return &tickRecorder{ch: make(chan time.Time, 64)}
}

func (r *tickRecorder) handler(clk clock.PassiveClock) func() {
	return func() { r.ch <- clk.Now() }
}

func (r *tickRecorder) next(t *testing.T) time.Time {
	t.Helper()
	select {
	case at := <-r.ch:
		return at
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a tick")
		return time.Time{}
	}
}

func (r *tickRecorder) none(t *testing.T) {
	t.Helper()
	select {
	case at := <-r.ch:
		t.Fatalf("unexpected tick at %v", at)
	case <-time.After(50 * time.Millisecond):
	}
}

// stepWhenArmed waits for the source goroutine to arm its clock timer and then
// advances the fake clock by d.
func stepWhenArmed(t *testing.T, fc *testingclock.FakeClock, d time.Duration) {
	t.Helper()
	require.Eventually(t, fc.HasWaiters, 2*time.Second, time.Millisecond)
	fc.Step(d)
}
