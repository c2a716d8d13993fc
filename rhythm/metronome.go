package rhythm

import (
	"errors"
	"sync"
	"time"

	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/metrics"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// ErrSchedulerClosed is returned by every operation after Close.
var ErrSchedulerClosed = errors.New("beat scheduler closed")

// Player produces one audible click. Implementations are called with the scheduler
// lock held and must not block or call back into the scheduler.
type Player interface {
	PlayClick(tone Tone) error
}

// PlayerFunc adapts a function to the Player interface.
type PlayerFunc func(tone Tone) error

func (f PlayerFunc) PlayClick(tone Tone) error {
	return f(tone)
}

// Timer is the repeating timer the scheduler drives. *timer.RepeatingTimer
// satisfies it.
type Timer interface {
	Restart(period time.Duration, handler func()) error
	Reschedule(deadline time.Time, period time.Duration, handler func()) error
	Suspend() error
	Teardown()
}

// Option configures a BeatScheduler.
type Option func(*BeatScheduler)

// WithRecorder reports clicks, tempo and play state to r.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *BeatScheduler) {
		s.recorder = r
	}
}

// WithClock sets the clock used to stamp snapshots.
func WithClock(clk clock.PassiveClock) Option {
	return func(s *BeatScheduler) {
		s.clock = clk
	}
}

// BeatScheduler turns a tempo into a beat period and plays a click on every tick of
// its timer.
type BeatScheduler struct {
	mu       sync.Mutex
	timer    Timer
	player   Player
	recorder metrics.Recorder
	clock    clock.PassiveClock
	log      *logrus.Entry

	tempo     int
	tone      Tone
	running   bool
	closed    bool
	startedAt time.Time
	lastClick time.Time
	ticks     uint64
	failures  uint64

	// generation identifies the live schedule; ticks from an older one are ignored
	generation uint64
}

// NewBeatScheduler creates a stopped scheduler at DefaultTempo and DefaultTone.
func NewBeatScheduler(t Timer, player Player, opts ...Option) *BeatScheduler {
	s := &BeatScheduler{
		timer:    t,
		player:   player,
		recorder: metrics.NoopRecorder{},
		clock:    clock.RealClock{},
		log:      logger.GetProjectLogger().WithField("component", "scheduler"),
		tempo:    DefaultTempo,
		tone:     DefaultTone,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recorder.SetTempo(s.tempo)
	return s
}

// Start begins clicking tone at bpm. The first click is immediate. Calling Start
// while running reprograms the schedule from now.
func (s *BeatScheduler) Start(bpm int, tone Tone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	tempo, err := ClampTempo(bpm)
	if err != nil {
		return err
	}
	s.lastClick = time.Time{}
	return s.startLocked(tempo, tone, time.Time{})
}

// Stop suspends the schedule. The timer is kept for the next Start.
func (s *BeatScheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	return s.stopLocked()
}

// Toggle stops a running scheduler, or starts a stopped one at the current tempo
// with tone. It reports whether the scheduler is running afterwards.
func (s *BeatScheduler) Toggle(tone Tone) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSchedulerClosed
	}
	if s.running {
		return false, s.stopLocked()
	}
	s.lastClick = time.Time{}
	if err := s.startLocked(s.tempo, tone, time.Time{}); err != nil {
		return false, err
	}
	return true, nil
}

// ChangeTempo sets a new tempo. A running schedule keeps the current tone and plays
// its next click one new period after the last one, or right away if that moment
// has already passed. A stopped schedule only records the tempo.
func (s *BeatScheduler) ChangeTempo(bpm int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	tempo, err := ClampTempo(bpm)
	if err != nil {
		return err
	}
	if !s.running {
		s.tempo = tempo
		s.recorder.SetTempo(tempo)
		return nil
	}
	return s.startLocked(tempo, s.tone, s.lastClick)
}

// PlayOnce suspends the schedule and plays a single click of tone. The schedule
// stays stopped until the next Start, and tone becomes the current tone.
func (s *BeatScheduler) PlayOnce(tone Tone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSchedulerClosed
	}
	err := s.stopLocked()
	s.tone = tone
	s.emitLocked(tone)
	return err
}

// Close tears the timer down. The scheduler can't be used afterwards; closing twice
// is a no-op.
func (s *BeatScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.running = false
	s.generation++
	s.timer.Teardown()
	s.recorder.SetRunning(false)
	s.log.Debug("scheduler closed")
}

// Snapshot returns a copy of the scheduler's state.
func (s *BeatScheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Tempo:     s.tempo,
		Tone:      s.tone,
		Running:   s.running,
		Period:    BeatInterval(s.tempo),
		StartedAt: s.startedAt,
		Ticks:     s.ticks,
		Failures:  s.failures,
	}
}

// startLocked programs the timer for tempo. With a zero lastClick the first click is
// immediate, otherwise it lands one period after lastClick.
func (s *BeatScheduler) startLocked(tempo int, tone Tone, lastClick time.Time) error {
	period := BeatInterval(tempo)
	now := s.clock.Now()

	s.generation++
	generation := s.generation
	handler := func() { s.tick(generation, tone) }

	var err error
	startedAt := now
	if next := lastClick.Add(period); !lastClick.IsZero() && next.After(now) {
		err = s.timer.Reschedule(next, period, handler)
		startedAt = lastClick
	} else {
		err = s.timer.Restart(period, handler)
	}
	if err != nil {
		s.running = false
		s.recorder.SetRunning(false)
		return err
	}

	s.tempo = tempo
	s.tone = tone
	s.running = true
	s.startedAt = startedAt
	s.recorder.SetTempo(tempo)
	s.recorder.SetRunning(true)

	s.log.WithFields(logrus.Fields{
		"tempo":  tempo,
		"period": period,
		"tone":   tone,
	}).Info("Starting beat schedule")
	return nil
}

func (s *BeatScheduler) stopLocked() error {
	s.generation++
	wasRunning := s.running
	s.running = false
	s.recorder.SetRunning(false)
	if err := s.timer.Suspend(); err != nil {
		return err
	}
	if wasRunning {
		s.log.WithField("ticks", s.ticks).Info("Stopped beat schedule")
	}
	return nil
}

func (s *BeatScheduler) tick(generation uint64, tone Tone) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || !s.running {
		return
	}
	s.ticks++
	s.lastClick = s.clock.Now()
	s.emitLocked(tone)
}

func (s *BeatScheduler) emitLocked(tone Tone) {
	if err := s.player.PlayClick(tone); err != nil {
		s.failures++
		s.recorder.IncClick(tone.String(), metrics.ResultFailed)
		s.log.WithError(err).WithField("tone", tone).Warn("Click failed")
		return
	}
	s.recorder.IncClick(tone.String(), metrics.ResultPlayed)
}
