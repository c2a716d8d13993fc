package rhythm

import (
	"math"
	"time"
)

// Snapshot is a point-in-time copy of a BeatScheduler's state. It carries enough of
// the timeline to place the pendulum without holding the scheduler lock.
type Snapshot struct {
	Tempo   int
	Tone    Tone
	Running bool

	// Period is the beat interval derived from Tempo.
	Period time.Duration

	// StartedAt anchors the beat grid of the current schedule. Beat 1 starts here.
	StartedAt time.Time

	// Ticks counts scheduled clicks since the scheduler was created.
	Ticks uint64

	// Failures counts clicks the player could not play.
	Failures uint64
}

// TempoName gets the Italian marking of the snapshot's tempo.
func (s Snapshot) TempoName() string {
	return TempoName(s.Tempo)
}

// Beat returns the 1-based beat number at instant, or zero when stopped.
func (s Snapshot) Beat(instant time.Time) int64 {
	if !s.Running || s.Period <= 0 {
		return 0
	}
	return markerNumber(instant, s.StartedAt, s.Period)
}

// Phase returns how far instant is through the current beat, in [0, 1).
func (s Snapshot) Phase(instant time.Time) float64 {
	if !s.Running || s.Period <= 0 {
		return 0
	}
	return markerPhase(instant, s.StartedAt, s.Period)
}

// markerNumber calculates the marker number
func markerNumber(instant, start time.Time, interval time.Duration) int64 {
	ratio := float64(instant.Sub(start)) / float64(interval)
	return int64(math.Floor(ratio)) + 1
}

// markerPhase calculates the phase of a marker
func markerPhase(instant, start time.Time, interval time.Duration) float64 {
	ratio := float64(instant.Sub(start)) / float64(interval)
	return ratio - math.Floor(ratio)
}
