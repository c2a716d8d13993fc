package rhythm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2017, time.December, 15, 12, 0, 0, 0, time.UTC)

func TestSnapshotBeatAndPhase(t *testing.T) {
	t.Parallel()

	s := Snapshot{
		Tempo:     120,
		Running:   true,
		Period:    500 * time.Millisecond,
		StartedAt: epoch,
	}

	assert.Equal(t, int64(1), s.Beat(epoch))
	assert.Equal(t, int64(1), s.Beat(epoch.Add(499*time.Millisecond)))
	assert.Equal(t, int64(2), s.Beat(epoch.Add(500*time.Millisecond)))
	assert.Equal(t, int64(5), s.Beat(epoch.Add(2*time.Second)))

	assert.InDelta(t, 0.0, s.Phase(epoch), 1e-9)
	assert.InDelta(t, 0.5, s.Phase(epoch.Add(250*time.Millisecond)), 1e-9)
	assert.InDelta(t, 0.5, s.Phase(epoch.Add(750*time.Millisecond)), 1e-9)

	assert.Equal(t, "Allegro", s.TempoName())
}

func TestSnapshotStopped(t *testing.T) {
	t.Parallel()

	s := Snapshot{Tempo: 92, Period: 652 * time.Millisecond, StartedAt: epoch}
	assert.Zero(t, s.Beat(epoch.Add(time.Second)))
	assert.Zero(t, s.Phase(epoch.Add(time.Second)))
}
