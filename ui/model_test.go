package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/prefs"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

var epoch = time.Date(2017, time.December, 15, 12, 0, 0, 0, time.UTC)

type fakeScheduler struct {
	mu    sync.Mutex
	snap  rhythm.Snapshot
	calls []string
	once  []rhythm.Tone
}

func (f *fakeScheduler) Toggle(tone rhythm.Tone) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "toggle")
	f.snap.Running = !f.snap.Running
	f.snap.Tone = tone
	f.snap.StartedAt = epoch
	return f.snap.Running, nil
}

func (f *fakeScheduler) ChangeTempo(bpm int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "tempo")
	f.snap.Tempo = bpm
	f.snap.Period = rhythm.BeatInterval(bpm)
	return nil
}

func (f *fakeScheduler) PlayOnce(tone rhythm.Tone) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "once")
	f.once = append(f.once, tone)
	f.snap.Running = false
	return nil
}

func (f *fakeScheduler) Snapshot() rhythm.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func newTestModel() (Model, *fakeScheduler, *prefs.MemoryStore, *testingclock.FakePassiveClock) {
	sched := &fakeScheduler{snap: rhythm.Snapshot{
		Tempo:  rhythm.DefaultTempo,
		Tone:   rhythm.DefaultTone,
		Period: rhythm.BeatInterval(rhythm.DefaultTempo),
	}}
	store := prefs.NewMemoryStore(rhythm.DefaultTone)
	clk := testingclock.NewFakePassiveClock(epoch)
	easing, _ := effect.Easing(effect.DefaultEasing)
	return NewModel(sched, store, clk, easing), sched, store, clk
}

func press(m Model, msg tea.KeyMsg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTempoKeysStepDetents(t *testing.T) {
	t.Parallel()

	m, sched, _, _ := newTestModel()

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 96, m.snapshot.Tempo)
	m = press(m, runes("]"))
	require.Equal(t, 100, m.snapshot.Tempo)
	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	m = press(m, runes("["))
	m = press(m, runes("["))
	require.Equal(t, 88, m.snapshot.Tempo)
	require.Len(t, sched.calls, 5)
}

func TestSpaceTogglesPlayback(t *testing.T) {
	t.Parallel()

	m, sched, _, _ := newTestModel()

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.snapshot.Running)
	require.Equal(t, rhythm.DefaultTone, m.snapshot.Tone)

	m = press(m, runes("p"))
	require.False(t, m.snapshot.Running)
	require.Equal(t, []string{"toggle", "toggle"}, sched.calls)
}

func TestToneKeySavesAndPlaysOnce(t *testing.T) {
	t.Parallel()

	m, sched, store, _ := newTestModel()

	m = press(m, runes("t"))
	saved, err := store.Tone()
	require.NoError(t, err)
	require.Equal(t, rhythm.ToneLogic, saved)
	require.Equal(t, rhythm.ToneLogic, m.tone)
	require.Equal(t, []rhythm.Tone{rhythm.ToneLogic}, sched.once)

	m = press(m, runes("o"))
	require.Equal(t, []rhythm.Tone{rhythm.ToneLogic, rhythm.ToneLogic}, sched.once)

	// playback starts with the selected tone
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, rhythm.ToneLogic, m.snapshot.Tone)
}

func TestSavedToneIsReadOnEveryAction(t *testing.T) {
	t.Parallel()

	m, sched, store, clk := newTestModel()

	// another surface, e.g. an OSC client, saves a new tone
	require.NoError(t, store.SetTone(rhythm.ToneSeiko))

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	require.Equal(t, rhythm.ToneSeiko, sched.Snapshot().Tone)
	require.Equal(t, rhythm.ToneSeiko, m.tone)

	require.NoError(t, store.SetTone(rhythm.ToneWoodblockHigh))
	m = press(m, runes("o"))
	require.Equal(t, []rhythm.Tone{rhythm.ToneWoodblockHigh}, sched.once)

	// frames pick the change up for display
	require.NoError(t, store.SetTone(rhythm.ToneLogic))
	next, _ := m.Update(frameMsg(clk.Now()))
	m = next.(Model)
	require.Equal(t, rhythm.ToneLogic, m.tone)
	assert.True(t, strings.Contains(m.View(), "Tone: Logic"))
}

func TestTempoGauge(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, tempoGauge(rhythm.MinTempo))
	assert.Equal(t, 1.0, tempoGauge(rhythm.MaxTempo))
	assert.Equal(t, 1.0, tempoGauge(300))
	assert.InDelta(t, 0.5, tempoGauge(124), 1e-9)
}

func TestQuit(t *testing.T) {
	t.Parallel()

	m, _, _, _ := newTestModel()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, next.(Model).quitting)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFrameRefreshesSnapshot(t *testing.T) {
	t.Parallel()

	m, sched, _, clk := newTestModel()

	_, err := sched.Toggle(rhythm.ToneSeiko)
	require.NoError(t, err)
	clk.SetTime(epoch.Add(700 * time.Millisecond))

	next, cmd := m.Update(frameMsg(clk.Now()))
	m = next.(Model)
	require.NotNil(t, cmd)
	require.True(t, m.snapshot.Running)
	require.Equal(t, int64(2), m.snapshot.Beat(m.now))
}

func TestView(t *testing.T) {
	t.Parallel()

	m, _, _, _ := newTestModel()

	view := m.View()
	assert.True(t, strings.Contains(view, "92 BPM"))
	assert.True(t, strings.Contains(view, "Andante"))
	assert.True(t, strings.Contains(view, "Woodblock (Low)"))
	assert.True(t, strings.Contains(view, "stopped"))

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, strings.Contains(m.View(), "beat 1"))
}

func TestPendulumPlacesBob(t *testing.T) {
	t.Parallel()

	left := pendulum(-1, 0, 11)
	right := pendulum(1, 1, 11)
	centre := pendulum(0, 0, 11)

	assert.True(t, strings.HasPrefix(stripRail(left), "●"))
	assert.True(t, strings.HasSuffix(stripRail(right), "●"))
	assert.Equal(t, 5, strings.Index(stripRail(centre), "●")/len("─"))
}

// stripRail drops styling so only rail and bob runes remain.
func stripRail(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '─' || r == '●' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
