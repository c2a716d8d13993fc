package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/rhythm"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case frameMsg:
		m.refresh()
		return m, frameCmd()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Toggle):
		_, err = m.scheduler.Toggle(m.loadTone())
	case key.Matches(msg, m.keys.Slower):
		err = m.scheduler.ChangeTempo(rhythm.StepTempo(m.snapshot.Tempo, -1))
	case key.Matches(msg, m.keys.Faster):
		err = m.scheduler.ChangeTempo(rhythm.StepTempo(m.snapshot.Tempo, 1))
	case key.Matches(msg, m.keys.Tone):
		err = m.selectTone(m.loadTone().Next())
	case key.Matches(msg, m.keys.Once):
		err = m.scheduler.PlayOnce(m.loadTone())
	default:
		return m, nil
	}

	m.status = ""
	if err != nil {
		m.log.WithError(err).Warn("Front panel action failed")
		m.status = err.Error()
	}
	m.refresh()
	return m, nil
}

// selectTone saves the tone and plays it once, the way picking a sound in the
// settings does.
func (m *Model) selectTone(tone rhythm.Tone) error {
	if err := m.prefs.SetTone(tone); err != nil {
		return err
	}
	m.tone = tone
	return m.scheduler.PlayOnce(tone)
}

// loadTone reads the saved tone, which OSC clients may have changed, and keeps the
// last known one if the store can't be read.
func (m *Model) loadTone() rhythm.Tone {
	tone, err := m.prefs.Tone()
	if err != nil {
		m.log.WithError(err).Warn("Could not read tone preference")
		return m.tone
	}
	m.tone = tone
	return tone
}

func (m *Model) refresh() {
	m.snapshot = m.scheduler.Snapshot()
	m.now = m.clock.Now()
	m.loadTone()
}
