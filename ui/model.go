package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/prefs"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

const (
	frameRate     = 30
	pendulumWidth = 41
)

// Scheduler is the beat scheduler as seen from the front panel.
type Scheduler interface {
	Toggle(tone rhythm.Tone) (bool, error)
	ChangeTempo(bpm int) error
	PlayOnce(tone rhythm.Tone) error
	Snapshot() rhythm.Snapshot
}

// Model is the bubbletea front panel of the metronome.
type Model struct {
	scheduler Scheduler
	prefs     prefs.Store
	clock     clock.PassiveClock
	easing    effect.EasingFunc
	log       *logrus.Entry

	keys     keyMap
	help     help.Model
	beatBar  progress.Model
	tempoBar progress.Model

	snapshot rhythm.Snapshot
	tone     rhythm.Tone
	now      time.Time
	status   string
	quitting bool
}

// NewModel builds the front panel. The tone is read from store on every frame and
// before every start, so changes saved elsewhere are picked up.
func NewModel(scheduler Scheduler, store prefs.Store, clk clock.PassiveClock, easing effect.EasingFunc) Model {
	m := Model{
		scheduler: scheduler,
		prefs:     store,
		clock:     clk,
		easing:    easing,
		log:       logger.GetProjectLogger().WithField("component", "ui"),
		keys:      keys,
		help:      help.New(),
		beatBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(pendulumWidth),
			progress.WithoutPercentage(),
		),
		tempoBar: progress.New(
			progress.WithGradient("#5A56E0", "#EE6FF8"),
			progress.WithWidth(pendulumWidth),
			progress.WithoutPercentage(),
		),
		tone: rhythm.DefaultTone,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return frameCmd()
}

type frameMsg time.Time

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
