package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/utils"
)

var (
	tempoStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	nameStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("63"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	appStyle    = lipgloss.NewStyle().Margin(1, 2, 0, 2)

	bobRest   = mustHex("#5A56E0")
	bobAccent = mustHex("#EE6FF8")

	beatFlash     = effect.Flash(0.2)
	beatCountdown = effect.Sawtooth(true)
	tempoGauge    = utils.ToUnitClamp(rhythm.MinTempo, rhythm.MaxTempo)
)

func (m Model) View() string {
	var b strings.Builder

	snap := m.snapshot
	beat := snap.Beat(m.now)
	phase := snap.Phase(m.now)

	fmt.Fprintf(&b, "%s %s\n", tempoStyle.Render(fmt.Sprintf("%d BPM", snap.Tempo)), nameStyle.Render(snap.TempoName()))
	b.WriteString(m.tempoBar.ViewAs(tempoGauge(float64(snap.Tempo))))
	b.WriteString("\n")

	state := "■ stopped"
	if snap.Running {
		state = fmt.Sprintf("▶ beat %d", beat)
	}
	fmt.Fprintf(&b, "%s  %s\n\n", dimStyle.Render("Tone: "+m.tone.String()), state)

	b.WriteString(pendulum(effect.Swing(beat, phase, m.easing), beatFlash(phase), pendulumWidth))
	b.WriteString("\n")
	// the beat bar drains towards the next click
	countdown := 0.0
	if snap.Running {
		countdown = beatCountdown(phase)
	}
	b.WriteString(m.beatBar.ViewAs(countdown))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))

	if m.quitting {
		b.WriteString("\n")
	}
	return appStyle.Render(b.String())
}

// pendulum renders the arm as a rail with the bob at pos in [-1, 1]. flash in [0, 1]
// lights the bob up on the click.
func pendulum(pos, flash float64, width int) string {
	idx := int(math.Round(utils.ScaleClamp(-1, 1, 0, float64(width-1))(pos)))

	color := bobRest.BlendLab(bobAccent, flash).Clamped()
	bob := lipgloss.NewStyle().Foreground(lipgloss.Color(color.Hex())).Render("●")

	return dimStyle.Render(strings.Repeat("─", idx)) + bob + dimStyle.Render(strings.Repeat("─", width-1-idx))
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
