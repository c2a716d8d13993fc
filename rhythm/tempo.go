package rhythm

import (
	"errors"
	"fmt"
	"time"

	"github.com/robmorgan/metronome/utils"
	"golang.org/x/exp/slices"
)

const (
	// MinTempo and MaxTempo bound the tempo domain, in beats per minute.
	MinTempo = 40
	MaxTempo = 208

	// DefaultTempo is the detent the knob starts on.
	DefaultTempo = 92
)

// ErrInvalidTempo is returned for tempos that can't produce a beat period.
var ErrInvalidTempo = errors.New("invalid tempo")

// The knob's detents, following the classic mechanical metronome scale.
var tempoValues = []int{
	40, 42, 44, 46, 48, 50, 52, 54, 56, 58,
	60, 63, 66, 69, 72, 76, 80, 84, 88, 92,
	96, 100, 104, 108, 112, 116, 120, 126, 132, 138,
	144, 152, 160, 168, 176, 184, 192, 200, 208,
}

// Tempo markings, each covering every tempo below its upper bound.
var tempoMarkings = []struct {
	name  string
	below int
}{
	{"Largo", 60},
	{"Larghetto", 66},
	{"Adagio", 76},
	{"Andante", 108},
	{"Moderato", 120},
	{"Allegro", 176},
	{"Presto", 208},
}

// TempoValues returns a copy of the detent table.
func TempoValues() []int {
	return slices.Clone(tempoValues)
}

// TempoName returns the Italian tempo marking for bpm.
func TempoName(bpm int) string {
	for _, m := range tempoMarkings {
		if bpm < m.below {
			return m.name
		}
	}
	return "Prestissimo"
}

// ClampTempo validates bpm and bounds it to [MinTempo, MaxTempo]. Non-positive
// tempos are rejected rather than clamped.
func ClampTempo(bpm int) (int, error) {
	if bpm <= 0 {
		return 0, fmt.Errorf("%w: %d bpm", ErrInvalidTempo, bpm)
	}
	return utils.Clamp(bpm, MinTempo, MaxTempo), nil
}

// TempoIndex returns the index of the detent nearest to bpm. Ties go to the slower
// detent.
func TempoIndex(bpm int) int {
	i, found := slices.BinarySearch(tempoValues, bpm)
	switch {
	case found:
		return i
	case i == 0:
		return 0
	case i == len(tempoValues):
		return len(tempoValues) - 1
	}
	if bpm-tempoValues[i-1] <= tempoValues[i]-bpm {
		return i - 1
	}
	return i
}

// StepTempo moves bpm by steps detents, stopping at either end of the table.
func StepTempo(bpm, steps int) int {
	idx := utils.Clamp(TempoIndex(bpm)+steps, 0, len(tempoValues)-1)
	return tempoValues[idx]
}

// BeatInterval returns the time between beats at bpm, truncated to whole
// milliseconds. It returns zero for non-positive tempos.
func BeatInterval(bpm int) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Duration(beatsToMilliseconds(1, bpm)) * time.Millisecond
}

// beatsToMilliseconds calculates whole milliseconds for given beats and tempo
func beatsToMilliseconds(beats, tempo int) int {
	return (60000 / tempo) * beats
}
