package rhythm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Tone selects which click sample is played on each beat.
type Tone int

const (
	ToneLogic Tone = iota
	ToneSeiko
	ToneWoodblockHigh
	ToneWoodblockLow
)

// DefaultTone is the tone used until the user picks another one.
const DefaultTone = ToneWoodblockLow

// ErrUnknownTone is returned when a tone name or index can't be resolved.
var ErrUnknownTone = errors.New("unknown tone")

var toneNames = []string{
	ToneLogic:         "Logic",
	ToneSeiko:         "Seiko",
	ToneWoodblockHigh: "Woodblock (High)",
	ToneWoodblockLow:  "Woodblock (Low)",
}

// Tones lists every tone in display order.
func Tones() []Tone {
	out := make([]Tone, len(toneNames))
	for i := range toneNames {
		out[i] = Tone(i)
	}
	return out
}

func (t Tone) Valid() bool {
	return t >= 0 && int(t) < len(toneNames)
}

func (t Tone) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tone(%d)", int(t))
	}
	return toneNames[t]
}

// Next returns the following tone, wrapping around after the last one.
func (t Tone) Next() Tone {
	return Tone((int(t) + 1) % len(toneNames))
}

// ParseTone resolves a tone from its name (case-insensitive) or its index.
func ParseTone(s string) (Tone, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.Atoi(s); err == nil {
		if t := Tone(i); t.Valid() {
			return t, nil
		}
		return 0, fmt.Errorf("%w: %d", ErrUnknownTone, i)
	}
	for i, name := range toneNames {
		if strings.EqualFold(name, s) {
			return Tone(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTone, s)
}

func (t Tone) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTone, int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tone) UnmarshalText(text []byte) error {
	parsed, err := ParseTone(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
