package audio

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronome/rhythm"
)

// Output plays a stream without blocking the caller.
type Output interface {
	Play(s beep.Streamer)
}

// SpeakerOutput mixes clicks into the system speaker.
type SpeakerOutput struct{}

// NewSpeakerOutput initializes the speaker at rate with a buffer of the given
// duration. Shorter buffers lower click latency.
func NewSpeakerOutput(rate beep.SampleRate, buffer time.Duration) (*SpeakerOutput, error) {
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, goerrors.WithStackTrace(err)
	}
	return &SpeakerOutput{}, nil
}

func (SpeakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (SpeakerOutput) Close() {
	speaker.Clear()
	speaker.Close()
}

// Player plays clicks from a ToneBank through an Output.
type Player struct {
	bank   *ToneBank
	out    Output
	volume float64
}

var _ rhythm.Player = (*Player)(nil)

// NewPlayer creates a Player. volume is a base 2 exponent, so 0 plays samples as
// recorded and -1 halves them.
func NewPlayer(bank *ToneBank, out Output, volume float64) *Player {
	return &Player{
		bank:   bank,
		out:    out,
		volume: volume,
	}
}

// PlayClick starts the tone's click and returns immediately.
func (p *Player) PlayClick(tone rhythm.Tone) error {
	s, err := p.bank.Streamer(tone)
	if err != nil {
		return err
	}
	p.out.Play(&effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   p.volume,
	})
	return nil
}
