package audio

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/sirupsen/logrus"
)

// ErrToneUnavailable is returned when a tone has no loaded sample.
var ErrToneUnavailable = errors.New("tone unavailable")

const (
	clickLength = 40 * time.Millisecond
	clickDecay  = 6 * time.Millisecond

	resampleQuality = 4
)

var toneFiles = map[rhythm.Tone]string{
	rhythm.ToneLogic:         "logic.wav",
	rhythm.ToneSeiko:         "seiko.wav",
	rhythm.ToneWoodblockHigh: "woodblock-high.wav",
	rhythm.ToneWoodblockLow:  "woodblock-low.wav",
}

// pitch of each synthesized click, in Hz
var toneFrequencies = map[rhythm.Tone]float64{
	rhythm.ToneLogic:         1760,
	rhythm.ToneSeiko:         2093,
	rhythm.ToneWoodblockHigh: 1244,
	rhythm.ToneWoodblockLow:  831,
}

// Format returns the stereo 16-bit format used for output at rate Hz.
func Format(rate int) beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2,
		Precision:   2,
	}
}

// ToneFile returns the file name LoadToneBank looks for.
func ToneFile(tone rhythm.Tone) string {
	return toneFiles[tone]
}

// ToneBank keeps one decoded click per tone in memory, so a click can start
// without touching the disk.
type ToneBank struct {
	mu      sync.RWMutex
	format  beep.Format
	buffers map[rhythm.Tone]*beep.Buffer
}

// NewToneBank creates an empty bank producing samples in format.
func NewToneBank(format beep.Format) *ToneBank {
	return &ToneBank{
		format:  format,
		buffers: make(map[rhythm.Tone]*beep.Buffer),
	}
}

// LoadToneBank decodes the wav file of every tone found in dir. Missing files leave
// the tone unavailable.
func LoadToneBank(dir string, format beep.Format) (*ToneBank, error) {
	log := logger.GetProjectLogger()
	bank := NewToneBank(format)

	for _, tone := range rhythm.Tones() {
		path := filepath.Join(dir, ToneFile(tone))
		if err := bank.loadFile(tone, path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.WithFields(logrus.Fields{
					"tone": tone,
					"path": path,
				}).Warn("No sample for tone")
				continue
			}
			return nil, err
		}
	}
	return bank, nil
}

func (b *ToneBank) loadFile(tone rhythm.Tone, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return goerrors.WithStackTrace(err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return goerrors.WithStackTrace(fmt.Errorf("decoding %s: %w", path, err))
	}
	defer streamer.Close()

	b.Add(tone, streamer, format.SampleRate)
	return nil
}

// SynthesizedToneBank builds a short decaying click for every tone, each at its
// own pitch.
func SynthesizedToneBank(format beep.Format) *ToneBank {
	bank := NewToneBank(format)
	for _, tone := range rhythm.Tones() {
		bank.Add(tone, synthClick(format.SampleRate, toneFrequencies[tone]), format.SampleRate)
	}
	return bank
}

// Add buffers s as the sample for tone, resampling from rate when it differs from
// the bank's format.
func (b *ToneBank) Add(tone rhythm.Tone, s beep.Streamer, rate beep.SampleRate) {
	if rate != b.format.SampleRate {
		s = beep.Resample(resampleQuality, rate, b.format.SampleRate, s)
	}
	buf := beep.NewBuffer(b.format)
	buf.Append(s)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.buffers[tone] = buf
}

// Streamer returns a fresh stream of the tone's click.
func (b *ToneBank) Streamer(tone rhythm.Tone) (beep.StreamSeeker, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	buf, ok := b.buffers[tone]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToneUnavailable, tone)
	}
	return buf.Streamer(0, buf.Len()), nil
}

// Available lists the tones with a loaded sample.
func (b *ToneBank) Available() []rhythm.Tone {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []rhythm.Tone
	for _, tone := range rhythm.Tones() {
		if _, ok := b.buffers[tone]; ok {
			out = append(out, tone)
		}
	}
	return out
}

func (b *ToneBank) Format() beep.Format {
	return b.format
}

func synthClick(rate beep.SampleRate, freq float64) beep.Streamer {
	total := rate.N(clickLength)
	decay := clickDecay.Seconds()
	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			t := rate.D(pos).Seconds()
			v := math.Sin(2*math.Pi*freq*t) * math.Exp(-t/decay) * 0.8
			samples[i][0] = v
			samples[i][1] = v
			pos++
			n++
		}
		return n, true
	})
}
