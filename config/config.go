package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/rhythm"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// MetronomeConfig represents options that configure the global behavior of the program
type MetronomeConfig struct {
	// Tempo the metronome starts at, in beats per minute
	Tempo int `yaml:"tempo"`

	// Tone used until a preference is saved
	Tone rhythm.Tone `yaml:"tone"`

	Audio AudioConfig `yaml:"audio"`

	// PreferencesPath is the YAML file holding the saved tone
	PreferencesPath string `yaml:"preferences_path"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	OSC OSCConfig `yaml:"osc"`

	UI UIConfig `yaml:"ui"`

	// MetricsAddr serves Prometheus metrics when set, e.g. ":9092"
	MetricsAddr string `yaml:"metrics_addr"`
}

type AudioConfig struct {
	// SoundsDir holds one wav file per tone. Synthesized clicks are used when empty.
	SoundsDir  string        `yaml:"sounds_dir"`
	SampleRate int           `yaml:"sample_rate"`
	Buffer     time.Duration `yaml:"buffer"`

	// Volume is a base 2 gain exponent, 0 leaves the samples untouched
	Volume float64 `yaml:"volume"`
}

type OSCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type UIConfig struct {
	// Easing names the curve the pendulum swings along, see effect.Easings
	Easing string `yaml:"easing"`
}

// NewMetronomeConfig creates a MetronomeConfig with reasonable defaults for real usage
func NewMetronomeConfig() (*MetronomeConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, goerrors.WithStackTrace(err)
	}

	return &MetronomeConfig{
		Tempo: rhythm.DefaultTempo,
		Tone:  rhythm.DefaultTone,
		Audio: AudioConfig{
			SampleRate: 44100,
			Buffer:     100 * time.Millisecond,
		},
		PreferencesPath: filepath.Join(home, ".metronome", "preferences.yaml"),
		LogLevel:        "info",
		OSC: OSCConfig{
			Addr: "127.0.0.1:8765",
		},
		UI: UIConfig{
			Easing: effect.DefaultEasing,
		},
	}, nil
}

// LoadMetronomeConfig overlays the YAML file at path on top of the defaults.
func LoadMetronomeConfig(path string) (*MetronomeConfig, error) {
	cfg, err := NewMetronomeConfig()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerrors.WithStackTrace(err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerrors.WithStackTrace(fmt.Errorf("parsing %s: %w", path, err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating its directory if needed.
func (c *MetronomeConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return goerrors.WithStackTrace(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerrors.WithStackTrace(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return goerrors.WithStackTrace(err)
	}
	return nil
}

// Validate checks the values the metronome can't run without.
func (c *MetronomeConfig) Validate() error {
	switch {
	case c.Tempo < rhythm.MinTempo || c.Tempo > rhythm.MaxTempo:
		return fmt.Errorf("%w: tempo %d outside [%d, %d]", ErrInvalidConfig, c.Tempo, rhythm.MinTempo, rhythm.MaxTempo)
	case !c.Tone.Valid():
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Tone)
	case c.Audio.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidConfig)
	case c.Audio.Buffer <= 0:
		return fmt.Errorf("%w: speaker buffer must be positive", ErrInvalidConfig)
	case c.PreferencesPath == "":
		return fmt.Errorf("%w: preferences path is empty", ErrInvalidConfig)
	case c.OSC.Enabled && c.OSC.Addr == "":
		return fmt.Errorf("%w: osc is enabled without an address", ErrInvalidConfig)
	}
	if _, err := effect.Easing(c.UI.Easing); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
