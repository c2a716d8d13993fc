package main

import (
	"strings"

	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/urfave/cli"
)

const defaultOSCAddr = "127.0.0.1:8765"

var runFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "config, c",
		Usage:  "path to a YAML config file",
		EnvVar: "METRONOME_CONFIG",
	},
	cli.IntFlag{
		Name:  "tempo, b",
		Usage: "starting tempo in beats per minute, clamped to 40-208",
	},
	cli.StringFlag{
		Name:  "tone",
		Usage: "click tone by name or index (see `metronome tones`), saved as the tone preference",
	},
	cli.StringFlag{
		Name:  "easing",
		Usage: "pendulum easing curve, one of " + strings.Join(effect.Easings(), ", "),
	},
	cli.BoolFlag{
		Name:  "headless",
		Usage: "click without the front panel until interrupted",
	},
	cli.StringFlag{
		Name:   "osc-addr",
		Usage:  "listen for OSC control messages on this UDP address",
		EnvVar: "METRONOME_OSC_ADDR",
	},
	cli.StringFlag{
		Name:   "metrics-addr",
		Usage:  "serve Prometheus metrics on this address",
		EnvVar: "METRONOME_METRICS_ADDR",
	},
	cli.StringFlag{
		Name:   "log-level",
		Usage:  "log level (debug, info, warn, error)",
		EnvVar: "METRONOME_LOG_LEVEL",
	},
	cli.StringFlag{
		Name:  "log-file",
		Usage: "write logs to this file while the front panel is shown",
	},
	cli.StringFlag{
		Name:  "sounds",
		Usage: "directory of wav samples, one per tone",
	},
}

var sendFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "to",
		Usage:  "address of the metronome's OSC listener",
		Value:  defaultOSCAddr,
		EnvVar: "METRONOME_OSC_ADDR",
	},
}

// loadConfig reads the config file, if any, and applies the command line on top.
func loadConfig(c *cli.Context) (*config.MetronomeConfig, error) {
	var (
		cfg *config.MetronomeConfig
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadMetronomeConfig(path)
	} else {
		cfg, err = config.NewMetronomeConfig()
	}
	if err != nil {
		return nil, err
	}

	if c.IsSet("tempo") {
		if cfg.Tempo, err = rhythm.ClampTempo(c.Int("tempo")); err != nil {
			return nil, err
		}
	}
	if c.IsSet("tone") {
		if cfg.Tone, err = rhythm.ParseTone(c.String("tone")); err != nil {
			return nil, err
		}
	}
	if c.IsSet("easing") {
		cfg.UI.Easing = c.String("easing")
	}
	if c.IsSet("osc-addr") {
		cfg.OSC.Enabled = true
		cfg.OSC.Addr = c.String("osc-addr")
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-file") {
		cfg.LogFile = c.String("log-file")
	}
	if c.IsSet("sounds") {
		cfg.Audio.SoundsDir = c.String("sounds")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
