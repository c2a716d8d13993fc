package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	goerrors "github.com/gruntwork-io/go-commons/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/robmorgan/metronome/audio"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/effect"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/metrics"
	"github.com/robmorgan/metronome/prefs"
	"github.com/robmorgan/metronome/remote"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/timer"
	"github.com/robmorgan/metronome/ui"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"k8s.io/utils/clock"
)

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, cfg, RunOptions{
		Headless: c.Bool("headless"),
		SaveTone: c.IsSet("tone"),
	})
}

// RunOptions carries the choices made on the command line rather than in config.
type RunOptions struct {
	// Headless clicks without the front panel until ctx is done
	Headless bool

	// SaveTone stores cfg.Tone as the tone preference before starting
	SaveTone bool
}

// Run starts the metronome and blocks until ctx is done or the front panel quits.
func Run(ctx context.Context, cfg *config.MetronomeConfig, opts RunOptions) error {
	headless := opts.Headless

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}
	if !headless {
		closeLog, err := routeLogs(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()
	}

	// initialize the logger
	log := logger.GetProjectLogger()

	wg := sync.WaitGroup{}

	store, err := openPreferences(cfg, opts.SaveTone, log)
	if err != nil {
		return err
	}

	easing, err := effect.Easing(cfg.UI.Easing)
	if err != nil {
		return err
	}

	log.Info("Initializing audio...")
	format := audio.Format(cfg.Audio.SampleRate)
	bank := audio.SynthesizedToneBank(format)
	if cfg.Audio.SoundsDir != "" {
		if bank, err = audio.LoadToneBank(cfg.Audio.SoundsDir, format); err != nil {
			return err
		}
	}
	out, err := audio.NewSpeakerOutput(bank.Format().SampleRate, cfg.Audio.Buffer)
	if err != nil {
		return err
	}
	defer out.Close()

	var schedOpts []rhythm.Option
	if cfg.MetricsAddr != "" {
		reg := prom.NewRegistry()
		schedOpts = append(schedOpts, rhythm.WithRecorder(metrics.NewPrometheusRecorder(reg)))

		wg.Add(1)
		go serveMetrics(ctx, &wg, cfg.MetricsAddr, reg, log)
	}

	log.WithField("tempo", cfg.Tempo).Info("Initializing beat scheduler...")
	scheduler := rhythm.NewBeatScheduler(
		timer.New(clock.RealClock{}),
		audio.NewPlayer(bank, out, cfg.Audio.Volume),
		schedOpts...,
	)
	defer scheduler.Close()

	if err := scheduler.ChangeTempo(cfg.Tempo); err != nil {
		return err
	}

	if cfg.OSC.Enabled {
		server := remote.NewServer(scheduler, store)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.ListenAndServe(ctx, cfg.OSC.Addr); err != nil {
				log.WithError(err).Error("OSC server stopped")
			}
		}()
	}

	if headless {
		err = runHeadless(ctx, scheduler, store, cfg.Tempo)
	} else {
		_, err = tea.NewProgram(ui.NewModel(scheduler, store, clock.RealClock{}, easing), tea.WithAltScreen()).Run()
	}

	log.Info("Shutting down metronome")
	cancel()
	wg.Wait()
	return err
}

// openPreferences opens the tone preference file. A tone chosen on the command
// line replaces the saved one.
func openPreferences(cfg *config.MetronomeConfig, saveTone bool, log *logrus.Entry) (*prefs.FileStore, error) {
	store := prefs.NewFileStore(cfg.PreferencesPath, cfg.Tone)
	if saveTone {
		if err := store.SetTone(cfg.Tone); err != nil {
			return nil, err
		}
	}

	tone, err := store.Tone()
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"path": store.Path(),
		"tone": tone,
	}).Info("Loaded tone preference")
	return store, nil
}

func runHeadless(ctx context.Context, scheduler *rhythm.BeatScheduler, store prefs.Store, tempo int) error {
	tone, err := store.Tone()
	if err != nil {
		return err
	}
	if err := scheduler.Start(tempo, tone); err != nil {
		return err
	}
	<-ctx.Done()
	return scheduler.Stop()
}

// routeLogs keeps log lines from tearing the front panel.
func routeLogs(path string) (func(), error) {
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, goerrors.WithStackTrace(err)
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

func serveMetrics(ctx context.Context, wg *sync.WaitGroup, addr string, reg *prom.Registry, log *logrus.Entry) {
	defer wg.Done()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Metrics server stopped")
	}
}
