package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/robmorgan/metronome/audio"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/remote"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/urfave/cli"
)

func listTempos(c *cli.Context) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BPM\tMARKING\tBEAT")
	for _, bpm := range rhythm.TempoValues() {
		marker := ""
		if bpm == rhythm.DefaultTempo {
			marker = " (default)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s%s\n", bpm, rhythm.TempoName(bpm), rhythm.BeatInterval(bpm), marker)
	}
	return w.Flush()
}

func listTones(c *cli.Context) error {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tTONE\tSAMPLE")
	for _, tone := range rhythm.Tones() {
		name := tone.String()
		if tone == rhythm.DefaultTone {
			name += " (default)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", int(tone), name, audio.ToneFile(tone))
	}
	return w.Flush()
}

func send(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError(errors.New("send needs an OSC address, e.g. /metronome/start"), 2)
	}
	address := c.Args().First()
	return remote.Send(c.String("to"), address, remote.ParseArgs(c.Args().Tail())...)
}

func initConfig(c *cli.Context) error {
	path := "metronome.yaml"
	if c.NArg() > 0 {
		path = c.Args().First()
	}

	cfg, err := config.NewMetronomeConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
	return nil
}
