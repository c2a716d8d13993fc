package main

import (
	"fmt"
	"os"

	goerrors "github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/metronome/logger"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const version = "0.3.0"

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "metronome"
	app.HelpName = "metronome"
	app.Usage = "a precise metronome for the terminal"
	app.UsageText = "metronome [global options] [command] [arguments...]"
	app.Version = version
	app.Flags = runFlags
	app.Action = run
	app.Commands = []cli.Command{
		{
			Name:    "tempos",
			Aliases: []string{"t"},
			Usage:   "lists the tempo detents with their markings and beat intervals",
			Action:  listTempos,
		},
		{
			Name:   "tones",
			Usage:  "lists the click tones and the sample file each one loads",
			Action: listTones,
		},
		{
			Name:      "send",
			Aliases:   []string{"s"},
			Usage:     "sends an OSC message to a running metronome",
			ArgsUsage: "<address> [args...]",
			Action:    send,
			Flags:     sendFlags,
		},
		{
			Name:      "init-config",
			Usage:     "writes the default config to a file",
			ArgsUsage: "[path]",
			Action:    initConfig,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		if logger.GetProjectLogger().Logger.IsLevelEnabled(logrus.DebugLevel) {
			fmt.Fprintln(os.Stderr, goerrors.PrintErrorWithStackTrace(err))
		} else {
			fmt.Fprintln(os.Stderr, "metronome:", err)
		}
		os.Exit(1)
	}
}
