package logger

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

const projectName = "metronome"

var (
	once          sync.Once
	projectLogger *logrus.Logger
)

func base() *logrus.Logger {
	once.Do(func() {
		projectLogger = logrus.New()
		projectLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
		projectLogger.SetLevel(logrus.InfoLevel)
	})
	return projectLogger
}

// GetProjectLogger returns the shared logger, tagged with the project name.
func GetProjectLogger() *logrus.Entry {
	return base().WithField("name", projectName)
}

// SetLevel parses and applies a log level such as "debug" or "warn".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base().SetLevel(lvl)
	return nil
}

// SetOutput redirects all project logging. The TUI sends logs to a file or
// io.Discard so they don't tear the terminal.
func SetOutput(w io.Writer) {
	base().SetOutput(w)
}
