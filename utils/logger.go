package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel, &logrus.TextFormatter{FullTimestamp: true})
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel, &logrus.TextFormatter{FullTimestamp: true})
)

func newLogger(out io.Writer, level logrus.Level, formatter logrus.Formatter) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(formatter)
	return l
}

// InitLogger resets both loggers to the default text output.
func InitLogger() {
	_ = ConfigureLogger("info", "text")
}

// ConfigureLogger sets the level of InfoLogger and the output format of both
// loggers. format is "text" or "json".
func ConfigureLogger(level, format string) error {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var formatter logrus.Formatter
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	case "json":
		formatter = &logrus.JSONFormatter{}
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	InfoLogger = newLogger(os.Stdout, lvl, formatter)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel, formatter)
	return nil
}
