package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	sloglogrus "github.com/samber/slog-logrus"
	"github.com/sirupsen/logrus"
)

func New(stderr io.Writer, version string) *logrus.Entry {
	logger := logrus.New()
	logger.Out = stderr
	return logger.WithFields(logrus.Fields{
		"version": version,
		"program": "shellcheck-gha",
	})
}

// Set sets the log level and whether the log is colored.
// color must be one of "", "auto", "always", and "never".
func Set(logE *logrus.Entry, level, color string) error {
	if err := SetLevel(logE, level); err != nil {
		return err
	}
	return SetColor(logE, color)
}

func SetLevel(logE *logrus.Entry, level string) error {
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse the log level: %w", err)
	}
	logE.Logger.SetLevel(lvl)
	return nil
}

func SetColor(logE *logrus.Entry, color string) error {
	switch color {
	case "", "auto":
		return nil
	case "always":
		logE.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors: true,
		})
		return nil
	case "never":
		logE.Logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
		})
		return nil
	default:
		return errors.New("log color must be auto, always, or never")
	}
}

// NewSlog returns a slog.Logger writing to the logrus logger of logE.
// It's passed to libraries that log with slog.
func NewSlog(logE *logrus.Entry) *slog.Logger {
	return slog.New(sloglogrus.Option{
		Level:  slog.LevelDebug,
		Logger: logE.Logger,
	}.NewLogrusHandler())
}
