// Package logger configures the structured logrus logger shared by every
// component.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds a logger at the given level. An unparseable level falls
// back to info rather than failing startup.
func NewLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()

	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Production wants machine-readable lines; everywhere else gets the
	// colored text formatter
	if os.Getenv("ENVIRONMENT") == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return logger
}
