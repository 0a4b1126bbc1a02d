package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a text logger with full timestamps at the given level,
// falling back to info when the level does not parse.
func New(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}

// Configure applies the same settings to the package-level logger used by
// the screens.
func Configure(level string) {
	std := logrus.StandardLogger()
	std.SetOutput(os.Stdout)
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if logLevel, err := logrus.ParseLevel(level); err == nil {
		std.SetLevel(logLevel)
	}
}

// OrStandard returns l, or the standard logger when l is nil.
func OrStandard(l logrus.FieldLogger) logrus.FieldLogger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}
