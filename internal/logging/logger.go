// Package logging creates the logrus loggers used by the server
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/teamql/teamql/internal/config"
)

// NewLogger creates a logger writing JSON entries to stderr at the given level.
// Every entry has a "service" field.
func NewLogger(level logrus.Level) *logrus.Logger {
	logger := newLogger(os.Stderr, level)
	logger.AddHook(serviceHook{})
	return logger
}

// Discard returns a logger that writes nothing
func Discard() *logrus.Logger {
	return newLogger(io.Discard, logrus.PanicLevel)
}

func newLogger(w io.Writer, level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(level)
	return logger
}

// serviceHook adds the service name to entries that don't already have one
type serviceHook struct{}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = config.ServiceName
	}
	return nil
}
