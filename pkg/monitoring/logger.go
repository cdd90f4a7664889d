package monitoring

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// logger is single singleton instance of logger
// default logger do nothing
var logger *zap.Logger = zap.NewNop()

// sugaredLogger extend version on zap.Logger that allow
// using sting format functions
var sugaredLogger *zap.SugaredLogger = logger.Sugar()

// RegisterLogger new logger as main logger for service
// RegisterLogger is NOT THREAD SAFE
func RegisterLogger(l *zap.Logger) {
	logger = l
	sugaredLogger = l.Sugar()
}

// Log returns correct registered logger
func Log() *zap.Logger {
	return logger
}

// Logs return sugared zap logger
func Logs() *zap.SugaredLogger {
	return sugaredLogger
}

// NewLogger creates logger for given level name
// "dev" gives human readable development logger, everything else production one
func NewLogger(level string) (*zap.Logger, error) {
	var l *zap.Logger
	var err error
	switch level {
	case "dev", "debug":
		l, err = zap.NewDevelopment()
	default:
		l, err = zap.NewProduction()
	}

	if err != nil {
		return nil, errors.Wrapf(err, "unable to create %s logger", level)
	}

	return l, nil
}
