package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// GetLogLevel returns the level named by LOG_LEVEL, defaulting to Info.
//
// Supported values (case-insensitive): DEBUG, INFO, WARN or WARNING, ERROR.
func GetLogLevel() logrus.Level {
	switch strings.ToUpper(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "DEBUG":
		return logrus.DebugLevel
	case "WARN", "WARNING":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// New returns a JSON logger writing to w with caller reporting on. The
// stack's metric filter matches on the "level" field, so the formatter must
// stay JSON.
func New(w io.Writer) *logrus.Logger {
	if w == nil {
		w = os.Stdout
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetReportCaller(true)
	logger.SetLevel(GetLogLevel())
	return logger
}

// OrStandard returns logger, or the package-level logrus logger when nil.
func OrStandard(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}
