package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the process logger: colored text at debug level in
// development, JSON at info level elsewhere. level, when it parses,
// overrides the environment default.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{logrus.FieldKeyMsg: "message"},
		})
	}
	if lvl, err := logrus.ParseLevel(level); err == nil && level != "" {
		logger.SetLevel(lvl)
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

// NewNopLogger discards everything.
func NewNopLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// LogDegraded records an optional backend that failed to start. The store
// keeps serving with the fallback named in msg.
func LogDegraded(logger *logrus.Logger, service, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	entry := logger.WithFields(fields).WithFields(logrus.Fields{"service": service, "degraded": true})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
}
