// Package logger is the process-wide structured logger
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Log format values accepted by LOG_FORMAT
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Configure sets the formatter and level. An empty or unknown level falls back
// to info; any format other than text is JSON.
func Configure(levelStr, format string) {
	if strings.EqualFold(strings.TrimSpace(format), FormatText) {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.SetOutput(os.Stdout)
	configureLogLevel(levelStr)
}

func configureLogLevel(levelStr string) {
	log.SetLevel(logrus.InfoLevel)
	if levelStr == "" {
		return
	}

	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'", levelStr)
		return
	}
	log.SetLevel(level)
	log.Debugf("Log level set to '%s'", level)
}

// SetOutput redirects log output, mostly for tests
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

// Info logs a message at the Info level
func Info(args ...interface{}) {
	log.Info(args...)
}

// Infof logs a formatted message at the Info level
func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

// Warnf logs a formatted message at the Warning level
func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

// Errorf logs a formatted message at the Error level
func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Fatalf logs a formatted message at the Fatal level and exits
func Fatalf(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}

// InfoWithFields logs a message with structured fields at the Info level
func InfoWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Info(msg)
}

// DebugWithFields logs a message with structured fields at the Debug level
func DebugWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Debug(msg)
}

// WarnWithFields logs a message with structured fields at the Warning level
func WarnWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Warn(msg)
}

// ErrorWithFields logs a message with structured fields at the Error level
func ErrorWithFields(msg string, fields map[string]interface{}) {
	log.WithFields(fields).Error(msg)
}
