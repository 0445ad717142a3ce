// Package logger builds charmbracelet/log loggers. All of them write to
// stderr, stdout carries IPC frames.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Setup configures the package-level default logger. Debug mode lowers the
// level and adds timestamps.
func Setup(debug bool) {
	if debug {
		log.SetDefault(NewWithConfig("", log.DebugLevel, false, true, log.TextFormatter))
		return
	}
	log.SetDefault(NewWithConfig("", log.WarnLevel, false, false, log.TextFormatter))
}

// New creates a prefixed logger that respects the global log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() == log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}
