// Package logging builds the logrus logger shared by all components.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Config controls logger construction.
type Config struct {
	Level  string    // panic, fatal, error, warn, info, debug, trace
	JSON   bool      // JSON formatter instead of text
	Output io.Writer // defaults to stderr
}

// DefaultConfig logs info and above as text to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Output: os.Stderr}
}

// New creates a logger from cfg. An unknown level falls back to info.
func New(cfg Config) *logrus.Logger {
	log := logrus.New()
	if cfg.Output != nil {
		log.SetOutput(cfg.Output)
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// Discard returns a logger that drops everything, for tests and for the
// TUI when no log file was requested.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// OpenFile appends log output to path.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
