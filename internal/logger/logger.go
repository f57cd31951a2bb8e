// Package logger builds the zerolog logger shared by every component.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger in development and a JSON logger elsewhere.
func New(environment string) zerolog.Logger {
	return NewWithWriter(environment, os.Stdout)
}

// NewWithWriter is New writing to w. The CLI logs to stderr so stdout only
// carries command output.
func NewWithWriter(environment string, w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if environment == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Nop discards everything; used by tests and library callers without a logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
