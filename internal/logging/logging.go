// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// ParseLevel maps a level name to a zerolog level. Unknown or empty names
// fall back to info.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// New returns a logger writing JSON lines to w at the given level.
func New(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Setup builds the logger used by the binaries and installs it as the
// global zerolog logger. Logs go to stderr so stdout stays reserved for
// answers and, for the tool server, for the protocol stream. A terminal gets
// human-readable output.
func Setup(level string) zerolog.Logger {
	var w io.Writer = os.Stderr
	if term.IsTerminal(int(os.Stderr.Fd())) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	}
	logger := New(level, w)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger
	return logger
}

// Nop returns a disabled logger, handy as a default for optional fields.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
