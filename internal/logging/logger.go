package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. Level accepts DEBUG, INFO, WARN, ERROR
// (case-insensitive); anything else falls back to INFO. With jsonFormat
// off the output is the human console format.
func New(level string, jsonFormat bool) zerolog.Logger {
	var out io.Writer = os.Stderr
	if !jsonFormat {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// Nop returns a disabled logger, the default for library callers
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithComponent tags a logger with the originating component
func WithComponent(l zerolog.Logger, component string) zerolog.Logger {
	return l.With().Str("component", component).Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
