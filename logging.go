package washsale

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a console logger with the specified level.
func NewLogger(level string) zerolog.Logger {
	var lvl zerolog.Level
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	default:
		lvl = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// NewSilentLogger creates a logger that discards all output.
func NewSilentLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}
