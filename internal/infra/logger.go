package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "studyhub-diagrams"

// NewLogger constructs a zerolog.Logger for the service. Development gets
// debug level and console output; everything else logs JSON at info.
func NewLogger(appEnv string) zerolog.Logger {
	return newLogger(os.Stdout, appEnv)
}

func newLogger(out io.Writer, appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("env", appEnv).
		Logger()
}

// NopLogger returns a logger that drops everything. Components fall back to it
// when no logger is injected.
func NopLogger() *Logger {
	l := zerolog.Nop()
	return &l
}

// Logger aliases the zerolog.Logger so callers outside the infra package can
// depend on the logging contract without importing the third-party module
// directly.
type Logger = zerolog.Logger
