// Package diagnostics is the debug/warning/error message channel the rest
// of the pipeline reports through.
package diagnostics

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config controls whether to colour output and whether to emit
// debug-level messages.
type Config struct {
	Color bool
	Debug bool
}

// Logger wraps a zerolog.Logger configured per Config, writing debug lines,
// warnings and errors alike to stderr.
type Logger struct {
	out zerolog.Logger
	cfg Config
}

// New builds a Logger for cfg. Colour is rendered through a
// zerolog.ConsoleWriter; isatty detection backs the "auto" resolution that
// callers perform before constructing Config.
func New(cfg Config) *Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !cfg.Color, TimeFormat: ""}
	writer.PartsOrder = []string{zerolog.LevelFieldName, zerolog.MessageFieldName}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	return &Logger{
		out: zerolog.New(writer).Level(level),
		cfg: cfg,
	}
}

// ResolveColor applies DEBSTRAP_COLOR / NO_COLOR semantics against whether
// stderr is a terminal.
func ResolveColor(mode string, noColorEnv string) bool {
	if noColorEnv != "" {
		return false
	}
	switch mode {
	case "always", "true":
		return true
	case "never", "false":
		return false
	default:
		return isatty.IsTerminal(os.Stderr.Fd())
	}
}

// Debug logs a debug-level message; suppressed unless cfg.Debug is set.
func (l *Logger) Debug(message string) {
	l.out.Debug().Msg(message)
}

// Warning logs a warning-level message to the error stream.
func (l *Logger) Warning(message string) {
	l.out.Warn().Msg(message)
}

// Error logs an error-level message to the error stream.
func (l *Logger) Error(message string) {
	l.out.Error().Msg(message)
}
