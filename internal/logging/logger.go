// Package logging provides the zerolog-backed implementation of
// console.Logger used by the CLI and by library callers that do not bring
// their own logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/harvestline/agriconsole/pkg/console"
)

// Component field names.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
)

// Logger wraps zerolog.Logger.
type Logger struct {
	logger zerolog.Logger
}

var _ console.Logger = (*Logger)(nil)

// New creates a JSON logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{
		logger: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// NewConsole creates a human-readable logger on stderr. Verbose enables
// debug output; otherwise only warnings and errors are shown.
func NewConsole(verbose bool) *Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}

	return New(writer, level)
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{logger: l.logger.With().Str(FieldComponent, name).Logger()}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}
