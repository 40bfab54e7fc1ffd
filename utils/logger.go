package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides leveled printf-style logging throughout the application.
type Logger struct {
	base zerolog.Logger
}

// NewLogger creates a console Logger writing to stdout at info level.
func NewLogger() *Logger {
	return NewLoggerWith(os.Stdout, "console", "info")
}

// NewLoggerWith creates a Logger for the given writer. format is "console"
// for coloured human output or "json" for structured lines.
func NewLoggerWith(out io.Writer, format, level string) *Logger {
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}
	base := zerolog.New(out).
		With().
		Timestamp().
		Str("service", "ozon-radar").
		Logger().
		Level(parseLevel(level))
	return &Logger{base: base}
}

// NewNopLogger discards everything; used by tests.
func NewNopLogger() *Logger {
	return &Logger{base: zerolog.Nop()}
}

func parseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Info(format string, args ...any) {
	l.base.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.base.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.base.Error().Msg(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	l.base.Debug().Msg(fmt.Sprintf(format, args...))
}
