package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Level int

const (
	Error Level = iota
	Warn
	Info
	Debug
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	case Debug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel maps a level name to a Level. An empty name is Info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "error":
		return Error, nil
	case "warn", "warning":
		return Warn, nil
	case "", "info":
		return Info, nil
	case "debug":
		return Debug, nil
	}
	return Info, fmt.Errorf("invalid log level %q", s)
}

type Config struct {
	Level  Level
	Format string // "text" or "json"
	Output io.Writer
}

type Logger struct {
	log zerolog.Logger
}

func NewLogger(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: "15:04:05"}
	}

	return &Logger{
		log: zerolog.New(out).Level(zerologLevel(cfg.Level)).With().Timestamp().Logger(),
	}
}

// NewNoOpLogger returns a logger that discards everything.
func NewNoOpLogger() *Logger {
	return &Logger{log: zerolog.Nop()}
}

// With returns a child logger that adds key=value to every entry.
func (l *Logger) With(key string, value any) *Logger {
	return &Logger{log: l.log.With().Interface(key, value).Logger()}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}

func zerologLevel(l Level) zerolog.Level {
	switch l {
	case Error:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	case Debug:
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
