// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every entry as the "service" field.
const ServiceName = "runstats"

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error, fatal, panic, disabled.
	Level string

	// Format is json or console.
	Format string

	// Caller adds file:line to each entry.
	Caller bool

	// Timestamp adds a time field to each entry.
	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var (
	mu   sync.RWMutex
	base zerolog.Logger
)

//nolint:gochecknoinits // logging must work before Init is called
func init() {
	base = build(DefaultConfig())
}

// Init replaces the global logger. Safe to call more than once.
func Init(cfg Config) {
	l := build(cfg)
	mu.Lock()
	base = l
	mu.Unlock()
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	ctx := zerolog.New(out).With().Str("service", ServiceName)
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// normalizeLevel maps the aliases accepted in config onto zerolog names.
func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "warning":
		return "warn"
	case "off":
		return "disabled"
	}
	return level
}

// parseLevel falls back to info for empty or unknown levels.
func parseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(normalizeLevel(level))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// ValidLevel reports whether level names a known level.
func ValidLevel(level string) bool {
	l, err := zerolog.ParseLevel(normalizeLevel(level))
	return err == nil && l != zerolog.NoLevel
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// SetLogger replaces the global logger. Mostly for tests.
//
//nolint:gocritic // zerolog.Logger is passed by value
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	base = l
	mu.Unlock()
}

// WithComponent returns a child logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", component).Logger()
}

func Debug() *zerolog.Event { return event(zerolog.DebugLevel) }
func Info() *zerolog.Event  { return event(zerolog.InfoLevel) }
func Warn() *zerolog.Event  { return event(zerolog.WarnLevel) }
func Error() *zerolog.Event { return event(zerolog.ErrorLevel) }

func event(level zerolog.Level) *zerolog.Event {
	l := Logger()
	return l.WithLevel(level)
}

// NewTestLogger returns a JSON logger writing to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
