// Package logger wraps zerolog behind a small structured-logging API so the
// rest of the codebase never imports zerolog directly.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the level, encoding, and destination of the log stream.
type Config struct {
	Level  string // debug, info, warn, or error
	Format string // "console" for human-readable output, anything else is JSON
	Output string // "stdout", "stderr", or a file path opened in append mode
}

// Logger emits structured log events at a fixed minimum level.
type Logger struct {
	zl zerolog.Logger
}

// callerSkip ascends past Event.Msg, emit, and the level method so the
// caller field points at the real call site.
const callerSkip = 4

// New builds a Logger from cfg. A file output stays open for the life of
// the process.
func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	sink, err := openSink(cfg.Output)
	if err != nil {
		return nil, err
	}
	if cfg.Format == "console" {
		sink = zerolog.ConsoleWriter{Out: sink}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	zl := zerolog.New(sink).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(callerSkip).
		Logger()

	return &Logger{zl: zl}, nil
}

func openSink(output string) (io.Writer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return f, nil
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields ...Field) { l.emit(l.zl.Debug(), msg, fields) }

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...Field) { l.emit(l.zl.Info(), msg, fields) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...Field) { l.emit(l.zl.Warn(), msg, fields) }

// Error logs at error level.
func (l *Logger) Error(msg string, fields ...Field) { l.emit(l.zl.Error(), msg, fields) }

func (l *Logger) emit(ev *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		f.apply(ev)
	}
	ev.Msg(msg)
}

// Field attaches one key/value pair to a log event.
type Field interface {
	apply(*zerolog.Event)
}

type fieldFunc func(*zerolog.Event)

func (f fieldFunc) apply(ev *zerolog.Event) { f(ev) }

// String attaches a string value under key.
func String(key, value string) Field {
	return fieldFunc(func(ev *zerolog.Event) { ev.Str(key, value) })
}

// Int attaches an int value under key.
func Int(key string, value int) Field {
	return fieldFunc(func(ev *zerolog.Event) { ev.Int(key, value) })
}

// Duration attaches a duration value under key.
func Duration(key string, value time.Duration) Field {
	return fieldFunc(func(ev *zerolog.Event) { ev.Dur(key, value) })
}

// Error attaches err under the standard "error" key.
func Error(err error) Field {
	return fieldFunc(func(ev *zerolog.Event) { ev.Err(err) })
}
