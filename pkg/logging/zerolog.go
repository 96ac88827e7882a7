package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Default rotation settings of the diagnostic log file
const (
	DefaultMaxSize    = 10 * 1024 * 1024
	DefaultMaxBackups = 5
)

// Options configures a diagnostic logger
type Options struct {
	// Level is the minimum log level
	Level Level
	// Format is the output format (json or text)
	Format Format
	// File is the log file path; stderr is used when empty
	File string
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// ZeroLogger implements Logger on top of zerolog
type ZeroLogger struct {
	logger zerolog.Logger
	closer io.Closer
}

// New creates a logger from options. Text output to a terminal is colored.
func New(opts Options) (*ZeroLogger, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer
	)
	if opts.File != "" {
		w, err := NewRotatingWriter(opts.File, opts.MaxSize, opts.MaxBackups)
		if err != nil {
			return nil, err
		}
		out, closer = w, w
	}

	l := NewWithWriter(out, opts.Level, opts.Format)
	l.closer = closer
	return l, nil
}

// NewWithWriter creates a logger writing to w
func NewWithWriter(w io.Writer, level Level, format Format) *ZeroLogger {
	if format != FormatJSON {
		noColor := true
		if f, ok := w.(*os.File); ok {
			noColor = !isTerminal(f)
		}
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: noColor}
	}

	return &ZeroLogger{
		logger: zerolog.New(w).With().Timestamp().Logger().Level(zerologLevel(level)),
	}
}

// Debug logs a debug message
func (l *ZeroLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Info logs an info message
func (l *ZeroLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Warn logs a warning message
func (l *ZeroLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.logger.Warn().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Error logs an error message
func (l *ZeroLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// WithFields returns a logger with additional fields
func (l *ZeroLogger) WithFields(fields Fields) Logger {
	return &ZeroLogger{
		logger: l.logger.With().Fields(map[string]interface{}(fields)).Logger(),
		closer: l.closer,
	}
}

// Close closes the log file, if any
func (l *ZeroLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
