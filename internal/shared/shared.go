// package shared defines shared helpers
package shared

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewConfiguredLogger builds a logger from [LoggingConfig].
//
// When a file path is set, entries are written to stderr and to a size-rotated file.
// The returned closer releases the file handle and is a no-op otherwise.
func NewConfiguredLogger(cfg LoggingConfig) (*log.Logger, io.Closer) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		lj := rotatingFile(cfg)
		w = io.MultiWriter(os.Stderr, lj)
		closer = lj
	}

	logger := NewLogger(w)
	SetLogLevel(logger, ParseLogLevel(cfg.Level))
	return logger, closer
}

// NewFileLogger builds a logger that writes only to the rotated file at cfg.File.
//
// Used by full-screen interfaces where stderr output would corrupt the display.
func NewFileLogger(cfg LoggingConfig) (*log.Logger, io.Closer) {
	lj := rotatingFile(cfg)
	logger := NewLogger(lj)
	SetLogLevel(logger, ParseLogLevel(cfg.Level))
	return logger, lj
}

func rotatingFile(cfg LoggingConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// ParseLogLevel maps a config string to a [log.Level], defaulting to info.
func ParseLogLevel(s string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
