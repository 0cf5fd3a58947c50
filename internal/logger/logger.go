// Package logger is a small levelled logger for the command-line tools and
// the batch renderer.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents logging severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name (any case) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("logger: unknown level %q", s)
}

// Logger writes timestamped, levelled lines. Sub-loggers made with
// WithPrefix share the writer and its lock.
type Logger struct {
	mu       *sync.Mutex
	out      io.Writer
	minLevel Level
	prefix   string
	now      func() time.Time
}

// New creates a new logger
func New(out io.Writer, minLevel Level, prefix string) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		mu:       &sync.Mutex{},
		out:      out,
		minLevel: minLevel,
		prefix:   prefix,
		now:      time.Now,
	}
}

// Default returns an info-level logger to stderr.
func Default() *Logger {
	return New(os.Stderr, LevelInfo, "")
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelError+1, "")
}

// WithPrefix creates a sub-logger with an additional prefix
func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := prefix
	if l.prefix != "" {
		newPrefix = l.prefix + "/" + prefix
	}
	sub := *l
	sub.prefix = newPrefix
	return &sub
}

func (l *Logger) Enabled(level Level) bool {
	return level >= l.minLevel
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.minLevel {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := l.now().Format("15:04:05.000")
	prefix := ""
	if l.prefix != "" {
		prefix = fmt.Sprintf("[%s] ", l.prefix)
	}

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s %s %s%s\n", timestamp, level.String(), prefix, msg)
}

func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Step logs a named step and returns a func that logs its completion with
// the elapsed time.
func (l *Logger) Step(name string) func() {
	start := l.now()
	l.Info("starting: %s", name)
	return func() {
		l.Info("completed: %s (took %v)", name, l.now().Sub(start).Round(time.Millisecond))
	}
}
