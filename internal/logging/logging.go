// Package logging wraps the standard logger with a debug switch.
//
// Inventory JSON is written to stdout for Ansible, so every log line goes to
// stderr (or a file) and never interleaves with the document.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level describes severity of log message.
type Level int

const (
	// LevelInfo is default log level.
	LevelInfo Level = iota
	// LevelDebug enables verbose output.
	LevelDebug
)

// ParseLevel converts string to Level.
func ParseLevel(v string) Level {
	switch v {
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger is a thin wrapper around log.Logger with levels.
type Logger struct {
	logger *log.Logger
	level  Level
	closer io.Closer
}

// New creates a logger writing to path, or to stderr when path is empty.
func New(path string, level Level) (*Logger, error) {
	if path == "" {
		return NewWriter(os.Stderr, level), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := NewWriter(f, level)
	l.closer = f
	return l, nil
}

// NewWriter creates a logger on an arbitrary writer.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{logger: log.New(w, "d42-inventory ", log.LstdFlags), level: level}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWriter(io.Discard, LevelInfo)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) logf(lvl Level, tag, format string, args ...interface{}) {
	if l == nil {
		return
	}
	if lvl > l.level {
		return
	}
	l.logger.Printf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

// Infof logs informational messages.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logf(LevelInfo, "INFO", format, args...)
}

// Debugf logs verbose diagnostic messages.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(LevelDebug, "DEBUG", format, args...)
}

// Warnf logs recoverable problems, such as skipped records.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(LevelInfo, "WARN", format, args...)
}

// Errorf logs errors.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logf(LevelInfo, "ERROR", format, args...)
}
