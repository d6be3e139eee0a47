// Package logging provides a small structured JSON logger.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Level controls which messages are emitted
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
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Field attaches a key/value pair to a log entry
type Field func(map[string]interface{})

// WithField returns a Field for a single key/value pair
func WithField(key string, value interface{}) Field {
	return func(m map[string]interface{}) {
		m[key] = value
	}
}

// WithFields returns a Field for multiple key/value pairs
func WithFields(fields map[string]interface{}) Field {
	return func(m map[string]interface{}) {
		for k, v := range fields {
			m[k] = v
		}
	}
}

// Logger writes leveled, structured log lines
type Logger struct {
	mu    sync.Mutex
	level Level
	out   io.Writer
}

// New creates a logger writing JSON lines to stderr
func New(level Level) *Logger {
	return &Logger{level: level, out: os.Stderr}
}

// NewWithWriter creates a logger writing to the given writer
func NewWithWriter(level Level, out io.Writer) *Logger {
	return &Logger{level: level, out: out}
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs at info level
func (l *Logger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs at warn level
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs at error level
func (l *Logger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

func (l *Logger) log(level Level, msg string, fields ...Field) {
	if level < l.level {
		return
	}

	entry := map[string]interface{}{
		"ts":    time.Now().UTC().Format(time.RFC3339),
		"level": level.String(),
		"msg":   msg,
	}
	for _, f := range fields {
		f(entry)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(data)
}
