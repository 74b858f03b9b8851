package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Level orders log records by importance. Pipeline runs log stages at
// Debug, completed runs at Info, degraded runs at Warn.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l Level) String() string {
	if l < DebugLevel || l > ErrorLevel {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Enabled reports whether a record at l passes a logger set to min
func (l Level) Enabled(min Level) bool {
	return l >= min
}

// MarshalText writes the level name, so entries and configs carry "WARN"
// rather than 2
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts any case of a level name, plus "warning"
func (l *Level) UnmarshalText(text []byte) error {
	level, ok := LookupLevel(string(text))
	if !ok {
		return fmt.Errorf("unknown log level %q", text)
	}
	*l = level
	return nil
}

// LookupLevel resolves a level name. ok is false for unknown names.
func LookupLevel(s string) (level Level, ok bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		return WarnLevel, true
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), true
		}
	}
	return InfoLevel, false
}

// ParseLevel is LookupLevel falling back to InfoLevel
func ParseLevel(s string) Level {
	level, _ := LookupLevel(s)
	return level
}

// Field is one structured key/value attached to a record
type Field struct {
	Key   string
	Value any
}

// Logger is implemented by JSONLogger, NopLogger and Recorder
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that adds fields to every record
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// JSONLogger writes one JSON object per line. Children created by With
// share the parent's writer lock.
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	now    func() time.Time
	mu     *sync.Mutex
}

// LogEntry is a single line written by JSONLogger
type LogEntry struct {
	Time    string         `json:"time"`
	Level   Level          `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) SetLevel(Level)         {}
func (NopLogger) GetLevel() Level        { return InfoLevel }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation logs a message with the elapsed time when it ends
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
