package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// EnvLogLevel is the environment variable read by DefaultLogger
const EnvLogLevel = "LOG_LEVEL"

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer: writer,
		level:  level,
		fields: make([]Field, 0),
		now:    time.Now,
		mu:     &sync.Mutex{},
	}
}

// WithClock returns a copy of the logger that stamps entries using now
func (l *JSONLogger) WithClock(now func() time.Time) *JSONLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &JSONLogger{writer: l.writer, level: l.level, fields: l.fields, now: now, mu: l.mu}
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !level.Enabled(l.level) {
		return
	}

	entry := LogEntry{
		Time:    l.now().UTC().Format(time.RFC3339Nano),
		Level:   level,
		Message: msg,
	}

	if n := len(l.fields) + len(fields); n > 0 {
		entry.Fields = make(map[string]any, n)
		// call-site fields override preset ones
		for _, f := range l.fields {
			entry.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.writer, "[ERROR] Failed to marshal log entry: %v\n", err)
		return
	}

	l.writer.Write(append(data, '\n'))
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields...) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields...) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields...) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields...) }

// With creates a child logger with the given fields pre-set. Children share
// the parent's writer lock.
func (l *JSONLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &JSONLogger{
		writer: l.writer,
		level:  l.level,
		fields: newFields,
		now:    l.now,
		mu:     l.mu,
	}
}

// SetLevel sets the minimum log level
func (l *JSONLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *JSONLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// DefaultLogger returns the process-wide logger. Unless replaced with
// SetDefaultLogger it writes JSON to stderr at the level named by
// LOG_LEVEL.
func DefaultLogger() Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewJSONLogger(os.Stderr, ParseLevel(os.Getenv(EnvLogLevel)))
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// Or returns logger, or DefaultLogger if logger is nil
func Or(logger Logger) Logger {
	if logger == nil {
		return DefaultLogger()
	}
	return logger
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: logger,
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// End logs the operation at debug level with its duration
func (t *TimedOperation) End(extra ...Field) time.Duration {
	elapsed := time.Since(t.start)
	fields := append(append(t.fields[:len(t.fields):len(t.fields)], extra...), Latency(elapsed))
	t.logger.Debug(t.msg, fields...)
	return elapsed
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error) time.Duration {
	elapsed := time.Since(t.start)
	fields := append(t.fields[:len(t.fields):len(t.fields)], Latency(elapsed), Error(err))
	t.logger.Error(t.msg, fields...)
	return elapsed
}
