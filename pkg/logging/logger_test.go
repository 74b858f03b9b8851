package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

type networkID string

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{" Info ", InfoLevel},
		{"warn", WarnLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevel_Text(t *testing.T) {
	data, err := json.Marshal(struct {
		Level Level `json:"level"`
	}{WarnLevel})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"level":"WARN"}` {
		t.Errorf("Marshal = %s", data)
	}

	var level Level
	if err := level.UnmarshalText([]byte("warning")); err != nil || level != WarnLevel {
		t.Errorf("UnmarshalText(warning) = %v, %v", level, err)
	}
	if err := level.UnmarshalText([]byte("loud")); err == nil {
		t.Error("Expected error for unknown level")
	}

	if _, ok := LookupLevel("verbose"); ok {
		t.Error("LookupLevel(verbose) should not resolve")
	}
	if !ErrorLevel.Enabled(WarnLevel) || DebugLevel.Enabled(InfoLevel) {
		t.Error("Enabled ordering is wrong")
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("key", "value"), "key", "value"},
		{"Int", Int("count", 42), "count", 42},
		{"Int64", Int64("visits", 1234567890), "visits", int64(1234567890)},
		{"Float64", Float64("ratio", 0.92), "ratio", 0.92},
		{"Bool", Bool("accepted", true), "accepted", true},
		{"Duration", Duration("timeout", 5*time.Second), "timeout", "5s"},
		{"Error", Error(errors.New("boom")), "error", "boom"},
		{"ErrorNil", Error(nil), "error", nil},
		{"NetworkID", NetworkID(networkID("net-a")), "network_id", "net-a"},
		{"NodeID", NodeID("A"), "node_id", "A"},
		{"IntentID", IntentID("i-1"), "intent_id", "i-1"},
		{"PolicyID", PolicyID("p-1"), "policy_id", "p-1"},
		{"RunID", RunID("run-1"), "run_id", "run-1"},
		{"Stage", Stage("validate"), "stage", "validate"},
		{"Score", Score(0.5), "score", 0.5},
		{"Count", Count(3), "count", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s = %+v, want {Key:%s Value:%v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	logger := NewJSONLogger(&buf, DebugLevel).WithClock(func() time.Time { return fixed })

	logger.Info("pipeline complete", NetworkID("net-a"), Count(2))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Time != "2025-03-01T12:00:00Z" {
		t.Errorf("Time = %q", entry.Time)
	}
	if entry.Level != InfoLevel || entry.Message != "pipeline complete" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.Fields["network_id"] != "net-a" {
		t.Errorf("network_id = %v", entry.Fields["network_id"])
	}
	// JSON numbers decode as float64
	if entry.Fields["count"] != float64(2) {
		t.Errorf("count = %v", entry.Fields["count"])
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug")
	logger.Info("info")
	if buf.Len() != 0 {
		t.Errorf("Expected filtered output, got %q", buf.String())
	}

	logger.Warn("warn")
	logger.Error("error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("pipeline"), NetworkID("net-a"))
	child.Info("validated", Stage("validate"), Component("validator"))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if entry.Fields["network_id"] != "net-a" {
		t.Errorf("preset field lost: %v", entry.Fields)
	}
	if entry.Fields["component"] != "validator" {
		t.Errorf("call-site field should win, got %v", entry.Fields["component"])
	}
	if entry.Fields["stage"] != "validate" {
		t.Errorf("stage = %v", entry.Fields["stage"])
	}
}

func TestJSONLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.SetLevel(ErrorLevel)
	if logger.GetLevel() != ErrorLevel {
		t.Errorf("GetLevel() = %v, want ErrorLevel", logger.GetLevel())
	}

	logger.Info("info")
	if buf.Len() != 0 {
		t.Error("Expected no output for Info at ErrorLevel")
	}
	logger.Error("error")
	if buf.Len() == 0 {
		t.Error("Expected output for Error at ErrorLevel")
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).Info("message without fields")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, exists := entry["fields"]; exists {
		t.Error("Expected fields key to be omitted when empty")
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(nil)

	DefaultLogger().Info("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("default logger did not write, got %q", buf.String())
	}

	if Or(nil) != DefaultLogger() {
		t.Error("Or(nil) should return the default logger")
	}
	nop := NewNopLogger()
	if Or(nop) != nop {
		t.Error("Or should keep a non-nil logger")
	}
}

func TestTimedOperation(t *testing.T) {
	rec := NewRecorder()

	op := StartTimer(rec, "stage finished", Stage("schedule"))
	elapsed := op.End(Count(4))
	if elapsed < 0 {
		t.Errorf("negative elapsed %v", elapsed)
	}
	op.EndError(errors.New("failed"))

	records := rec.Records()
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Level != DebugLevel || records[0].Fields["count"] != 4 {
		t.Errorf("unexpected first record %+v", records[0])
	}
	if _, ok := records[0].Fields["latency"]; !ok {
		t.Error("missing latency field")
	}
	if records[1].Level != ErrorLevel || records[1].Fields["error"] != "failed" {
		t.Errorf("unexpected second record %+v", records[1])
	}
	if _, ok := records[1].Fields["count"]; ok {
		t.Error("End extras leaked into EndError")
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder()
	child := rec.With(NetworkID("net-a"))

	child.Warn("drift high", Score(1.7))
	rec.Info("plain")

	if got := len(rec.Records()); got != 2 {
		t.Fatalf("Records() = %d, want 2", got)
	}
	warns := rec.AtLevel(WarnLevel)
	if len(warns) != 1 || warns[0].Fields["network_id"] != "net-a" {
		t.Errorf("AtLevel(Warn) = %+v", warns)
	}

	rec.SetLevel(ErrorLevel)
	rec.Info("dropped")
	if got := len(rec.Records()); got != 2 {
		t.Errorf("Records() after SetLevel = %d, want 2", got)
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", NetworkID("net-a"), Int("waves", 42))
	}
}

func BenchmarkJSONLogger_InfoFiltered(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, ErrorLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", NetworkID("net-a"), Int("waves", 42))
	}
}
