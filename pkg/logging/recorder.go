package logging

import "sync"

// Record is an entry captured by a Recorder
type Record struct {
	Level   Level
	Message string
	Fields  map[string]any
}

// Recorder is a Logger that keeps entries in memory. It is meant for tests
// that assert on what a component logged.
type Recorder struct {
	mu      *sync.Mutex
	records *[]Record
	fields  []Field
	level   Level
}

// NewRecorder creates a recorder capturing every level
func NewRecorder() *Recorder {
	return &Recorder{mu: &sync.Mutex{}, records: &[]Record{}, level: DebugLevel}
}

func (r *Recorder) record(level Level, msg string, fields []Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !level.Enabled(r.level) {
		return
	}
	m := make(map[string]any, len(r.fields)+len(fields))
	for _, f := range r.fields {
		m[f.Key] = f.Value
	}
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	*r.records = append(*r.records, Record{Level: level, Message: msg, Fields: m})
}

func (r *Recorder) Debug(msg string, fields ...Field) { r.record(DebugLevel, msg, fields) }
func (r *Recorder) Info(msg string, fields ...Field)  { r.record(InfoLevel, msg, fields) }
func (r *Recorder) Warn(msg string, fields ...Field)  { r.record(WarnLevel, msg, fields) }
func (r *Recorder) Error(msg string, fields ...Field) { r.record(ErrorLevel, msg, fields) }

// With returns a child recorder sharing the same entry list
func (r *Recorder) With(fields ...Field) Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	preset := make([]Field, 0, len(r.fields)+len(fields))
	preset = append(append(preset, r.fields...), fields...)
	return &Recorder{mu: r.mu, records: r.records, fields: preset, level: r.level}
}

func (r *Recorder) SetLevel(level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.level = level
}

func (r *Recorder) GetLevel() Level {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.level
}

// Records returns a copy of everything captured so far
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(*r.records))
	copy(out, *r.records)
	return out
}

// AtLevel returns the captured entries at the given level
func (r *Recorder) AtLevel(level Level) []Record {
	out := make([]Record, 0)
	for _, rec := range r.Records() {
		if rec.Level == level {
			out = append(out, rec)
		}
	}
	return out
}
