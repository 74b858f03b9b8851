package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Identifier fields. The mesh id types are all string-backed.

func NetworkID[T ~string](id T) Field {
	return String("network_id", string(id))
}

func NodeID[T ~string](id T) Field {
	return String("node_id", string(id))
}

func IntentID[T ~string](id T) Field {
	return String("intent_id", string(id))
}

func PolicyID[T ~string](id T) Field {
	return String("policy_id", string(id))
}

func RunID[T ~string](id T) Field {
	return String("run_id", string(id))
}

func Component(name string) Field {
	return String("component", name)
}

// Stage names a pipeline step
func Stage(name string) Field {
	return String("stage", name)
}

func Score(v float64) Field {
	return Float64("score", v)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}

func Operation(op string) Field {
	return String("operation", op)
}
