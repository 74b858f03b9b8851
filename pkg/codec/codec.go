// Package codec reads and writes snapshots, intents and pipeline results
// as JSON, YAML, or snappy-compressed frames.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Format is an on-disk encoding
type Format string

const (
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSnappy Format = "snappy"
)

// Sentinel errors
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyInput        = errors.New("empty input")
)

// FormatFromPath picks a format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msh", ".snappy":
		return FormatSnappy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatSnappy:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Decode unmarshals data in the given format into a T
func Decode[T any](data []byte, format Format) (T, error) {
	var out T
	if len(bytes.TrimSpace(data)) == 0 {
		return out, ErrEmptyInput
	}

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&out); err != nil {
			return out, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatSnappy:
		_, payload, err := ReadFrame(bytes.NewReader(data))
		if err != nil {
			return out, err
		}
		return Decode[T](payload, FormatJSON)
	default:
		return out, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return out, nil
}

// Encode marshals v in the given format. Snappy output is a single frame of
// the given kind.
func Encode(v any, format Format, kind FrameKind) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatSnappy:
		var buf bytes.Buffer
		if err := WriteFrame(&buf, kind, v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// LoadSnapshotFile reads a snapshot, choosing the format by extension
func LoadSnapshotFile(path string) (mesh.Snapshot, error) {
	return loadFile[mesh.Snapshot](path, KindSnapshot)
}

// LoadIntentsFile reads a list of runtime intents
func LoadIntentsFile(path string) ([]mesh.RuntimeIntent, error) {
	return loadFile[[]mesh.RuntimeIntent](path, KindIntents)
}

func loadFile[T any](path string, kind FrameKind) (T, error) {
	var zero T
	format, err := FormatFromPath(path)
	if err != nil {
		return zero, err
	}

	var data []byte
	if format == FormatSnappy {
		data, err = ReadFrameFile(path, kind)
		format = FormatJSON
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			err = fmt.Errorf("read %s: %w", path, err)
		}
	}
	if err != nil {
		return zero, err
	}

	out, err := Decode[T](data, format)
	if err != nil {
		return zero, fmt.Errorf("load %s: %w", path, err)
	}
	return out, nil
}
