package codec

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh/meshtest"
)

const scenarioYAML = `
networkId: net-y
timestamp: 2025-03-01T12:00:00Z
nodes:
  - nodeId: A
    role: ingest
    state: active
  - nodeId: B
    role: execute
edges:
  - edgeId: e-ab
    from: A
    to: B
    confidence: 0.9
    policyWeight: 0.5
    constraints: ["p-1:max-latency"]
    meta:
      latencyMsP95: 500
      errorRatePercent: 1
policies:
  - policyId: p-1
    enabled: true
    windowHours: 2
activeRunbookExecution:
  runId: run-1
`

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"snap.json", FormatJSON, false},
		{"snap.YAML", FormatYAML, false},
		{"dir/snap.yml", FormatYAML, false},
		{"snap.msh", FormatSnappy, false},
		{"snap.snappy", FormatSnappy, false},
		{"snap.toml", "", true},
		{"snap", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode_YAMLSnapshot(t *testing.T) {
	snapshot, err := Decode[mesh.Snapshot]([]byte(scenarioYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, mesh.NetworkID("net-y"), snapshot.NetworkID)
	assert.True(t, snapshot.Timestamp.Equal(meshtest.BaseTime))
	require.Len(t, snapshot.Nodes, 2)
	assert.Equal(t, mesh.RoleExecute, snapshot.Nodes[1].Role)
	require.Len(t, snapshot.Edges, 1)
	assert.Equal(t, []string{"p-1:max-latency"}, snapshot.Edges[0].Constraints)
	assert.Equal(t, 500.0, snapshot.Edges[0].Meta.LatencyMsP95)
	require.NotNil(t, snapshot.ActiveRunbookExecution)
	assert.Equal(t, mesh.RunID("run-1"), snapshot.ActiveRunbookExecution.RunID)
}

func TestDecode_JSONRejectsUnknownFields(t *testing.T) {
	_, err := Decode[mesh.Snapshot]([]byte(`{"networkId":"n","bogus":1}`), FormatJSON)
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatSnappy} {
		_, err := Decode[mesh.Snapshot]([]byte("  \n"), format)
		assert.ErrorIs(t, err, ErrEmptyInput, "format %s", format)
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	_, err := Decode[mesh.Snapshot]([]byte("{}"), Format("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Encode(mesh.Snapshot{}, Format("xml"), KindSnapshot)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// TestEncodeDecode_Formats tests that a snapshot survives each encoding
func TestEncodeDecode_Formats(t *testing.T) {
	original := meshtest.ScenarioA()

	for _, format := range []Format{FormatJSON, FormatYAML, FormatSnappy} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(original, format, KindSnapshot)
			require.NoError(t, err)

			decoded, err := Decode[mesh.Snapshot](data, format)
			require.NoError(t, err)

			assert.Equal(t, original.NetworkID, decoded.NetworkID)
			assert.True(t, decoded.Timestamp.Equal(original.Timestamp))
			assert.Len(t, decoded.Nodes, len(original.Nodes))
			require.Len(t, decoded.Edges, 1)
			assert.Equal(t, original.Edges[0].Confidence, decoded.Edges[0].Confidence)
			assert.Equal(t, original.Policies[0].Channels, decoded.Policies[0].Channels)
		})
	}
}

func TestFrame_Kind(t *testing.T) {
	var buf bytes.Buffer
	intents := []mesh.RuntimeIntent{meshtest.Intent("i-1", mesh.PriorityHigh, []mesh.NodeID{"A"})}
	require.NoError(t, WriteFrame(&buf, KindIntents, intents))

	kind, payload, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, KindIntents, kind)
	assert.Equal(t, "intents", kind.String())
	assert.Contains(t, string(payload), `"intentId":"i-1"`)
}

func TestFrame_Corruption(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, KindResult, map[string]int{"accepted": 3}))
	frame := buf.Bytes()

	t.Run("checksum", func(t *testing.T) {
		corrupt := append([]byte(nil), frame...)
		corrupt[len(corrupt)-1] ^= 0xFF
		_, _, err := ReadFrame(bytes.NewReader(corrupt))
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("magic", func(t *testing.T) {
		corrupt := append([]byte(nil), frame...)
		corrupt[0] = 'X'
		_, _, err := ReadFrame(bytes.NewReader(corrupt))
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("truncated", func(t *testing.T) {
		_, _, err := ReadFrame(bytes.NewReader(frame[:len(frame)-6]))
		assert.Error(t, err)
	})

	t.Run("oversized", func(t *testing.T) {
		corrupt := append([]byte(nil), frame...)
		binary.BigEndian.PutUint32(corrupt[5:9], MaxFrameSize+1)
		_, _, err := ReadFrame(bytes.NewReader(corrupt))
		assert.ErrorIs(t, err, ErrFrameTooBig)
	})
}

// TestFrame_DecodedSizeLimit tests that a small frame claiming a huge
// decompressed length is refused before decompression
func TestFrame_DecodedSizeLimit(t *testing.T) {
	// snappy block: uvarint decoded length, then a few literal bytes
	compressed := binary.AppendUvarint(nil, 1<<30)
	compressed = append(compressed, 0x00, 'x', 'x', 'x')

	frame := append([]byte(nil), frameMagic[:]...)
	frame = append(frame, byte(KindSnapshot))
	frame = binary.BigEndian.AppendUint32(frame, uint32(len(compressed)))
	frame = append(frame, compressed...)
	frame = binary.BigEndian.AppendUint32(frame, crc32.ChecksumIEEE(compressed))

	_, _, err := ReadFrame(bytes.NewReader(frame))
	assert.ErrorIs(t, err, ErrFrameTooBig)

	_, err = Decode[mesh.Snapshot](frame, FormatSnappy)
	assert.ErrorIs(t, err, ErrFrameTooBig)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()

	snapshotPath := filepath.Join(dir, "snapshot.yaml")
	require.NoError(t, os.WriteFile(snapshotPath, []byte(scenarioYAML), 0o600))

	snapshot, err := LoadSnapshotFile(snapshotPath)
	require.NoError(t, err)
	assert.Equal(t, mesh.NetworkID("net-y"), snapshot.NetworkID)

	intents := []mesh.RuntimeIntent{
		meshtest.Intent("i-1", mesh.PriorityLow, []mesh.NodeID{"A"}),
		meshtest.Intent("i-2", mesh.PriorityCritical, []mesh.NodeID{"B"}),
	}
	data, err := Encode(intents, FormatSnappy, KindIntents)
	require.NoError(t, err)
	intentsPath := filepath.Join(dir, "intents.msh")
	require.NoError(t, os.WriteFile(intentsPath, data, 0o600))

	loaded, err := LoadIntentsFile(intentsPath)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, mesh.PriorityCritical, loaded[1].Priority)

	_, err = LoadSnapshotFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = LoadSnapshotFile(filepath.Join(dir, "missing.msh"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestLoadFiles_FrameKind tests that frame files are checked against the
// record type being loaded
func TestLoadFiles_FrameKind(t *testing.T) {
	dir := t.TempDir()

	data, err := Encode(meshtest.ScenarioA(), FormatSnappy, KindSnapshot)
	require.NoError(t, err)
	path := filepath.Join(dir, "snapshot.msh")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	snapshot, err := LoadSnapshotFile(path)
	require.NoError(t, err)
	assert.Equal(t, mesh.NetworkID("net-a"), snapshot.NetworkID)

	_, err = LoadIntentsFile(path)
	assert.ErrorIs(t, err, ErrWrongKind)

	empty := filepath.Join(dir, "empty.msh")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadSnapshotFile(empty)
	assert.ErrorIs(t, err, ErrEmptyInput)

	payload, err := ReadFrameFile(path, KindSnapshot)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"networkId":"net-a"`)
}
