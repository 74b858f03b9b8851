package codec

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/golang/snappy"
)

// FrameKind tags what a frame carries
type FrameKind byte

const (
	KindSnapshot FrameKind = 1
	KindIntents  FrameKind = 2
	KindResult   FrameKind = 3
)

func (k FrameKind) String() string {
	switch k {
	case KindSnapshot:
		return "snapshot"
	case KindIntents:
		return "intents"
	case KindResult:
		return "result"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

var frameMagic = [4]byte{'M', 'S', 'H', 'F'}

// MaxFrameSize bounds the compressed payload a reader will accept
const MaxFrameSize = 64 << 20

// MaxDecodedSize bounds the decompressed payload. The decoded length comes
// from the block header and is checked before anything is allocated.
const MaxDecodedSize = 256 << 20

// Frame errors
var (
	ErrBadMagic    = errors.New("not a mesh frame")
	ErrChecksum    = errors.New("frame checksum mismatch")
	ErrFrameTooBig = errors.New("frame exceeds maximum size")
)

// WriteFrame writes v as snappy-compressed JSON.
//
// Format: [Magic:4][Kind:1][Len:4][Data:N][CRC32:4], integers big endian,
// checksum over the compressed data.
func WriteFrame(w io.Writer, kind FrameKind, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode frame payload: %w", err)
	}
	compressed := snappy.Encode(nil, payload)

	var header [9]byte
	copy(header[:4], frameMagic[:])
	header[4] = byte(kind)
	binary.BigEndian.PutUint32(header[5:], uint32(len(compressed)))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("write frame data: %w", err)
	}
	if err := binary.Write(w, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return fmt.Errorf("write frame checksum: %w", err)
	}
	return nil
}

// ReadFrame reads one frame and returns its kind and decompressed JSON
func ReadFrame(r io.Reader) (FrameKind, []byte, error) {
	var header [9]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil, ErrEmptyInput
		}
		return 0, nil, fmt.Errorf("read frame header: %w", err)
	}
	if !bytes.Equal(header[:4], frameMagic[:]) {
		return 0, nil, ErrBadMagic
	}

	kind := FrameKind(header[4])
	size := binary.BigEndian.Uint32(header[5:])
	if size > MaxFrameSize {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrFrameTooBig, size)
	}

	compressed := make([]byte, size)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return 0, nil, fmt.Errorf("read frame data: %w", err)
	}

	var checksum uint32
	if err := binary.Read(r, binary.BigEndian, &checksum); err != nil {
		return 0, nil, fmt.Errorf("read frame checksum: %w", err)
	}
	if checksum != crc32.ChecksumIEEE(compressed) {
		return 0, nil, ErrChecksum
	}

	decodedLen, err := snappy.DecodedLen(compressed)
	if err != nil {
		return 0, nil, fmt.Errorf("decompress frame: %w", err)
	}
	if decodedLen > MaxDecodedSize {
		return 0, nil, fmt.Errorf("%w: decodes to %d bytes", ErrFrameTooBig, decodedLen)
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return 0, nil, fmt.Errorf("decompress frame: %w", err)
	}
	return kind, payload, nil
}
