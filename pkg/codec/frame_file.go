package codec

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/mmap"
)

// ErrWrongKind is returned when a frame file holds a different record type
var ErrWrongKind = errors.New("unexpected frame kind")

// ReadFrameFile maps a frame file and returns its decompressed payload.
// The frame must be of kind want.
func ReadFrameFile(path string, want FrameKind) ([]byte, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer reader.Close()

	if reader.Len() == 0 {
		return nil, ErrEmptyInput
	}

	kind, payload, err := ReadFrame(io.NewSectionReader(reader, 0, int64(reader.Len())))
	if err != nil {
		return nil, err
	}
	if kind != want {
		return nil, fmt.Errorf("%w: %s holds %s, want %s", ErrWrongKind, path, kind, want)
	}
	return payload, nil
}
