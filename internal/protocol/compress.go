package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Responses may be compressed before framing. The layout matches what the
// desktop clients already decode: a 4-byte big-endian uncompressed size
// followed by a zlib stream. Requests are never compressed.

// ErrCorruptPayload is returned when a compressed payload does not inflate
// to its announced size.
var ErrCorruptPayload = errors.New("corrupt compressed payload")

// Compress deflates payload into the size-prefixed zlib layout.
func Compress(payload []byte) ([]byte, error) {
	var buf bytes.Buffer

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	buf.Write(header[:])

	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress inflates a size-prefixed zlib payload produced by Compress.
func Decompress(data []byte) ([]byte, error) {
	if len(data) < 5 {
		return nil, ErrCorruptPayload
	}

	expected := binary.BigEndian.Uint32(data[:4])
	if expected > MaxFrameSize {
		return nil, fmt.Errorf("%w: announced size %d", ErrFrameTooLarge, expected)
	}

	zr, err := zlib.NewReader(bytes.NewReader(data[4:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptPayload, err.Error())
	}
	defer zr.Close()

	payload, err := io.ReadAll(io.LimitReader(zr, int64(expected)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptPayload, err.Error())
	}
	if uint32(len(payload)) != expected {
		return nil, ErrCorruptPayload
	}
	return payload, nil
}
