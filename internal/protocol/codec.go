package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Each message travels as one frame: a 4-byte big-endian payload length
// followed by the payload itself. The payload is a compact JSON object,
// optionally compressed (responses only, see compress.go).

// MaxFrameSize bounds a single message payload. Anything larger is treated
// as a protocol violation, not an allocation request.
const MaxFrameSize = 1 << 20

var (
	// ErrFrameTooLarge is returned when a frame header announces a payload
	// beyond MaxFrameSize
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")

	// ErrEmptyFrame is returned when a frame header announces a zero-length payload
	ErrEmptyFrame = errors.New("empty frame")
)

// ReadFrame reads one length-prefixed payload from r.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(header[:])
	if size == 0 {
		return nil, ErrEmptyFrame
	}
	if size > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// WriteFrame writes one length-prefixed payload to w.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) == 0 {
		return ErrEmptyFrame
	}
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
