package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// HeaderSize - size in bytes of the length prefix.
	HeaderSize = 4
	// DefaultMaxSize - payload limit used by the relay unless configured otherwise.
	DefaultMaxSize = 1 << 20
	// MaxLength - the longest payload the header can announce.
	MaxLength = 1<<32 - 1
)

// ErrTooLarge - returns when announced payload length exceeds the reader limit.
// The stream can't be resynchronized after that, so the connection should be dropped.
var ErrTooLarge = errors.New("frame: payload length exceeds limit")

// Encode - prefixes payload with 4-byte big-endian length.
// Payload longer than the header can announce is refused.
func Encode(payload []byte) ([]byte, error) {
	if err := checkLength(uint64(len(payload))); err != nil {
		return nil, err
	}
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[HeaderSize:], payload)
	return buf, nil
}

// Write - writes single encoded frame into w with one Write call.
func Write(w io.Writer, payload []byte) error {
	buf, err := Encode(payload)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func checkLength(n uint64) error {
	if n > MaxLength {
		return fmt.Errorf("%w: %d does not fit into header", ErrTooLarge, n)
	}
	return nil
}

// Reader - extracts frame payloads from byte stream.
type Reader struct {
	r      io.Reader
	max    uint32
	header [HeaderSize]byte
}

// ReaderOption - configures Reader.
type ReaderOption func(r *Reader) error

// WithMaxSize - limits accepted payload length, zero disables the limit.
func WithMaxSize(max uint32) ReaderOption {
	return func(r *Reader) error {
		r.max = max
		return nil
	}
}

// NewReader - builds frame reader over r.
func NewReader(r io.Reader, options ...ReaderOption) (*Reader, error) {
	if r == nil {
		return nil, errors.New("frame.NewReader: source reader is nil")
	}
	fr := &Reader{r: r}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(fr); err != nil {
			return nil, err
		}
	}
	return fr, nil
}

// Next - blocks until the whole next frame is read and returns its payload.
// Returns io.EOF if the stream ends before frame is complete, even in the middle of header or payload.
// Zero length frame gives empty non-nil payload.
func (r *Reader) Next() ([]byte, error) {
	if err := readFull(r.r, r.header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(r.header[:])
	if r.max > 0 && length > r.max {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, length, r.max)
	}
	payload := make([]byte, length)
	if length == 0 {
		return payload, nil
	}
	if err := readFull(r.r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func readFull(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err == io.ErrUnexpectedEOF {
		return io.EOF
	}
	return err
}
