package transport

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/wtask/relay/internal/relay/frame"
)

// Conn - message oriented connection the relay session talks over.
// Read is called from single goroutine, Write calls are serialized by the caller.
type Conn interface {
	// Read - blocks until next payload; returns io.EOF when peer has gone.
	Read() ([]byte, error)
	// Write - sends single payload.
	Write(payload []byte) error
	RemoteAddr() net.Addr
	Close() error
}

// ErrTimeout - returns when read or write deadline expired.
var ErrTimeout = errors.New("transport: i/o timeout")

type settings struct {
	readTimeout, writeTimeout time.Duration
	maxSize                   uint32
}

func defaultSettings() settings {
	return settings{
		readTimeout:  0,
		writeTimeout: 10 * time.Second,
		maxSize:      frame.DefaultMaxSize,
	}
}

// Option - configures transport connection.
type Option func(s *settings) error

func setup(s *settings, options ...Option) error {
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(s); err != nil {
			return err
		}
	}
	return nil
}

// WithReadTimeout - enables idle read deadline, zero means wait forever.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *settings) error {
		if timeout < 0 {
			return fmt.Errorf("transport.WithReadTimeout: invalid timeout (%v)", timeout)
		}
		s.readTimeout = timeout
		return nil
	}
}

// WithWriteTimeout - overwrites default write deadline, zero means no deadline.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *settings) error {
		if timeout < 0 {
			return fmt.Errorf("transport.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		s.writeTimeout = timeout
		return nil
	}
}

// WithMaxSize - limits incoming payload size, zero disables the limit.
func WithMaxSize(max uint32) Option {
	return func(s *settings) error {
		s.maxSize = max
		return nil
	}
}

func deadline(timeout time.Duration) time.Time {
	if timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(timeout)
}

// translate - maps network timeouts onto ErrTimeout, leaves other errors as is.
func translate(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
