package relay

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wtask/relay/internal/relay/history"
)

// Option - configures Server.
type Option func(s *Server) error

func setup(s *Server, options ...Option) error {
	if s == nil {
		return nil
	}
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

// WithLogger - attach logger, by default server logs nothing.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return errors.New("relay.WithLogger: logger is nil")
		}
		s.logger = logger
		return nil
	}
}

// WithReadTimeout - disconnects clients idle for the given duration.
// Zero (default) means clients may stay silent forever.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		if timeout < 0 {
			return fmt.Errorf("relay.WithReadTimeout: invalid timeout (%v)", timeout)
		}
		s.readTimeout = timeout
		return nil
	}
}

// WithWriteTimeout - overwrites default write timeout of connections.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Server) error {
		if timeout <= 0 {
			return fmt.Errorf("relay.WithWriteTimeout: invalid timeout (%v)", timeout)
		}
		s.writeTimeout = timeout
		return nil
	}
}

// WithMaxFrameSize - overwrites limit of incoming payload size, zero disables the limit.
// Violation drops the connection.
func WithMaxFrameSize(size uint32) Option {
	return func(s *Server) error {
		s.maxFrameSize = size
		return nil
	}
}

// WithDedupWindow - drops chat messages whose message_id was seen within the last n messages.
func WithDedupWindow(n int) Option {
	return func(s *Server) error {
		w, err := history.NewWindow(n)
		if err != nil {
			return fmt.Errorf("relay.WithDedupWindow: %w", err)
		}
		s.dedup = w
		return nil
	}
}

// WithServerName - overwrites sender name of server-originated messages.
func WithServerName(name string) Option {
	return func(s *Server) error {
		if name == "" {
			return errors.New("relay.WithServerName: name is empty")
		}
		s.name = name
		return nil
	}
}
