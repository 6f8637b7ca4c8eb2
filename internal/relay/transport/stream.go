package transport

import (
	"errors"
	"net"

	"github.com/wtask/relay/internal/relay/frame"
)

// Stream - Conn over byte stream (TCP) with length-prefixed frames.
type Stream struct {
	conn   net.Conn
	reader *frame.Reader
	settings
}

// NewStream - wraps stream connection.
func NewStream(conn net.Conn, options ...Option) (*Stream, error) {
	if conn == nil {
		return nil, errors.New("transport.NewStream: net connection is nil")
	}
	s := &Stream{conn: conn, settings: defaultSettings()}
	if err := setup(&s.settings, options...); err != nil {
		return nil, err
	}
	reader, err := frame.NewReader(conn, frame.WithMaxSize(s.maxSize))
	if err != nil {
		return nil, err
	}
	s.reader = reader
	return s, nil
}

func (s *Stream) Read() ([]byte, error) {
	if s.readTimeout > 0 {
		s.conn.SetReadDeadline(deadline(s.readTimeout))
	}
	payload, err := s.reader.Next()
	if err != nil {
		return nil, translate(err)
	}
	return payload, nil
}

func (s *Stream) Write(payload []byte) error {
	s.conn.SetWriteDeadline(deadline(s.writeTimeout))
	return translate(frame.Write(s.conn, payload))
}

func (s *Stream) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *Stream) Close() error {
	return s.conn.Close()
}
