package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wtask/relay/internal/relay/frame"
)

// Websocket - Conn where every websocket data message carries exactly one payload.
type Websocket struct {
	conn *websocket.Conn
	settings
}

// NewWebsocket - wraps upgraded websocket connection.
func NewWebsocket(conn *websocket.Conn, options ...Option) (*Websocket, error) {
	if conn == nil {
		return nil, errors.New("transport.NewWebsocket: websocket connection is nil")
	}
	w := &Websocket{conn: conn, settings: defaultSettings()}
	if err := setup(&w.settings, options...); err != nil {
		return nil, err
	}
	if w.maxSize > 0 {
		conn.SetReadLimit(int64(w.maxSize))
	}
	return w, nil
}

func (w *Websocket) Read() ([]byte, error) {
	for {
		if w.readTimeout > 0 {
			w.conn.SetReadDeadline(deadline(w.readTimeout))
		}
		kind, payload, err := w.conn.ReadMessage()
		if err != nil {
			return nil, w.translate(err)
		}
		if kind != websocket.BinaryMessage && kind != websocket.TextMessage {
			continue
		}
		if payload == nil {
			payload = []byte{}
		}
		return payload, nil
	}
}

func (w *Websocket) Write(payload []byte) error {
	w.conn.SetWriteDeadline(deadline(w.writeTimeout))
	return translate(w.conn.WriteMessage(websocket.BinaryMessage, payload))
}

func (w *Websocket) RemoteAddr() net.Addr {
	return w.conn.RemoteAddr()
}

// Close - tries to say goodbye with close frame and releases the connection.
func (w *Websocket) Close() error {
	w.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return w.conn.Close()
}

func (w *Websocket) translate(err error) error {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		return fmt.Errorf("%w: websocket message over %d", frame.ErrTooLarge, w.maxSize)
	case websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure,
	):
		return io.EOF
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return io.EOF
	}
	return translate(err)
}
