package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/wtask/relay/internal/relay/frame"
	"github.com/wtask/relay/internal/relay/message"
)

// Client - relay client over TCP.
// Send methods are safe for concurrent use, Receive is expected to be called from single goroutine.
type Client struct {
	conn   net.Conn
	reader *frame.Reader
	mu     sync.Mutex
}

// Dial - connects to relay at address host:port.
func Dial(ctx context.Context, address string) (*Client, error) {
	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	c, err := New(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// New - builds client over established connection.
func New(conn net.Conn) (*Client, error) {
	if conn == nil {
		return nil, errors.New("client.New: connection is nil")
	}
	reader, err := frame.NewReader(conn)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, reader: reader}, nil
}

// Send - encodes and sends message as is.
func (c *Client) Send(m message.ChatMessage) error {
	payload, err := message.Marshal(m)
	if err != nil {
		return err
	}
	return c.SendRaw(payload)
}

// SendRaw - sends arbitrary payload within single frame.
func (c *Client) SendRaw(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return frame.Write(c.conn, payload)
}

// Say - sends chat message to destination, empty destination means broadcast.
func (c *Client) Say(destination, body string) error {
	m := message.New("", body)
	if destination != "" {
		m.Destination = destination
	}
	return c.Send(m)
}

// Command - sends command message.
func (c *Client) Command(cmd message.Command) error {
	m := message.New("", "")
	m.Command = cmd.String()
	return c.Send(m)
}

// Receive - blocks until next message. Returns io.EOF when server closed connection
// and *message.DecodeError when received payload is malformed.
func (c *Client) Receive() (message.ChatMessage, error) {
	payload, err := c.reader.Next()
	if err != nil {
		return message.ChatMessage{}, err
	}
	return message.Unmarshal(payload)
}

// SetReadDeadline - limits waiting of Receive.
func (c *Client) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

// LocalAddr - returns local network address of the client.
func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

func (c *Client) Close() error {
	return c.conn.Close()
}
