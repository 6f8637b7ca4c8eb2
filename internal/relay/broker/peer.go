package broker

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/wtask/relay/internal/relay/transport"
)

// Peer - server side handle of single client connection.
// Writes are serialized, so concurrent senders never interleave payloads.
type Peer struct {
	conn transport.Conn
	addr string

	mu     sync.Mutex
	closed atomic.Bool
	once   sync.Once
}

// NewPeer - wraps transport connection.
func NewPeer(conn transport.Conn) *Peer {
	return &Peer{conn: conn, addr: peerAddress(conn.RemoteAddr())}
}

// Addr - raw peer address, the host part of remote address.
func (p *Peer) Addr() string {
	return p.addr
}

// Send - writes payload to the peer.
// Any write failure closes the peer, so its own reader notices it and cleans up.
func (p *Peer) Send(payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed.Load() {
		return ErrPeerClosed
	}
	if err := p.conn.Write(payload); err != nil {
		p.Close()
		return err
	}
	return nil
}

// Close - closes underlying connection once. Safe to call from any goroutine,
// a write in progress is interrupted.
func (p *Peer) Close() error {
	p.closed.Store(true)
	var err error
	p.once.Do(func() {
		err = p.conn.Close()
	})
	return err
}

// Closed - reports whether the peer was closed.
func (p *Peer) Closed() bool {
	return p.closed.Load()
}

func peerAddress(a net.Addr) string {
	if a == nil {
		return ""
	}
	s := a.String()
	if host, _, err := net.SplitHostPort(s); err == nil {
		return host
	}
	return s
}
