package relay

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wtask/relay/internal/relay/broker"
	"github.com/wtask/relay/internal/relay/frame"
	"github.com/wtask/relay/internal/relay/history"
	"github.com/wtask/relay/internal/relay/transport"
	"github.com/wtask/relay/pkg/background"
)

const recentOnShutdown = 10

// ErrServerClosed - returns when server is shut down and does not accept connections anymore.
var ErrServerClosed = errors.New("relay.Server: closed")

// Server - text message relay over any number of listeners.
// Every accepted connection gets own session, sessions share single registry.
type Server struct {
	scope   *background.Scope
	clients *broker.Registry
	logger  *zap.Logger

	readTimeout, writeTimeout time.Duration
	maxFrameSize              uint32
	dedup                     *history.Window
	name                      string

	upgrader websocket.Upgrader
}

// NewServer - creates new relay which ready to serve several listeners.
func NewServer(options ...Option) (*Server, error) {
	scope, _ := background.NewScope()
	s := &Server{
		scope:        scope,
		clients:      broker.NewRegistry(),
		logger:       zap.NewNop(),
		readTimeout:  0,
		writeTimeout: 10 * time.Second,
		maxFrameSize: frame.DefaultMaxSize,
		name:         "server",
	}
	if err := setup(s, options...); err != nil {
		return nil, err
	}
	return s, nil
}

// Serve - accepts connections on listener until server shutdown.
// Accept errors are logged and retried; the error is returned only if the listener was closed by somebody else.
func (s *Server) Serve(listener net.Listener) error {
	if listener == nil {
		return errors.New("relay.Server: listener is nil")
	}
	if !s.scope.Go(func(ctx context.Context) {
		<-ctx.Done()
		listener.Close()
	}) {
		return ErrServerClosed
	}

	s.logger.Info("listen", zap.String("addr", listener.Addr().String()))
	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.scope.Context().Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			delay = backoff(delay)
			s.logger.Warn("accept failed", zap.Error(err), zap.Duration("retry", delay))
			time.Sleep(delay)
			continue
		}
		delay = 0

		if err := s.ServeConn(conn); err != nil {
			s.logger.Info("connection refused", zap.String("peer", conn.RemoteAddr().String()), zap.Error(err))
		}
	}
}

// ServeConn - starts session over stream connection in background.
// On error the connection is closed already.
func (s *Server) ServeConn(conn net.Conn) error {
	t, err := transport.NewStream(conn, s.transportOptions()...)
	if err != nil {
		conn.Close()
		return err
	}
	return s.keep(t)
}

// WebsocketHandler - upgrades http requests into websocket sessions.
// Every websocket message is handled as single payload.
func (s *Server) WebsocketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.scope.Context().Err() != nil {
			http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
			return
		}
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Info("websocket upgrade failed", zap.String("peer", r.RemoteAddr), zap.Error(err))
			return
		}
		t, err := transport.NewWebsocket(conn, s.transportOptions()...)
		if err != nil {
			conn.Close()
			s.logger.Warn("websocket transport", zap.Error(err))
			return
		}
		if err := s.keep(t); err != nil {
			s.logger.Info("connection refused", zap.String("peer", r.RemoteAddr), zap.Error(err))
		}
	})
}

// Shutdown - stops listeners, drops all clients and waits for sessions at most timeout.
// Returns duration of time spent for shutdown.
func (s *Server) Shutdown(timeout time.Duration) time.Duration {
	from := time.Now()
	if s.scope.Context().Err() != nil {
		return 0
	}
	s.scope.Stop()
	n := s.clients.Close()
	if !s.scope.Wait(timeout) {
		s.logger.Warn("shutdown timeout, some sessions are still running", zap.Duration("timeout", timeout))
	}
	fields := []zap.Field{zap.Int("dropped", n), zap.Duration("spent", time.Since(from))}
	if s.dedup != nil {
		fields = append(fields, zap.Int("dedup_ids", s.dedup.Len()), zap.Strings("recent_ids", s.RecentIDs(recentOnShutdown)))
	}
	s.logger.Info("shutdown", fields...)
	return time.Since(from)
}

// RecentIDs - returns at most n last message ids remembered by dedup window, the oldest first.
// Returns nil when dedup is disabled.
func (s *Server) RecentIDs(n int) []string {
	if s.dedup == nil {
		return nil
	}
	return s.dedup.Tail(n)
}

func (s *Server) keep(conn transport.Conn) error {
	if !s.scope.Go(func(context.Context) {
		s.newSession(conn).run()
	}) {
		conn.Close()
		return ErrServerClosed
	}
	return nil
}

func (s *Server) transportOptions() []transport.Option {
	return []transport.Option{
		transport.WithReadTimeout(s.readTimeout),
		transport.WithWriteTimeout(s.writeTimeout),
		transport.WithMaxSize(s.maxFrameSize),
	}
}

func backoff(delay time.Duration) time.Duration {
	if delay == 0 {
		return 5 * time.Millisecond
	}
	if delay *= 2; delay > time.Second {
		return time.Second
	}
	return delay
}
