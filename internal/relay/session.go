package relay

import (
	"go.uber.org/zap"

	"github.com/wtask/relay/internal/relay/broker"
	"github.com/wtask/relay/internal/relay/message"
	"github.com/wtask/relay/internal/relay/transport"
)

// session - per-connection control loop.
// Lifecycle: register, welcome, read-dispatch loop, unregister and close exactly once.
type session struct {
	server *Server
	conn   transport.Conn
	peer   *broker.Peer
	addr   string
	logger *zap.Logger
}

func (s *Server) newSession(conn transport.Conn) *session {
	peer := broker.NewPeer(conn)
	return &session{
		server: s,
		conn:   conn,
		peer:   peer,
		addr:   peer.Addr(),
		logger: s.logger.With(zap.String("peer", peer.Addr())),
	}
}

func (ss *session) run() {
	if err := ss.server.clients.Register(ss.peer, ss.addr); err != nil {
		ss.logger.Info("client rejected", zap.Error(err))
		ss.peer.Close()
		return
	}
	reason := reasonLeft
	defer func() {
		ss.close(reason)
	}()

	ss.logger.Info("client connected")
	ss.notify(welcomeNotice(ss.addr))

	for {
		payload, err := ss.conn.Read()
		if err != nil {
			reason = readFailure(err)
			if ss.peer.Closed() && reason == reasonError {
				reason = reasonDropped
			}
			if reason == reasonError || reason == reasonOversized {
				ss.logger.Info("read failed", zap.Error(err))
			}
			return
		}
		if !ss.dispatch(payload) {
			reason = reasonQuit
			return
		}
	}
}

// dispatch - handles single payload, returns false when the session must be closed.
func (ss *session) dispatch(payload []byte) bool {
	msg, err := message.Unmarshal(payload)
	if err != nil {
		ss.logger.Warn("invalid payload dropped", zap.Error(err), zap.Int("size", len(payload)))
		return true
	}

	cmd := message.ParseCommand(msg.Command)
	switch cmd.Kind {
	case message.CommandNone:
		ss.forward(msg)
	case message.CommandWho:
		ss.notify(whoNotice(ss.server.clients.Names()))
	case message.CommandNick:
		if cmd.Arg == "" {
			ss.notify(nickUsageNotice())
			break
		}
		if ss.server.clients.Rename(ss.peer, cmd.Arg) {
			ss.logger.Info("alias changed", zap.String("alias", cmd.Arg))
			ss.notify(nickNotice(cmd.Arg))
		}
	case message.CommandQuit:
		return false
	default:
		ss.notify(helpNotice(cmd.Arg))
	}
	return true
}

// forward - routes chat message to its destination on behalf of current alias.
func (ss *session) forward(msg message.ChatMessage) {
	if ss.server.dedup != nil && ss.server.dedup.Seen(msg.MessageID) {
		ss.logger.Debug("duplicate message dropped", zap.String("message_id", msg.MessageID))
		return
	}
	out := message.ChatMessage{
		Sender:      ss.server.clients.Name(ss.peer, ss.addr),
		Body:        msg.Body,
		Timestamp:   msg.Timestamp,
		MessageID:   msg.MessageID,
		Destination: msg.Destination,
	}

	targets := broker.Resolve(msg.Destination, ss.server.clients.Snapshot())
	if len(targets) == 0 {
		ss.notify(notFoundNotice(msg.Destination))
		return
	}
	recipients := broker.Exclude(targets, ss.peer)
	if len(recipients) == 0 {
		return
	}

	payload, err := message.Marshal(out)
	if err != nil {
		ss.logger.Warn("can't encode message", zap.Error(err))
		return
	}
	report := broker.Deliver(recipients, payload)
	for p, err := range report.Failed {
		ss.logger.Debug("delivery failed", zap.String("target", p.Addr()), zap.Error(err))
	}
	ss.logger.Debug(
		"message forwarded",
		zap.String("alias", out.Sender),
		zap.String("destination", msg.Destination),
		zap.Int("targets", len(recipients)),
		zap.Int("delivered", len(report.Delivered)),
		zap.Time("sent", msg.Time()),
	)
}

// notify - sends informational message to own client only.
func (ss *session) notify(text string) {
	payload, err := message.Marshal(message.New(ss.server.name, text))
	if err != nil {
		ss.logger.Warn("can't encode notice", zap.Error(err))
		return
	}
	if err := ss.peer.Send(payload); err != nil {
		ss.logger.Debug("notice not delivered", zap.Error(err))
	}
}

func (ss *session) close(reason closeReason) {
	alias := ss.server.clients.Unregister(ss.peer, ss.addr)
	ss.peer.Close()
	ss.logger.Info("client disconnected", zap.String("alias", alias), zap.Stringer("reason", reason))
}
