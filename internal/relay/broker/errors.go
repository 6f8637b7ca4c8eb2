package broker

import "errors"

var (
	// ErrClosed - returns in case if Registry is drained
	// and will not accept any new peers, so you should close such peer by your own.
	ErrClosed = errors.New("broker.Registry: closed")

	// ErrPeerKept - returns in case if peer is registered already.
	ErrPeerKept = errors.New("broker.Registry: peer is kept already")

	// ErrPeerClosed - returns on write to closed peer.
	ErrPeerClosed = errors.New("broker.Peer: closed")
)
