package broker

import (
	"sort"
	"sync"
)

// Registry - live peers and their display names.
// Every operation holds the single lock only for map access, never for network I/O.
type Registry struct {
	mu     sync.Mutex
	list   map[*Peer]string
	closed bool
}

// NewRegistry - builds empty registry.
func NewRegistry() *Registry {
	return &Registry{
		list: make(map[*Peer]string),
	}
}

// Len - returns number of registered peers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.list)
}

// Register - adds peer with initial display name.
func (r *Registry) Register(p *Peer, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if _, ok := r.list[p]; ok {
		return ErrPeerKept
	}
	r.list[p] = name
	return nil
}

// Rename - updates display name of registered peer.
// Returns false and does nothing if the peer is gone already.
func (r *Registry) Rename(p *Peer, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.list[p]; !ok {
		return false
	}
	r.list[p] = name
	return true
}

// Name - returns current display name or fallback for unknown peer.
func (r *Registry) Name(p *Peer, fallback string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name, ok := r.list[p]; ok {
		return name
	}
	return fallback
}

// Unregister - removes peer and returns its last name, or fallback if the peer was unknown.
func (r *Registry) Unregister(p *Peer, fallback string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.list[p]
	if !ok {
		return fallback
	}
	delete(r.list, p)
	return name
}

// Snapshot - point-in-time copy of peers and names, safe to iterate while doing I/O.
func (r *Registry) Snapshot() map[*Peer]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make(map[*Peer]string, len(r.list))
	for p, name := range r.list {
		snapshot[p] = name
	}
	return snapshot
}

// Names - sorted distinct display names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	unique := make(map[string]struct{}, len(r.list))
	for _, name := range r.list {
		unique[name] = struct{}{}
	}
	r.mu.Unlock()

	names := make([]string, 0, len(unique))
	for name := range unique {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close - drains registry: refuses further registrations and closes all kept peers.
// Peers stay registered until their owners unregister them.
// Returns number of peers which were closed.
func (r *Registry) Close() int {
	r.mu.Lock()
	r.closed = true
	peers := make([]*Peer, 0, len(r.list))
	for p := range r.list {
		peers = append(peers, p)
	}
	r.mu.Unlock()

	for _, p := range peers {
		p.Close()
	}
	return len(peers)
}
