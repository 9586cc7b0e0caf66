package realtime

import (
	"sync"

	"github.com/Gaurav220900/Social/pkg/log"
)

// Conn is one live realtime connection handle. The concrete transport is
// *Client; tests substitute fakes.
type Conn interface {
	ID() string
	Send(data []byte) error
	Session() *Session
}

// Registry maps user ids to their live connections. It is the single owner
// of presence state: in-memory only, cleared by process restart, never
// shared across processes. A connection belongs to at most one user entry.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]map[string]Conn
	owners map[string]string // connection id -> user id
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]map[string]Conn),
		owners: make(map[string]string),
	}
}

// Register adds conn under userID. Registering the same connection for the
// same user again is a no-op. If the connection was registered under a
// different user it is moved.
func (r *Registry) Register(userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	if prev, ok := r.owners[connID]; ok {
		if prev == userID {
			return
		}
		r.removeLocked(prev, connID)
	}

	conns, ok := r.byUser[userID]
	if !ok {
		conns = make(map[string]Conn)
		r.byUser[userID] = conns
	}
	conns[connID] = conn
	r.owners[connID] = userID

	l := log.L()
	l.Debug().Str(log.FieldUserID, userID).Str(log.FieldConnID, connID).Int("connections", len(conns)).Msg("connection registered")
}

// Unregister removes the connection by its id, pruning the user entry when
// it becomes empty. Unknown ids are a no-op.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owners[connID]
	if !ok {
		return
	}
	r.removeLocked(userID, connID)

	l := log.L()
	l.Debug().Str(log.FieldUserID, userID).Str(log.FieldConnID, connID).Msg("connection unregistered")
}

func (r *Registry) removeLocked(userID, connID string) {
	delete(r.owners, connID)
	if conns, ok := r.byUser[userID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.byUser, userID)
		}
	}
}

// ConnectionsFor returns a snapshot of the user's live connections, possibly
// empty. Zero connections means offline, not an error.
func (r *Registry) ConnectionsFor(userID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns, ok := r.byUser[userID]
	if !ok {
		return nil
	}
	out := make([]Conn, 0, len(conns))
	for _, c := range conns {
		out = append(out, c)
	}
	return out
}

// Online reports whether the user has at least one live connection.
func (r *Registry) Online(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// HasConversationOpen reports whether any of userID's live sessions has the
// conversation with partnerID open.
func (r *Registry) HasConversationOpen(userID, partnerID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byUser[userID] {
		if s := c.Session(); s != nil && s.HasOpen(partnerID) {
			return true
		}
	}
	return false
}

// All returns a snapshot of every live connection.
func (r *Registry) All() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Conn, 0, len(r.owners))
	for _, conns := range r.byUser {
		for _, c := range conns {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of live connections across all users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.owners)
}
