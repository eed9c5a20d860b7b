/*
Package realtime implements the WebSocket messaging gateway: the per-connection
auth handshake, message routing through the message service and the registry of
connections that can currently receive live pushes.
*/
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"talentx/internal/app/user"
	"talentx/internal/pkg/logx"
)

// Conn is a live connection that can receive encoded envelopes.
type Conn interface {
	// Push queues payload for delivery and reports whether it was accepted.
	// It must not block.
	Push(payload []byte) bool
}

type registration struct {
	role user.Role
	conn Conn
}

// Registry maps authenticated user ids to their current connection. One user has
// at most one routable connection; the most recent registration wins.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
	logger  zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]registration),
		logger:  logx.Component("registry"),
	}
}

// Register maps userID to c and returns the connection it replaced, if any.
func (r *Registry) Register(userID string, role user.Role, c Conn) (replaced Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.entries[userID]; ok && prev.conn != c {
		replaced = prev.conn
	}
	r.entries[userID] = registration{role: role, conn: c}

	r.logger.Debug().
		Str("user_id", userID).
		Str("role", string(role)).
		Bool("replaced", replaced != nil).
		Msg("Connection registered.")

	return replaced
}

// Unregister removes userID if it is still mapped to c. A connection that was
// replaced by a newer one therefore cannot remove its successor.
func (r *Registry) Unregister(userID string, c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.entries[userID]
	if !ok || current.conn != c {
		return false
	}

	delete(r.entries, userID)
	r.logger.Debug().Str("user_id", userID).Msg("Connection unregistered.")
	return true
}

// Lookup returns the connection registered for userID.
func (r *Registry) Lookup(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[userID]
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// ForEach calls fn for every registration in a snapshot taken under the read
// lock. fn runs without the lock held and may call back into the registry.
func (r *Registry) ForEach(fn func(userID string, role user.Role, c Conn)) {
	type item struct {
		id string
		registration
	}

	r.mu.RLock()
	snapshot := make([]item, 0, len(r.entries))
	for id, e := range r.entries {
		snapshot = append(snapshot, item{id: id, registration: e})
	}
	r.mu.RUnlock()

	for _, it := range snapshot {
		fn(it.id, it.role, it.conn)
	}
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
