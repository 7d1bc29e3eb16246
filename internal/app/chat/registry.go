/*
Package chat implements the live channel: the session registry, the shared
broadcast room (Hub), the per-connection Client, and the event protocol
spoken over WebSocket.
*/
package chat

import "sync"

// Registry maps authenticated user IDs to their active connection. It is
// process-local and unbounded: the broadcast room is the primary delivery
// path, direct lookup only serves best-effort private delivery and presence.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Bind records c as the user's active connection and returns the connection
// it displaced, if any. A user opening a second connection overwrites the
// first; the caller is expected to kick the displaced one.
func (r *Registry) Bind(userID string, c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	displaced := r.clients[userID]
	if displaced == c {
		displaced = nil
	}
	r.clients[userID] = c
	return displaced
}

// Unbind removes c if it is still the user's current connection. Stale
// unbinds (a kicked connection cleaning up after its replacement bound) are
// ignored. Idempotent.
func (r *Registry) Unbind(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.clients[c.user.ID]
	if !ok || current != c {
		return false
	}
	delete(r.clients, c.user.ID)
	return true
}

// Lookup returns the user's active connection, or nil when offline.
func (r *Registry) Lookup(userID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[userID]
}

// ActiveUsers returns the identities of everyone currently connected, trimmed
// to what other clients may see. Emails and the rest of the account record
// stay server-side.
func (r *Registry) ActiveUsers() []PresencePayload {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]PresencePayload, 0, len(r.clients))
	for _, c := range r.clients {
		users = append(users, PresencePayload{
			UserID: c.user.ID,
			Name:   c.user.Name,
			Avatar: c.user.Avatar,
		})
	}
	return users
}

// Len reports the number of active connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// each calls fn for every active connection while holding the read lock.
func (r *Registry) each(fn func(c *Client)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		fn(c)
	}
}
