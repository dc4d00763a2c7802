package ws

import "sync"

// Role classifies a support-channel connection. It is derived once at
// connect time and cached for the lifetime of the connection.
type Role int8

const (
	RoleRegular Role = iota
	RoleOperator
)

// Sender pushes one event to a live connection. The push is best-effort:
// implementations must not block and report false when the event was
// dropped.
type Sender interface {
	Send(v any) bool
}

// Entry is one live connection known to a Registry.
type Entry struct {
	ConnID string
	UserID string
	Role   Role

	sender Sender
}

// Send pushes an event to the entry's connection.
func (e *Entry) Send(v any) bool {
	if e.sender == nil {
		return false
	}
	return e.sender.Send(v)
}

// Registry is the authoritative in-memory mapping of live connections to
// user identity for one socket channel. It is process-local: it starts
// empty and is rebuilt purely from connect events. A user may hold any
// number of simultaneous connections.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*Entry
	byUser map[string]map[string]*Entry
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*Entry),
		byUser: make(map[string]map[string]*Entry),
	}
}

// Register adds a connection. Registering an already-known connection id
// is a no-op, so reconnect races on the same id cannot produce duplicate
// entries.
func (r *Registry) Register(connID, userID string, role Role, s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byConn[connID]; ok {
		return
	}
	e := &Entry{ConnID: connID, UserID: userID, Role: role, sender: s}
	r.byConn[connID] = e
	if _, ok := r.byUser[userID]; !ok {
		r.byUser[userID] = make(map[string]*Entry)
	}
	r.byUser[userID][connID] = e
}

// Unregister removes a connection. Unknown ids are a no-op.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	if set, ok := r.byUser[e.UserID]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.byUser, e.UserID)
		}
	}
}

// Lookup returns the entry registered for a connection id.
func (r *Registry) Lookup(connID string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byConn[connID]
	return e, ok
}

// ConnectionsByUser returns every live connection of a user. The slice is
// empty when the user is offline.
func (r *Registry) ConnectionsByUser(userID string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.byUser[userID]
	if !ok {
		return nil
	}
	out := make([]*Entry, 0, len(set))
	for _, e := range set {
		out = append(out, e)
	}
	return out
}

// OperatorConnection returns the first registered operator connection.
func (r *Registry) OperatorConnection() (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.byConn {
		if e.Role == RoleOperator {
			return e, true
		}
	}
	return nil, false
}

// Count reports the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
