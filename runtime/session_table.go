package runtime

import (
	"sync"

	"chat-relay/contract"
)

type connection struct {
	sink     contract.EventSink
	username string
}

// SessionTable is the bidirectional mapping between transport
// connections and usernames. It is the single source of truth for who
// is online; every method takes the table lock so registrations,
// lookups and snapshots never observe a half-applied mutation.
type SessionTable struct {
	mu     sync.RWMutex
	conns  map[string]*connection
	byName map[string]string
	order  []string // usernames, first-registration order
}

func NewSessionTable() *SessionTable {
	return &SessionTable{
		conns:  make(map[string]*connection),
		byName: make(map[string]string),
	}
}

var _ contract.ISessionTable = (*SessionTable)(nil)

func (t *SessionTable) Attach(connID string, sink contract.EventSink) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conns[connID] = &connection{sink: sink}
}

// Register binds username to connID. A username already bound to a
// different connection is silently superseded: the old connection stays
// attached and keeps sending under its name, but is no longer
// addressable by it. A name previously held by connID is released.
func (t *SessionTable) Register(connID, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.conns[connID]
	if !ok {
		c = &connection{}
		t.conns[connID] = c
	}

	if c.username != "" && c.username != username && t.byName[c.username] == connID {
		delete(t.byName, c.username)
		t.removeFromOrder(c.username)
	}

	c.username = username
	t.byName[username] = connID
	if !t.inOrder(username) {
		t.order = append(t.order, username)
	}
}

// Detach removes the connection. The username is only freed when this
// connection still owns it; a superseded connection frees nothing.
func (t *SessionTable) Detach(connID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.conns[connID]
	if !ok {
		return "", false
	}
	delete(t.conns, connID)

	if c.username != "" && t.byName[c.username] == connID {
		delete(t.byName, c.username)
		t.removeFromOrder(c.username)
		return c.username, true
	}
	return "", false
}

func (t *SessionTable) Username(connID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.conns[connID]
	if !ok || c.username == "" {
		return "", false
	}
	return c.username, true
}

func (t *SessionTable) Resolve(username string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	connID, ok := t.byName[username]
	return connID, ok
}

func (t *SessionTable) SinkOf(connID string) (contract.EventSink, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.conns[connID]
	if !ok || c.sink == nil {
		return nil, false
	}
	return c.sink, true
}

// Snapshot returns the online usernames in first-registration order.
func (t *SessionTable) Snapshot() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Connections returns every attached connection id, registered or not.
func (t *SessionTable) Connections() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.conns))
	for id := range t.conns {
		out = append(out, id)
	}
	return out
}

// Sessions returns the connection ids owning a username, in the same
// order as Snapshot.
func (t *SessionTable) Sessions() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.order))
	for _, username := range t.order {
		if connID, ok := t.byName[username]; ok {
			out = append(out, connID)
		}
	}
	return out
}

func (t *SessionTable) inOrder(username string) bool {
	for _, u := range t.order {
		if u == username {
			return true
		}
	}
	return false
}

func (t *SessionTable) removeFromOrder(username string) {
	for i, u := range t.order {
		if u == username {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
