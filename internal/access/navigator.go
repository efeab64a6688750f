package access

import (
	"sync"

	"ambulance/internal/domain"
	"ambulance/internal/session"
)

// Navigator tracks the current route and re-runs the gate on every route
// change and every session change. Decisions are never cached.
type Navigator struct {
	table    Table
	sessions session.Provider

	mu       sync.Mutex
	path     string
	onChange func(path string, d Decision)
}

// SessionSource is a session provider that can notify about changes.
type SessionSource interface {
	session.Provider
	Subscribe(session.Listener) func()
}

// NewNavigator creates a navigator starting at path. onChange receives the
// effective location after every evaluation and may be nil.
func NewNavigator(table Table, sessions session.Provider, path string, onChange func(string, Decision)) *Navigator {
	return &Navigator{
		table:    table,
		sessions: sessions,
		path:     path,
		onChange: onChange,
	}
}

// Watch re-evaluates the current route whenever src reports a session change.
// It returns a function that stops watching.
func (n *Navigator) Watch(src SessionSource) func() {
	return src.Subscribe(func(session.Session, bool) {
		n.Refresh()
	})
}

// Navigate moves to path, following at most one redirect.
func (n *Navigator) Navigate(path string) Decision {
	n.mu.Lock()
	n.path = path
	n.mu.Unlock()
	return n.Refresh()
}

// Refresh re-evaluates the current path against the current session.
// onChange runs after the lock is released, so it may call back into n.
func (n *Navigator) Refresh() Decision {
	n.mu.Lock()
	d := n.table.Resolve(n.path, n.identity())
	if !d.Allowed() {
		n.path = d.Redirect
	}
	path := n.path
	n.mu.Unlock()

	if n.onChange != nil {
		n.onChange(path, d)
	}
	return d
}

// Path returns the current effective path.
func (n *Navigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Home returns the dashboard for the current session, or the landing path.
func (n *Navigator) Home() string {
	id := n.identity()
	if id == nil {
		return LandingPath
	}
	if p, ok := DashboardPath(id.Role); ok {
		return p
	}
	return UnauthorizedPath
}

func (n *Navigator) identity() *domain.Identity {
	s, err := session.Require(n.sessions)
	if err != nil {
		return nil
	}
	id := s.Identity
	return &id
}
