// Package session holds the authenticated identity for client-side components.
//
// The store is written only by the login flow. Everything else reads it through
// Provider, which is injected into the gate and the repositories.
package session

import (
	"errors"
	"sync"

	"ambulance/internal/auth"
	"ambulance/internal/domain"
)

var (
	// ErrAuthMissing is returned when an operation needs a session and none exists.
	ErrAuthMissing = errors.New("authentication required")

	// ErrIncompleteSession is returned when a token is set without an identity or vice versa.
	ErrIncompleteSession = errors.New("session requires both identity and token")
)

// Session pairs an identity with its token.
type Session struct {
	Identity domain.Identity
	Token    string
}

// Provider is read-only access to the current session.
type Provider interface {
	Current() (Session, bool)
}

// Require returns the current session or ErrAuthMissing.
func Require(p Provider) (Session, error) {
	if p == nil {
		return Session{}, ErrAuthMissing
	}
	s, ok := p.Current()
	if !ok || s.Token == "" || s.Identity.ID == "" {
		return Session{}, ErrAuthMissing
	}
	return s, nil
}

// Listener is notified after every session change. ok is false after logout.
type Listener func(s Session, ok bool)

// Store is the process-wide session holder.
type Store struct {
	mu        sync.RWMutex
	current   *Session
	listeners map[int]Listener
	nextID    int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Current returns a copy of the current session.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Set replaces the session. Both identity and token are required.
func (s *Store) Set(identity *domain.Identity, token string) error {
	if identity == nil || identity.ID == "" || token == "" {
		return ErrIncompleteSession
	}
	sess := Session{Identity: *identity, Token: token}

	s.mu.Lock()
	s.current = &sess
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(sess, true)
	}
	return nil
}

// SetToken decodes the identity from a login token and stores both.
func (s *Store) SetToken(token string) error {
	identity, err := auth.IdentityFromToken(token)
	if err != nil {
		return err
	}
	return s.Set(identity, token)
}

// Clear removes the session (logout or expiry).
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, l := range listeners {
		l(Session{}, false)
	}
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		out = append(out, l)
	}
	return out
}
