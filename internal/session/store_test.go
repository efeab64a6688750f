package session

import (
	"errors"
	"testing"
	"time"

	"ambulance/internal/auth"
	"ambulance/internal/domain"
)

func TestStore_SetRequiresIdentityAndToken(t *testing.T) {
	s := NewStore()

	if err := s.Set(nil, "token"); !errors.Is(err, ErrIncompleteSession) {
		t.Errorf("expected ErrIncompleteSession for nil identity, got %v", err)
	}
	if err := s.Set(&domain.Identity{ID: "u-1", Role: domain.RoleUser}, ""); !errors.Is(err, ErrIncompleteSession) {
		t.Errorf("expected ErrIncompleteSession for empty token, got %v", err)
	}
	if _, ok := s.Current(); ok {
		t.Error("store should still be empty")
	}
}

func TestRequire(t *testing.T) {
	s := NewStore()
	if _, err := Require(s); !errors.Is(err, ErrAuthMissing) {
		t.Fatalf("expected ErrAuthMissing, got %v", err)
	}
	if _, err := Require(nil); !errors.Is(err, ErrAuthMissing) {
		t.Fatalf("expected ErrAuthMissing for nil provider, got %v", err)
	}

	_ = s.Set(&domain.Identity{ID: "u-1", Role: domain.RoleUser}, "tok")
	sess, err := Require(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Identity.ID != "u-1" || sess.Token != "tok" {
		t.Errorf("unexpected session %+v", sess)
	}
}

func TestStore_NotifiesListeners(t *testing.T) {
	s := NewStore()
	var events []bool
	unsubscribe := s.Subscribe(func(_ Session, ok bool) { events = append(events, ok) })

	_ = s.Set(&domain.Identity{ID: "u-1", Role: domain.RoleUser}, "tok")
	s.Clear()
	unsubscribe()
	_ = s.Set(&domain.Identity{ID: "u-2", Role: domain.RoleUser}, "tok")

	if len(events) != 2 || !events[0] || events[1] {
		t.Errorf("unexpected events %v", events)
	}
}

func TestStore_SetToken(t *testing.T) {
	token, err := auth.NewTokenService("secret", time.Hour).Issue(domain.Identity{ID: "admin-1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	s := NewStore()
	if err := s.SetToken(token); err != nil {
		t.Fatalf("set token: %v", err)
	}
	sess, _ := s.Current()
	if sess.Identity.Role != domain.RoleAdmin || sess.Token != token {
		t.Errorf("unexpected session %+v", sess)
	}
}
