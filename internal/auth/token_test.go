package auth

import (
	"errors"
	"testing"
	"time"

	"ambulance/internal/domain"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(domain.Identity{ID: "driver-7", Role: domain.RoleDriver})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	identity, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if identity.ID != "driver-7" || identity.Role != domain.RoleDriver {
		t.Errorf("unexpected identity %+v", identity)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	token, _ := NewTokenService("secret", time.Hour).Issue(domain.Identity{ID: "u-1", Role: domain.RoleUser})

	_, err := NewTokenService("other", time.Hour).Parse(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _ := svc.Issue(domain.Identity{ID: "u-1", Role: domain.RoleUser})

	_, err := NewTokenService("secret", time.Minute).Parse(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenService_IssueRequiresSubject(t *testing.T) {
	_, err := NewTokenService("secret", time.Hour).Issue(domain.Identity{Role: domain.RoleAdmin})
	if !errors.Is(err, ErrMissingSubject) {
		t.Errorf("expected ErrMissingSubject, got %v", err)
	}
}

func TestIdentityFromToken_KeepsUnknownRole(t *testing.T) {
	token, _ := NewTokenService("secret", time.Hour).Issue(domain.Identity{ID: "u-1", Role: "superuser"})

	identity, err := IdentityFromToken(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if identity.Role.Valid() {
		t.Error("expected unknown role to be preserved as invalid")
	}
}

func TestIdentityFromToken_Garbage(t *testing.T) {
	if _, err := IdentityFromToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
