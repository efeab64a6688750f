// Package access decides which route subtrees a session may reach.
package access

import (
	"strings"

	"ambulance/internal/domain"
)

const (
	// LandingPath is where unauthenticated sessions are sent.
	LandingPath = "/login"

	// UnauthorizedPath is where sessions with the wrong role are sent.
	UnauthorizedPath = "/unauthorized"
)

// Outcome is the kind of gate decision.
type Outcome int

const (
	OutcomeRedirect Outcome = iota
	OutcomeAllow
)

// Decision is the result of authorizing a route.
type Decision struct {
	Outcome Outcome
	// Redirect is set when Outcome is OutcomeRedirect.
	Redirect string
}

// Allowed reports whether the route may render.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// Allow returns an allow decision.
func Allow() Decision {
	return Decision{Outcome: OutcomeAllow}
}

// RedirectTo returns a redirect decision.
func RedirectTo(path string) Decision {
	return Decision{Outcome: OutcomeRedirect, Redirect: path}
}

// RoleSet is the set of roles allowed into a protected subtree.
type RoleSet map[domain.Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether r is in the set. Unknown roles are never contained.
func (s RoleSet) Contains(r domain.Role) bool {
	if !r.Valid() {
		return false
	}
	_, ok := s[r]
	return ok
}

// String renders the set for error messages.
func (s RoleSet) String() string {
	names := make([]string, 0, len(s))
	for _, r := range domain.Roles {
		if _, ok := s[r]; ok {
			names = append(names, string(r))
		}
	}
	return strings.Join(names, " or ")
}

// Authorize decides whether identity may enter a subtree guarded by allowed.
// A nil identity is unauthenticated. Pairing an identity with its id and token
// is the session's job, so only the role is checked here.
func Authorize(identity *domain.Identity, allowed RoleSet) Decision {
	if identity == nil {
		return RedirectTo(LandingPath)
	}
	if !allowed.Contains(identity.Role) {
		return RedirectTo(UnauthorizedPath)
	}
	return Allow()
}

// DashboardPath returns the single dashboard subtree for a role.
func DashboardPath(r domain.Role) (string, bool) {
	switch r {
	case domain.RoleUser:
		return "/user/dashboard", true
	case domain.RoleDriver:
		return "/driver/dashboard", true
	case domain.RoleAdmin:
		return "/admin/dashboard", true
	default:
		return "", false
	}
}
