package access

import (
	"strings"

	"ambulance/internal/domain"
)

// Route guards every path under Prefix with a role set.
type Route struct {
	Prefix  string
	Allowed RoleSet
}

func (r Route) matches(path string) bool {
	return path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/")
}

// Table is an ordered list of protected subtrees. Paths that match none are public.
type Table []Route

// DefaultTable is the application's route layout.
func DefaultTable() Table {
	return Table{
		{Prefix: "/user", Allowed: NewRoleSet(domain.RoleUser)},
		{Prefix: "/driver", Allowed: NewRoleSet(domain.RoleDriver)},
		{Prefix: "/admin", Allowed: NewRoleSet(domain.RoleAdmin)},
	}
}

// Resolve returns the decision for path. The first matching subtree wins.
func (t Table) Resolve(path string, identity *domain.Identity) Decision {
	path = normalizePath(path)
	for _, route := range t {
		if route.matches(path) {
			return Authorize(identity, route.Allowed)
		}
	}
	return Allow()
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
