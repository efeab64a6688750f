package domain

// Role is the closed set of roles a session may hold.
type Role string

const (
	RoleUser   Role = "user"
	RoleDriver Role = "driver"
	RoleAdmin  Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleUser, RoleDriver, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDriver, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts a raw role string. Unknown values are rejected.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// Identity is an authenticated principal.
type Identity struct {
	ID   string
	Role Role
}
