package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ambulance/internal/access"
	"ambulance/internal/auth"
	"ambulance/internal/domain"
)

const identityKey = "identity"

// TokenParser verifies a token and returns its identity.
type TokenParser interface {
	Parse(token string) (*domain.Identity, error)
}

type errorBody struct {
	Error string `json:"error"`
}

// Authenticate resolves the x-auth-token header into an identity.
// A bearer Authorization header is accepted as a fallback.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(auth.HeaderName)
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "authentication required"})
			return
		}

		identity, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid or expired token"})
			return
		}

		c.Set(identityKey, *identity)
		c.Next()
	}
}

// RequireRoles applies the access gate to a route group: 401 when there is no
// identity, 403 when the role is not allowed.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := access.NewRoleSet(roles...)
	return func(c *gin.Context) {
		var current *domain.Identity
		if identity, ok := IdentityFrom(c); ok {
			current = &identity
		}

		decision := access.Authorize(current, allowed)
		if decision.Allowed() {
			c.Next()
			return
		}
		if decision.Redirect == access.LandingPath {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "authentication required"})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Error: "requires role " + allowed.String()})
	}
}

// IdentityFrom returns the identity set by Authenticate.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}

// SetIdentity stores an identity on the context.
func SetIdentity(c *gin.Context, identity domain.Identity) {
	c.Set(identityKey, identity)
}
