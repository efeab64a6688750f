package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ambulance/internal/domain"
)

// HeaderName is the request header carrying the session token.
const HeaderName = "x-auth-token"

const issuer = "ambulance"

var (
	// ErrInvalidToken is returned when a token cannot be parsed or verified.
	ErrInvalidToken = errors.New("invalid auth token")

	// ErrMissingSubject is returned when a token carries no user id.
	ErrMissingSubject = errors.New("auth token has no subject")
)

// Claims is the JWT payload of a session token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the given identity.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	if identity.ID == "" {
		return "", ErrMissingSubject
	}
	now := s.now()
	claims := &Claims{
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   identity.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token signature and expiry and returns its identity.
// The role is returned verbatim; callers decide whether it is acceptable.
func (s *TokenService) Parse(tokenString string) (*domain.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.identity()
}

// IdentityFromToken decodes the identity carried by a token without verifying it.
// Clients use it to learn who they are; the server never trusts it.
func IdentityFromToken(tokenString string) (*domain.Identity, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.identity()
}

func (c *Claims) identity() (*domain.Identity, error) {
	if c.Subject == "" {
		return nil, ErrMissingSubject
	}
	return &domain.Identity{ID: c.Subject, Role: domain.Role(c.Role)}, nil
}
