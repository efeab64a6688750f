package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ambulance/internal/auth"
	"ambulance/internal/domain"
)

type stubParser map[string]domain.Identity

func (s stubParser) Parse(token string) (*domain.Identity, error) {
	identity, ok := s[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &identity, nil
}

func newTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		c.String(http.StatusOK, identity.ID)
	})
	r.POST("/x", handlers...)
	return r
}

func TestAuthenticate(t *testing.T) {
	tokens := stubParser{"good": {ID: "u-1", Role: domain.RoleUser}}
	r := newTestEngine(Authenticate(tokens))

	tests := []struct {
		name   string
		header string
		value  string
		want   int
		body   string
	}{
		{"no token", "", "", http.StatusUnauthorized, ""},
		{"bad token", auth.HeaderName, "nope", http.StatusUnauthorized, ""},
		{"auth token header", auth.HeaderName, "good", http.StatusOK, "u-1"},
		{"bearer fallback", "Authorization", "Bearer good", http.StatusOK, "u-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/x", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name     string
		identity *domain.Identity
		want     int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"wrong role", &domain.Identity{ID: "d-1", Role: domain.RoleDriver}, http.StatusForbidden},
		{"allowed role", &domain.Identity{ID: "u-1", Role: domain.RoleUser}, http.StatusOK},
		{"admin is not implied", &domain.Identity{ID: "a-1", Role: domain.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setter := func(c *gin.Context) {
				if tt.identity != nil {
					SetIdentity(c, *tt.identity)
				}
			}
			r := newTestEngine(setter, RequireRoles(domain.RoleUser))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestIdempotency_NilClientPassesThrough(t *testing.T) {
	calls := 0
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", IdempotencyMiddleware(nil, nil), func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set(idempotencyHeader, "same-key")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d", w.Code)
		}
		if w.Header().Get("Idempotent-Replayed") != "" {
			t.Error("nothing should be replayed without redis")
		}
	}
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}

func TestIsMutating(t *testing.T) {
	for method, want := range map[string]bool{
		http.MethodGet:    false,
		http.MethodPost:   true,
		http.MethodPut:    true,
		http.MethodPatch:  true,
		http.MethodDelete: true,
	} {
		if got := isMutating(method); got != want {
			t.Errorf("isMutating(%s) = %v, want %v", method, got, want)
		}
	}
}
