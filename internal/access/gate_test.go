package access

import (
	"testing"
	"time"

	"ambulance/internal/domain"
	"ambulance/internal/session"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		identity *domain.Identity
		allowed  RoleSet
		want     Decision
	}{
		{
			name:     "no identity goes to landing",
			identity: nil,
			allowed:  NewRoleSet(domain.RoleUser),
			want:     RedirectTo(LandingPath),
		},
		{
			name:     "driver outside user/admin subtree",
			identity: &domain.Identity{ID: "d-1", Role: domain.RoleDriver},
			allowed:  NewRoleSet(domain.RoleUser, domain.RoleAdmin),
			want:     RedirectTo(UnauthorizedPath),
		},
		{
			name:     "role alone is judged by role",
			identity: &domain.Identity{Role: domain.RoleDriver},
			allowed:  NewRoleSet(domain.RoleUser, domain.RoleAdmin),
			want:     RedirectTo(UnauthorizedPath),
		},
		{
			name:     "admin inside admin subtree",
			identity: &domain.Identity{ID: "a-1", Role: domain.RoleAdmin},
			allowed:  NewRoleSet(domain.RoleAdmin),
			want:     Allow(),
		},
		{
			name:     "unknown role is never allowed",
			identity: &domain.Identity{ID: "x-1", Role: "superuser"},
			allowed:  RoleSet{"superuser": {}},
			want:     RedirectTo(UnauthorizedPath),
		},
		{
			name:     "empty role is never allowed",
			identity: &domain.Identity{ID: "x-1"},
			allowed:  NewRoleSet(domain.Roles...),
			want:     RedirectTo(UnauthorizedPath),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.identity, tt.allowed); got != tt.want {
				t.Errorf("Authorize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTableResolve(t *testing.T) {
	table := DefaultTable()
	user := &domain.Identity{ID: "u-1", Role: domain.RoleUser}
	driver := &domain.Identity{ID: "d-1", Role: domain.RoleDriver}

	tests := []struct {
		path     string
		identity *domain.Identity
		allowed  bool
		redirect string
	}{
		{"/", nil, true, ""},
		{"/about", nil, true, ""},
		{"/user/bookings", nil, false, LandingPath},
		{"/user/bookings", user, true, ""},
		{"/user/bookings?status=completed", user, true, ""},
		{"/driver/", driver, true, ""},
		{"/driver/trips", user, false, UnauthorizedPath},
		{"/admin", driver, false, UnauthorizedPath},
		{"/userprofile", nil, true, ""},
		{"user/dashboard", user, true, ""},
	}

	for _, tt := range tests {
		d := table.Resolve(tt.path, tt.identity)
		if d.Allowed() != tt.allowed || d.Redirect != tt.redirect {
			t.Errorf("Resolve(%q) = %+v, want allowed=%v redirect=%q", tt.path, d, tt.allowed, tt.redirect)
		}
	}
}

func TestDashboardPath_OnePerRole(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range domain.Roles {
		p, ok := DashboardPath(r)
		if !ok {
			t.Fatalf("no dashboard for %s", r)
		}
		if seen[p] {
			t.Errorf("dashboard %s shared between roles", p)
		}
		seen[p] = true
		if !DefaultTable().Resolve(p, &domain.Identity{ID: "x", Role: r}).Allowed() {
			t.Errorf("role %s cannot reach its own dashboard %s", r, p)
		}
	}
	if _, ok := DashboardPath("patient"); ok {
		t.Error("expected no dashboard for unknown role")
	}
}

func TestNavigator_ReevaluatesOnSessionChange(t *testing.T) {
	store := session.NewStore()
	_ = store.Set(&domain.Identity{ID: "u-1", Role: domain.RoleUser}, "tok")

	var last string
	nav := NewNavigator(DefaultTable(), store, "/", func(p string, _ Decision) { last = p })
	stop := nav.Watch(store)
	defer stop()

	if d := nav.Navigate("/user/bookings"); !d.Allowed() {
		t.Fatalf("expected allow, got %+v", d)
	}

	store.Clear()
	if nav.Path() != LandingPath || last != LandingPath {
		t.Errorf("expected redirect to landing after logout, got path=%s last=%s", nav.Path(), last)
	}
}

func TestNavigator_RoleChangeRedirectsToUnauthorized(t *testing.T) {
	store := session.NewStore()
	_ = store.Set(&domain.Identity{ID: "u-1", Role: domain.RoleUser}, "tok")

	nav := NewNavigator(DefaultTable(), store, "/user/contacts", nil)
	stop := nav.Watch(store)
	defer stop()
	nav.Refresh()

	_ = store.Set(&domain.Identity{ID: "u-1", Role: domain.RoleDriver}, "tok2")
	if nav.Path() != UnauthorizedPath {
		t.Errorf("expected %s, got %s", UnauthorizedPath, nav.Path())
	}
	if nav.Home() != "/driver/dashboard" {
		t.Errorf("unexpected home %s", nav.Home())
	}
}

func TestNavigator_CallbackMayUseNavigator(t *testing.T) {
	store := session.NewStore()
	_ = store.Set(&domain.Identity{ID: "d-1", Role: domain.RoleDriver}, "tok")

	var nav *Navigator
	var seen []string
	nav = NewNavigator(DefaultTable(), store, "/", func(p string, d Decision) {
		seen = append(seen, nav.Path())
		if p == UnauthorizedPath {
			nav.Navigate(nav.Home())
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		nav.Navigate("/user/bookings")
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("onChange calling back into the navigator deadlocked")
	}

	if nav.Path() != "/driver/dashboard" {
		t.Errorf("path = %s, want /driver/dashboard", nav.Path())
	}
	if len(seen) != 2 || seen[0] != UnauthorizedPath {
		t.Errorf("callbacks saw %v", seen)
	}
}
