package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"ambulance/internal/domain"
	"ambulance/internal/session"
	"ambulance/internal/wire"
)

func newSession(t *testing.T) *session.Store {
	t.Helper()
	s := session.NewStore()
	if err := s.Set(&domain.Identity{ID: "u-1", Role: domain.RoleUser}, "tok-123"); err != nil {
		t.Fatalf("set session: %v", err)
	}
	return s
}

func TestClient_RequiresSessionBeforeSending(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	c := New(srv.URL, session.NewStore())
	if _, err := c.ListBookings(context.Background()); !errors.Is(err, session.ErrAuthMissing) {
		t.Fatalf("expected ErrAuthMissing, got %v", err)
	}
	if _, err := c.CancelBooking(context.Background(), "BK-1", "no longer needed"); !errors.Is(err, session.ErrAuthMissing) {
		t.Fatalf("expected ErrAuthMissing, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("expected no requests, got %d", hits)
	}
}

func TestClient_ListBookingsSendsTokenAndNormalizesIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/bookings" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("x-auth-token"); got != "tok-123" {
			t.Errorf("expected token header, got %q", got)
		}
		if r.Header.Get("Idempotency-Key") != "" {
			t.Error("GET should not carry an idempotency key")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"_id":"BK-1","status":"pending","dateTime":{"date":"2025-03-15","time":"10:30"}},
			{"bookingId":"BK-2","status":"completed","rating":4}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, newSession(t))
	bookings, err := c.ListBookings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[0].ID != "BK-1" || bookings[1].ID != "BK-2" {
		t.Errorf("unexpected ids %q %q", bookings[0].ID, bookings[1].ID)
	}
	if bookings[1].Rating == nil || *bookings[1].Rating != 4 {
		t.Errorf("expected rating 4, got %v", bookings[1].Rating)
	}
}

func TestClient_CancelPostsReasonWithIdempotencyKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/bookings/BK-1/cancel" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Idempotency-Key") == "" {
			t.Error("expected idempotency key on mutation")
		}
		var body wire.CancelRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Reason != "patient recovered" {
			t.Errorf("unexpected reason %q", body.Reason)
		}
		_, _ = w.Write([]byte(`{"_id":"BK-1","status":"cancelled","cancellationReason":"patient recovered"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, newSession(t))
	b, err := c.CancelBooking(context.Background(), "BK-1", "patient recovered")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b == nil || b.Status != domain.BookingStatusCancelled {
		t.Errorf("expected cancelled booking, got %+v", b)
	}
}

func TestClient_IdempotencyKeyFollowsTheUserAction(t *testing.T) {
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		_, _ = w.Write([]byte(`{"_id":"BK-1","status":"cancelled","cancellationReason":"duplicate"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, newSession(t))

	action := WithIdempotencyKey(context.Background(), "cancel-BK-1-attempt")
	for i := 0; i < 2; i++ {
		if _, err := c.CancelBooking(action, "BK-1", "duplicate"); err != nil {
			t.Fatalf("retry %d: %v", i, err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := c.CancelBooking(context.Background(), "BK-1", "duplicate"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	if len(keys) != 4 {
		t.Fatalf("server saw %d requests, want 4", len(keys))
	}
	if keys[0] != "cancel-BK-1-attempt" || keys[1] != keys[0] {
		t.Errorf("retries of one action sent keys %q and %q", keys[0], keys[1])
	}
	if keys[2] == "" || keys[2] == keys[3] || keys[2] == keys[0] {
		t.Errorf("independent calls sent keys %q and %q", keys[2], keys[3])
	}
}

func TestClient_EmptyAckYieldsNilBooking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, newSession(t))
	b, err := c.CancelBooking(context.Background(), "BK-1", "reason")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != nil {
		t.Errorf("expected nil booking for bodiless ack, got %+v", b)
	}
}

func TestClient_ServerErrorCarriesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"booking cannot be cancelled"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, newSession(t))
	_, err := c.CancelBooking(context.Background(), "BK-1", "reason")
	if !errors.Is(err, ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	if StatusCode(err) != http.StatusConflict {
		t.Errorf("expected 409, got %d", StatusCode(err))
	}
	var se *ServerError
	if !errors.As(err, &se) || se.Message != "booking cannot be cancelled" {
		t.Errorf("unexpected server error %v", err)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, newSession(t))
	if _, err := c.ListBookings(context.Background()); !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := New(srv.URL, newSession(t))
	if _, err := c.ListBookings(context.Background()); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestClient_SetPrimaryContactReturnsCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/emergency-contacts/primary/c-2" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"_id":"c-1","name":"A","phone":"+15550001","relationship":"family","isPrimary":false},
			{"_id":"c-2","name":"B","phone":"+15550002","relationship":"doctor","isPrimary":true}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, newSession(t))
	contacts, err := c.SetPrimaryContact(context.Background(), "c-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contacts) != 2 || !contacts[1].IsPrimary || contacts[0].IsPrimary {
		t.Errorf("unexpected contacts %+v", contacts)
	}
}

func TestClient_ListHospitalsNearby(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") != "22.57" || q.Get("lng") != "88.36" || q.Get("radiusKm") != "5" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"_id":"h-1","name":"Apollo Hospital","address":"Salt Lake","emergency":true}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, newSession(t))
	hospitals, err := c.ListHospitals(context.Background(), &NearbyQuery{Lat: 22.57, Lng: 88.36, RadiusKm: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hospitals) != 1 || hospitals[0].ID != "h-1" {
		t.Errorf("unexpected hospitals %+v", hospitals)
	}
}
