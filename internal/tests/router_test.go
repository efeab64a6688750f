package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"ambulance/internal/app"
	"ambulance/internal/auth"
	"ambulance/internal/domain"
	"ambulance/internal/handler"
	"ambulance/internal/service"
	"ambulance/internal/wire"
)

type apiFixture struct {
	router   *gin.Engine
	tokens   *auth.TokenService
	bookings *MockBookingRepository
	contacts *MockContactRepository
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &apiFixture{
		tokens:   auth.NewTokenService("router-test-secret", time.Hour),
		bookings: NewMockBookingRepository(),
		contacts: NewMockContactRepository(),
	}
	notifier := service.NewNotificationService(nil, nil)
	bookingService := service.NewBookingService(f.bookings, NewMockBookingCache(), NewMockLockStore(), notifier, nil, time.Second)
	contactService := service.NewContactService(nil, f.contacts, notifier, nil)
	vehicleService := service.NewVehicleService(NewMockVehicleRepository(fleetVehicles()...), notifier, nil)
	hospitalService := service.NewHospitalService(NewMockHospitalRepository(
		&domain.Hospital{ID: "h-1", Name: "General", Emergency: true},
	), nil, nil)

	f.router = app.NewRouter(app.RouterDeps{
		BookingHandler: handler.NewBookingHandler(bookingService),
		ContactHandler: handler.NewContactHandler(contactService),
		FleetHandler:   handler.NewFleetHandler(vehicleService, hospitalService),
		Tokens:         f.tokens,
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, caller *domain.Identity, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		token, err := f.tokens.Issue(*caller)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set(auth.HeaderName, token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body wire.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestRouter_Health(t *testing.T) {
	f := newAPIFixture(t)
	if w := f.do(t, http.MethodGet, "/health", nil, nil); w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/bookings", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if decodeError(t, w) == "" {
		t.Error("expected an error message")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set(auth.HeaderName, "not-a-jwt")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: status = %d, want 401", rec.Code)
	}
}

func TestRouter_RoleGate(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		caller domain.Identity
		want   int
	}{
		{"drivers cannot request bookings", http.MethodPost, "/api/bookings", driver, http.StatusForbidden},
		{"drivers cannot manage contacts", http.MethodGet, "/api/emergency-contacts", driver, http.StatusForbidden},
		{"users cannot list vehicles", http.MethodGet, "/api/vehicles", alice, http.StatusForbidden},
		{"users cannot move bookings", http.MethodPut, "/api/bookings/b-1/status", alice, http.StatusForbidden},
		{"drivers cannot cancel", http.MethodPost, "/api/bookings/b-1/cancel", driver, http.StatusForbidden},
		{"everyone lists hospitals", http.MethodGet, "/api/hospitals", driver, http.StatusOK},
		{"drivers list their vehicles", http.MethodGet, "/api/vehicles", driver, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := tt.caller
			w := f.do(t, tt.method, tt.path, &caller, map[string]string{})
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRouter_CreateAndListBookings(t *testing.T) {
	f := newAPIFixture(t)

	body := wire.CreateBookingRequest{
		DateTime:      wire.DateTime{Date: "2026-05-01", Time: "09:30"},
		Locations:     wire.Locations{Pickup: "12 Elm Street", Dropoff: "City Hospital"},
		PatientInfo:   wire.PatientInfo{Name: "Alice", Age: 67},
		AmbulanceType: "basic",
		Fare:          120,
	}
	w := f.do(t, http.MethodPost, "/api/bookings", &alice, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	var created wire.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.MongoID == "" || created.Status != "pending" {
		t.Errorf("unexpected booking: %+v", created)
	}
	if created.DateTime.Date != "2026-05-01" {
		t.Errorf("date = %q", created.DateTime.Date)
	}

	w = f.do(t, http.MethodGet, "/api/bookings", &alice, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var list []wire.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].CanonicalID() != created.MongoID {
		t.Errorf("unexpected list: %+v", list)
	}

	w = f.do(t, http.MethodGet, "/api/bookings", &bob, nil)
	if w.Body.String() != "[]" {
		t.Errorf("other user list = %s, want []", w.Body.String())
	}
}

func TestRouter_CreateBookingValidation(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing locations", wire.CreateBookingRequest{DateTime: wire.DateTime{Date: "2026-05-01"}, AmbulanceType: "basic"}},
		{"bad date", wire.CreateBookingRequest{
			DateTime:      wire.DateTime{Date: "tomorrow"},
			Locations:     wire.Locations{Pickup: "a", Dropoff: "b"},
			AmbulanceType: "basic",
		}},
		{"unknown type", wire.CreateBookingRequest{
			DateTime:      wire.DateTime{Date: "2026-05-01"},
			Locations:     wire.Locations{Pickup: "a", Dropoff: "b"},
			AmbulanceType: "hovercraft",
		}},
		{"not json", "just a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/api/bookings", &alice, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_CancelErrors(t *testing.T) {
	f := newAPIFixture(t)
	f.bookings.AddBooking(newBooking("open", alice.ID, domain.BookingStatusUpcoming))
	f.bookings.AddBooking(newBooking("done", alice.ID, domain.BookingStatusCompleted))

	tests := []struct {
		name   string
		id     string
		caller domain.Identity
		reason string
		want   int
	}{
		{"missing reason", "open", alice, "", http.StatusBadRequest},
		{"unknown booking", "nope", alice, "x", http.StatusNotFound},
		{"not the requester", "open", bob, "x", http.StatusForbidden},
		{"completed booking", "done", alice, "x", http.StatusConflict},
		{"admin cancels", "open", admin, "Duplicate", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := tt.caller
			w := f.do(t, http.MethodPost, "/api/bookings/"+tt.id+"/cancel", &caller, wire.CancelRequest{Reason: tt.reason})
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRouter_ReviewAndStatus(t *testing.T) {
	f := newAPIFixture(t)
	f.bookings.AddBooking(newBooking("b-1", alice.ID, domain.BookingStatusPending))

	w := f.do(t, http.MethodPut, "/api/bookings/b-1/status", &driver, wire.StatusRequest{Status: "upcoming"})
	if w.Code != http.StatusOK {
		t.Fatalf("accept status = %d: %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/api/bookings/b-1/review", &alice, wire.ReviewRequest{Rating: 5})
	if w.Code != http.StatusConflict {
		t.Errorf("review before completion = %d, want 409", w.Code)
	}

	for _, next := range []string{"active", "completed"} {
		if w := f.do(t, http.MethodPut, "/api/bookings/b-1/status", &driver, wire.StatusRequest{Status: next}); w.Code != http.StatusOK {
			t.Fatalf("move to %s = %d: %s", next, w.Code, w.Body.String())
		}
	}

	w = f.do(t, http.MethodPost, "/api/bookings/b-1/review", &alice, wire.ReviewRequest{Rating: 0})
	if w.Code != http.StatusBadRequest {
		t.Errorf("review without rating = %d, want 400", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/bookings/b-1/review", &alice, wire.ReviewRequest{Rating: 4, Comment: "Kind crew", VehicleRating: 3})
	if w.Code != http.StatusOK {
		t.Fatalf("review = %d: %s", w.Code, w.Body.String())
	}
	var reviewed wire.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &reviewed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reviewed.Reviewed || reviewed.Rating == nil || *reviewed.Rating != 4 {
		t.Errorf("unexpected review: %+v", reviewed)
	}
	if reviewed.DriverRating != nil {
		t.Error("unset driver rating should be omitted")
	}
}

func TestRouter_Contacts(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/emergency-contacts", &alice, wire.ContactRequest{
		Name: "Mum", Phone: "555 0100 22", Relationship: "family", IsPrimary: true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body.String())
	}
	var mum wire.Contact
	_ = json.Unmarshal(w.Body.Bytes(), &mum)

	w = f.do(t, http.MethodPost, "/api/emergency-contacts", &alice, wire.ContactRequest{
		Name: "Dr. Lee", Phone: "+15550199", Relationship: "doctor",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create second = %d: %s", w.Code, w.Body.String())
	}
	var doctor wire.Contact
	_ = json.Unmarshal(w.Body.Bytes(), &doctor)

	w = f.do(t, http.MethodPost, "/api/emergency-contacts", &alice, wire.ContactRequest{
		Name: "Nobody", Phone: "call me", Relationship: "friend",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid phone = %d, want 400", w.Code)
	}

	w = f.do(t, http.MethodPut, "/api/emergency-contacts/primary/"+doctor.MongoID, &alice, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("set primary = %d: %s", w.Code, w.Body.String())
	}
	var list []wire.Contact
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	primaries := 0
	for _, c := range list {
		if c.IsPrimary {
			primaries++
			if c.MongoID != doctor.MongoID {
				t.Errorf("primary = %s, want %s", c.MongoID, doctor.MongoID)
			}
		}
	}
	if len(list) != 2 || primaries != 1 {
		t.Errorf("unexpected list: %+v", list)
	}

	if w := f.do(t, http.MethodDelete, "/api/emergency-contacts/"+mum.MongoID, &bob, nil); w.Code != http.StatusNotFound {
		t.Errorf("delete by other user = %d, want 404", w.Code)
	}
	if w := f.do(t, http.MethodDelete, "/api/emergency-contacts/"+mum.MongoID, &alice, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}
}

func TestRouter_ContactInputIsNormalizedBeforeValidation(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/api/emergency-contacts", &alice, wire.ContactRequest{
		Name: "   ", Phone: "5550100", Relationship: "family",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank name = %d, want 400 (%s)", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPost, "/api/emergency-contacts", &alice, wire.ContactRequest{
		Name: "  Mum ", Phone: "(555) 010-0222", Relationship: "Family",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("mixed-case relationship = %d: %s", w.Code, w.Body.String())
	}
	var created wire.Contact
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Name != "Mum" || created.Phone != "5550100222" || created.Relationship != "family" {
		t.Errorf("stored %+v", created)
	}
}

func TestRouter_Hospitals(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/api/hospitals", &alice, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}

	if w := f.do(t, http.MethodGet, "/api/hospitals?lat=north&lng=1", &alice, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad lat = %d, want 400", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/hospitals?lat=1&lng=1&radiusKm=-3", &alice, nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad radius = %d, want 400", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/hospitals?lat=12.9&lng=77.6", &alice, nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("nearby without index = %d, want 503", w.Code)
	}
}

func TestRouter_VehicleEquipmentValidation(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPut, "/api/vehicles/v-1/equipment", &driver, wire.EquipmentRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty checklist = %d, want 400", w.Code)
	}

	w = f.do(t, http.MethodPut, "/api/vehicles/v-1/equipment", &driver, wire.EquipmentRequest{
		Equipment: []wire.Equipment{{Name: "oxygen", Functional: true}},
	})
	if w.Code != http.StatusOK {
		t.Errorf("update = %d: %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPut, "/api/vehicles/v-2/status", &driver, wire.VehicleStatusRequest{Status: "available"})
	if w.Code != http.StatusForbidden {
		t.Errorf("other driver's vehicle = %d, want 403", w.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !bytes.Contains([]byte(got), []byte(auth.HeaderName)) {
		t.Errorf("allow headers %q do not include %s", got, auth.HeaderName)
	}
}
