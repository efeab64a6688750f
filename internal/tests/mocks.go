package tests

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"ambulance/internal/domain"
	"ambulance/internal/redis"
	"ambulance/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32
	ListCallCount   int32

	// Error injection
	CreateError error
	UpdateError error
	ListError   error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *b
	m.bookings[b.ID] = &copy
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.bookings[b.ID]; exists {
		return repository.ErrConflict
	}
	copy := *b
	m.bookings[b.ID] = &copy
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *b
	return &copy, nil
}

func (m *MockBookingRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domain.Booking, error) {
	return m.list(func(b *domain.Booking) bool { return b.RequesterID == requesterID })
}

func (m *MockBookingRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	return m.list(func(b *domain.Booking) bool { return b.DriverID == driverID })
}

func (m *MockBookingRepository) ListOpen(ctx context.Context) ([]*domain.Booking, error) {
	return m.list(func(b *domain.Booking) bool {
		return b.DriverID == "" && b.Status == domain.BookingStatusPending
	})
}

func (m *MockBookingRepository) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	return m.list(func(*domain.Booking) bool { return true })
}

func (m *MockBookingRepository) list(keep func(*domain.Booking) bool) ([]*domain.Booking, error) {
	atomic.AddInt32(&m.ListCallCount, 1)
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		if keep(b) {
			copy := *b
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledAt.After(result[j].ScheduledAt)
	})
	return result, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *b
	m.bookings[b.ID] = &copy
	return nil
}

// GetBooking returns the stored booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bookings[id]
}

// ──────────────────────────────────────────────
// MOCK CONTACT REPOSITORY
// ──────────────────────────────────────────────

// MockContactRepository is a mock implementation of ContactRepository.
type MockContactRepository struct {
	mu       sync.RWMutex
	contacts map[string]*domain.EmergencyContact

	SetPrimaryCallCount int32

	CreateError     error
	SetPrimaryError error
}

// NewMockContactRepository creates a new mock contact repository.
func NewMockContactRepository() *MockContactRepository {
	return &MockContactRepository{
		contacts: make(map[string]*domain.EmergencyContact),
	}
}

// AddContact adds a contact to the mock repository.
func (m *MockContactRepository) AddContact(c *domain.EmergencyContact) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *c
	m.contacts[c.ID] = &copy
}

func (m *MockContactRepository) Create(ctx context.Context, c *domain.EmergencyContact) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *c
	m.contacts[c.ID] = &copy
	return nil
}

func (m *MockContactRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.EmergencyContact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	copy := *c
	return &copy, nil
}

func (m *MockContactRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.EmergencyContact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.EmergencyContact, 0)
	for _, c := range m.contacts {
		if c.OwnerID == ownerID {
			copy := *c
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsPrimary != result[j].IsPrimary {
			return result[i].IsPrimary
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *MockContactRepository) Update(ctx context.Context, c *domain.EmergencyContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.contacts[c.ID]
	if !ok || existing.OwnerID != c.OwnerID {
		return repository.ErrNotFound
	}
	copy := *c
	copy.IsPrimary = existing.IsPrimary
	m.contacts[c.ID] = &copy
	return nil
}

func (m *MockContactRepository) Delete(ctx context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(m.contacts, id)
	return nil
}

func (m *MockContactRepository) SetPrimary(ctx context.Context, ownerID, id string) error {
	atomic.AddInt32(&m.SetPrimaryCallCount, 1)
	if m.SetPrimaryError != nil {
		return m.SetPrimaryError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.contacts[id]
	if !ok || target.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	for _, c := range m.contacts {
		if c.OwnerID == ownerID {
			c.IsPrimary = c.ID == id
		}
	}
	return nil
}

// PrimaryCount returns how many of the owner's contacts are primary.
func (m *MockContactRepository) PrimaryCount(ownerID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.contacts {
		if c.OwnerID == ownerID && c.IsPrimary {
			n++
		}
	}
	return n
}

// ──────────────────────────────────────────────
// MOCK VEHICLE AND HOSPITAL REPOSITORIES
// ──────────────────────────────────────────────

// MockVehicleRepository is a mock implementation of VehicleRepository.
type MockVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*domain.Vehicle

	UpdateError error
}

// NewMockVehicleRepository creates a new mock vehicle repository.
func NewMockVehicleRepository(vehicles ...*domain.Vehicle) *MockVehicleRepository {
	m := &MockVehicleRepository{vehicles: make(map[string]*domain.Vehicle)}
	for _, v := range vehicles {
		copy := *v
		m.vehicles[v.ID] = &copy
	}
	return m
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *v
	return &copy, nil
}

func (m *MockVehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	return m.filter(func(*domain.Vehicle) bool { return true }), nil
}

func (m *MockVehicleRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Vehicle, error) {
	return m.filter(func(v *domain.Vehicle) bool { return v.DriverID == driverID }), nil
}

func (m *MockVehicleRepository) filter(keep func(*domain.Vehicle) bool) []*domain.Vehicle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		if keep(v) {
			copy := *v
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (m *MockVehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[v.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *v
	m.vehicles[v.ID] = &copy
	return nil
}

// MockHospitalRepository is a mock implementation of HospitalRepository.
type MockHospitalRepository struct {
	hospitals []*domain.Hospital
}

// NewMockHospitalRepository creates a mock holding hospitals.
func NewMockHospitalRepository(hospitals ...*domain.Hospital) *MockHospitalRepository {
	return &MockHospitalRepository{hospitals: hospitals}
}

func (m *MockHospitalRepository) GetAll(ctx context.Context) ([]*domain.Hospital, error) {
	result := make([]*domain.Hospital, 0, len(m.hospitals))
	for _, h := range m.hospitals {
		copy := *h
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockHospitalRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Hospital, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var result []*domain.Hospital
	for _, h := range m.hospitals {
		if want[h.ID] {
			copy := *h
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK REDIS STORES
// ──────────────────────────────────────────────

// MockBookingCache is an in-memory BookingCache.
type MockBookingCache struct {
	mu      sync.Mutex
	entries map[string][]*domain.Booking

	HitCount        int32
	InvalidateCount int32
	Invalidated     []string

	GetError error
}

// NewMockBookingCache creates an empty cache.
func NewMockBookingCache() *MockBookingCache {
	return &MockBookingCache{entries: make(map[string][]*domain.Booking)}
}

func (m *MockBookingCache) GetBookings(ctx context.Context, scope string) ([]*domain.Booking, bool, error) {
	if m.GetError != nil {
		return nil, false, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.entries[scope]
	if ok {
		atomic.AddInt32(&m.HitCount, 1)
	}
	return list, ok, nil
}

func (m *MockBookingCache) SetBookings(ctx context.Context, scope string, bookings []*domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[scope] = bookings
	return nil
}

func (m *MockBookingCache) InvalidateBookings(ctx context.Context, scopes ...string) error {
	atomic.AddInt32(&m.InvalidateCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range scopes {
		delete(m.entries, s)
		m.Invalidated = append(m.Invalidated, s)
	}
	return nil
}

// Has reports whether scope is cached.
func (m *MockBookingCache) Has(scope string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[scope]
	return ok
}

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]string
	seq   int

	AcquireCallCount int32
	ReleaseCallCount int32

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]string)}
}

func (m *MockLockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (string, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[bookingID]; held {
		return "", nil
	}
	m.seq++
	token := "token-" + strconv.Itoa(m.seq)
	m.locks[bookingID] = token
	return token, nil
}

func (m *MockLockStore) ReleaseBookingLock(ctx context.Context, bookingID, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[bookingID] == token {
		delete(m.locks, bookingID)
	}
	return nil
}

// Hold takes the lock for bookingID as another holder would.
func (m *MockLockStore) Hold(bookingID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[bookingID] = "other-holder"
}

// IsLocked returns whether the booking is locked.
func (m *MockLockStore) IsLocked(bookingID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[bookingID]
	return ok
}

// MockLocationStore is a mock implementation of LocationStoreInterface.
type MockLocationStore struct {
	mu      sync.Mutex
	indexed map[string][2]float64

	// Results is returned by FindNearbyHospitals as-is.
	Results []redis.HospitalDistance
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{indexed: make(map[string][2]float64)}
}

func (m *MockLocationStore) IndexHospital(ctx context.Context, hospitalID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexed[hospitalID] = [2]float64{lat, lng}
	return nil
}

func (m *MockLocationStore) FindNearbyHospitals(ctx context.Context, lat, lng, radiusKm float64) ([]redis.HospitalDistance, error) {
	return m.Results, nil
}

// Indexed returns how many hospitals were indexed.
func (m *MockLocationStore) Indexed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.indexed)
}

// ──────────────────────────────────────────────
// MOCK EVENT PUBLISHER
// ──────────────────────────────────────────────

// PublishedEvent is one captured PublishJSON call.
type PublishedEvent struct {
	RoutingKey string
	Payload    any
}

// MockPublisher captures published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent

	PublishError error
}

func (m *MockPublisher) PublishJSON(ctx context.Context, routingKey string, payload any) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, Payload: payload})
	return nil
}

// RoutingKeys returns the routing keys published so far, in order.
func (m *MockPublisher) RoutingKeys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.events))
	for _, e := range m.events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}

var (
	_ repository.BookingRepository  = (*MockBookingRepository)(nil)
	_ repository.ContactRepository  = (*MockContactRepository)(nil)
	_ repository.VehicleRepository  = (*MockVehicleRepository)(nil)
	_ repository.HospitalRepository = (*MockHospitalRepository)(nil)
	_ redis.BookingCache            = (*MockBookingCache)(nil)
	_ redis.LockStoreInterface      = (*MockLockStore)(nil)
	_ redis.LocationStoreInterface  = (*MockLocationStore)(nil)
)
