package redis

import (
	"context"
	"time"

	"ambulance/internal/domain"
)

// BookingCache defines the interface for booking list caching.
type BookingCache interface {
	GetBookings(ctx context.Context, scope string) ([]*domain.Booking, bool, error)
	SetBookings(ctx context.Context, scope string, bookings []*domain.Booking) error
	InvalidateBookings(ctx context.Context, scopes ...string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (string, error)
	ReleaseBookingLock(ctx context.Context, bookingID, token string) error
}

// LocationStoreInterface defines the interface for hospital geo lookups.
type LocationStoreInterface interface {
	IndexHospital(ctx context.Context, hospitalID string, lat, lng float64) error
	FindNearbyHospitals(ctx context.Context, lat, lng, radiusKm float64) ([]HospitalDistance, error)
}

// Ensure concrete types implement interfaces.
var (
	_ BookingCache           = (*CacheStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ LocationStoreInterface = (*LocationStore)(nil)
)
