package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"ambulance/internal/domain"
	"ambulance/internal/wire"
)

// CacheStore caches booking lists per viewer scope.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// DefaultBookingListTTL bounds staleness if an invalidation is lost.
const DefaultBookingListTTL = 30 * time.Second

const bookingListPrefix = "cache:bookings:"

// AdminScope is the cache scope of the unfiltered list.
const AdminScope = "admin"

// OpenScope is the cache scope of pending bookings no driver has accepted.
const OpenScope = "open"

// UserScope is the cache scope of a requester's own list.
func UserScope(userID string) string { return "user:" + userID }

// DriverScope is the cache scope of a driver's assigned list.
func DriverScope(driverID string) string { return "driver:" + driverID }

// NewCacheStore creates a new CacheStore. A non-positive ttl uses DefaultBookingListTTL.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultBookingListTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

// GetBookings returns a cached list. ok is false on a miss.
func (s *CacheStore) GetBookings(ctx context.Context, scope string) (bookings []*domain.Booking, ok bool, err error) {
	data, err := s.client.Get(ctx, bookingListPrefix+scope).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil // Cache miss
		}
		return nil, false, err
	}

	var cached []wire.Booking
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, err
	}
	decoded, err := wire.ToDomainBookings(cached)
	if err != nil {
		return nil, false, err
	}
	bookings = make([]*domain.Booking, len(decoded))
	for i := range decoded {
		bookings[i] = &decoded[i]
	}
	return bookings, true, nil
}

// SetBookings stores a list for scope.
func (s *CacheStore) SetBookings(ctx context.Context, scope string, bookings []*domain.Booking) error {
	data, err := json.Marshal(wire.FromBookings(bookings))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, bookingListPrefix+scope, data, s.ttl).Err()
}

// InvalidateBookings drops the lists of every scope in one round trip.
func (s *CacheStore) InvalidateBookings(ctx context.Context, scopes ...string) error {
	if len(scopes) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, scope := range scopes {
		pipe.Del(ctx, bookingListPrefix+scope)
	}
	_, err := pipe.Exec(ctx)
	return err
}
