package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds our token, so a
// holder whose TTL expired cannot release somebody else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func bookingLockKey(bookingID string) string {
	return fmt.Sprintf("lock:booking:%s", bookingID)
}

// AcquireBookingLock attempts to take the mutation lock of a booking.
// It returns the token needed to release it, or "" if the lock is held.
func (s *LockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (string, error) {
	token := uuid.New().String()

	ok, err := s.client.SetNX(ctx, bookingLockKey(bookingID), token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

// ReleaseBookingLock releases the lock if token still owns it.
func (s *LockStore) ReleaseBookingLock(ctx context.Context, bookingID, token string) error {
	return releaseScript.Run(ctx, s.client, []string{bookingLockKey(bookingID)}, token).Err()
}
