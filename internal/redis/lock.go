package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquirePayoutLock attempts to acquire the settlement lock for a pickup.
// Returns true if the lock was acquired, false if another settlement
// already holds it.
func (s *LockStore) AcquirePayoutLock(ctx context.Context, pickupID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:payout:%s", pickupID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleasePayoutLock releases the settlement lock for a pickup.
func (s *LockStore) ReleasePayoutLock(ctx context.Context, pickupID string) error {
	key := fmt.Sprintf("lock:payout:%s", pickupID)

	return s.client.Del(ctx, key).Err()
}
