package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	PickupCacheTTL = 30 * time.Second // Pickup status changes around completion
	DriverCacheTTL = 60 * time.Second // Driver accounts change rarely
)

// Key prefixes
const (
	pickupCachePrefix = "cache:pickup:"
	driverCachePrefix = "cache:driver:"
)

// CachedPickup represents a cached pickup entity.
type CachedPickup struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	DriverID   string  `json:"driver_id"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
}

// CachedDriver represents a cached driver entity.
type CachedDriver struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// GetPickup retrieves a pickup from cache.
func (s *CacheStore) GetPickup(ctx context.Context, pickupID string) (*CachedPickup, error) {
	data, err := s.client.Get(ctx, pickupCachePrefix+pickupID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var pickup CachedPickup
	if err := json.Unmarshal(data, &pickup); err != nil {
		return nil, err
	}
	return &pickup, nil
}

// SetPickup stores a pickup in cache.
func (s *CacheStore) SetPickup(ctx context.Context, pickup *CachedPickup) error {
	data, err := json.Marshal(pickup)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, pickupCachePrefix+pickup.ID, data, PickupCacheTTL).Err()
}

// InvalidatePickup removes a pickup from cache.
func (s *CacheStore) InvalidatePickup(ctx context.Context, pickupID string) error {
	return s.client.Del(ctx, pickupCachePrefix+pickupID).Err()
}

// GetDriver retrieves a driver from cache.
func (s *CacheStore) GetDriver(ctx context.Context, driverID string) (*CachedDriver, error) {
	data, err := s.client.Get(ctx, driverCachePrefix+driverID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var driver CachedDriver
	if err := json.Unmarshal(data, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// SetDriver stores a driver in cache.
func (s *CacheStore) SetDriver(ctx context.Context, driver *CachedDriver) error {
	data, err := json.Marshal(driver)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, driverCachePrefix+driver.ID, data, DriverCacheTTL).Err()
}

// InvalidateDriver removes a driver from cache.
func (s *CacheStore) InvalidateDriver(ctx context.Context, driverID string) error {
	return s.client.Del(ctx, driverCachePrefix+driverID).Err()
}
