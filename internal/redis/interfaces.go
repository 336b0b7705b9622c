package redis

import (
	"context"
	"time"

	"pickup/internal/domain"
)

// QuoteStoreInterface defines the interface for quote caching.
type QuoteStoreInterface interface {
	Put(ctx context.Context, quote *domain.Quote) error
	Get(ctx context.Context, quoteID string) (*domain.Quote, error)
	Invalidate(ctx context.Context, quoteID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquirePayoutLock(ctx context.Context, pickupID string, ttl time.Duration) (bool, error)
	ReleasePayoutLock(ctx context.Context, pickupID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ QuoteStoreInterface = (*QuoteStore)(nil)
	_ LockStoreInterface  = (*LockStore)(nil)
)
