package repository

import (
	"context"

	"pickup/internal/domain"
)

// PayoutRepository defines the persistence operations for driver payouts.
type PayoutRepository interface {
	// Create persists a new payout.
	Create(ctx context.Context, payout *domain.Payout) error

	// GetByID retrieves a payout by ID.
	GetByID(ctx context.Context, id string) (*domain.Payout, error)

	// GetByIdempotencyKey retrieves a payout by its idempotency key.
	// Returns nil if no payout exists with the given key.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Payout, error)

	// GetByDriverID retrieves all payouts for a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Payout, error)

	// UpdateStatus updates the status of a payout.
	UpdateStatus(ctx context.Context, id string, status domain.PayoutStatus) error
}
