package repository

import (
	"context"

	"pickup/internal/domain"
)

// PickupRepository defines the persistence operations for pickups.
type PickupRepository interface {
	// Create persists a new pickup.
	Create(ctx context.Context, pickup *domain.Pickup) error

	// GetByID retrieves a pickup by ID.
	GetByID(ctx context.Context, id string) (*domain.Pickup, error)

	// GetAll retrieves all pickups.
	GetAll(ctx context.Context) ([]*domain.Pickup, error)

	// GetByCustomerID retrieves all pickups booked by a customer.
	GetByCustomerID(ctx context.Context, customerID string) ([]*domain.Pickup, error)

	// Update updates an existing pickup.
	Update(ctx context.Context, pickup *domain.Pickup) error
}
