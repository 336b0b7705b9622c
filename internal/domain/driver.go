package domain

import "time"

// DriverStatus represents the current status of a driver account.
type DriverStatus string

const (
	DriverStatusActive    DriverStatus = "ACTIVE"
	DriverStatusOnPickup  DriverStatus = "ON_PICKUP"
	DriverStatusSuspended DriverStatus = "SUSPENDED"
)

// Driver represents a pickup driver in the system.
type Driver struct {
	ID        string
	Name      string
	Phone     string
	Status    DriverStatus
	CreatedAt time.Time
}
