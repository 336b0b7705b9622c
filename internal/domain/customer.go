package domain

import "time"

// Customer represents a customer booking return pickups.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
