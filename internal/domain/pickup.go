package domain

import "time"

// PickupStatus represents the current status of a return pickup.
type PickupStatus string

const (
	PickupStatusRequested PickupStatus = "REQUESTED"
	PickupStatusScheduled PickupStatus = "SCHEDULED"
	PickupStatusCompleted PickupStatus = "COMPLETED"
	PickupStatusCancelled PickupStatus = "CANCELLED"
)

// Pickup represents a booked return pickup. The fare inputs are captured
// at booking time so the payout can be recomputed deterministically when
// the pickup completes.
type Pickup struct {
	ID         string
	CustomerID string
	DriverID   string // set when a driver takes the pickup
	QuoteID    string // quote the booking was made from, if any

	ItemDescription      string
	ItemValue            float64
	ItemCount            int
	SizeCategory         SizeCategory
	DistanceMiles        float64
	EstimatedTimeMinutes float64
	Rush                 bool
	Tip                  float64

	Status       PickupStatus
	TotalPrice   float64 // quoted customer total at booking time
	CreatedAt    time.Time
	CompletedAt  time.Time
	CancelledAt  time.Time
	CancelReason string
}
