package domain

import "time"

// PayoutStatus represents the current status of a driver payout.
type PayoutStatus string

const (
	PayoutStatusPending PayoutStatus = "PENDING"
	PayoutStatusSuccess PayoutStatus = "SUCCESS"
	PayoutStatusFailed  PayoutStatus = "FAILED"
)

// Payout represents money transferred to a driver for a completed pickup.
// The conservation fields record the validator result at settlement time:
// a capped fare with the preserve policy legitimately fails the check, so
// the result is stored rather than assumed.
type Payout struct {
	ID              string
	PickupID        string
	DriverID        string
	Amount          float64
	Status          PayoutStatus
	IdempotencyKey  string
	ConservationOK  bool
	ConservationGap float64
	CreatedAt       time.Time
}
