package domain

import "time"

// Receipt represents the customer-facing record of a completed pickup,
// including the full fare allocation across customer, driver, and company.
type Receipt struct {
	ID           string
	PickupID     string
	CustomerID   string
	DriverID     string
	Breakdown    PaymentBreakdown
	PayoutStatus PayoutStatus
	CreatedAt    time.Time
}
