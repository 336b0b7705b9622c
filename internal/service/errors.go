package service

import "errors"

var (
	// ErrInvalidDistance is returned when route distance is negative.
	ErrInvalidDistance = errors.New("distance must be non-negative")

	// ErrInvalidDuration is returned when estimated time is negative.
	ErrInvalidDuration = errors.New("estimated time must be non-negative")

	// ErrInvalidItemCount is returned when item count is below one.
	ErrInvalidItemCount = errors.New("item count must be at least 1")

	// ErrInvalidTip is returned when the tip is negative.
	ErrInvalidTip = errors.New("tip must be non-negative")

	// ErrInvalidItemValue is returned when the declared item value is negative.
	ErrInvalidItemValue = errors.New("item value must be non-negative")

	// ErrInvalidSizeCategory is returned when the size category is not one of S/M/L/XL.
	ErrInvalidSizeCategory = errors.New("invalid size category")

	// ErrInvalidCustomerID is returned when customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidPickupID is returned when pickup ID is empty.
	ErrInvalidPickupID = errors.New("invalid pickup id")

	// ErrInvalidQuoteID is returned when quote ID is empty.
	ErrInvalidQuoteID = errors.New("invalid quote id")

	// ErrQuoteExpired is returned when a referenced quote is no longer cached.
	ErrQuoteExpired = errors.New("quote expired or not found")

	// ErrPickupNotClaimable is returned when claiming a pickup that is not
	// in REQUESTED state.
	ErrPickupNotClaimable = errors.New("pickup not claimable in current state")

	// ErrPickupNotScheduled is returned when completing a pickup that is not
	// in SCHEDULED state.
	ErrPickupNotScheduled = errors.New("pickup not scheduled")

	// ErrDriverNotAvailable is returned when the driver cannot take a pickup.
	ErrDriverNotAvailable = errors.New("driver not available")

	// ErrPickupAlreadyCompleted is returned when completing a completed pickup.
	ErrPickupAlreadyCompleted = errors.New("pickup already completed")

	// ErrPickupAlreadyCancelled is returned when cancelling a cancelled pickup.
	ErrPickupAlreadyCancelled = errors.New("pickup already cancelled")

	// ErrPickupCannotBeCancelled is returned when the pickup is in a state that
	// cannot be cancelled.
	ErrPickupCannotBeCancelled = errors.New("pickup cannot be cancelled in current state")

	// ErrPickupNotCompleted is returned when a payout is requested for a pickup
	// that has not completed.
	ErrPickupNotCompleted = errors.New("pickup not completed")

	// ErrInvalidPayoutID is returned when payout ID is empty.
	ErrInvalidPayoutID = errors.New("invalid payout id")

	// ErrPayoutInProgress is returned when another settlement holds the lock
	// for the same pickup.
	ErrPayoutInProgress = errors.New("payout settlement already in progress")

	// ErrConservationViolated is returned in strict mode when a breakdown
	// fails the conservation check at settlement time.
	ErrConservationViolated = errors.New("breakdown fails conservation check")

	// ErrPickupHasNoDriver is returned when settling a pickup without a driver.
	ErrPickupHasNoDriver = errors.New("pickup has no driver assigned")
)
