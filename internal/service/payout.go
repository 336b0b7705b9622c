package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/redis"
	"pickup/internal/repository"
)

// payoutLockTTL bounds how long a settlement can hold the per-pickup lock.
const payoutLockTTL = 30 * time.Second

// PayoutGateway is the interface for the provider that moves money to
// drivers.
type PayoutGateway interface {
	Transfer(ctx context.Context, driverID string, amount float64) (bool, error)
}

// MockPayoutGateway is a mock implementation of PayoutGateway for testing.
type MockPayoutGateway struct{}

// NewMockPayoutGateway creates a new mock payout gateway.
func NewMockPayoutGateway() *MockPayoutGateway {
	return &MockPayoutGateway{}
}

// Transfer simulates a driver transfer. Always succeeds.
func (g *MockPayoutGateway) Transfer(ctx context.Context, driverID string, amount float64) (bool, error) {
	// Mock implementation: always succeeds.
	return true, nil
}

// PayoutService settles driver earnings for completed pickups.
type PayoutService struct {
	payoutRepo repository.PayoutRepository
	gateway    PayoutGateway
	locks      redis.LockStoreInterface
	fare       *FareService

	// strictConservation turns a failed conservation check into a hard
	// error before money moves. Off by default: with the standard rate
	// schedule the hard-coded total clamp makes most uncapped breakdowns
	// fail the check, so strict mode is only usable with schedules that
	// stay under the clamp.
	strictConservation bool
}

// NewPayoutService creates a new PayoutService.
func NewPayoutService(
	payoutRepo repository.PayoutRepository,
	gateway PayoutGateway,
	locks redis.LockStoreInterface,
	fare *FareService,
	strictConservation bool,
) *PayoutService {
	return &PayoutService{
		payoutRepo:         payoutRepo,
		gateway:            gateway,
		locks:              locks,
		fare:               fare,
		strictConservation: strictConservation,
	}
}

// SettlePayout computes the driver earning for a completed pickup and
// transfers it. Idempotent per pickup: repeated calls return the
// existing payout.
func (s *PayoutService) SettlePayout(ctx context.Context, pickup *domain.Pickup) (*domain.Payout, error) {
	if pickup == nil || pickup.ID == "" {
		return nil, ErrInvalidPickupID
	}
	if pickup.Status != domain.PickupStatusCompleted {
		return nil, ErrPickupNotCompleted
	}
	if pickup.DriverID == "" {
		return nil, ErrPickupHasNoDriver
	}

	// Generate idempotency key based on pickup ID.
	idempotencyKey := fmt.Sprintf("payout:%s", pickup.ID)

	// Fast path: settlement already recorded.
	existing, err := s.payoutRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// Serialize settlement per pickup.
	if s.locks != nil {
		acquired, err := s.locks.AcquirePayoutLock(ctx, pickup.ID, payoutLockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrPayoutInProgress
		}
		defer func() {
			_ = s.locks.ReleasePayoutLock(ctx, pickup.ID)
		}()
	}

	// Re-check under the lock. The fast-path read races with a competing
	// settlement that can complete and release the lock between that read
	// and our acquisition; trusting the stale nil would pay the driver
	// twice.
	existing, err = s.payoutRepo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	breakdown, err := s.breakdownFor(pickup)
	if err != nil {
		return nil, err
	}

	// Conservation check at the boundary where money moves. The result is
	// always recorded; strict mode refuses to pay out on failure.
	validation := Validate(breakdown)
	if !validation.IsValid {
		log.Printf("payout %s: conservation gap $%.4f (%s)", idempotencyKey, validation.Difference, validation.Explanation)
		if s.strictConservation {
			return nil, ErrConservationViolated
		}
	}

	payout := &domain.Payout{
		ID:              uuid.New().String(),
		PickupID:        pickup.ID,
		DriverID:        pickup.DriverID,
		Amount:          breakdown.DriverTotalEarning,
		Status:          domain.PayoutStatusPending,
		IdempotencyKey:  idempotencyKey,
		ConservationOK:  validation.IsValid,
		ConservationGap: validation.Difference,
		CreatedAt:       time.Now(),
	}

	if err := s.payoutRepo.Create(ctx, payout); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Unique index backstop: a competing settlement inserted first,
			// which can only happen if our lock expired mid-flight. Return
			// its payout instead of paying again.
			return s.payoutRepo.GetByIdempotencyKey(ctx, idempotencyKey)
		}
		return nil, err
	}

	success, err := s.gateway.Transfer(ctx, pickup.DriverID, payout.Amount)
	if err != nil {
		// Gateway error - mark as failed. Settlement can be retried once
		// the failed payout row is resolved.
		_ = s.payoutRepo.UpdateStatus(ctx, payout.ID, domain.PayoutStatusFailed)
		payout.Status = domain.PayoutStatusFailed
		return payout, nil
	}

	status := domain.PayoutStatusSuccess
	if !success {
		status = domain.PayoutStatusFailed
	}
	if err := s.payoutRepo.UpdateStatus(ctx, payout.ID, status); err != nil {
		return nil, err
	}
	payout.Status = status

	return payout, nil
}

// GetPayout retrieves a payout by ID.
func (s *PayoutService) GetPayout(ctx context.Context, payoutID string) (*domain.Payout, error) {
	if payoutID == "" {
		return nil, ErrInvalidPayoutID
	}

	return s.payoutRepo.GetByID(ctx, payoutID)
}

// GetPickupPayout retrieves the payout settled for a pickup, or nil if
// the pickup has not been settled yet.
func (s *PayoutService) GetPickupPayout(ctx context.Context, pickupID string) (*domain.Payout, error) {
	if pickupID == "" {
		return nil, ErrInvalidPickupID
	}

	return s.payoutRepo.GetByIdempotencyKey(ctx, fmt.Sprintf("payout:%s", pickupID))
}

// GetDriverPayouts retrieves all payouts for a driver.
func (s *PayoutService) GetDriverPayouts(ctx context.Context, driverID string) ([]*domain.Payout, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	return s.payoutRepo.GetByDriverID(ctx, driverID)
}

// breakdownFor recomputes the fare breakdown from the inputs captured at
// booking time. Value-aware bookings take the capped path so the driver
// earning matches what the customer was quoted under.
func (s *PayoutService) breakdownFor(pickup *domain.Pickup) (*domain.PaymentBreakdown, error) {
	route := domain.RouteInfo{
		DistanceMiles:        pickup.DistanceMiles,
		EstimatedTimeMinutes: pickup.EstimatedTimeMinutes,
	}

	if pickup.ItemValue > 0 {
		return s.fare.QuoteForItemValue(route, pickup.ItemValue, pickup.ItemCount, pickup.Rush, pickup.Tip)
	}
	return s.fare.Quote(route, pickup.SizeCategory, pickup.ItemCount, pickup.Rush, pickup.Tip)
}
