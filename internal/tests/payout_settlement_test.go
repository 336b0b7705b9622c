package tests

import (
	"context"
	"math"
	"testing"
	"time"

	"pickup/internal/domain"
	"pickup/internal/service"
)

// standardSchedule mirrors the production default rate schedule.
func standardSchedule() *domain.PaymentConfig {
	return &domain.PaymentConfig{
		BasePrice:        3.99,
		DriverBasePay:    3.00,
		CompanyBaseShare: 0.99,

		DistanceRate:        0.50,
		DriverDistanceRate:  0.35,
		CompanyDistanceRate: 0.15,

		TimeRate:        12.00,
		DriverTimeRate:  8.00,
		CompanyTimeRate: 4.00,

		SizeUpcharges: map[domain.SizeCategory]float64{
			domain.SizeLarge:      2.00,
			domain.SizeExtraLarge: 5.00,
		},
		DriverSizeBonuses: map[domain.SizeCategory]float64{
			domain.SizeLarge:      2.00,
			domain.SizeExtraLarge: 5.00,
		},

		ServiceFeeRate:      0.15,
		MultiItemFee:        1.00,
		RushFee:             3.00,
		SmallOrderFee:       2.00,
		SmallOrderThreshold: 8.00,
	}
}

// allocatedSchedule keeps fares under the total clamp with every rate
// split fully between driver and company, so conservation holds.
func allocatedSchedule() *domain.PaymentConfig {
	return &domain.PaymentConfig{
		BasePrice:        1.00,
		DriverBasePay:    0.60,
		CompanyBaseShare: 0.40,

		DistanceRate:        0.02,
		DriverDistanceRate:  0.01,
		CompanyDistanceRate: 0.01,

		TimeRate:        0.20,
		DriverTimeRate:  0.10,
		CompanyTimeRate: 0.10,

		SizeUpcharges:     map[domain.SizeCategory]float64{},
		DriverSizeBonuses: map[domain.SizeCategory]float64{},

		ServiceFeeRate: 0.15,
	}
}

func completedPickup(id string) *domain.Pickup {
	return &domain.Pickup{
		ID:                   id,
		CustomerID:           "customer-1",
		DriverID:             "driver-1",
		ItemCount:            1,
		SizeCategory:         domain.SizeMedium,
		DistanceMiles:        5,
		EstimatedTimeMinutes: 30,
		Tip:                  2.00,
		Status:               domain.PickupStatusCompleted,
		CreatedAt:            time.Now().Add(-time.Hour),
		CompletedAt:          time.Now(),
	}
}

// ──────────────────────────────────────────────
// PAYOUT SETTLEMENT
// ──────────────────────────────────────────────

func TestPayout_SettlesCompletedPickup(t *testing.T) {
	t.Parallel()

	payoutRepo := NewMockPayoutRepository()
	gateway := NewMockGateway()
	locks := NewMockLockStore()
	fare := service.NewFareService(standardSchedule())

	payoutService := service.NewPayoutService(payoutRepo, gateway, locks, fare, false)

	payout, err := payoutService.SettlePayout(context.Background(), completedPickup("pickup-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payout.Status != domain.PayoutStatusSuccess {
		t.Errorf("expected status %s, got %s", domain.PayoutStatusSuccess, payout.Status)
	}
	// 3.00 base + 1.75 distance + 4.00 time + 2.00 tip.
	if math.Abs(payout.Amount-10.75) > 1e-9 {
		t.Errorf("expected amount 10.75, got %v", payout.Amount)
	}
	if payout.IdempotencyKey != "payout:pickup-1" {
		t.Errorf("unexpected idempotency key %s", payout.IdempotencyKey)
	}
	if payoutRepo.CountPayouts() != 1 {
		t.Errorf("expected 1 payout, got %d", payoutRepo.CountPayouts())
	}
}

func TestPayout_RetryIsIdempotent(t *testing.T) {
	t.Parallel()

	payoutRepo := NewMockPayoutRepository()
	gateway := NewMockGateway()
	locks := NewMockLockStore()
	fare := service.NewFareService(standardSchedule())

	payoutService := service.NewPayoutService(payoutRepo, gateway, locks, fare, false)
	pickup := completedPickup("pickup-1")

	first, err := payoutService.SettlePayout(context.Background(), pickup)
	if err != nil {
		t.Fatalf("first settlement failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := payoutService.SettlePayout(context.Background(), pickup)
		if err != nil {
			t.Fatalf("retry %d failed: %v", i, err)
		}
		if again.ID != first.ID {
			t.Error("expected the same payout on retry")
		}
	}

	if payoutRepo.CountPayouts() != 1 {
		t.Errorf("expected 1 payout after retries, got %d", payoutRepo.CountPayouts())
	}
	if gateway.TransferCallCount != 1 {
		t.Errorf("expected 1 transfer, got %d", gateway.TransferCallCount)
	}
}

func TestPayout_StaleReadBeforeLockDoesNotPayTwice(t *testing.T) {
	t.Parallel()

	payoutRepo := NewMockPayoutRepository()
	gateway := NewMockGateway()
	locks := NewMockLockStore()
	fare := service.NewFareService(standardSchedule())

	payoutService := service.NewPayoutService(payoutRepo, gateway, locks, fare, false)
	pickup := completedPickup("pickup-1")

	// Interleave a full competing settlement into the first caller's
	// pre-lock idempotency read window: the caller reads no payout, the
	// competitor settles and releases the lock, then the caller acquires
	// the lock holding its stale nil result.
	var competitor *domain.Payout
	staged := false
	payoutRepo.AfterIdempotencyRead = func() {
		if staged {
			return
		}
		staged = true
		p, err := payoutService.SettlePayout(context.Background(), pickup)
		if err != nil {
			t.Fatalf("competing settlement failed: %v", err)
		}
		competitor = p
	}

	payout, err := payoutService.SettlePayout(context.Background(), pickup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if competitor == nil || payout.ID != competitor.ID {
		t.Error("expected the competitor's payout to be returned")
	}
	if payoutRepo.CountPayouts() != 1 {
		t.Errorf("expected 1 payout, got %d", payoutRepo.CountPayouts())
	}
	if gateway.TransferCallCount != 1 {
		t.Errorf("expected 1 transfer, got %d", gateway.TransferCallCount)
	}
}

func TestPayout_ExpiredLockFallsBackToUniqueKey(t *testing.T) {
	t.Parallel()

	payoutRepo := NewMockPayoutRepository()
	gateway := NewMockGateway()
	locks := NewMockLockStore()
	fare := service.NewFareService(standardSchedule())

	payoutService := service.NewPayoutService(payoutRepo, gateway, locks, fare, false)
	pickup := completedPickup("pickup-1")

	// Interleave into the under-lock re-check instead: the caller's lock
	// expires, a competitor settles, and the caller proceeds to insert on
	// a stale nil. The unique key on the idempotency column must turn
	// that insert into a fetch of the existing payout.
	var competitor *domain.Payout
	reads := 0
	payoutRepo.AfterIdempotencyRead = func() {
		reads++
		if reads != 2 {
			return
		}
		_ = locks.ReleasePayoutLock(context.Background(), pickup.ID)
		p, err := payoutService.SettlePayout(context.Background(), pickup)
		if err != nil {
			t.Fatalf("competing settlement failed: %v", err)
		}
		competitor = p
	}

	payout, err := payoutService.SettlePayout(context.Background(), pickup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if competitor == nil || payout.ID != competitor.ID {
		t.Error("expected the competitor's payout to be returned")
	}
	if payoutRepo.CountPayouts() != 1 {
		t.Errorf("expected 1 payout, got %d", payoutRepo.CountPayouts())
	}
	if gateway.TransferCallCount != 1 {
		t.Errorf("expected 1 transfer, got %d", gateway.TransferCallCount)
	}
	// Both callers attempted the insert; the second one was rejected.
	if payoutRepo.CreateCallCount != 2 {
		t.Errorf("expected 2 insert attempts, got %d", payoutRepo.CreateCallCount)
	}
}

func TestPayout_RejectsNonCompletedPickup(t *testing.T) {
	t.Parallel()

	payoutRepo := NewMockPayoutRepository()
	fare := service.NewFareService(standardSchedule())
	payoutService := service.NewPayoutService(payoutRepo, NewMockGateway(), NewMockLockStore(), fare, false)

	pickup := completedPickup("pickup-1")
	pickup.Status = domain.PickupStatusScheduled

	_, err := payoutService.SettlePayout(context.Background(), pickup)
	if err != service.ErrPickupNotCompleted {
		t.Errorf("got error %v, want %v", err, service.ErrPickupNotCompleted)
	}
	if payoutRepo.CountPayouts() != 0 {
		t.Error("no payout should be created for a non-completed pickup")
	}
}

func TestPayout_RejectsPickupWithoutDriver(t *testing.T) {
	t.Parallel()

	fare := service.NewFareService(standardSchedule())
	payoutService := service.NewPayoutService(NewMockPayoutRepository(), NewMockGateway(), NewMockLockStore(), fare, false)

	pickup := completedPickup("pickup-1")
	pickup.DriverID = ""

	_, err := payoutService.SettlePayout(context.Background(), pickup)
	if err != service.ErrPickupHasNoDriver {
		t.Errorf("got error %v, want %v", err, service.ErrPickupHasNoDriver)
	}
}

func TestPayout_ConcurrentSettlementBlockedByLock(t *testing.T) {
	t.Parallel()

	payoutRepo := NewMockPayoutRepository()
	gateway := NewMockGateway()
	locks := NewMockLockStore()
	locks.ForceAcquireFailure = true
	fare := service.NewFareService(standardSchedule())

	payoutService := service.NewPayoutService(payoutRepo, gateway, locks, fare, false)

	_, err := payoutService.SettlePayout(context.Background(), completedPickup("pickup-1"))
	if err != service.ErrPayoutInProgress {
		t.Errorf("got error %v, want %v", err, service.ErrPayoutInProgress)
	}
	if gateway.TransferCallCount != 0 {
		t.Error("no transfer should happen while another settlement holds the lock")
	}
}

func TestPayout_LockReleasedAfterSettlement(t *testing.T) {
	t.Parallel()

	locks := NewMockLockStore()
	fare := service.NewFareService(standardSchedule())
	payoutService := service.NewPayoutService(NewMockPayoutRepository(), NewMockGateway(), locks, fare, false)

	_, err := payoutService.SettlePayout(context.Background(), completedPickup("pickup-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if locks.IsLocked("pickup-1") {
		t.Error("settlement lock should be released")
	}
	if locks.ReleaseCallCount != 1 {
		t.Errorf("expected 1 release, got %d", locks.ReleaseCallCount)
	}
}

func TestPayout_GatewayErrorMarksFailed(t *testing.T) {
	t.Parallel()

	payoutRepo := NewMockPayoutRepository()
	gateway := NewMockGateway()
	gateway.SetFailure(false, ErrMockTimeout)
	fare := service.NewFareService(standardSchedule())

	payoutService := service.NewPayoutService(payoutRepo, gateway, NewMockLockStore(), fare, false)

	payout, err := payoutService.SettlePayout(context.Background(), completedPickup("pickup-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payout.Status != domain.PayoutStatusFailed {
		t.Errorf("expected status %s, got %s", domain.PayoutStatusFailed, payout.Status)
	}
	// The failed record stays so the gap is visible and resolvable.
	stored := payoutRepo.GetPayoutByPickupID("pickup-1")
	if stored == nil {
		t.Fatal("expected payout record to exist after gateway error")
	}
	if stored.Status != domain.PayoutStatusFailed {
		t.Errorf("expected stored status %s, got %s", domain.PayoutStatusFailed, stored.Status)
	}
}

func TestPayout_RecordsConservationGap(t *testing.T) {
	t.Parallel()

	// The standard schedule clamps the customer total below the
	// allocations, so the gap is expected and must be recorded on the
	// payout without blocking it.
	fare := service.NewFareService(standardSchedule())
	payoutService := service.NewPayoutService(NewMockPayoutRepository(), NewMockGateway(), NewMockLockStore(), fare, false)

	payout, err := payoutService.SettlePayout(context.Background(), completedPickup("pickup-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payout.ConservationOK {
		t.Error("expected the conservation check to fail for a clamped fare")
	}
	if payout.ConservationGap <= 0 {
		t.Errorf("expected a positive conservation gap, got %v", payout.ConservationGap)
	}
	if payout.Status != domain.PayoutStatusSuccess {
		t.Error("a recorded gap must not block settlement in default mode")
	}
}

func TestPayout_StrictModeRefusesUnbalancedBreakdown(t *testing.T) {
	t.Parallel()

	payoutRepo := NewMockPayoutRepository()
	gateway := NewMockGateway()
	fare := service.NewFareService(standardSchedule())

	payoutService := service.NewPayoutService(payoutRepo, gateway, NewMockLockStore(), fare, true)

	_, err := payoutService.SettlePayout(context.Background(), completedPickup("pickup-1"))
	if err != service.ErrConservationViolated {
		t.Errorf("got error %v, want %v", err, service.ErrConservationViolated)
	}
	if gateway.TransferCallCount != 0 {
		t.Error("strict mode must not move money for an unbalanced breakdown")
	}
	if payoutRepo.CountPayouts() != 0 {
		t.Error("strict mode must not create a payout record")
	}
}

func TestPayout_StrictModeAllowsBalancedBreakdown(t *testing.T) {
	t.Parallel()

	fare := service.NewFareService(allocatedSchedule())
	payoutService := service.NewPayoutService(NewMockPayoutRepository(), NewMockGateway(), NewMockLockStore(), fare, true)

	payout, err := payoutService.SettlePayout(context.Background(), completedPickup("pickup-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !payout.ConservationOK {
		t.Error("expected the conservation check to pass for an allocated schedule")
	}
	if payout.Status != domain.PayoutStatusSuccess {
		t.Errorf("expected status %s, got %s", domain.PayoutStatusSuccess, payout.Status)
	}
}

func TestPayout_GetPickupPayout(t *testing.T) {
	t.Parallel()

	fare := service.NewFareService(standardSchedule())
	payoutService := service.NewPayoutService(NewMockPayoutRepository(), NewMockGateway(), NewMockLockStore(), fare, false)

	// Nothing settled yet.
	payout, err := payoutService.GetPickupPayout(context.Background(), "pickup-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payout != nil {
		t.Error("expected nil before settlement")
	}

	settled, err := payoutService.SettlePayout(context.Background(), completedPickup("pickup-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payout, err = payoutService.GetPickupPayout(context.Background(), "pickup-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payout == nil || payout.ID != settled.ID {
		t.Error("expected the settled payout to be returned")
	}
}
