package tests

import (
	"context"
	"math"
	"testing"
	"time"

	"pickup/internal/domain"
	"pickup/internal/service"
)

// newPickupService wires a PickupService on mocks. The db handle is nil,
// so only operations that stay off transactions can run the happy path;
// claim and complete are covered up to their precondition checks.
func newPickupService(
	pickupRepo *MockPickupRepository,
	customerRepo *MockCustomerRepository,
	driverRepo *MockDriverRepository,
	quotes *MockQuoteStore,
	fare *service.FareService,
) *service.PickupService {
	notificationService := service.NewNotificationService()
	receiptService := service.NewReceiptService(fare, notificationService)
	payoutService := service.NewPayoutService(NewMockPayoutRepository(), NewMockGateway(), NewMockLockStore(), fare, false)
	return service.NewPickupService(nil, pickupRepo, customerRepo, driverRepo, quotes, nil, fare, payoutService, notificationService, receiptService)
}

func addTestCustomer(repo *MockCustomerRepository) {
	repo.AddCustomer(&domain.Customer{
		ID:        "customer-1",
		Name:      "Dana",
		Phone:     "+15550001111",
		CreatedAt: time.Now(),
	})
}

// ──────────────────────────────────────────────
// BOOKING
// ──────────────────────────────────────────────

func TestPickup_BookedWithFreshPricing(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	customerRepo := NewMockCustomerRepository()
	addTestCustomer(customerRepo)
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, customerRepo, NewMockDriverRepository(), NewMockQuoteStore(), fare)

	pickup, err := svc.BookPickup(context.Background(), service.BookPickupRequest{
		CustomerID:           "customer-1",
		ItemDescription:      "sneakers",
		SizeCategory:         domain.SizeMedium,
		ItemCount:            1,
		DistanceMiles:        5,
		EstimatedTimeMinutes: 30,
		Tip:                  2.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pickup.Status != domain.PickupStatusRequested {
		t.Errorf("expected status %s, got %s", domain.PickupStatusRequested, pickup.Status)
	}
	if math.Abs(pickup.TotalPrice-5.99) > 1e-9 {
		t.Errorf("expected total 5.99, got %v", pickup.TotalPrice)
	}
	if pickupRepo.CountPickups() != 1 {
		t.Errorf("expected 1 pickup, got %d", pickupRepo.CountPickups())
	}
}

func TestPickup_BookedFromQuoteConsumesQuote(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	customerRepo := NewMockCustomerRepository()
	addTestCustomer(customerRepo)
	quotes := NewMockQuoteStore()
	fare := service.NewFareService(standardSchedule())

	quoteService := service.NewQuoteService(fare, quotes)
	quote, err := quoteService.CreateQuote(context.Background(), service.CreateQuoteRequest{
		DistanceMiles:        5,
		EstimatedTimeMinutes: 30,
		SizeCategory:         domain.SizeMedium,
		ItemCount:            1,
		Tip:                  2.00,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := newPickupService(pickupRepo, customerRepo, NewMockDriverRepository(), quotes, fare)

	pickup, err := svc.BookPickup(context.Background(), service.BookPickupRequest{
		CustomerID: "customer-1",
		QuoteID:    quote.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fare inputs and price come from the quote.
	if pickup.SizeCategory != domain.SizeMedium {
		t.Errorf("expected size from the quote, got %s", pickup.SizeCategory)
	}
	if pickup.DistanceMiles != 5 || pickup.EstimatedTimeMinutes != 30 {
		t.Error("expected route from the quote")
	}
	if pickup.TotalPrice != quote.Breakdown.TotalPrice {
		t.Errorf("expected quoted total %v, got %v", quote.Breakdown.TotalPrice, pickup.TotalPrice)
	}

	// The quote is single-use.
	if quotes.HasQuote(quote.ID) {
		t.Error("expected the quote to be invalidated after booking")
	}
}

func TestPickup_BookingWithExpiredQuoteFails(t *testing.T) {
	t.Parallel()

	customerRepo := NewMockCustomerRepository()
	addTestCustomer(customerRepo)
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(NewMockPickupRepository(), customerRepo, NewMockDriverRepository(), NewMockQuoteStore(), fare)

	_, err := svc.BookPickup(context.Background(), service.BookPickupRequest{
		CustomerID: "customer-1",
		QuoteID:    "expired-quote",
	})
	if err != service.ErrQuoteExpired {
		t.Errorf("got error %v, want %v", err, service.ErrQuoteExpired)
	}
}

func TestPickup_BookingUnknownCustomerFails(t *testing.T) {
	t.Parallel()

	fare := service.NewFareService(standardSchedule())
	svc := newPickupService(NewMockPickupRepository(), NewMockCustomerRepository(), NewMockDriverRepository(), NewMockQuoteStore(), fare)

	_, err := svc.BookPickup(context.Background(), service.BookPickupRequest{
		CustomerID:   "ghost",
		SizeCategory: domain.SizeSmall,
		ItemCount:    1,
	})
	if err == nil {
		t.Error("expected error for unknown customer")
	}
}

func TestPickup_BookingWithItemValueTakesCappedPath(t *testing.T) {
	t.Parallel()

	customerRepo := NewMockCustomerRepository()
	addTestCustomer(customerRepo)
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(NewMockPickupRepository(), customerRepo, NewMockDriverRepository(), NewMockQuoteStore(), fare)

	pickup, err := svc.BookPickup(context.Background(), service.BookPickupRequest{
		CustomerID:           "customer-1",
		ItemValue:            3.00,
		ItemCount:            1,
		DistanceMiles:        5,
		EstimatedTimeMinutes: 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pickup.SizeCategory != domain.SizeSmall {
		t.Errorf("expected derived size %s, got %s", domain.SizeSmall, pickup.SizeCategory)
	}
	if math.Abs(pickup.TotalPrice-2.99) > 1e-9 {
		t.Errorf("expected value-capped total 2.99, got %v", pickup.TotalPrice)
	}
}

func TestPickup_BookingUnknownSizeFails(t *testing.T) {
	t.Parallel()

	customerRepo := NewMockCustomerRepository()
	addTestCustomer(customerRepo)
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(NewMockPickupRepository(), customerRepo, NewMockDriverRepository(), NewMockQuoteStore(), fare)

	_, err := svc.BookPickup(context.Background(), service.BookPickupRequest{
		CustomerID:   "customer-1",
		SizeCategory: "JUMBO",
		ItemCount:    1,
	})
	if err != service.ErrInvalidSizeCategory {
		t.Errorf("got error %v, want %v", err, service.ErrInvalidSizeCategory)
	}
}

// ──────────────────────────────────────────────
// CLAIM / COMPLETE PRECONDITIONS
// ──────────────────────────────────────────────

func TestPickup_ClaimRejectedWhenNotRequested(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Status: domain.DriverStatusActive})
	pickupRepo.AddPickup(&domain.Pickup{
		ID:     "pickup-1",
		Status: domain.PickupStatusScheduled,
	})
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, NewMockCustomerRepository(), driverRepo, NewMockQuoteStore(), fare)

	_, err := svc.ClaimPickup(context.Background(), service.ClaimPickupRequest{
		PickupID: "pickup-1",
		DriverID: "driver-1",
	})
	if err != service.ErrPickupNotClaimable {
		t.Errorf("got error %v, want %v", err, service.ErrPickupNotClaimable)
	}
}

func TestPickup_ClaimRejectedForBusyDriver(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", Status: domain.DriverStatusOnPickup})
	pickupRepo.AddPickup(&domain.Pickup{
		ID:     "pickup-1",
		Status: domain.PickupStatusRequested,
	})
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, NewMockCustomerRepository(), driverRepo, NewMockQuoteStore(), fare)

	_, err := svc.ClaimPickup(context.Background(), service.ClaimPickupRequest{
		PickupID: "pickup-1",
		DriverID: "driver-1",
	})
	if err != service.ErrDriverNotAvailable {
		t.Errorf("got error %v, want %v", err, service.ErrDriverNotAvailable)
	}
}

func TestPickup_CompleteRejectedWhenNotScheduled(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	pickupRepo.AddPickup(&domain.Pickup{
		ID:     "pickup-1",
		Status: domain.PickupStatusRequested,
	})
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, NewMockCustomerRepository(), NewMockDriverRepository(), NewMockQuoteStore(), fare)

	_, err := svc.CompletePickup(context.Background(), service.CompletePickupRequest{PickupID: "pickup-1"})
	if err != service.ErrPickupNotScheduled {
		t.Errorf("got error %v, want %v", err, service.ErrPickupNotScheduled)
	}
}

func TestPickup_CompleteTwiceRejected(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	pickupRepo.AddPickup(&domain.Pickup{
		ID:     "pickup-1",
		Status: domain.PickupStatusCompleted,
	})
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, NewMockCustomerRepository(), NewMockDriverRepository(), NewMockQuoteStore(), fare)

	_, err := svc.CompletePickup(context.Background(), service.CompletePickupRequest{PickupID: "pickup-1"})
	if err != service.ErrPickupAlreadyCompleted {
		t.Errorf("got error %v, want %v", err, service.ErrPickupAlreadyCompleted)
	}
}

// ──────────────────────────────────────────────
// CANCELLATION
// ──────────────────────────────────────────────

func TestPickup_CancelledBeforeClaim(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	pickupRepo.AddPickup(&domain.Pickup{
		ID:         "pickup-1",
		CustomerID: "customer-1",
		Status:     domain.PickupStatusRequested,
	})
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, NewMockCustomerRepository(), NewMockDriverRepository(), NewMockQuoteStore(), fare)

	pickup, err := svc.CancelPickup(context.Background(), service.CancelPickupRequest{
		PickupID: "pickup-1",
		Reason:   "changed my mind",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pickup.Status != domain.PickupStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.PickupStatusCancelled, pickup.Status)
	}
	if pickup.CancelReason != "changed my mind" {
		t.Errorf("unexpected cancel reason %q", pickup.CancelReason)
	}

	stored := pickupRepo.GetPickup("pickup-1")
	if stored.Status != domain.PickupStatusCancelled {
		t.Error("cancellation not persisted")
	}
}

func TestPickup_CancelTwiceRejected(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	pickupRepo.AddPickup(&domain.Pickup{
		ID:     "pickup-1",
		Status: domain.PickupStatusCancelled,
	})
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, NewMockCustomerRepository(), NewMockDriverRepository(), NewMockQuoteStore(), fare)

	_, err := svc.CancelPickup(context.Background(), service.CancelPickupRequest{PickupID: "pickup-1"})
	if err != service.ErrPickupAlreadyCancelled {
		t.Errorf("got error %v, want %v", err, service.ErrPickupAlreadyCancelled)
	}
}

func TestPickup_CompletedPickupCannotBeCancelled(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	pickupRepo.AddPickup(&domain.Pickup{
		ID:     "pickup-1",
		Status: domain.PickupStatusCompleted,
	})
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, NewMockCustomerRepository(), NewMockDriverRepository(), NewMockQuoteStore(), fare)

	_, err := svc.CancelPickup(context.Background(), service.CancelPickupRequest{PickupID: "pickup-1"})
	if err != service.ErrPickupCannotBeCancelled {
		t.Errorf("got error %v, want %v", err, service.ErrPickupCannotBeCancelled)
	}
}

// ──────────────────────────────────────────────
// LOOKUPS
// ──────────────────────────────────────────────

func TestPickup_StatusFallsBackToRepositoryWithoutCache(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	pickupRepo.AddPickup(&domain.Pickup{
		ID:         "pickup-1",
		CustomerID: "customer-1",
		DriverID:   "driver-1",
		Status:     domain.PickupStatusScheduled,
		TotalPrice: 5.99,
	})
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, NewMockCustomerRepository(), NewMockDriverRepository(), NewMockQuoteStore(), fare)

	summary, err := svc.GetPickupStatus(context.Background(), "pickup-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Status != domain.PickupStatusScheduled {
		t.Errorf("expected status %s, got %s", domain.PickupStatusScheduled, summary.Status)
	}
	if summary.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %s", summary.DriverID)
	}
}

func TestPickup_CustomerHistoryFiltered(t *testing.T) {
	t.Parallel()

	pickupRepo := NewMockPickupRepository()
	pickupRepo.AddPickup(&domain.Pickup{ID: "pickup-1", CustomerID: "customer-1", Status: domain.PickupStatusRequested})
	pickupRepo.AddPickup(&domain.Pickup{ID: "pickup-2", CustomerID: "customer-2", Status: domain.PickupStatusRequested})
	pickupRepo.AddPickup(&domain.Pickup{ID: "pickup-3", CustomerID: "customer-1", Status: domain.PickupStatusCompleted})
	fare := service.NewFareService(standardSchedule())

	svc := newPickupService(pickupRepo, NewMockCustomerRepository(), NewMockDriverRepository(), NewMockQuoteStore(), fare)

	pickups, err := svc.GetCustomerPickups(context.Background(), "customer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pickups) != 2 {
		t.Errorf("expected 2 pickups for customer-1, got %d", len(pickups))
	}
}
