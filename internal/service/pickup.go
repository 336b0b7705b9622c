package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
	"pickup/internal/redis"
	"pickup/internal/repository"
	"pickup/internal/repository/postgres"
)

// PickupService handles the return-pickup booking lifecycle.
type PickupService struct {
	db                  *sql.DB
	pickupRepo          repository.PickupRepository
	customerRepo        repository.CustomerRepository
	driverRepo          repository.DriverRepository
	quotes              redis.QuoteStoreInterface
	cache               *redis.CacheStore
	fare                *FareService
	payoutService       *PayoutService
	notificationService *NotificationService
	receiptService      *ReceiptService
}

// NewPickupService creates a new PickupService.
func NewPickupService(
	db *sql.DB,
	pickupRepo repository.PickupRepository,
	customerRepo repository.CustomerRepository,
	driverRepo repository.DriverRepository,
	quotes redis.QuoteStoreInterface,
	cache *redis.CacheStore,
	fare *FareService,
	payoutService *PayoutService,
	notificationService *NotificationService,
	receiptService *ReceiptService,
) *PickupService {
	return &PickupService{
		db:                  db,
		pickupRepo:          pickupRepo,
		customerRepo:        customerRepo,
		driverRepo:          driverRepo,
		quotes:              quotes,
		cache:               cache,
		fare:                fare,
		payoutService:       payoutService,
		notificationService: notificationService,
		receiptService:      receiptService,
	}
}

// BookPickupRequest contains the parameters for booking a pickup.
// Either QuoteID references a cached quote, or the raw fare inputs are
// supplied and the pickup is priced at booking time.
type BookPickupRequest struct {
	CustomerID      string
	QuoteID         string
	ItemDescription string

	ItemValue            float64
	SizeCategory         domain.SizeCategory
	ItemCount            int
	DistanceMiles        float64
	EstimatedTimeMinutes float64
	Rush                 bool
	Tip                  float64
}

// BookPickup creates a new pickup in REQUESTED state.
func (s *PickupService) BookPickup(ctx context.Context, req BookPickupRequest) (*domain.Pickup, error) {
	if req.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}

	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	pickup := &domain.Pickup{
		ID:              uuid.New().String(),
		CustomerID:      req.CustomerID,
		QuoteID:         req.QuoteID,
		ItemDescription: req.ItemDescription,
		Status:          domain.PickupStatusRequested,
		CreatedAt:       time.Now(),
	}

	if req.QuoteID != "" {
		quote, err := s.quotes.Get(ctx, req.QuoteID)
		if err != nil {
			return nil, err
		}
		if quote == nil {
			return nil, ErrQuoteExpired
		}

		pickup.ItemValue = quote.ItemValue
		pickup.ItemCount = quote.ItemCount
		pickup.SizeCategory = quote.SizeCategory
		pickup.DistanceMiles = quote.DistanceMiles
		pickup.EstimatedTimeMinutes = quote.EstimatedTimeMinutes
		pickup.Rush = quote.Rush
		pickup.Tip = quote.Tip
		pickup.TotalPrice = quote.Breakdown.TotalPrice
	} else {
		route := domain.RouteInfo{
			DistanceMiles:        req.DistanceMiles,
			EstimatedTimeMinutes: req.EstimatedTimeMinutes,
		}

		var breakdown *domain.PaymentBreakdown
		var err error
		size := req.SizeCategory
		if req.ItemValue > 0 {
			size = ClassifySize(req.ItemValue)
			breakdown, err = s.fare.QuoteForItemValue(route, req.ItemValue, req.ItemCount, req.Rush, req.Tip)
		} else {
			if !isKnownSize(size) {
				return nil, ErrInvalidSizeCategory
			}
			breakdown, err = s.fare.Quote(route, size, req.ItemCount, req.Rush, req.Tip)
		}
		if err != nil {
			return nil, err
		}

		pickup.ItemValue = req.ItemValue
		pickup.ItemCount = req.ItemCount
		pickup.SizeCategory = size
		pickup.DistanceMiles = req.DistanceMiles
		pickup.EstimatedTimeMinutes = req.EstimatedTimeMinutes
		pickup.Rush = req.Rush
		pickup.Tip = req.Tip
		pickup.TotalPrice = breakdown.TotalPrice
	}

	if err := s.pickupRepo.Create(ctx, pickup); err != nil {
		return nil, err
	}

	// A booked quote is consumed; expiry handles the rest.
	if req.QuoteID != "" {
		_ = s.quotes.Invalidate(ctx, req.QuoteID)
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPickupBooked(ctx, pickup)
	}

	return pickup, nil
}

// ClaimPickupRequest contains the parameters for a driver claiming a pickup.
type ClaimPickupRequest struct {
	PickupID string
	DriverID string
}

// ClaimPickup assigns a driver to a requested pickup and schedules it.
func (s *PickupService) ClaimPickup(ctx context.Context, req ClaimPickupRequest) (*domain.Pickup, error) {
	if req.PickupID == "" {
		return nil, ErrInvalidPickupID
	}
	if req.DriverID == "" {
		return nil, ErrInvalidDriverID
	}

	pickup, err := s.pickupRepo.GetByID(ctx, req.PickupID)
	if err != nil {
		return nil, err
	}

	if pickup.Status != domain.PickupStatusRequested {
		return nil, ErrPickupNotClaimable
	}

	driver, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if driver.Status != domain.DriverStatusActive {
		return nil, ErrDriverNotAvailable
	}

	// Use transaction to schedule the pickup and mark the driver busy.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txPickupRepo := postgres.NewPickupRepositoryWithTx(tx)
	txDriverRepo := postgres.NewDriverRepositoryWithTx(tx)

	pickup.DriverID = req.DriverID
	pickup.Status = domain.PickupStatusScheduled

	if err = txPickupRepo.Update(ctx, pickup); err != nil {
		return nil, err
	}

	if err = txDriverRepo.UpdateStatus(ctx, req.DriverID, domain.DriverStatusOnPickup); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, pickup.ID)
	s.invalidateDriverCache(ctx, req.DriverID)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPickupClaimed(ctx, pickup, driver)
	}

	return pickup, nil
}

// CompletePickupRequest contains the parameters for completing a pickup.
type CompletePickupRequest struct {
	PickupID string
}

// CompletePickupResponse contains the result of completing a pickup.
type CompletePickupResponse struct {
	Pickup  *domain.Pickup
	Payout  *domain.Payout
	Receipt *domain.Receipt
}

// CompletePickup marks a scheduled pickup as completed, frees the
// driver, settles the driver payout, and generates a receipt.
func (s *PickupService) CompletePickup(ctx context.Context, req CompletePickupRequest) (*CompletePickupResponse, error) {
	if req.PickupID == "" {
		return nil, ErrInvalidPickupID
	}

	pickup, err := s.pickupRepo.GetByID(ctx, req.PickupID)
	if err != nil {
		return nil, err
	}

	if pickup.Status == domain.PickupStatusCompleted {
		return nil, ErrPickupAlreadyCompleted
	}
	if pickup.Status != domain.PickupStatusScheduled {
		return nil, ErrPickupNotScheduled
	}

	// Use transaction to complete the pickup and free the driver.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txPickupRepo := postgres.NewPickupRepositoryWithTx(tx)
	txDriverRepo := postgres.NewDriverRepositoryWithTx(tx)

	pickup.Status = domain.PickupStatusCompleted
	pickup.CompletedAt = time.Now()

	if err = txPickupRepo.Update(ctx, pickup); err != nil {
		return nil, err
	}

	if err = txDriverRepo.UpdateStatus(ctx, pickup.DriverID, domain.DriverStatusActive); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, pickup.ID)
	s.invalidateDriverCache(ctx, pickup.DriverID)

	// Settle the payout after the transaction commits. A failure here does
	// not undo completion; settlement is idempotent and can be retried.
	var payout *domain.Payout
	payout, err = s.payoutService.SettlePayout(ctx, pickup)
	if err != nil {
		payout = nil
		err = nil
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPickupCompleted(ctx, pickup)
		if payout != nil {
			if payout.Status == domain.PayoutStatusSuccess {
				_ = s.notificationService.NotifyPayoutSent(ctx, payout)
			} else if payout.Status == domain.PayoutStatusFailed {
				_ = s.notificationService.NotifyPayoutFailed(ctx, payout)
			}
		}
	}

	var receipt *domain.Receipt
	if s.receiptService != nil {
		receipt, _ = s.receiptService.GenerateReceipt(ctx, GenerateReceiptRequest{
			Pickup: pickup,
			Payout: payout,
		})
	}

	return &CompletePickupResponse{
		Pickup:  pickup,
		Payout:  payout,
		Receipt: receipt,
	}, nil
}

// CancelPickupRequest contains the parameters for cancelling a pickup.
type CancelPickupRequest struct {
	PickupID string
	Reason   string
}

// CancelPickup cancels a pickup that has not completed yet.
func (s *PickupService) CancelPickup(ctx context.Context, req CancelPickupRequest) (*domain.Pickup, error) {
	if req.PickupID == "" {
		return nil, ErrInvalidPickupID
	}

	pickup, err := s.pickupRepo.GetByID(ctx, req.PickupID)
	if err != nil {
		return nil, err
	}

	switch pickup.Status {
	case domain.PickupStatusCancelled:
		return nil, ErrPickupAlreadyCancelled
	case domain.PickupStatusCompleted:
		return nil, ErrPickupCannotBeCancelled
	}

	hadDriver := pickup.DriverID != ""

	pickup.Status = domain.PickupStatusCancelled
	pickup.CancelledAt = time.Now()
	pickup.CancelReason = req.Reason

	if hadDriver {
		// Free the driver in the same transaction as the cancellation.
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}

		defer func() {
			if err != nil {
				_ = tx.Rollback()
			}
		}()

		txPickupRepo := postgres.NewPickupRepositoryWithTx(tx)
		txDriverRepo := postgres.NewDriverRepositoryWithTx(tx)

		if err = txPickupRepo.Update(ctx, pickup); err != nil {
			return nil, err
		}
		if err = txDriverRepo.UpdateStatus(ctx, pickup.DriverID, domain.DriverStatusActive); err != nil {
			return nil, err
		}
		if err = tx.Commit(); err != nil {
			return nil, err
		}
	} else {
		if err := s.pickupRepo.Update(ctx, pickup); err != nil {
			return nil, err
		}
	}

	s.invalidateCache(ctx, pickup.ID)
	if hadDriver {
		s.invalidateDriverCache(ctx, pickup.DriverID)
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyPickupCancelled(ctx, pickup)
	}

	return pickup, nil
}

// GetPickup retrieves a pickup by ID, serving the hot status fields from
// cache when possible.
func (s *PickupService) GetPickup(ctx context.Context, pickupID string) (*domain.Pickup, error) {
	if pickupID == "" {
		return nil, ErrInvalidPickupID
	}

	pickup, err := s.pickupRepo.GetByID(ctx, pickupID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetPickup(ctx, &redis.CachedPickup{
			ID:         pickup.ID,
			CustomerID: pickup.CustomerID,
			DriverID:   pickup.DriverID,
			Status:     string(pickup.Status),
			TotalPrice: pickup.TotalPrice,
		})
	}

	return pickup, nil
}

// PickupStatusSummary is the hot subset of pickup fields served from
// cache for status polling.
type PickupStatusSummary struct {
	ID         string
	CustomerID string
	DriverID   string
	Status     domain.PickupStatus
	TotalPrice float64
}

// GetPickupStatus returns the pickup status, from cache when fresh.
// Booking apps poll this while a pickup is underway.
func (s *PickupService) GetPickupStatus(ctx context.Context, pickupID string) (*PickupStatusSummary, error) {
	if pickupID == "" {
		return nil, ErrInvalidPickupID
	}

	if s.cache != nil {
		cached, err := s.cache.GetPickup(ctx, pickupID)
		if err == nil && cached != nil {
			return &PickupStatusSummary{
				ID:         cached.ID,
				CustomerID: cached.CustomerID,
				DriverID:   cached.DriverID,
				Status:     domain.PickupStatus(cached.Status),
				TotalPrice: cached.TotalPrice,
			}, nil
		}
	}

	pickup, err := s.GetPickup(ctx, pickupID)
	if err != nil {
		return nil, err
	}

	return &PickupStatusSummary{
		ID:         pickup.ID,
		CustomerID: pickup.CustomerID,
		DriverID:   pickup.DriverID,
		Status:     pickup.Status,
		TotalPrice: pickup.TotalPrice,
	}, nil
}

// GetAllPickups retrieves all pickups.
func (s *PickupService) GetAllPickups(ctx context.Context) ([]*domain.Pickup, error) {
	return s.pickupRepo.GetAll(ctx)
}

// GetCustomerPickups retrieves all pickups booked by a customer.
func (s *PickupService) GetCustomerPickups(ctx context.Context, customerID string) ([]*domain.Pickup, error) {
	if customerID == "" {
		return nil, ErrInvalidCustomerID
	}
	return s.pickupRepo.GetByCustomerID(ctx, customerID)
}

func (s *PickupService) invalidateCache(ctx context.Context, pickupID string) {
	if s.cache != nil {
		_ = s.cache.InvalidatePickup(ctx, pickupID)
	}
}

func (s *PickupService) invalidateDriverCache(ctx context.Context, driverID string) {
	if s.cache != nil && driverID != "" {
		_ = s.cache.InvalidateDriver(ctx, driverID)
	}
}
