package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pickup/internal/domain"
)

// ReceiptService builds customer receipts for completed pickups. The
// receipt carries the full three-way allocation so it doubles as the
// driver's earning statement for tax reporting.
type ReceiptService struct {
	fare                *FareService
	notificationService *NotificationService
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(fare *FareService, notificationService *NotificationService) *ReceiptService {
	return &ReceiptService{
		fare:                fare,
		notificationService: notificationService,
	}
}

// GenerateReceiptRequest contains the parameters for generating a receipt.
type GenerateReceiptRequest struct {
	Pickup *domain.Pickup
	Payout *domain.Payout
}

// GenerateReceipt generates a receipt for a completed pickup.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, req GenerateReceiptRequest) (*domain.Receipt, error) {
	if req.Pickup == nil {
		return nil, ErrInvalidPickupID
	}

	route := domain.RouteInfo{
		DistanceMiles:        req.Pickup.DistanceMiles,
		EstimatedTimeMinutes: req.Pickup.EstimatedTimeMinutes,
	}

	var breakdown *domain.PaymentBreakdown
	var err error
	if req.Pickup.ItemValue > 0 {
		breakdown, err = s.fare.QuoteForItemValue(route, req.Pickup.ItemValue, req.Pickup.ItemCount, req.Pickup.Rush, req.Pickup.Tip)
	} else {
		breakdown, err = s.fare.Quote(route, req.Pickup.SizeCategory, req.Pickup.ItemCount, req.Pickup.Rush, req.Pickup.Tip)
	}
	if err != nil {
		return nil, err
	}

	payoutStatus := domain.PayoutStatusPending
	if req.Payout != nil {
		payoutStatus = req.Payout.Status
	}

	receipt := &domain.Receipt{
		ID:           uuid.New().String(),
		PickupID:     req.Pickup.ID,
		CustomerID:   req.Pickup.CustomerID,
		DriverID:     req.Pickup.DriverID,
		Breakdown:    *breakdown,
		PayoutStatus: payoutStatus,
		CreatedAt:    time.Now(),
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyReceiptReady(ctx, receipt)
	}

	return receipt, nil
}

// FormatReceipt formats the receipt as a string (for email/print).
func (s *ReceiptService) FormatReceipt(receipt *domain.Receipt) string {
	b := receipt.Breakdown

	return `
=====================================
       RETURN PICKUP RECEIPT
=====================================
Receipt ID: ` + receipt.ID + `
Pickup ID:  ` + receipt.PickupID + `
Date:       ` + receipt.CreatedAt.Format("Jan 02, 2006 3:04 PM") + `

CUSTOMER CHARGES
-------------------------------------
Base Price:       $` + money(b.BasePrice) + `
Distance Fee:     $` + money(b.DistanceFee) + `
Time Fee:         $` + money(b.TimeFee) + `
Size Upcharge:    $` + money(b.SizeUpcharge) + `
Multi-Item Fee:   $` + money(b.MultiItemFee) + `
Small Order Fee:  $` + money(b.SmallOrderFee) + `
Rush Fee:         $` + money(b.RushFee) + `
Service Fee:      $` + money(b.ServiceFee) + `
Tip:              $` + money(b.Tip) + `
-------------------------------------
TOTAL CHARGED:    $` + money(b.TotalPrice) + `

DRIVER EARNINGS
-------------------------------------
Base Pay:         $` + money(b.DriverBasePay) + `
Distance Pay:     $` + money(b.DriverDistancePay) + `
Time Pay:         $` + money(b.DriverTimePay) + `
Size Bonus:       $` + money(b.DriverSizeBonus) + `
Tip:              $` + money(b.DriverTip) + `
-------------------------------------
TOTAL EARNING:    $` + money(b.DriverTotalEarning) + `
Payout Status:    ` + string(receipt.PayoutStatus) + `

COMPANY REVENUE
-------------------------------------
Service Fee:      $` + money(b.CompanyServiceFee) + `
Base Share:       $` + money(b.CompanyBaseFeeShare) + `
Distance Share:   $` + money(b.CompanyDistanceFeeShare) + `
Time Share:       $` + money(b.CompanyTimeFeeShare) + `
-------------------------------------
TOTAL REVENUE:    $` + money(b.CompanyTotalRevenue) + `

=====================================
    Thank you for returning with us!
=====================================
`
}

func money(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
