package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"pickup/internal/domain"
	"pickup/internal/service"
)

// ReceiptHandler handles HTTP requests for receipts.
type ReceiptHandler struct {
	receiptService *service.ReceiptService
	pickupService  *service.PickupService
	payoutService  *service.PayoutService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService *service.ReceiptService, pickupService *service.PickupService, payoutService *service.PayoutService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
		pickupService:  pickupService,
		payoutService:  payoutService,
	}
}

// ReceiptResponse is the HTTP response for receipt operations.
type ReceiptResponse struct {
	ID           string                  `json:"id"`
	PickupID     string                  `json:"pickup_id"`
	CustomerID   string                  `json:"customer_id"`
	DriverID     string                  `json:"driver_id"`
	Breakdown    domain.PaymentBreakdown `json:"breakdown"`
	PayoutStatus string                  `json:"payout_status"`
	Formatted    string                  `json:"formatted"`
	CreatedAt    string                  `json:"created_at"`
}

// GetReceipt handles GET /v1/pickups/:id/receipt
//
// Receipts are recomputed from the pickup's captured fare inputs, so
// they are available any time after completion without a stored copy.
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	pickup, err := h.pickupService.GetPickup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if pickup.Status != domain.PickupStatusCompleted {
		respondError(c, service.ErrPickupNotCompleted)
		return
	}

	payout, err := h.payoutService.GetPickupPayout(c.Request.Context(), pickup.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	receipt, err := h.receiptService.GenerateReceipt(c.Request.Context(), service.GenerateReceiptRequest{
		Pickup: pickup,
		Payout: payout,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, 200, ReceiptResponse{
		ID:           receipt.ID,
		PickupID:     receipt.PickupID,
		CustomerID:   receipt.CustomerID,
		DriverID:     receipt.DriverID,
		Breakdown:    receipt.Breakdown,
		PayoutStatus: string(receipt.PayoutStatus),
		Formatted:    h.receiptService.FormatReceipt(receipt),
		CreatedAt:    receipt.CreatedAt.Format(time.RFC3339),
	})
}
