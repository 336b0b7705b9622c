package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/domain"
	"pickup/internal/service"
)

// PayoutHandler handles HTTP requests for driver payouts.
type PayoutHandler struct {
	payoutService *service.PayoutService
	pickupService *service.PickupService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payoutService *service.PayoutService, pickupService *service.PickupService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
		pickupService: pickupService,
	}
}

// SettlePayoutRequest is the HTTP request body for settling a payout.
type SettlePayoutRequest struct {
	PickupID string `json:"pickup_id"`
}

// PayoutResponse is the HTTP response for payout operations.
type PayoutResponse struct {
	ID              string  `json:"id"`
	PickupID        string  `json:"pickup_id"`
	DriverID        string  `json:"driver_id"`
	Amount          float64 `json:"amount"`
	Status          string  `json:"status"`
	IdempotencyKey  string  `json:"idempotency_key"`
	ConservationOK  bool    `json:"conservation_ok"`
	ConservationGap float64 `json:"conservation_gap"`
}

// SettlePayout handles POST /v1/payouts
//
// Retry path for payouts that failed during pickup completion; settlement
// is idempotent per pickup.
func (h *PayoutHandler) SettlePayout(c *gin.Context) {
	var req SettlePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.PickupID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "pickup_id is required"})
		return
	}

	pickup, err := h.pickupService.GetPickup(c.Request.Context(), req.PickupID)
	if err != nil {
		respondError(c, err)
		return
	}

	payout, err := h.payoutService.SettlePayout(c.Request.Context(), pickup)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPayoutResponse(payout))
}

// GetPayout handles GET /v1/payouts/:id
func (h *PayoutHandler) GetPayout(c *gin.Context) {
	payout, err := h.payoutService.GetPayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPayoutResponse(payout))
}

// GetDriverPayouts handles GET /v1/drivers/:id/payouts
func (h *PayoutHandler) GetDriverPayouts(c *gin.Context) {
	payouts, err := h.payoutService.GetDriverPayouts(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		response = append(response, toPayoutResponse(p))
	}

	respondJSON(c, http.StatusOK, response)
}

func toPayoutResponse(p *domain.Payout) PayoutResponse {
	return PayoutResponse{
		ID:              p.ID,
		PickupID:        p.PickupID,
		DriverID:        p.DriverID,
		Amount:          p.Amount,
		Status:          string(p.Status),
		IdempotencyKey:  p.IdempotencyKey,
		ConservationOK:  p.ConservationOK,
		ConservationGap: p.ConservationGap,
	}
}
