package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pickup/internal/domain"
	"pickup/internal/service"
)

// PickupHandler handles HTTP requests for pickups.
type PickupHandler struct {
	pickupService *service.PickupService
}

// NewPickupHandler creates a new PickupHandler.
func NewPickupHandler(pickupService *service.PickupService) *PickupHandler {
	return &PickupHandler{pickupService: pickupService}
}

// BookPickupRequest is the HTTP request body for booking a pickup.
type BookPickupRequest struct {
	CustomerID      string `json:"customer_id"`
	QuoteID         string `json:"quote_id"`
	ItemDescription string `json:"item_description"`

	ItemValue            float64 `json:"item_value"`
	SizeCategory         string  `json:"size_category"`
	ItemCount            int     `json:"item_count"`
	DistanceMiles        float64 `json:"distance_miles"`
	EstimatedTimeMinutes float64 `json:"estimated_time_minutes"`
	Rush                 bool    `json:"rush"`
	Tip                  float64 `json:"tip"`
}

// ClaimPickupRequest is the HTTP request body for claiming a pickup.
type ClaimPickupRequest struct {
	DriverID string `json:"driver_id"`
}

// CancelPickupRequest is the HTTP request body for cancelling a pickup.
type CancelPickupRequest struct {
	Reason string `json:"reason"`
}

// PickupResponse is the HTTP response for pickup operations.
type PickupResponse struct {
	ID                   string  `json:"id"`
	CustomerID           string  `json:"customer_id"`
	DriverID             string  `json:"driver_id,omitempty"`
	QuoteID              string  `json:"quote_id,omitempty"`
	ItemDescription      string  `json:"item_description"`
	ItemValue            float64 `json:"item_value,omitempty"`
	ItemCount            int     `json:"item_count"`
	SizeCategory         string  `json:"size_category"`
	DistanceMiles        float64 `json:"distance_miles"`
	EstimatedTimeMinutes float64 `json:"estimated_time_minutes"`
	Rush                 bool    `json:"rush"`
	Tip                  float64 `json:"tip"`
	Status               string  `json:"status"`
	TotalPrice           float64 `json:"total_price"`
	CreatedAt            string  `json:"created_at"`
}

// PickupStatusResponse is the HTTP response for pickup status polling.
type PickupStatusResponse struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	DriverID   string  `json:"driver_id,omitempty"`
	TotalPrice float64 `json:"total_price"`
}

// CompletePickupResponse is the HTTP response for completing a pickup.
type CompletePickupResponse struct {
	Pickup  PickupResponse           `json:"pickup"`
	Payout  *PayoutResponse          `json:"payout,omitempty"`
	Receipt *domain.PaymentBreakdown `json:"receipt_breakdown,omitempty"`
}

// BookPickup handles POST /v1/pickups
func (h *PickupHandler) BookPickup(c *gin.Context) {
	var req BookPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.CustomerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "customer_id is required"})
		return
	}

	pickup, err := h.pickupService.BookPickup(c.Request.Context(), service.BookPickupRequest{
		CustomerID:           req.CustomerID,
		QuoteID:              req.QuoteID,
		ItemDescription:      req.ItemDescription,
		ItemValue:            req.ItemValue,
		SizeCategory:         domain.SizeCategory(req.SizeCategory),
		ItemCount:            req.ItemCount,
		DistanceMiles:        req.DistanceMiles,
		EstimatedTimeMinutes: req.EstimatedTimeMinutes,
		Rush:                 req.Rush,
		Tip:                  req.Tip,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPickupResponse(pickup))
}

// GetAll handles GET /v1/pickups
func (h *PickupHandler) GetAll(c *gin.Context) {
	var (
		pickups []*domain.Pickup
		err     error
	)

	if customerID := c.Query("customer_id"); customerID != "" {
		pickups, err = h.pickupService.GetCustomerPickups(c.Request.Context(), customerID)
	} else {
		pickups, err = h.pickupService.GetAllPickups(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PickupResponse, 0, len(pickups))
	for _, p := range pickups {
		response = append(response, toPickupResponse(p))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetPickup handles GET /v1/pickups/:id
func (h *PickupHandler) GetPickup(c *gin.Context) {
	pickup, err := h.pickupService.GetPickup(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPickupResponse(pickup))
}

// GetStatus handles GET /v1/pickups/:id/status
func (h *PickupHandler) GetStatus(c *gin.Context) {
	summary, err := h.pickupService.GetPickupStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PickupStatusResponse{
		ID:         summary.ID,
		Status:     string(summary.Status),
		DriverID:   summary.DriverID,
		TotalPrice: summary.TotalPrice,
	})
}

// ClaimPickup handles POST /v1/pickups/:id/claim
func (h *PickupHandler) ClaimPickup(c *gin.Context) {
	var req ClaimPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	pickup, err := h.pickupService.ClaimPickup(c.Request.Context(), service.ClaimPickupRequest{
		PickupID: c.Param("id"),
		DriverID: req.DriverID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPickupResponse(pickup))
}

// CompletePickup handles POST /v1/pickups/:id/complete
func (h *PickupHandler) CompletePickup(c *gin.Context) {
	result, err := h.pickupService.CompletePickup(c.Request.Context(), service.CompletePickupRequest{
		PickupID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := CompletePickupResponse{
		Pickup: toPickupResponse(result.Pickup),
	}
	if result.Payout != nil {
		payout := toPayoutResponse(result.Payout)
		response.Payout = &payout
	}
	if result.Receipt != nil {
		response.Receipt = &result.Receipt.Breakdown
	}

	respondJSON(c, http.StatusOK, response)
}

// CancelPickup handles POST /v1/pickups/:id/cancel
func (h *PickupHandler) CancelPickup(c *gin.Context) {
	var req CancelPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	pickup, err := h.pickupService.CancelPickup(c.Request.Context(), service.CancelPickupRequest{
		PickupID: c.Param("id"),
		Reason:   req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPickupResponse(pickup))
}

func toPickupResponse(p *domain.Pickup) PickupResponse {
	return PickupResponse{
		ID:                   p.ID,
		CustomerID:           p.CustomerID,
		DriverID:             p.DriverID,
		QuoteID:              p.QuoteID,
		ItemDescription:      p.ItemDescription,
		ItemValue:            p.ItemValue,
		ItemCount:            p.ItemCount,
		SizeCategory:         string(p.SizeCategory),
		DistanceMiles:        p.DistanceMiles,
		EstimatedTimeMinutes: p.EstimatedTimeMinutes,
		Rush:                 p.Rush,
		Tip:                  p.Tip,
		Status:               string(p.Status),
		TotalPrice:           p.TotalPrice,
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
	}
}
