package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/domain"
	"pickup/internal/service"
)

// QuoteHandler handles HTTP requests for fare quotes.
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// CreateQuoteRequest is the HTTP request body for pricing a pickup.
// Supply either size_category, or item_value with value_capped=true to
// let the declared value drive sizing and cap the total.
type CreateQuoteRequest struct {
	DistanceMiles        float64 `json:"distance_miles"`
	EstimatedTimeMinutes float64 `json:"estimated_time_minutes"`
	SizeCategory         string  `json:"size_category"`
	ItemValue            float64 `json:"item_value"`
	ValueCapped          bool    `json:"value_capped"`
	ItemCount            int     `json:"item_count"`
	Rush                 bool    `json:"rush"`
	Tip                  float64 `json:"tip"`
}

// QuoteResponse is the HTTP response for quote operations.
type QuoteResponse struct {
	ID                   string                  `json:"id"`
	SizeCategory         string                  `json:"size_category"`
	ItemCount            int                     `json:"item_count"`
	DistanceMiles        float64                 `json:"distance_miles"`
	EstimatedTimeMinutes float64                 `json:"estimated_time_minutes"`
	Rush                 bool                    `json:"rush"`
	ValueCapped          bool                    `json:"value_capped"`
	Breakdown            domain.PaymentBreakdown `json:"breakdown"`
}

// CreateQuote handles POST /v1/quotes
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), service.CreateQuoteRequest{
		DistanceMiles:        req.DistanceMiles,
		EstimatedTimeMinutes: req.EstimatedTimeMinutes,
		SizeCategory:         domain.SizeCategory(req.SizeCategory),
		ItemValue:            req.ItemValue,
		ValueCapped:          req.ValueCapped,
		ItemCount:            req.ItemCount,
		Rush:                 req.Rush,
		Tip:                  req.Tip,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toQuoteResponse(quote))
}

// GetQuote handles GET /v1/quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.quoteService.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toQuoteResponse(quote))
}

// ValidateQuote handles GET /v1/quotes/:id/validation
//
// Diagnostic endpoint: runs the conservation check on the cached quote.
func (h *QuoteHandler) ValidateQuote(c *gin.Context) {
	result, err := h.quoteService.ValidateQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, result)
}

func toQuoteResponse(quote *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:                   quote.ID,
		SizeCategory:         string(quote.SizeCategory),
		ItemCount:            quote.ItemCount,
		DistanceMiles:        quote.DistanceMiles,
		EstimatedTimeMinutes: quote.EstimatedTimeMinutes,
		Rush:                 quote.Rush,
		ValueCapped:          quote.ValueCapped,
		Breakdown:            quote.Breakdown,
	}
}
