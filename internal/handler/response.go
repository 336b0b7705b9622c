package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pickup/internal/repository"
	"pickup/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Expired quotes
	case errors.Is(err, service.ErrQuoteExpired):
		return http.StatusGone

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrInvalidItemCount),
		errors.Is(err, service.ErrInvalidTip),
		errors.Is(err, service.ErrInvalidItemValue),
		errors.Is(err, service.ErrInvalidSizeCategory),
		errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidPickupID),
		errors.Is(err, service.ErrInvalidQuoteID),
		errors.Is(err, service.ErrInvalidPayoutID):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrPickupNotClaimable),
		errors.Is(err, service.ErrPickupNotScheduled),
		errors.Is(err, service.ErrPickupAlreadyCompleted),
		errors.Is(err, service.ErrPickupAlreadyCancelled),
		errors.Is(err, service.ErrPickupCannotBeCancelled),
		errors.Is(err, service.ErrPickupNotCompleted),
		errors.Is(err, service.ErrPickupHasNoDriver),
		errors.Is(err, service.ErrDriverNotAvailable),
		errors.Is(err, service.ErrPayoutInProgress):
		return http.StatusConflict

	// Conservation failure blocks the payout by policy
	case errors.Is(err, service.ErrConservationViolated):
		return http.StatusUnprocessableEntity

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
