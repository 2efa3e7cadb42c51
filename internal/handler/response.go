package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentndrive/internal/repository"
	"rentndrive/internal/service"
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

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidCarID),
		errors.Is(err, service.ErrInvalidReservationID),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidDailyRate),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrCommentTooLong),
		errors.Is(err, service.ErrInvalidReviewTarget),
		errors.Is(err, service.ErrInvalidSignature),
		errors.Is(err, service.ErrPaymentMismatch),
		errors.Is(err, service.ErrPaymentNotCaptured):
		return http.StatusBadRequest

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrNotApproved),
		errors.Is(err, service.ErrReviewNotAllowed):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrCarAlreadyReserved),
		errors.Is(err, service.ErrReservationTerminal),
		errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrPaymentAlreadyCaptured):
		return http.StatusConflict

	// Upstream gateway failures
	case errors.Is(err, service.ErrGatewayUnavailable):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
