package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ambulance/internal/domain"
	"ambulance/internal/middleware"
	"ambulance/internal/repository"
	"ambulance/internal/service"
	"ambulance/internal/validation"
	"ambulance/internal/wire"
)

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, wire.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, wire.ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, wire.ErrorResponse{Error: msg})
}

// caller returns the authenticated identity or writes a 401.
func caller(c *gin.Context) (domain.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, wire.ErrorResponse{Error: "authentication required"})
		return domain.Identity{}, false
	}
	return identity, true
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrDriverRequired),
		errors.Is(err, service.ErrInvalidPickup),
		errors.Is(err, service.ErrInvalidDropoff),
		errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrInvalidAmbulanceType),
		errors.Is(err, service.ErrInvalidContactID),
		errors.Is(err, service.ErrInvalidRelationship),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrReasonRequired),
		errors.Is(err, domain.ErrRatingRequired),
		errors.Is(err, domain.ErrRatingOutOfRange):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidIdentity):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrBookingBusy),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrBookingNotCompleted):
		return http.StatusConflict

	// Service unavailable
	case errors.Is(err, service.ErrNearbyUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
