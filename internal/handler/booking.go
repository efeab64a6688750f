package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ambulance/internal/domain"
	"ambulance/internal/service"
	"ambulance/internal/validation"
	"ambulance/internal/wire"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// List handles GET /api/bookings
func (h *BookingHandler) List(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.List(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromBookings(bookings))
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req wire.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		respondError(c, err)
		return
	}
	scheduledAt, ok := wire.ParseDateTime(req.DateTime)
	if !ok {
		respondError(c, service.ErrInvalidSchedule)
		return
	}

	b, err := h.bookingService.Create(c.Request.Context(), identity, service.CreateBookingRequest{
		ScheduledAt: scheduledAt,
		Pickup:      req.Locations.Pickup,
		Dropoff:     req.Locations.Dropoff,
		Patient: domain.PatientInfo{
			Name:             req.PatientInfo.Name,
			Age:              req.PatientInfo.Age,
			Gender:           req.PatientInfo.Gender,
			MedicalCondition: req.PatientInfo.MedicalCondition,
		},
		AmbulanceType:        req.AmbulanceType,
		Fare:                 req.Fare,
		PaymentMethod:        req.PaymentMethod,
		EstimatedDurationMin: req.EstimatedDuration,
		EstimatedDistanceKm:  req.EstimatedDistance,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, wire.FromBooking(b))
}

// Get handles GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	b, err := h.bookingService.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromBooking(b))
}

// Cancel handles POST /api/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req wire.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	b, err := h.bookingService.Cancel(c.Request.Context(), identity, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromBooking(b))
}

// Review handles POST /api/bookings/:id/review
func (h *BookingHandler) Review(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req wire.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	b, err := h.bookingService.SubmitReview(c.Request.Context(), identity, c.Param("id"), domain.Review{
		Rating:             req.Rating,
		Comment:            req.Comment,
		DriverRating:       req.DriverRating,
		VehicleRating:      req.VehicleRating,
		ResponseTimeRating: req.ResponseTimeRating,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromBooking(b))
}

// UpdateStatus handles PUT /api/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req wire.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		respondError(c, err)
		return
	}

	b, err := h.bookingService.UpdateStatus(c.Request.Context(), identity, service.UpdateStatusRequest{
		BookingID: c.Param("id"),
		Status:    req.Status,
		DriverID:  req.DriverID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromBooking(b))
}
