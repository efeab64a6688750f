package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ambulance/internal/domain"
	"ambulance/internal/wire"
)

// ListBookings fetches the caller's own booking collection.
func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	var out []wire.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings", nil, &out); err != nil {
		return nil, err
	}
	bookings, err := wire.ToDomainBookings(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return bookings, nil
}

// GetBooking fetches a single booking.
func (c *Client) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	var out wire.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return toBooking(out)
}

// CreateBooking submits a new transport request.
func (c *Client) CreateBooking(ctx context.Context, req wire.CreateBookingRequest) (*domain.Booking, error) {
	var out wire.Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", req, &out); err != nil {
		return nil, err
	}
	return toBooking(out)
}

// CancelBooking asks the server to cancel a booking.
func (c *Client) CancelBooking(ctx context.Context, id, reason string) (*domain.Booking, error) {
	var out wire.Booking
	path := "/api/bookings/" + url.PathEscape(id) + "/cancel"
	if err := c.do(ctx, http.MethodPost, path, wire.CancelRequest{Reason: reason}, &out); err != nil {
		return nil, err
	}
	return toBooking(out)
}

// SubmitReview creates or replaces the review on a completed booking.
func (c *Client) SubmitReview(ctx context.Context, id string, r domain.Review) (*domain.Booking, error) {
	var out wire.Booking
	path := "/api/bookings/" + url.PathEscape(id) + "/review"
	body := wire.ReviewRequest{
		Rating:             r.Rating,
		Comment:            r.Comment,
		DriverRating:       r.DriverRating,
		VehicleRating:      r.VehicleRating,
		ResponseTimeRating: r.ResponseTimeRating,
	}
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	return toBooking(out)
}

// UpdateBookingStatus moves a booking along the driver-side lifecycle.
func (c *Client) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus, driverID string) (*domain.Booking, error) {
	var out wire.Booking
	path := "/api/bookings/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPut, path, wire.StatusRequest{Status: string(status), DriverID: driverID}, &out); err != nil {
		return nil, err
	}
	return toBooking(out)
}

// toBooking converts an acknowledgment body. An ack without a body yields nil.
func toBooking(b wire.Booking) (*domain.Booking, error) {
	if b.CanonicalID() == "" {
		return nil, nil
	}
	d, err := b.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &d, nil
}
