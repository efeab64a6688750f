package repository

import (
	"context"

	"ambulance/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// ListByRequester retrieves the bookings a user requested, newest first.
	ListByRequester(ctx context.Context, requesterID string) ([]*domain.Booking, error)

	// ListByDriver retrieves the bookings assigned to a driver, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Booking, error)

	// ListOpen retrieves pending bookings no driver has accepted yet, newest first.
	ListOpen(ctx context.Context) ([]*domain.Booking, error)

	// ListAll retrieves every booking, newest first.
	ListAll(ctx context.Context) ([]*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error
}
