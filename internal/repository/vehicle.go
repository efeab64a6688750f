package repository

import (
	"context"

	"ambulance/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetAll retrieves all vehicles.
	GetAll(ctx context.Context) ([]*domain.Vehicle, error)

	// ListByDriver retrieves the vehicles assigned to a driver.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Vehicle, error)

	// Update saves status and equipment.
	Update(ctx context.Context, vehicle *domain.Vehicle) error
}
