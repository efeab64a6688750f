package repository

import (
	"context"

	"ambulance/internal/domain"
)

// ContactRepository defines the persistence operations for emergency contacts.
// Every lookup is scoped to an owner.
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.EmergencyContact) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.EmergencyContact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.EmergencyContact, error)
	Update(ctx context.Context, contact *domain.EmergencyContact) error
	Delete(ctx context.Context, ownerID, id string) error

	// SetPrimary marks id as the owner's primary contact and clears every other one.
	SetPrimary(ctx context.Context, ownerID, id string) error
}
