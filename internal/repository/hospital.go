package repository

import (
	"context"

	"ambulance/internal/domain"
)

// HospitalRepository is read-only access to hospital reference data.
type HospitalRepository interface {
	GetAll(ctx context.Context) ([]*domain.Hospital, error)

	// GetByIDs returns the hospitals with the given ids in unspecified order.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Hospital, error)
}
