package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"ambulance/internal/domain"
)

// HospitalRepository is a PostgreSQL implementation of repository.HospitalRepository.
type HospitalRepository struct {
	q Querier
}

// NewHospitalRepository creates a new PostgreSQL hospital repository.
func NewHospitalRepository(db *sql.DB) *HospitalRepository {
	return &HospitalRepository{q: db}
}

const hospitalColumns = `id, name, address, COALESCE(phone, ''), lat, lng, emergency, specialties`

// GetAll retrieves all hospitals.
func (r *HospitalRepository) GetAll(ctx context.Context) ([]*domain.Hospital, error) {
	return r.list(ctx, `SELECT `+hospitalColumns+` FROM hospitals ORDER BY name`)
}

// GetByIDs retrieves the hospitals with the given ids.
func (r *HospitalRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Hospital, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+hospitalColumns+` FROM hospitals WHERE id = ANY($1)`, pq.Array(ids))
}

func (r *HospitalRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Hospital, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hospitals []*domain.Hospital
	for rows.Next() {
		var h domain.Hospital
		if err := rows.Scan(
			&h.ID, &h.Name, &h.Address, &h.Phone, &h.Lat, &h.Lng, &h.Emergency, pq.Array(&h.Specialties),
		); err != nil {
			return nil, err
		}
		hospitals = append(hospitals, &h)
	}
	return hospitals, rows.Err()
}
