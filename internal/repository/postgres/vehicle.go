package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ambulance/internal/domain"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

const vehicleColumns = `id, COALESCE(driver_id, ''), registration, type, status, equipment, updated_at`

// equipmentJSON is the JSONB shape of the equipment column.
type equipmentJSON struct {
	Name       string `json:"name"`
	Functional bool   `json:"functional"`
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

// GetAll retrieves all vehicles.
func (r *VehicleRepository) GetAll(ctx context.Context) ([]*domain.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY registration`)
}

// ListByDriver retrieves the vehicles assigned to a driver.
func (r *VehicleRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE driver_id = $1 ORDER BY registration`, driverID)
}

func (r *VehicleRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Vehicle, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// Update saves status and equipment.
func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	items := make([]equipmentJSON, 0, len(v.Equipment))
	for _, e := range v.Equipment {
		items = append(items, equipmentJSON(e))
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode equipment: %w", err)
	}

	result, err := r.q.ExecContext(ctx,
		`UPDATE vehicles SET status = $1, equipment = $2, updated_at = $3 WHERE id = $4`,
		v.Status, raw, v.UpdatedAt, v.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result)
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	var raw []byte
	if err := row.Scan(&v.ID, &v.DriverID, &v.Registration, &v.Type, &v.Status, &raw, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		var items []equipmentJSON
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode equipment of %s: %w", v.ID, err)
		}
		for _, e := range items {
			v.Equipment = append(v.Equipment, domain.Equipment(e))
		}
	}
	return &v, nil
}
