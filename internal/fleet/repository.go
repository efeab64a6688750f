// Package fleet is the client-side registry of vehicles and their equipment.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ambulance/internal/domain"
	"ambulance/internal/validation"
	"ambulance/internal/wire"
)

var (
	ErrNotFound         = errors.New("vehicle not found")
	ErrMutationInFlight = errors.New("another change to this vehicle is still in progress")
	ErrUnknownStatus    = errors.New("unknown vehicle status")
)

// Backend is the subset of the REST client the registry needs.
type Backend interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	UpdateVehicleStatus(ctx context.Context, id string, status domain.VehicleStatus) (*domain.Vehicle, error)
	UpdateVehicleEquipment(ctx context.Context, id string, equipment []domain.Equipment) (*domain.Vehicle, error)
}

// Repository caches vehicles.
type Repository struct {
	backend Backend

	mu       sync.RWMutex
	items    []domain.Vehicle
	lastErr  error
	inflight map[string]struct{}
}

// NewRepository creates a Repository.
func NewRepository(backend Backend) *Repository {
	return &Repository{backend: backend, inflight: make(map[string]struct{})}
}

// List fetches vehicles. A failure returns the previous snapshot with the error.
func (r *Repository) List(ctx context.Context) ([]domain.Vehicle, error) {
	fetched, err := r.backend.ListVehicles(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.lastErr = err
		return r.snapshotLocked(), err
	}
	r.items = fetched
	r.lastErr = nil
	return r.snapshotLocked(), nil
}

// Err returns the last fetch error.
func (r *Repository) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// UpdateStatus changes a vehicle's status.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) (domain.Vehicle, error) {
	st, ok := domain.ParseVehicleStatus(strings.ToLower(strings.TrimSpace(status)))
	if !ok {
		return domain.Vehicle{}, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	return r.mutate(ctx, id, func() (*domain.Vehicle, error) {
		return r.backend.UpdateVehicleStatus(ctx, id, st)
	})
}

// UpdateEquipment replaces the equipment checklist.
func (r *Repository) UpdateEquipment(ctx context.Context, id string, equipment []domain.Equipment) (domain.Vehicle, error) {
	req := wire.EquipmentRequest{Equipment: make([]wire.Equipment, 0, len(equipment))}
	for _, e := range equipment {
		req.Equipment = append(req.Equipment, wire.Equipment{Name: strings.TrimSpace(e.Name), Functional: e.Functional})
	}
	if err := validation.Struct(req); err != nil {
		return domain.Vehicle{}, err
	}
	items := wire.ToDomainEquipment(req.Equipment)
	return r.mutate(ctx, id, func() (*domain.Vehicle, error) {
		return r.backend.UpdateVehicleEquipment(ctx, id, items)
	})
}

func (r *Repository) mutate(ctx context.Context, id string, call func() (*domain.Vehicle, error)) (domain.Vehicle, error) {
	r.mu.Lock()
	if r.indexLocked(id) < 0 {
		r.mu.Unlock()
		return domain.Vehicle{}, ErrNotFound
	}
	if _, busy := r.inflight[id]; busy {
		r.mu.Unlock()
		return domain.Vehicle{}, ErrMutationInFlight
	}
	r.inflight[id] = struct{}{}
	r.mu.Unlock()

	v, err := call()

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, id)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if i := r.indexLocked(id); i >= 0 {
		r.items[i] = *v
	}
	return *v, nil
}

func (r *Repository) indexLocked(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) snapshotLocked() []domain.Vehicle {
	out := make([]domain.Vehicle, len(r.items))
	copy(out, r.items)
	return out
}
