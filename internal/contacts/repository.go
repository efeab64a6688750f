// Package contacts is the client-side registry of the caller's emergency contacts.
package contacts

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"ambulance/internal/domain"
	"ambulance/internal/validation"
	"ambulance/internal/wire"
)

var (
	ErrNotFound         = errors.New("contact not found")
	ErrMutationInFlight = errors.New("another change to this contact is still in progress")
)

// Backend is the subset of the REST client the registry needs.
type Backend interface {
	ListContacts(ctx context.Context) ([]domain.EmergencyContact, error)
	CreateContact(ctx context.Context, req wire.ContactRequest) (*domain.EmergencyContact, error)
	UpdateContact(ctx context.Context, id string, req wire.ContactRequest) (*domain.EmergencyContact, error)
	DeleteContact(ctx context.Context, id string) error
	SetPrimaryContact(ctx context.Context, id string) ([]domain.EmergencyContact, error)
}

// Repository caches contacts and applies changes after the backend acknowledges them.
type Repository struct {
	backend Backend
	log     *zap.Logger

	mu       sync.RWMutex
	items    []domain.EmergencyContact
	lastErr  error
	inflight map[string]struct{}
}

// NewRepository creates a Repository.
func NewRepository(backend Backend, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{backend: backend, log: log, inflight: make(map[string]struct{})}
}

// List fetches contacts. A failure returns the previous snapshot with the error.
func (r *Repository) List(ctx context.Context) ([]domain.EmergencyContact, error) {
	fetched, err := r.backend.ListContacts(ctx)

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

// Snapshot returns the cached contacts.
func (r *Repository) Snapshot() []domain.EmergencyContact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Err returns the last fetch error.
func (r *Repository) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Primary returns the primary contact, if any.
func (r *Repository) Primary() (domain.EmergencyContact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.items {
		if c.IsPrimary {
			return c, true
		}
	}
	return domain.EmergencyContact{}, false
}

// Create validates and adds a contact.
func (r *Repository) Create(ctx context.Context, req wire.ContactRequest) (domain.EmergencyContact, error) {
	req = validation.NormalizeContact(req)
	if err := validation.Struct(req); err != nil {
		return domain.EmergencyContact{}, err
	}

	created, err := r.backend.CreateContact(ctx, req)
	if err != nil {
		return domain.EmergencyContact{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *created)
	if created.IsPrimary {
		domain.MarkPrimary(r.items, created.ID)
	}
	return *created, nil
}

// Update validates and replaces a contact.
func (r *Repository) Update(ctx context.Context, id string, req wire.ContactRequest) (domain.EmergencyContact, error) {
	req = validation.NormalizeContact(req)
	if err := validation.Struct(req); err != nil {
		return domain.EmergencyContact{}, err
	}
	if err := r.begin(id); err != nil {
		return domain.EmergencyContact{}, err
	}
	defer r.end(id)

	updated, err := r.backend.UpdateContact(ctx, id, req)
	if err != nil {
		return domain.EmergencyContact{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexLocked(id); i >= 0 {
		r.items[i] = *updated
	}
	if updated.IsPrimary {
		domain.MarkPrimary(r.items, id)
	}
	return *updated, nil
}

// Delete removes a contact.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.begin(id); err != nil {
		return err
	}
	defer r.end(id)

	if err := r.backend.DeleteContact(ctx, id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexLocked(id); i >= 0 {
		r.items = append(r.items[:i], r.items[i+1:]...)
	}
	return nil
}

// SetPrimary makes id the only primary contact.
func (r *Repository) SetPrimary(ctx context.Context, id string) ([]domain.EmergencyContact, error) {
	if err := r.begin(id); err != nil {
		return nil, err
	}
	defer r.end(id)

	fresh, err := r.backend.SetPrimaryContact(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(fresh) > 0 {
		r.items = fresh
	}
	if r.indexLocked(id) < 0 {
		r.log.Warn("primary contact missing from response", zap.String("contact_id", id))
	}
	domain.MarkPrimary(r.items, id)
	return r.snapshotLocked(), nil
}

func (r *Repository) begin(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexLocked(id) < 0 {
		return ErrNotFound
	}
	if _, busy := r.inflight[id]; busy {
		return ErrMutationInFlight
	}
	r.inflight[id] = struct{}{}
	return nil
}

func (r *Repository) end(id string) {
	r.mu.Lock()
	delete(r.inflight, id)
	r.mu.Unlock()
}

func (r *Repository) indexLocked(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) snapshotLocked() []domain.EmergencyContact {
	out := make([]domain.EmergencyContact, len(r.items))
	copy(out, r.items)
	return out
}
