// Package bookings is the client-side view of the caller's booking collection.
//
// The backend is the only source of truth. Local state changes only after the
// backend acknowledges a mutation; failures leave the collection untouched.
package bookings

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ambulance/internal/domain"
)

// Backend is the subset of the REST client the repository needs.
type Backend interface {
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, id, reason string) (*domain.Booking, error)
	SubmitReview(ctx context.Context, id string, r domain.Review) (*domain.Booking, error)
}

// Repository caches the booking collection and mediates every mutation.
type Repository struct {
	backend Backend
	log     *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	items    []domain.Booking
	loaded   bool
	loading  bool
	lastErr  error
	inflight map[string]struct{}
}

// NewRepository creates a Repository.
func NewRepository(backend Backend, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{
		backend:  backend,
		log:      log,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

// List fetches the collection. On success the cache is replaced; on failure the
// previous snapshot is returned together with the error.
func (r *Repository) List(ctx context.Context) ([]domain.Booking, error) {
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()

	fetched, err := r.backend.ListBookings(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	if err != nil {
		r.lastErr = err
		r.log.Warn("failed to refresh bookings", zap.Error(err), zap.Int("cached", len(r.items)))
		return r.snapshotLocked(), err
	}
	r.items = fetched
	r.loaded = true
	r.lastErr = nil
	return r.snapshotLocked(), nil
}

// Snapshot returns a copy of the cached collection without fetching.
func (r *Repository) Snapshot() []domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Get returns a cached booking.
func (r *Repository) Get(id string) (domain.Booking, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexLocked(id)
	if i < 0 {
		return domain.Booking{}, false
	}
	return r.items[i], true
}

// Loading reports whether a list fetch is in progress.
func (r *Repository) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loading
}

// Err returns the error of the last failed fetch, cleared by the next success.
func (r *Repository) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

// Busy reports whether a mutation on id is unresolved.
func (r *Repository) Busy(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.inflight[id]
	return ok
}

// Cancel cancels a booking with a mandatory reason.
func (r *Repository) Cancel(ctx context.Context, id, reason string) (domain.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Booking{}, domain.ErrReasonRequired
	}

	current, err := r.begin(id, func(b domain.Booking) error {
		if !b.Cancellable() {
			return domain.ErrInvalidTransition
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	defer r.end(id)

	ack, err := r.backend.CancelBooking(ctx, id, reason)
	if err != nil {
		r.log.Warn("cancel rejected", zap.String("booking_id", id), zap.Error(err))
		return domain.Booking{}, err
	}

	updated := current
	if err := updated.Cancel(reason, r.now()); err != nil {
		return domain.Booking{}, err
	}
	if ack != nil && ack.ID == id && ack.Status == domain.BookingStatusCancelled {
		updated = *ack
		if updated.CancellationReason == "" {
			updated.CancellationReason = reason
		}
	}
	return r.replace(updated), nil
}

// SubmitReview creates or replaces the review on a completed booking.
func (r *Repository) SubmitReview(ctx context.Context, id string, review domain.Review) (domain.Booking, error) {
	if err := review.Validate(); err != nil {
		return domain.Booking{}, err
	}

	current, err := r.begin(id, func(b domain.Booking) error {
		if b.Status != domain.BookingStatusCompleted {
			return domain.ErrBookingNotCompleted
		}
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	defer r.end(id)

	ack, err := r.backend.SubmitReview(ctx, id, review)
	if err != nil {
		r.log.Warn("review rejected", zap.String("booking_id", id), zap.Error(err))
		return domain.Booking{}, err
	}

	updated := current
	if err := updated.ApplyReview(review, r.now()); err != nil {
		return domain.Booking{}, err
	}
	if ack != nil && ack.ID == id && ack.Reviewed() {
		updated = *ack
	}
	return r.replace(updated), nil
}

// begin checks the booking is cached, passes check, and is not already being
// mutated, then marks it in flight.
func (r *Repository) begin(id string, check func(domain.Booking) error) (domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.loaded {
		return domain.Booking{}, ErrNotLoaded
	}
	i := r.indexLocked(id)
	if i < 0 {
		return domain.Booking{}, ErrNotFound
	}
	if _, busy := r.inflight[id]; busy {
		return domain.Booking{}, ErrMutationInFlight
	}
	if err := check(r.items[i]); err != nil {
		return domain.Booking{}, err
	}
	r.inflight[id] = struct{}{}
	return r.items[i], nil
}

func (r *Repository) end(id string) {
	r.mu.Lock()
	delete(r.inflight, id)
	r.mu.Unlock()
}

func (r *Repository) replace(b domain.Booking) domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexLocked(b.ID); i >= 0 {
		r.items[i] = b
	}
	return b
}

func (r *Repository) indexLocked(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) snapshotLocked() []domain.Booking {
	out := make([]domain.Booking, len(r.items))
	copy(out, r.items)
	return out
}
