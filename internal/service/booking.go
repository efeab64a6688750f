package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ambulance/internal/domain"
	internalRedis "ambulance/internal/redis"
	"ambulance/internal/repository"
)

// DefaultBookingLockTTL bounds how long a crashed holder can block a booking.
const DefaultBookingLockTTL = 10 * time.Second

// BookingService handles booking operations.
type BookingService struct {
	bookingRepo         repository.BookingRepository
	cache               internalRedis.BookingCache
	locks               internalRedis.LockStoreInterface
	notificationService *NotificationService
	log                 *zap.Logger
	lockTTL             time.Duration
	now                 func() time.Time
}

// NewBookingService creates a new BookingService. cache, locks and
// notificationService may be nil.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	cache internalRedis.BookingCache,
	locks internalRedis.LockStoreInterface,
	notificationService *NotificationService,
	log *zap.Logger,
	lockTTL time.Duration,
) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	if lockTTL <= 0 {
		lockTTL = DefaultBookingLockTTL
	}
	return &BookingService{
		bookingRepo:         bookingRepo,
		cache:               cache,
		locks:               locks,
		notificationService: notificationService,
		log:                 log,
		lockTTL:             lockTTL,
		now:                 time.Now,
	}
}

// CreateBookingRequest contains the parameters for requesting an ambulance.
type CreateBookingRequest struct {
	ScheduledAt          time.Time
	Pickup               string
	Dropoff              string
	Patient              domain.PatientInfo
	AmbulanceType        string
	Fare                 float64
	PaymentMethod        string
	EstimatedDurationMin int
	EstimatedDistanceKm  float64
}

// List returns the bookings visible to the caller: own requests for users,
// assignments plus the open pending pool for drivers, everything for admins.
func (s *BookingService) List(ctx context.Context, caller domain.Identity) ([]*domain.Booking, error) {
	scope, load, err := s.listScope(caller)
	if err != nil {
		return nil, err
	}
	bookings, err := s.cachedList(ctx, scope, load)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleDriver {
		return bookings, nil
	}

	open, err := s.cachedList(ctx, internalRedis.OpenScope, s.bookingRepo.ListOpen)
	if err != nil {
		return nil, err
	}
	merged := make([]*domain.Booking, 0, len(bookings)+len(open))
	merged = append(merged, bookings...)
	return append(merged, open...), nil
}

func (s *BookingService) cachedList(ctx context.Context, scope string, load func(context.Context) ([]*domain.Booking, error)) ([]*domain.Booking, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetBookings(ctx, scope)
		if err != nil {
			s.log.Warn("booking cache read failed", zap.String("scope", scope), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	bookings, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}

	if s.cache != nil {
		if err := s.cache.SetBookings(ctx, scope, bookings); err != nil {
			s.log.Warn("booking cache write failed", zap.String("scope", scope), zap.Error(err))
		}
	}
	return bookings, nil
}

func (s *BookingService) listScope(caller domain.Identity) (string, func(context.Context) ([]*domain.Booking, error), error) {
	if caller.ID == "" {
		return "", nil, ErrInvalidIdentity
	}
	switch caller.Role {
	case domain.RoleUser:
		return internalRedis.UserScope(caller.ID), func(ctx context.Context) ([]*domain.Booking, error) {
			return s.bookingRepo.ListByRequester(ctx, caller.ID)
		}, nil
	case domain.RoleDriver:
		return internalRedis.DriverScope(caller.ID), func(ctx context.Context) ([]*domain.Booking, error) {
			return s.bookingRepo.ListByDriver(ctx, caller.ID)
		}, nil
	case domain.RoleAdmin:
		return internalRedis.AdminScope, s.bookingRepo.ListAll, nil
	default:
		return "", nil, ErrForbidden
	}
}

// Get retrieves a booking the caller may see.
func (s *BookingService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(caller, b) {
		return nil, ErrForbidden
	}
	return b, nil
}

// Create records a new pending booking for the caller.
func (s *BookingService) Create(ctx context.Context, caller domain.Identity, req CreateBookingRequest) (*domain.Booking, error) {
	if caller.ID == "" {
		return nil, ErrInvalidIdentity
	}
	if caller.Role != domain.RoleUser {
		return nil, ErrForbidden
	}
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	now := s.now()
	b := &domain.Booking{
		ID:                   uuid.New().String(),
		RequesterID:          caller.ID,
		Status:               domain.BookingStatusPending,
		ScheduledAt:          req.ScheduledAt,
		Pickup:               strings.TrimSpace(req.Pickup),
		Dropoff:              strings.TrimSpace(req.Dropoff),
		Patient:              req.Patient,
		AmbulanceType:        req.AmbulanceType,
		Fare:                 req.Fare,
		PaymentMethod:        paymentMethod,
		EstimatedDurationMin: req.EstimatedDurationMin,
		EstimatedDistanceKm:  req.EstimatedDistanceKm,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.invalidate(ctx, b)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCreated(ctx, b)
	}
	return b, nil
}

func validateCreateRequest(req CreateBookingRequest) error {
	if strings.TrimSpace(req.Pickup) == "" {
		return ErrInvalidPickup
	}
	if strings.TrimSpace(req.Dropoff) == "" {
		return ErrInvalidDropoff
	}
	if req.ScheduledAt.IsZero() {
		return ErrInvalidSchedule
	}
	if _, ok := domain.ParseVehicleType(req.AmbulanceType); !ok {
		return ErrInvalidAmbulanceType
	}
	return nil
}

// Cancel cancels a pending or upcoming booking. Only the requester or an admin may cancel.
func (s *BookingService) Cancel(ctx context.Context, caller domain.Identity, id, reason string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}

	var cancelled *domain.Booking
	err := s.withLock(ctx, id, func() error {
		b, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !isAdmin(caller) && b.RequesterID != caller.ID {
			return ErrForbidden
		}
		if err := b.Cancel(reason, s.now()); err != nil {
			return err
		}
		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return err
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, cancelled)
	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingCancelled(ctx, cancelled, caller.ID)
	}
	return cancelled, nil
}

// SubmitReview creates or replaces the requester's review of a completed booking.
func (s *BookingService) SubmitReview(ctx context.Context, caller domain.Identity, id string, review domain.Review) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}
	if err := review.Validate(); err != nil {
		return nil, err
	}

	var reviewed *domain.Booking
	err := s.withLock(ctx, id, func() error {
		b, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b.RequesterID != caller.ID {
			return ErrForbidden
		}
		if err := b.ApplyReview(review, s.now()); err != nil {
			return err
		}
		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return err
		}
		reviewed = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, reviewed)
	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingReviewed(ctx, reviewed)
	}
	return reviewed, nil
}

// UpdateStatusRequest contains the parameters for a driver-side status change.
type UpdateStatusRequest struct {
	BookingID string
	Status    string
	// DriverID assigns a driver when an admin accepts on a driver's behalf.
	DriverID string
}

// UpdateStatus moves a booking along pending -> upcoming -> active -> completed.
// Drivers accept pending bookings for themselves; afterwards only the assigned
// driver or an admin may move the booking.
func (s *BookingService) UpdateStatus(ctx context.Context, caller domain.Identity, req UpdateStatusRequest) (*domain.Booking, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}
	to, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}
	if to == domain.BookingStatusCancelled {
		return nil, domain.ErrReasonRequired
	}

	var (
		updated      *domain.Booking
		from         domain.BookingStatus
		formerDriver string
	)
	err := s.withLock(ctx, req.BookingID, func() error {
		b, err := s.bookingRepo.GetByID(ctx, req.BookingID)
		if err != nil {
			return err
		}
		from, formerDriver = b.Status, b.DriverID

		if err := s.assignDriver(caller, b, to, req.DriverID); err != nil {
			return err
		}
		if err := b.TransitionTo(to, s.now()); err != nil {
			return err
		}
		if err := s.bookingRepo.Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated)
	if formerDriver != "" && formerDriver != updated.DriverID && s.cache != nil {
		_ = s.cache.InvalidateBookings(ctx, internalRedis.DriverScope(formerDriver))
	}
	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingStatus(ctx, updated, from)
	}
	return updated, nil
}

// assignDriver checks the caller may move b and sets the driver on acceptance.
func (s *BookingService) assignDriver(caller domain.Identity, b *domain.Booking, to domain.BookingStatus, driverID string) error {
	accepting := b.Status == domain.BookingStatusPending && to == domain.BookingStatusUpcoming

	switch caller.Role {
	case domain.RoleDriver:
		if accepting {
			if driverID != "" && driverID != caller.ID {
				return ErrForbidden
			}
			if b.DriverID != "" && b.DriverID != caller.ID {
				return ErrForbidden
			}
			b.DriverID = caller.ID
			return nil
		}
		if b.DriverID != caller.ID {
			return ErrForbidden
		}
		return nil
	case domain.RoleAdmin:
		if driverID != "" {
			b.DriverID = driverID
		}
		if accepting && b.DriverID == "" {
			return ErrDriverRequired
		}
		return nil
	default:
		return ErrForbidden
	}
}

// withLock runs fn while holding the booking's mutation lock.
func (s *BookingService) withLock(ctx context.Context, id string, fn func() error) error {
	if s.locks == nil {
		return fn()
	}

	token, err := s.locks.AcquireBookingLock(ctx, id, s.lockTTL)
	if err != nil {
		return err
	}
	if token == "" {
		return ErrBookingBusy
	}
	defer func() {
		if err := s.locks.ReleaseBookingLock(context.WithoutCancel(ctx), id, token); err != nil {
			s.log.Warn("failed to release booking lock", zap.String("booking_id", id), zap.Error(err))
		}
	}()

	return fn()
}

// invalidate drops every cached list that may contain b.
func (s *BookingService) invalidate(ctx context.Context, b *domain.Booking) {
	if s.cache == nil {
		return
	}
	scopes := []string{internalRedis.AdminScope, internalRedis.OpenScope, internalRedis.UserScope(b.RequesterID)}
	if b.DriverID != "" {
		scopes = append(scopes, internalRedis.DriverScope(b.DriverID))
	}
	if err := s.cache.InvalidateBookings(ctx, scopes...); err != nil {
		s.log.Warn("booking cache invalidation failed", zap.String("booking_id", b.ID), zap.Error(err))
	}
}

func isAdmin(caller domain.Identity) bool {
	return caller.Role == domain.RoleAdmin
}

// canView reports whether caller may read b. Drivers may see unassigned
// pending bookings so they can accept them.
func canView(caller domain.Identity, b *domain.Booking) bool {
	switch caller.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleUser:
		return b.RequesterID == caller.ID
	case domain.RoleDriver:
		return b.DriverID == caller.ID || (b.DriverID == "" && b.Status == domain.BookingStatusPending)
	default:
		return false
	}
}
