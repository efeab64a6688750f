package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ambulance/internal/domain"
	"ambulance/internal/repository"
)

// VehicleService handles vehicle and equipment operations.
type VehicleService struct {
	vehicleRepo         repository.VehicleRepository
	notificationService *NotificationService
	log                 *zap.Logger
	now                 func() time.Time
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicleRepo repository.VehicleRepository, notificationService *NotificationService, log *zap.Logger) *VehicleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VehicleService{
		vehicleRepo:         vehicleRepo,
		notificationService: notificationService,
		log:                 log,
		now:                 time.Now,
	}
}

// List returns every vehicle for admins and the caller's own for drivers.
func (s *VehicleService) List(ctx context.Context, caller domain.Identity) ([]*domain.Vehicle, error) {
	var (
		vehicles []*domain.Vehicle
		err      error
	)
	switch caller.Role {
	case domain.RoleAdmin:
		vehicles, err = s.vehicleRepo.GetAll(ctx)
	case domain.RoleDriver:
		vehicles, err = s.vehicleRepo.ListByDriver(ctx, caller.ID)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if vehicles == nil {
		vehicles = []*domain.Vehicle{}
	}
	return vehicles, nil
}

// UpdateStatus changes a vehicle's operational status.
func (s *VehicleService) UpdateStatus(ctx context.Context, caller domain.Identity, id, status string) (*domain.Vehicle, error) {
	st, ok := domain.ParseVehicleStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	v, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	v.Status = st
	v.UpdatedAt = s.now()
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateEquipment replaces the equipment checklist and reports faults.
func (s *VehicleService) UpdateEquipment(ctx context.Context, caller domain.Identity, id string, equipment []domain.Equipment) (*domain.Vehicle, error) {
	v, err := s.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	v.Equipment = equipment
	v.UpdatedAt = s.now()
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, err
	}

	if faulty := v.FaultyEquipment(); len(faulty) > 0 {
		s.log.Warn("vehicle reports faulty equipment",
			zap.String("vehicle_id", v.ID),
			zap.Strings("faulty", faulty),
		)
		if s.notificationService != nil {
			_ = s.notificationService.NotifyEquipmentFault(ctx, v, faulty)
		}
	}
	return v, nil
}

func (s *VehicleService) load(ctx context.Context, caller domain.Identity, id string) (*domain.Vehicle, error) {
	if id == "" {
		return nil, ErrInvalidVehicleID
	}
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch caller.Role {
	case domain.RoleAdmin:
		return v, nil
	case domain.RoleDriver:
		if v.DriverID == caller.ID {
			return v, nil
		}
	}
	return nil, ErrForbidden
}
