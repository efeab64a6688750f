package service

import (
	"context"

	"go.uber.org/zap"

	"ambulance/internal/domain"
	internalRedis "ambulance/internal/redis"
	"ambulance/internal/repository"
)

const (
	// DefaultSearchRadiusKm is used when a nearby search gives no radius.
	DefaultSearchRadiusKm = 10.0

	// MaxSearchRadiusKm caps nearby searches.
	MaxSearchRadiusKm = 100.0
)

// HospitalService serves hospital reference data.
type HospitalService struct {
	hospitalRepo  repository.HospitalRepository
	locationStore internalRedis.LocationStoreInterface
	log           *zap.Logger
}

// NewHospitalService creates a new HospitalService. locationStore may be nil,
// which disables nearby search.
func NewHospitalService(hospitalRepo repository.HospitalRepository, locationStore internalRedis.LocationStoreInterface, log *zap.Logger) *HospitalService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HospitalService{hospitalRepo: hospitalRepo, locationStore: locationStore, log: log}
}

// List returns every hospital.
func (s *HospitalService) List(ctx context.Context) ([]*domain.Hospital, error) {
	hospitals, err := s.hospitalRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if hospitals == nil {
		hospitals = []*domain.Hospital{}
	}
	return hospitals, nil
}

// NearbyRequest contains the parameters for a radius search.
type NearbyRequest struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// Nearby returns hospitals within the radius, nearest first, with DistanceKm set.
func (s *HospitalService) Nearby(ctx context.Context, req NearbyRequest) ([]*domain.Hospital, error) {
	if !isValidLatitude(req.Lat) || !isValidLongitude(req.Lng) {
		return nil, ErrInvalidLocation
	}
	if s.locationStore == nil {
		return nil, ErrNearbyUnavailable
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = DefaultSearchRadiusKm
	}
	if radius > MaxSearchRadiusKm {
		radius = MaxSearchRadiusKm
	}

	hits, err := s.locationStore.FindNearbyHospitals(ctx, req.Lat, req.Lng, radius)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return []*domain.Hospital{}, nil
	}

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.HospitalID)
	}
	found, err := s.hospitalRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Hospital, len(found))
	for _, h := range found {
		byID[h.ID] = h
	}

	// Keep the geo index order; skip ids that no longer exist.
	out := make([]*domain.Hospital, 0, len(hits))
	for _, hit := range hits {
		h, ok := byID[hit.HospitalID]
		if !ok {
			continue
		}
		h.DistanceKm = hit.DistanceKm
		out = append(out, h)
	}
	return out, nil
}

// SyncIndex loads every hospital into the geo index.
func (s *HospitalService) SyncIndex(ctx context.Context) (int, error) {
	if s.locationStore == nil {
		return 0, nil
	}
	hospitals, err := s.hospitalRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, h := range hospitals {
		if err := s.locationStore.IndexHospital(ctx, h.ID, h.Lat, h.Lng); err != nil {
			return 0, err
		}
	}
	s.log.Info("hospital geo index synced", zap.Int("count", len(hospitals)))
	return len(hospitals), nil
}

func isValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

func isValidLongitude(lng float64) bool {
	return lng >= -180 && lng <= 180
}
