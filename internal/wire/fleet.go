package wire

import (
	"fmt"
	"time"

	"ambulance/internal/domain"
)

// Equipment is one checklist item.
type Equipment struct {
	Name       string `json:"name" validate:"required,max=80"`
	Functional bool   `json:"functional"`
}

// Vehicle is the wire form of an ambulance.
type Vehicle struct {
	MongoID      string      `json:"_id,omitempty"`
	ID           string      `json:"id,omitempty"`
	DriverID     string      `json:"driverId,omitempty"`
	Registration string      `json:"registration"`
	Type         string      `json:"type"`
	Status       string      `json:"status"`
	Equipment    []Equipment `json:"equipment"`
	UpdatedAt    *time.Time  `json:"updatedAt,omitempty"`
}

// FromVehicle converts a domain vehicle.
func FromVehicle(v *domain.Vehicle) Vehicle {
	eq := make([]Equipment, 0, len(v.Equipment))
	for _, e := range v.Equipment {
		eq = append(eq, Equipment(e))
	}
	return Vehicle{
		MongoID:      v.ID,
		DriverID:     v.DriverID,
		Registration: v.Registration,
		Type:         string(v.Type),
		Status:       string(v.Status),
		Equipment:    eq,
		UpdatedAt:    timePtr(v.UpdatedAt),
	}
}

// FromVehicles converts a list. The result is never nil.
func FromVehicles(vehicles []*domain.Vehicle) []Vehicle {
	out := make([]Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, FromVehicle(v))
	}
	return out
}

// ToDomain converts a wire vehicle.
func (v Vehicle) ToDomain() (domain.Vehicle, error) {
	id := firstNonEmpty(v.MongoID, v.ID)
	if id == "" {
		return domain.Vehicle{}, ErrMissingID
	}
	status, ok := domain.ParseVehicleStatus(v.Status)
	if !ok {
		return domain.Vehicle{}, fmt.Errorf("unknown vehicle status %q", v.Status)
	}
	out := domain.Vehicle{
		ID:           id,
		DriverID:     v.DriverID,
		Registration: v.Registration,
		Type:         domain.VehicleType(v.Type),
		Status:       status,
		Equipment:    ToDomainEquipment(v.Equipment),
	}
	if v.UpdatedAt != nil {
		out.UpdatedAt = *v.UpdatedAt
	}
	return out, nil
}

// ToDomainEquipment converts an equipment list.
func ToDomainEquipment(in []Equipment) []domain.Equipment {
	out := make([]domain.Equipment, 0, len(in))
	for _, e := range in {
		out = append(out, domain.Equipment(e))
	}
	return out
}

// ToDomainVehicles converts a list.
func ToDomainVehicles(in []Vehicle) ([]domain.Vehicle, error) {
	out := make([]domain.Vehicle, 0, len(in))
	for i, v := range in {
		d, err := v.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("vehicle %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Hospital is the wire form of a hospital.
type Hospital struct {
	MongoID     string   `json:"_id,omitempty"`
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone,omitempty"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Emergency   bool     `json:"emergency"`
	Specialties []string `json:"specialties"`
	DistanceKm  float64  `json:"distanceKm,omitempty"`
}

// FromHospitals converts a list. The result is never nil.
func FromHospitals(hospitals []*domain.Hospital) []Hospital {
	out := make([]Hospital, 0, len(hospitals))
	for _, h := range hospitals {
		out = append(out, Hospital{
			MongoID:     h.ID,
			Name:        h.Name,
			Address:     h.Address,
			Phone:       h.Phone,
			Lat:         h.Lat,
			Lng:         h.Lng,
			Emergency:   h.Emergency,
			Specialties: h.Specialties,
			DistanceKm:  h.DistanceKm,
		})
	}
	return out
}

// ToDomainHospitals converts a list.
func ToDomainHospitals(in []Hospital) []domain.Hospital {
	out := make([]domain.Hospital, 0, len(in))
	for _, h := range in {
		out = append(out, domain.Hospital{
			ID:          firstNonEmpty(h.MongoID, h.ID),
			Name:        h.Name,
			Address:     h.Address,
			Phone:       h.Phone,
			Lat:         h.Lat,
			Lng:         h.Lng,
			Emergency:   h.Emergency,
			Specialties: h.Specialties,
			DistanceKm:  h.DistanceKm,
		})
	}
	return out
}
