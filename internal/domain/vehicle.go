package domain

import "time"

// VehicleStatus represents the operational state of an ambulance.
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusOnTrip      VehicleStatus = "on-trip"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusOffline     VehicleStatus = "offline"
)

// ParseVehicleStatus converts a raw vehicle status string.
func ParseVehicleStatus(s string) (VehicleStatus, bool) {
	switch st := VehicleStatus(s); st {
	case VehicleStatusAvailable, VehicleStatusOnTrip, VehicleStatusMaintenance, VehicleStatusOffline:
		return st, true
	default:
		return "", false
	}
}

// VehicleType represents the service level of an ambulance.
type VehicleType string

const (
	VehicleTypeBasic            VehicleType = "basic"
	VehicleTypeAdvanced         VehicleType = "advanced"
	VehicleTypePatientTransport VehicleType = "patient-transport"
	VehicleTypeNeonatal         VehicleType = "neonatal"
)

// ParseVehicleType converts a raw type string. Bookings use the same values
// for the requested ambulance type.
func ParseVehicleType(s string) (VehicleType, bool) {
	switch t := VehicleType(s); t {
	case VehicleTypeBasic, VehicleTypeAdvanced, VehicleTypePatientTransport, VehicleTypeNeonatal:
		return t, true
	default:
		return "", false
	}
}

// Equipment is one item on the vehicle's checklist.
type Equipment struct {
	Name       string
	Functional bool
}

// Vehicle represents an ambulance and its equipment state.
type Vehicle struct {
	ID           string
	DriverID     string
	Registration string
	Type         VehicleType
	Status       VehicleStatus
	Equipment    []Equipment
	UpdatedAt    time.Time
}

// FaultyEquipment returns the names of items that are not functional.
func (v *Vehicle) FaultyEquipment() []string {
	var faulty []string
	for _, e := range v.Equipment {
		if !e.Functional {
			faulty = append(faulty, e.Name)
		}
	}
	return faulty
}
