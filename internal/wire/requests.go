package wire

// CreateBookingRequest is the body of POST /api/bookings.
type CreateBookingRequest struct {
	DateTime          DateTime    `json:"dateTime" validate:"required"`
	Locations         Locations   `json:"locations" validate:"required"`
	PatientInfo       PatientInfo `json:"patientInfo"`
	AmbulanceType     string      `json:"ambulanceType" validate:"required"`
	PaymentMethod     string      `json:"paymentMethod"`
	Fare              float64     `json:"fare" validate:"min=0"`
	EstimatedDuration int         `json:"estimatedDuration" validate:"min=0"`
	EstimatedDistance float64     `json:"estimatedDistance" validate:"min=0"`
}

// CancelRequest is the body of POST /api/bookings/:id/cancel.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// ReviewRequest is the body of POST /api/bookings/:id/review.
// Zero sub-ratings are omitted and mean "not rated".
type ReviewRequest struct {
	Rating             int    `json:"rating"`
	Comment            string `json:"comment"`
	DriverRating       int    `json:"driverRating,omitempty"`
	VehicleRating      int    `json:"vehicleRating,omitempty"`
	ResponseTimeRating int    `json:"responseTimeRating,omitempty"`
}

// StatusRequest is the body of PUT /api/bookings/:id/status.
type StatusRequest struct {
	Status   string `json:"status" validate:"required"`
	DriverID string `json:"driverId,omitempty"`
}

// ContactRequest is the body of contact create and update calls.
type ContactRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Phone        string `json:"phone" validate:"required,phone"`
	Relationship string `json:"relationship" validate:"required,oneof=family friend doctor hospital colleague other"`
	Notes        string `json:"notes,omitempty" validate:"max=500"`
	IsPrimary    bool   `json:"isPrimary"`
}

// VehicleStatusRequest is the body of PUT /api/vehicles/:id/status.
type VehicleStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// EquipmentRequest is the body of PUT /api/vehicles/:id/equipment.
type EquipmentRequest struct {
	Equipment []Equipment `json:"equipment" validate:"required,min=1,dive"`
}
