package service

import "errors"

var (
	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidIdentity is returned when the caller has no usable identity.
	ErrInvalidIdentity = errors.New("invalid identity")

	// ErrForbidden is returned when the caller may not see or change the entity.
	ErrForbidden = errors.New("not allowed for this account")

	// ErrBookingBusy is returned when another mutation holds the booking lock.
	ErrBookingBusy = errors.New("booking is being modified, try again")

	// ErrInvalidStatus is returned for a status outside the closed set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrDriverRequired is returned when a booking is accepted without a driver.
	ErrDriverRequired = errors.New("driver id is required to accept a booking")

	// ErrInvalidPickup is returned when the pickup address is empty.
	ErrInvalidPickup = errors.New("pickup location is required")

	// ErrInvalidDropoff is returned when the dropoff address is empty.
	ErrInvalidDropoff = errors.New("dropoff location is required")

	// ErrInvalidSchedule is returned when the requested date cannot be parsed.
	ErrInvalidSchedule = errors.New("invalid booking date or time")

	// ErrInvalidAmbulanceType is returned for an unknown ambulance type.
	ErrInvalidAmbulanceType = errors.New("invalid ambulance type")

	// ErrInvalidContactID is returned when contact ID is empty.
	ErrInvalidContactID = errors.New("invalid contact id")

	// ErrInvalidRelationship is returned for a relationship outside the closed set.
	ErrInvalidRelationship = errors.New("invalid relationship")

	// ErrInvalidVehicleID is returned when vehicle ID is empty.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidLocation is returned when location coordinates are invalid.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrNearbyUnavailable is returned when no geo index is configured.
	ErrNearbyUnavailable = errors.New("nearby search is not available")
)
