package bookings

import "errors"

var (
	// ErrNotFound is returned when a booking is not in the local collection.
	ErrNotFound = errors.New("booking not found")

	// ErrMutationInFlight is returned when another mutation on the same booking has not resolved.
	ErrMutationInFlight = errors.New("another change to this booking is still in progress")

	// ErrNotLoaded is returned by mutations before the collection has been fetched once.
	ErrNotLoaded = errors.New("bookings have not been loaded")
)
