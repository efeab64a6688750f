package domain

import "errors"

var (
	// ErrInvalidTransition is returned when a booking cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrInvalidStatus is returned for a status outside the closed set.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrReasonRequired is returned when a cancellation has no reason.
	ErrReasonRequired = errors.New("cancellation reason is required")

	// ErrBookingNotCompleted is returned when reviewing a booking that is not completed.
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrRatingRequired is returned when the overall rating is unset.
	ErrRatingRequired = errors.New("overall rating is required")

	// ErrRatingOutOfRange is returned when a rating is outside 1-5.
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
)
