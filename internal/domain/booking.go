package domain

import (
	"strings"
	"time"
)

// BookingStatus represents the lifecycle status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusUpcoming  BookingStatus = "upcoming"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus converts a raw status string.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingStatusPending, BookingStatusUpcoming, BookingStatusActive,
		BookingStatusCompleted, BookingStatusCancelled:
		return st, true
	default:
		return "", false
	}
}

// Terminal reports whether no further status change is possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// transitions holds every allowed status edge.
var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:  {BookingStatusUpcoming, BookingStatusCancelled},
	BookingStatusUpcoming: {BookingStatusActive, BookingStatusCancelled},
	BookingStatusActive:   {BookingStatusCompleted},
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PatientInfo describes the person being transported.
type PatientInfo struct {
	Name             string
	Age              int
	Gender           string
	MedicalCondition string
}

// Booking represents one ambulance transport request.
type Booking struct {
	ID          string
	RequesterID string
	DriverID    string
	Status      BookingStatus
	ScheduledAt time.Time

	Pickup  string
	Dropoff string
	Patient PatientInfo

	AmbulanceType        string
	Fare                 float64
	PaymentMethod        string
	EstimatedDurationMin int
	EstimatedDistanceKm  float64

	CancellationReason string
	CancelledAt        time.Time

	// Ratings are nil until set; a nil sub-rating means the reviewer skipped it.
	Rating             *int
	Review             string
	DriverRating       *int
	VehicleRating      *int
	ResponseTimeRating *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reviewed reports whether an overall rating has been recorded.
func (b *Booking) Reviewed() bool {
	return b.Rating != nil
}

// Cancellable reports whether the booking may still be cancelled.
func (b *Booking) Cancellable() bool {
	return CanTransition(b.Status, BookingStatusCancelled)
}

// Cancel moves the booking to cancelled with the given reason.
func (b *Booking) Cancel(reason string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if !b.Cancellable() {
		return ErrInvalidTransition
	}
	b.Status = BookingStatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = at
	b.UpdatedAt = at
	return nil
}

// TransitionTo applies a non-cancelling status change.
func (b *Booking) TransitionTo(to BookingStatus, at time.Time) error {
	if to == BookingStatusCancelled {
		return ErrReasonRequired
	}
	if !CanTransition(b.Status, to) {
		return ErrInvalidTransition
	}
	b.Status = to
	b.UpdatedAt = at
	return nil
}

// Review is a rating submission. Zero values mean "unset".
type Review struct {
	Rating             int
	Comment            string
	DriverRating       int
	VehicleRating      int
	ResponseTimeRating int
}

// Validate checks the overall rating is set and every rating is within range.
func (r Review) Validate() error {
	if r.Rating == 0 {
		return ErrRatingRequired
	}
	for _, v := range []int{r.Rating, r.DriverRating, r.VehicleRating, r.ResponseTimeRating} {
		if v < 0 || v > 5 {
			return ErrRatingOutOfRange
		}
	}
	return nil
}

// ApplyReview records or replaces the review on a completed booking.
func (b *Booking) ApplyReview(r Review, at time.Time) error {
	if b.Status != BookingStatusCompleted {
		return ErrBookingNotCompleted
	}
	if err := r.Validate(); err != nil {
		return err
	}
	rating := r.Rating
	b.Rating = &rating
	b.Review = strings.TrimSpace(r.Comment)
	b.DriverRating = optionalRating(r.DriverRating)
	b.VehicleRating = optionalRating(r.VehicleRating)
	b.ResponseTimeRating = optionalRating(r.ResponseTimeRating)
	b.UpdatedAt = at
	return nil
}

// ReviewOf returns the booking's current review with unset ratings as zero.
func (b *Booking) ReviewOf() Review {
	return Review{
		Rating:             derefRating(b.Rating),
		Comment:            b.Review,
		DriverRating:       derefRating(b.DriverRating),
		VehicleRating:      derefRating(b.VehicleRating),
		ResponseTimeRating: derefRating(b.ResponseTimeRating),
	}
}

func optionalRating(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func derefRating(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
