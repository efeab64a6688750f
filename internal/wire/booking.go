// Package wire defines the JSON shapes exchanged between the backend and its clients.
package wire

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ambulance/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var (
	// ErrMissingID is returned when a payload carries no identifier in any known field.
	ErrMissingID = errors.New("payload has no id")

	// ErrUnknownStatus is returned for a booking status outside the closed set.
	ErrUnknownStatus = errors.New("unknown booking status")
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DateTime is the scheduled date and local time of a booking.
type DateTime struct {
	Date string `json:"date" validate:"required"`
	Time string `json:"time,omitempty"`
}

// Locations holds the pickup and dropoff addresses.
type Locations struct {
	Pickup  string `json:"pickup" validate:"required"`
	Dropoff string `json:"dropoff" validate:"required"`
}

// PatientInfo describes the patient.
type PatientInfo struct {
	Name             string `json:"name,omitempty"`
	Age              int    `json:"age,omitempty"`
	Gender           string `json:"gender,omitempty"`
	MedicalCondition string `json:"medicalCondition,omitempty"`
}

// Booking is the wire form of a booking.
//
// Older backends identify bookings by "_id", some views by "bookingId"; both are
// accepted on decode and collapsed into one id. The server always emits "_id".
type Booking struct {
	MongoID   string `json:"_id,omitempty"`
	BookingID string `json:"bookingId,omitempty"`
	ID        string `json:"id,omitempty"`

	RequesterID string      `json:"requesterId"`
	DriverID    string      `json:"driverId,omitempty"`
	Status      string      `json:"status"`
	DateTime    DateTime    `json:"dateTime"`
	Locations   Locations   `json:"locations"`
	PatientInfo PatientInfo `json:"patientInfo"`

	AmbulanceType     string  `json:"ambulanceType,omitempty"`
	Fare              float64 `json:"fare"`
	PaymentMethod     string  `json:"paymentMethod,omitempty"`
	EstimatedDuration int     `json:"estimatedDuration,omitempty"`
	EstimatedDistance float64 `json:"estimatedDistance,omitempty"`

	CancellationReason string     `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	Reviewed           bool   `json:"reviewed"`
	Rating             *int   `json:"rating,omitempty"`
	Review             string `json:"review,omitempty"`
	DriverRating       *int   `json:"driverRating,omitempty"`
	VehicleRating      *int   `json:"vehicleRating,omitempty"`
	ResponseTimeRating *int   `json:"responseTimeRating,omitempty"`

	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromBooking converts a domain booking to its wire form.
func FromBooking(b *domain.Booking) Booking {
	out := Booking{
		MongoID:            b.ID,
		RequesterID:        b.RequesterID,
		DriverID:           b.DriverID,
		Status:             string(b.Status),
		Locations:          Locations{Pickup: b.Pickup, Dropoff: b.Dropoff},
		PatientInfo:        PatientInfo(b.Patient),
		AmbulanceType:      b.AmbulanceType,
		Fare:               b.Fare,
		PaymentMethod:      b.PaymentMethod,
		EstimatedDuration:  b.EstimatedDurationMin,
		EstimatedDistance:  b.EstimatedDistanceKm,
		CancellationReason: b.CancellationReason,
		Reviewed:           b.Reviewed(),
		Rating:             b.Rating,
		Review:             b.Review,
		DriverRating:       b.DriverRating,
		VehicleRating:      b.VehicleRating,
		ResponseTimeRating: b.ResponseTimeRating,
		CancelledAt:        timePtr(b.CancelledAt),
		CreatedAt:          timePtr(b.CreatedAt),
		UpdatedAt:          timePtr(b.UpdatedAt),
	}
	if !b.ScheduledAt.IsZero() {
		out.DateTime = DateTime{
			Date: b.ScheduledAt.Format(dateLayout),
			Time: b.ScheduledAt.Format(timeLayout),
		}
	}
	return out
}

// FromBookings converts a slice of domain bookings. The result is never nil.
func FromBookings(bookings []*domain.Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, FromBooking(b))
	}
	return out
}

// CanonicalID returns the first identifier present.
func (b Booking) CanonicalID() string {
	return firstNonEmpty(b.MongoID, b.BookingID, b.ID)
}

// ToDomain converts and normalizes a wire booking.
func (b Booking) ToDomain() (domain.Booking, error) {
	id := b.CanonicalID()
	if id == "" {
		return domain.Booking{}, ErrMissingID
	}
	status, ok := domain.ParseBookingStatus(b.Status)
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: %q (booking %s)", ErrUnknownStatus, b.Status, id)
	}

	out := domain.Booking{
		ID:                   id,
		RequesterID:          b.RequesterID,
		DriverID:             b.DriverID,
		Status:               status,
		ScheduledAt:          b.DateTime.parse(),
		Pickup:               b.Locations.Pickup,
		Dropoff:              b.Locations.Dropoff,
		Patient:              domain.PatientInfo(b.PatientInfo),
		AmbulanceType:        b.AmbulanceType,
		Fare:                 b.Fare,
		PaymentMethod:        b.PaymentMethod,
		EstimatedDurationMin: b.EstimatedDuration,
		EstimatedDistanceKm:  b.EstimatedDistance,
		CancellationReason:   b.CancellationReason,
		Review:               b.Review,
		Rating:               validRating(b.Rating),
		DriverRating:         validRating(b.DriverRating),
		VehicleRating:        validRating(b.VehicleRating),
		ResponseTimeRating:   validRating(b.ResponseTimeRating),
	}
	if b.CancelledAt != nil {
		out.CancelledAt = *b.CancelledAt
	}
	if b.CreatedAt != nil {
		out.CreatedAt = *b.CreatedAt
	}
	if b.UpdatedAt != nil {
		out.UpdatedAt = *b.UpdatedAt
	}
	return out, nil
}

// ToDomainBookings converts a list, failing on the first malformed entry.
func ToDomainBookings(in []Booking) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(in))
	for i, b := range in {
		d, err := b.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("booking %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// Timestamps without a zone that older backends put in the date field; read as UTC.
var localTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parse accepts "2006-01-02" with an optional "15:04" or "15:04:05" time, or a
// full timestamp (RFC 3339, or zone-less as UTC) in the date field.
// Unparseable dates yield the zero time.
func (dt DateTime) parse() time.Time {
	date := strings.TrimSpace(dt.Date)
	if date == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, date); err == nil {
		return t.UTC()
	}
	for _, layout := range localTimestampLayouts {
		if t, err := time.ParseInLocation(layout, date, time.UTC); err == nil {
			return t
		}
	}
	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}
	}
	clock := strings.TrimSpace(dt.Time)
	for _, layout := range []string{"15:04:05", timeLayout} {
		if t, err := time.ParseInLocation(layout, clock, time.UTC); err == nil {
			return day.Add(time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second)
		}
	}
	return day
}

// ParseDateTime parses the wire date and time into a UTC timestamp.
func ParseDateTime(dt DateTime) (time.Time, bool) {
	t := dt.parse()
	return t, !t.IsZero()
}

// Only 1-5 is a real rating; anything else from the wire counts as unset.
func validRating(v *int) *int {
	if v == nil || *v < 1 || *v > 5 {
		return nil
	}
	r := *v
	return &r
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
