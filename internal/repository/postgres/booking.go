package postgres

import (
	"context"
	"database/sql"

	"ambulance/internal/domain"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, requester_id, driver_id, status, scheduled_at, pickup, dropoff,
	patient_name, patient_age, patient_gender, patient_condition,
	ambulance_type, fare, payment_method, estimated_duration_min, estimated_distance_km,
	cancellation_reason, cancelled_at,
	rating, review, driver_rating, vehicle_rating, response_time_rating,
	created_at, updated_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`

	_, err := r.q.ExecContext(ctx, query,
		b.ID,
		b.RequesterID,
		nullString(b.DriverID),
		b.Status,
		nullTime(b.ScheduledAt),
		b.Pickup,
		b.Dropoff,
		nullString(b.Patient.Name),
		b.Patient.Age,
		nullString(b.Patient.Gender),
		nullString(b.Patient.MedicalCondition),
		b.AmbulanceType,
		b.Fare,
		b.PaymentMethod,
		b.EstimatedDurationMin,
		b.EstimatedDistanceKm,
		nullString(b.CancellationReason),
		nullTime(b.CancelledAt),
		nullInt(b.Rating),
		nullString(b.Review),
		nullInt(b.DriverRating),
		nullInt(b.VehicleRating),
		nullInt(b.ResponseTimeRating),
		b.CreatedAt,
		b.UpdatedAt,
	)
	return mapError(err)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

// ListByRequester retrieves the bookings a user requested.
func (r *BookingRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE requester_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, requesterID)
}

// ListByDriver retrieves the bookings assigned to a driver.
func (r *BookingRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE driver_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, driverID)
}

// ListOpen retrieves pending bookings without a driver.
func (r *BookingRepository) ListOpen(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = $1 AND driver_id IS NULL ORDER BY created_at DESC`
	return r.list(ctx, query, string(domain.BookingStatusPending))
}

// ListAll retrieves every booking.
func (r *BookingRepository) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC LIMIT 500`
	return r.list(ctx, query)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Booking, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// Update updates an existing booking. The id and requester never change.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `
		UPDATE bookings
		SET driver_id = $1, status = $2, cancellation_reason = $3, cancelled_at = $4,
			rating = $5, review = $6, driver_rating = $7, vehicle_rating = $8, response_time_rating = $9,
			updated_at = $10
		WHERE id = $11
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(b.DriverID),
		b.Status,
		nullString(b.CancellationReason),
		nullTime(b.CancelledAt),
		nullInt(b.Rating),
		nullString(b.Review),
		nullInt(b.DriverRating),
		nullInt(b.VehicleRating),
		nullInt(b.ResponseTimeRating),
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(result)
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var (
		driverID, patientName, patientGender, patientCondition sql.NullString
		cancellationReason, review                             sql.NullString
		scheduledAt, cancelledAt                               sql.NullTime
		rating, driverRating, vehicleRating, responseRating    sql.NullInt32
	)

	err := row.Scan(
		&b.ID,
		&b.RequesterID,
		&driverID,
		&b.Status,
		&scheduledAt,
		&b.Pickup,
		&b.Dropoff,
		&patientName,
		&b.Patient.Age,
		&patientGender,
		&patientCondition,
		&b.AmbulanceType,
		&b.Fare,
		&b.PaymentMethod,
		&b.EstimatedDurationMin,
		&b.EstimatedDistanceKm,
		&cancellationReason,
		&cancelledAt,
		&rating,
		&review,
		&driverRating,
		&vehicleRating,
		&responseRating,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.DriverID = driverID.String
	b.Patient.Name = patientName.String
	b.Patient.Gender = patientGender.String
	b.Patient.MedicalCondition = patientCondition.String
	b.CancellationReason = cancellationReason.String
	b.Review = review.String
	if scheduledAt.Valid {
		b.ScheduledAt = scheduledAt.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = cancelledAt.Time
	}
	b.Rating = intPtr(rating)
	b.DriverRating = intPtr(driverRating)
	b.VehicleRating = intPtr(vehicleRating)
	b.ResponseTimeRating = intPtr(responseRating)

	return &b, nil
}
