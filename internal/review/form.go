// Package review holds the rating form and the star display rules.
package review

import (
	"context"
	"errors"

	"ambulance/internal/domain"
)

// ErrRatingUnset is returned by Submit while the overall rating is zero.
var ErrRatingUnset = errors.New("overall rating is required")

// Mode tells the renderer which title to show. Both modes submit the same way.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Submitter sends a review for a booking.
type Submitter interface {
	SubmitReview(ctx context.Context, id string, r domain.Review) (domain.Booking, error)
}

// Form is the review dialog for one completed booking.
type Form struct {
	BookingID string
	Mode      Mode
	Values    domain.Review
}

// Open prepares the form. A booking that already has a review opens pre-filled in edit mode.
func Open(b domain.Booking) (*Form, error) {
	if b.Status != domain.BookingStatusCompleted {
		return nil, domain.ErrBookingNotCompleted
	}
	f := &Form{BookingID: b.ID, Mode: ModeCreate}
	if b.Reviewed() {
		f.Mode = ModeEdit
		f.Values = b.ReviewOf()
	}
	return f, nil
}

// CanSubmit reports whether the submit control is enabled.
// Only the overall rating is mandatory.
func (f *Form) CanSubmit() bool {
	return f.Values.Rating != 0
}

// Submit validates and sends the form.
func (f *Form) Submit(ctx context.Context, s Submitter) (domain.Booking, error) {
	if !f.CanSubmit() {
		return domain.Booking{}, ErrRatingUnset
	}
	if err := f.Values.Validate(); err != nil {
		return domain.Booking{}, err
	}
	return s.SubmitReview(ctx, f.BookingID, f.Values)
}
