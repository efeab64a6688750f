package domain

import (
	"errors"
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{BookingStatusPending, BookingStatusUpcoming, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusUpcoming, BookingStatusActive, true},
		{BookingStatusUpcoming, BookingStatusCancelled, true},
		{BookingStatusActive, BookingStatusCompleted, true},
		{BookingStatusActive, BookingStatusCancelled, false},
		{BookingStatusPending, BookingStatusCompleted, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatus("archived"), BookingStatusCancelled, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseBookingStatus_RejectsCustomStatus(t *testing.T) {
	if _, ok := ParseBookingStatus("archived"); ok {
		t.Error("expected custom status to be rejected")
	}
	if st, ok := ParseBookingStatus("completed"); !ok || st != BookingStatusCompleted {
		t.Errorf("expected completed, got %q (%v)", st, ok)
	}
}

func TestBookingCancel_RequiresReason(t *testing.T) {
	b := &Booking{ID: "b-1", Status: BookingStatusPending}

	if err := b.Cancel("   ", time.Now()); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
	if b.Status != BookingStatusPending {
		t.Errorf("status changed to %s on failed cancel", b.Status)
	}
}

func TestBookingCancel_SetsReasonAndTimestamp(t *testing.T) {
	at := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	b := &Booking{ID: "b-1", Status: BookingStatusUpcoming}

	if err := b.Cancel("  patient recovered ", at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != BookingStatusCancelled {
		t.Errorf("expected cancelled, got %s", b.Status)
	}
	if b.CancellationReason != "patient recovered" {
		t.Errorf("unexpected reason %q", b.CancellationReason)
	}
	if !b.CancelledAt.Equal(at) {
		t.Errorf("unexpected cancelledAt %v", b.CancelledAt)
	}
}

func TestBookingCancel_RejectsActiveBooking(t *testing.T) {
	b := &Booking{ID: "b-1", Status: BookingStatusActive}
	if err := b.Cancel("changed plans", time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestBookingTransitionTo_RefusesCancelWithoutReason(t *testing.T) {
	b := &Booking{ID: "b-1", Status: BookingStatusPending}
	if err := b.TransitionTo(BookingStatusCancelled, time.Now()); !errors.Is(err, ErrReasonRequired) {
		t.Errorf("expected ErrReasonRequired, got %v", err)
	}
}

func TestApplyReview_OnlyForCompleted(t *testing.T) {
	b := &Booking{ID: "b-1", Status: BookingStatusActive}
	err := b.ApplyReview(Review{Rating: 5}, time.Now())
	if !errors.Is(err, ErrBookingNotCompleted) {
		t.Fatalf("expected ErrBookingNotCompleted, got %v", err)
	}
	if b.Reviewed() {
		t.Error("booking should not be reviewed")
	}
}

func TestApplyReview_LeavesSkippedSubRatingsUnset(t *testing.T) {
	b := &Booking{ID: "b-1", Status: BookingStatusCompleted}

	if err := b.ApplyReview(Review{Rating: 4, Comment: "Quick pickup"}, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.Reviewed() || *b.Rating != 4 {
		t.Fatalf("expected rating 4, got %v", b.Rating)
	}
	if b.DriverRating != nil || b.VehicleRating != nil || b.ResponseTimeRating != nil {
		t.Error("expected sub-ratings to stay unset")
	}
}

func TestApplyReview_EditReplacesPreviousValues(t *testing.T) {
	b := &Booking{ID: "b-1", Status: BookingStatusCompleted}
	_ = b.ApplyReview(Review{Rating: 2, Comment: "late", DriverRating: 3}, time.Now())

	if err := b.ApplyReview(Review{Rating: 5, Comment: "on reflection, great"}, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *b.Rating != 5 || b.Review != "on reflection, great" {
		t.Errorf("unexpected review %d %q", *b.Rating, b.Review)
	}
	if b.DriverRating != nil {
		t.Error("expected driver rating cleared by edit")
	}
}

func TestReviewValidate(t *testing.T) {
	tests := []struct {
		name   string
		review Review
		want   error
	}{
		{"unset overall", Review{Rating: 0, DriverRating: 5}, ErrRatingRequired},
		{"overall too high", Review{Rating: 6}, ErrRatingOutOfRange},
		{"negative sub-rating", Review{Rating: 3, VehicleRating: -1}, ErrRatingOutOfRange},
		{"sub-rating too high", Review{Rating: 3, ResponseTimeRating: 9}, ErrRatingOutOfRange},
		{"valid", Review{Rating: 3, DriverRating: 4}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.review.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestMarkPrimary_LeavesExactlyOnePrimary(t *testing.T) {
	contacts := []EmergencyContact{
		{ID: "c-1", IsPrimary: true},
		{ID: "c-2"},
		{ID: "c-3"},
	}

	MarkPrimary(contacts, "c-3")

	primaries := 0
	for _, c := range contacts {
		if c.IsPrimary {
			primaries++
			if c.ID != "c-3" {
				t.Errorf("unexpected primary %s", c.ID)
			}
		}
	}
	if primaries != 1 {
		t.Errorf("expected exactly one primary, got %d", primaries)
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range []string{"user", "driver", "admin"} {
		if _, ok := ParseRole(r); !ok {
			t.Errorf("expected %q to parse", r)
		}
	}
	for _, r := range []string{"", "Admin", "superuser", "patient"} {
		if _, ok := ParseRole(r); ok {
			t.Errorf("expected %q to be rejected", r)
		}
	}
}
