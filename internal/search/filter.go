// Package search filters and orders booking collections for display.
// Everything here is pure: inputs are never modified.
package search

import (
	"strings"
	"time"

	"ambulance/internal/domain"
)

// StatusAll disables the status stage.
const StatusAll = "all"

// DateLayout is the format of the date bounds.
const DateLayout = "2006-01-02"

// Criteria selects a subset of bookings.
type Criteria struct {
	// Status is a booking status or StatusAll. Empty means StatusAll.
	Status string
	Query  string
	// DateFrom and DateTo are inclusive calendar days in DateLayout.
	// The date stage runs only when both are set.
	DateFrom string
	DateTo   string
}

// Filter applies the status, search and date stages in that order and keeps
// the input order of whatever survives.
func Filter(bookings []domain.Booking, c Criteria) ([]domain.Booking, error) {
	from, to, hasRange, err := c.dateRange()
	if err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !matchesStatus(b, c.Status) {
			continue
		}
		if query != "" && !matchesQuery(b, query) {
			continue
		}
		if hasRange && !withinRange(b, from, to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func matchesStatus(b domain.Booking, status string) bool {
	if status == "" || status == StatusAll {
		return true
	}
	return string(b.Status) == status
}

func matchesQuery(b domain.Booking, query string) bool {
	fields := []string{b.ID, b.Pickup, b.Dropoff, b.Patient.Name}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func withinRange(b domain.Booking, from, to time.Time) bool {
	if b.ScheduledAt.IsZero() {
		return false
	}
	at := b.ScheduledAt
	return !at.Before(from) && !at.After(to)
}

// dateRange parses the bounds as [from 00:00:00, to 23:59:59.999999999].
func (c Criteria) dateRange() (from, to time.Time, ok bool, err error) {
	if c.DateFrom == "" || c.DateTo == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	from, err = time.ParseInLocation(DateLayout, c.DateFrom, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false, &DateError{Field: "from", Value: c.DateFrom, Err: err}
	}
	day, err := time.ParseInLocation(DateLayout, c.DateTo, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false, &DateError{Field: "to", Value: c.DateTo, Err: err}
	}
	to = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to, true, nil
}

// DateError reports an unparseable date bound.
type DateError struct {
	Field string
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return "invalid " + e.Field + " date " + e.Value + ": expected " + DateLayout
}

func (e *DateError) Unwrap() error {
	return e.Err
}
