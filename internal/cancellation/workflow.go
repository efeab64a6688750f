// Package cancellation drives the cancel dialog for a single booking.
package cancellation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"ambulance/internal/domain"
)

var (
	// ErrNotIdle is returned by Open while another cancellation is open.
	ErrNotIdle = errors.New("a cancellation is already open")

	// ErrNotEditing is returned when the reason is edited or submitted outside reason entry.
	ErrNotEditing = errors.New("no cancellation reason is being entered")

	// ErrSubmitting is returned by Close while the request is in flight.
	ErrSubmitting = errors.New("cancellation is being submitted")
)

// State is one of Idle, ReasonEntry or Submitting.
type State interface {
	isState()
}

// Idle means no dialog is open.
type Idle struct{}

// ReasonEntry means the user is typing a reason for BookingID.
// Err holds the failure of the previous submission, if any.
type ReasonEntry struct {
	BookingID string
	Reason    string
	Err       error
}

// Submitting means the request for BookingID is in flight.
type Submitting struct {
	BookingID string
	Reason    string
}

func (Idle) isState()        {}
func (ReasonEntry) isState() {}
func (Submitting) isState()  {}

// Resolved is the outcome of a submission. Err is nil on success.
type Resolved struct {
	BookingID string
	Booking   domain.Booking
	Err       error
}

// Success reports whether the booking was cancelled.
func (r Resolved) Success() bool {
	return r.Err == nil
}

// Canceller performs the cancellation.
type Canceller interface {
	Cancel(ctx context.Context, id, reason string) (domain.Booking, error)
}

// Workflow is the cancel dialog state machine.
type Workflow struct {
	canceller Canceller
	onChange  func(State)

	mu    sync.Mutex
	state State
	last  *Resolved
}

// NewWorkflow creates an idle workflow. onChange, if set, is called after every transition.
func NewWorkflow(c Canceller, onChange func(State)) *Workflow {
	return &Workflow{canceller: c, onChange: onChange, state: Idle{}}
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Last returns the most recent submission outcome.
func (w *Workflow) Last() (Resolved, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return Resolved{}, false
	}
	return *w.last, true
}

// Open starts a cancellation for bookingID.
func (w *Workflow) Open(bookingID string) error {
	w.mu.Lock()
	if _, ok := w.state.(Idle); !ok {
		w.mu.Unlock()
		return ErrNotIdle
	}
	next := ReasonEntry{BookingID: bookingID}
	w.state = next
	w.mu.Unlock()

	w.notify(next)
	return nil
}

// SetReason replaces the reason text. A previous error stays visible until the next submit.
func (w *Workflow) SetReason(reason string) error {
	w.mu.Lock()
	entry, ok := w.state.(ReasonEntry)
	if !ok {
		w.mu.Unlock()
		return ErrNotEditing
	}
	entry.Reason = reason
	w.state = entry
	w.mu.Unlock()

	w.notify(entry)
	return nil
}

// CanSubmit reports whether the submit control is enabled.
func (w *Workflow) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.state.(ReasonEntry)
	return ok && strings.TrimSpace(entry.Reason) != ""
}

// CanClose reports whether the dialog may be dismissed.
func (w *Workflow) CanClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, submitting := w.state.(Submitting)
	return !submitting
}

// Submit sends the cancellation. On success the workflow returns to Idle; on
// failure it goes back to ReasonEntry with the error and the reason preserved.
func (w *Workflow) Submit(ctx context.Context) (Resolved, error) {
	w.mu.Lock()
	entry, ok := w.state.(ReasonEntry)
	if !ok {
		w.mu.Unlock()
		return Resolved{}, ErrNotEditing
	}
	if strings.TrimSpace(entry.Reason) == "" {
		w.mu.Unlock()
		return Resolved{}, domain.ErrReasonRequired
	}
	inFlight := Submitting{BookingID: entry.BookingID, Reason: entry.Reason}
	w.state = inFlight
	w.mu.Unlock()
	w.notify(inFlight)

	booking, err := w.canceller.Cancel(ctx, entry.BookingID, entry.Reason)
	res := Resolved{BookingID: entry.BookingID, Booking: booking, Err: err}

	var next State = Idle{}
	if err != nil {
		next = ReasonEntry{BookingID: entry.BookingID, Reason: entry.Reason, Err: err}
	}
	w.mu.Lock()
	w.last = &res
	w.state = next
	w.mu.Unlock()

	w.notify(next)
	return res, nil
}

// Close dismisses the dialog. It is refused while submitting.
func (w *Workflow) Close() error {
	w.mu.Lock()
	if _, ok := w.state.(Submitting); ok {
		w.mu.Unlock()
		return ErrSubmitting
	}
	w.state = Idle{}
	w.mu.Unlock()

	w.notify(Idle{})
	return nil
}

// notify runs without the lock held.
func (w *Workflow) notify(s State) {
	if w.onChange != nil {
		w.onChange(s)
	}
}
