package booking

import (
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition applies a status change. startsAt is the appointment start in
// the business timezone; a booking can only be delivered once it started.
func Transition(b *models.Booking, to Status, startsAt, now time.Time) error {
	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	switch to {
	case StatusCompleted:
		if startsAt.After(now) {
			return httperr.ErrState("booking_in_future")
		}
		b.CompletedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
	}

	b.Status = string(to)
	return nil
}

// RescheduleStatus resolves the status a booking ends with after a move.
// Without an explicit request the booking becomes agendado. Delivery is
// checked against the new start by the caller.
func RescheduleStatus(current Status, requested *Status) (Status, error) {
	if current.IsTerminal() {
		return "", httperr.ErrState("booking_finalized")
	}

	switch {
	case requested == nil, *requested == StatusScheduled:
		return StatusScheduled, nil
	case *requested == current:
		return current, nil
	case *requested == StatusCancelled:
		return "", httperr.ErrState("invalid_transition")
	}

	if err := CanTransition(current, *requested); err != nil {
		return "", err
	}
	return *requested, nil
}
