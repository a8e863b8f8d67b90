package booking

import "github.com/BruksfildServices01/agenda-engine/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pendente"
	StatusScheduled Status = "agendado"
	StatusCompleted Status = "realizado"
	StatusCancelled Status = "cancelado"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusScheduled, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

// IsActive: only cancelled bookings release their interval.
func (s Status) IsActive() bool {
	return s != StatusCancelled
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// State machine
// ===============================

var transitions = map[Status][]Status{
	StatusPending:   {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

// CanTransition validates a status change. Terminal states never leave.
func CanTransition(from, to Status) error {
	if from.IsTerminal() {
		return httperr.ErrState("booking_finalized")
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrState("invalid_transition")
}

// InitialStatus: self-serve requests wait for approval, staff bookings are
// confirmed unless staff asks for another starting state.
func InitialStatus(actor Actor, requested *Status) (Status, error) {
	if !actor.IsStaff() {
		return StatusPending, nil
	}
	if requested == nil {
		return StatusScheduled, nil
	}
	switch *requested {
	case StatusPending, StatusScheduled:
		return *requested, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}
