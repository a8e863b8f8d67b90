package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/calendar"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

type UpdateStatusInput struct {
	Actor     domain.Actor
	BookingID uint
	Status    domain.Status

	// AdminNotes replaces the staff notes when set (staff only).
	AdminNotes *string
}

type UpdateBookingStatus struct {
	repo     domain.Repository
	clock    *timezone.Clock
	calendar calendar.Publisher
	audit    audit.Recorder
	cache    schedule.SnapshotCache
	log      *zap.Logger
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	clock *timezone.Clock,
	calendar calendar.Publisher,
	audit audit.Recorder,
	cache schedule.SnapshotCache,
	log *zap.Logger,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:     repo,
		clock:    clock,
		calendar: calendar,
		audit:    audit,
		cache:    cache,
		log:      log,
	}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1️⃣ Permissão: cliente só cancela o próprio agendamento
	// --------------------------------------------------
	staff := in.Actor.IsStaff()
	if !staff && (in.Status != domain.StatusCancelled || in.AdminNotes != nil) {
		return nil, httperr.ErrForbidden("forbidden")
	}

	var (
		b        *models.Booking
		from     domain.Status
		removeID string
	)

	// --------------------------------------------------
	// 2️⃣ Transição sob lock da linha
	// --------------------------------------------------
	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBookingForUpdate(ctx, in.BookingID)
		if errors.Is(err, models.ErrNotFound) {
			return httperr.ErrNotFound("booking_not_found")
		}
		if err != nil {
			return err
		}

		if !staff && !in.Actor.Owns(b) {
			return httperr.ErrForbidden("forbidden")
		}

		startsAt, err := uc.clock.ParseDateTime(b.AppointmentDate, b.AppointmentTime)
		if err != nil {
			return err
		}

		from = domain.Status(b.Status)
		if err := domain.Transition(b, in.Status, startsAt, uc.clock.Now()); err != nil {
			return err
		}

		if in.AdminNotes != nil {
			b.AdminNotes = *in.AdminNotes
		}

		// a customer cancellation removes the mirrored event
		if !staff {
			removeID = b.ExternalCalendarID
			b.ExternalCalendarID = ""
		}

		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Efeitos pós-commit
	// --------------------------------------------------
	metrics.IncStatusTransition(string(from), b.Status)
	invalidateDates(ctx, uc.cache, uc.log, b.AppointmentDate)

	if staff {
		uc.calendar.Sync(b)
	} else {
		uc.calendar.Remove(b.ID, removeID)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserID,
		Role:     string(in.Actor.Role),
		Action:   "booking_status_changed",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"from": from, "to": b.Status},
	})

	return b, nil
}
