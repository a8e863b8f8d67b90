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

type RescheduleInput struct {
	Actor     domain.Actor
	BookingID uint

	Date string
	Time string

	// ProcedureID changes the service (and so the duration). The price
	// snapshot is kept.
	ProcedureID *uint
	Status      *domain.Status
}

type RescheduleBooking struct {
	repo     domain.Repository
	clock    *timezone.Clock
	calendar calendar.Publisher
	audit    audit.Recorder
	cache    schedule.SnapshotCache
	log      *zap.Logger
}

func NewRescheduleBooking(
	repo domain.Repository,
	clock *timezone.Clock,
	calendar calendar.Publisher,
	audit audit.Recorder,
	cache schedule.SnapshotCache,
	log *zap.Logger,
) *RescheduleBooking {
	return &RescheduleBooking{
		repo:     repo,
		clock:    clock,
		calendar: calendar,
		audit:    audit,
		cache:    cache,
		log:      log,
	}
}

// Execute moves a booking atomically: the new slot is validated and the row
// updated in one transaction, with the booking's own interval left out of
// the overlap scan.
func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Booking, error) {

	if !in.Actor.IsStaff() {
		return nil, httperr.ErrForbidden("forbidden")
	}

	// --------------------------------------------------
	// 1️⃣ Novo horário
	// --------------------------------------------------
	if _, err := uc.clock.ParseDate(in.Date); err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	start, err := schedule.ParseTimeOfDay(in.Time)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_time")
	}

	var (
		b       *models.Booking
		oldDate string
		from    domain.Status
	)

	// --------------------------------------------------
	// 2️⃣ Transação
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockDate(ctx, in.Date); err != nil {
			return err
		}

		var err error
		b, err = tx.GetBookingForUpdate(ctx, in.BookingID)
		if errors.Is(err, models.ErrNotFound) {
			return httperr.ErrNotFound("booking_not_found")
		}
		if err != nil {
			return err
		}

		from = domain.Status(b.Status)
		to, err := domain.RescheduleStatus(from, in.Status)
		if err != nil {
			return err
		}

		duration, err := uc.duration(ctx, tx, b, in.ProcedureID)
		if err != nil {
			return err
		}

		day, err := loadDay(ctx, tx, uc.clock, in.Date, b.ID)
		if err != nil {
			return err
		}
		if day.Timing == schedule.DayToday {
			day.Timing = schedule.DayFuture
		}

		if err := rejectSlot(day, schedule.Check(day, start, duration)); err != nil {
			return err
		}

		oldDate = b.AppointmentDate
		b.AppointmentDate = in.Date
		b.AppointmentTime = start.String()
		b.EndTime = start.Add(duration).String()

		if to != from {
			startsAt, err := uc.clock.ParseDateTime(b.AppointmentDate, b.AppointmentTime)
			if err != nil {
				return err
			}
			if err := domain.Transition(b, to, startsAt, uc.clock.Now()); err != nil {
				return err
			}
		}

		return tx.UpdateBooking(ctx, b)
	})
	if err != nil {
		countConflict(err)
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Efeitos pós-commit
	// --------------------------------------------------
	if from != domain.Status(b.Status) {
		metrics.IncStatusTransition(string(from), b.Status)
	}
	invalidateDates(ctx, uc.cache, uc.log, oldDate, b.AppointmentDate)
	uc.calendar.Sync(b)

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserID,
		Role:     string(in.Actor.Role),
		Action:   "booking_rescheduled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"from_date": oldDate,
			"date":      b.AppointmentDate,
			"time":      b.AppointmentTime,
			"status":    b.Status,
		},
	})

	return b, nil
}

// duration keeps the stored interval length unless the service changes, in
// which case b is switched to the new procedure.
func (uc *RescheduleBooking) duration(
	ctx context.Context,
	tx domain.Repository,
	b *models.Booking,
	procedureID *uint,
) (int, error) {

	if procedureID == nil || *procedureID == b.ProcedureID {
		start, err := schedule.ParseTimeOfDay(b.AppointmentTime)
		if err != nil {
			return 0, err
		}
		end, err := schedule.ParseTimeOfDay(b.EndTime)
		if err != nil {
			return 0, err
		}
		return int(end - start), nil
	}

	p, err := tx.GetProcedure(ctx, *procedureID)
	if errors.Is(err, models.ErrNotFound) {
		return 0, httperr.ErrNotFound("procedure_not_found")
	}
	if err != nil {
		return 0, err
	}

	b.ProcedureID = p.ID
	b.Procedure = *p
	return p.DurationMinutes, nil
}
