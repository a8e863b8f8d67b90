package booking

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/calendar"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/promotion"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
	"github.com/BruksfildServices01/agenda-engine/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	Actor domain.Actor

	Name    string
	Contact string

	ProcedureID uint
	Date        string
	Time        string

	// Status is honoured for staff only.
	Status     *domain.Status
	Pricing    promotion.PricingMode
	AdminNotes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	clock    *timezone.Clock
	calendar calendar.Publisher
	audit    audit.Recorder
	cache    schedule.SnapshotCache
	log      *zap.Logger
}

func NewCreateBooking(
	repo domain.Repository,
	clock *timezone.Clock,
	calendar calendar.Publisher,
	audit audit.Recorder,
	cache schedule.SnapshotCache,
	log *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		clock:    clock,
		calendar: calendar,
		audit:    audit,
		cache:    cache,
		log:      log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1️⃣ Validação do pedido
	// --------------------------------------------------
	name := strings.TrimSpace(in.Name)
	contact := strings.TrimSpace(in.Contact)
	if name == "" || contact == "" {
		return nil, httperr.ErrValidation("missing_customer")
	}
	if !validators.IsContactValid(contact) {
		return nil, httperr.ErrValidation("invalid_contact")
	}

	if _, err := uc.clock.ParseDate(in.Date); err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	start, err := schedule.ParseTimeOfDay(in.Time)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_time")
	}

	if amount, manual := in.Pricing.Manual(); manual {
		if !in.Actor.IsStaff() {
			return nil, httperr.ErrForbidden("manual_price_forbidden")
		}
		if amount.IsNegative() {
			return nil, httperr.ErrValidation("invalid_price")
		}
	}

	status, err := domain.InitialStatus(in.Actor, in.Status)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Serviço
	// --------------------------------------------------
	procedure, err := uc.repo.GetProcedure(ctx, in.ProcedureID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, httperr.ErrNotFound("procedure_not_found")
	}
	if err != nil {
		return nil, err
	}
	if !procedure.Active {
		return nil, httperr.ErrValidation("procedure_inactive")
	}

	end := start.Add(procedure.DurationMinutes)
	if !end.WithinDay() {
		return nil, httperr.ErrValidation("closed")
	}

	b := &models.Booking{
		Name:            name,
		Contact:         contact,
		ProcedureID:     procedure.ID,
		AppointmentDate: in.Date,
		AppointmentTime: start.String(),
		EndTime:         end.String(),
		Status:          string(status),
		AdminNotes:      in.AdminNotes,
	}
	if !in.Actor.IsStaff() {
		b.UserID = in.Actor.UserID
	}

	// --------------------------------------------------
	// 3️⃣ Transação: trava o dia, revalida, precifica, grava
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockDate(ctx, in.Date); err != nil {
			return err
		}

		day, err := loadDay(ctx, tx, uc.clock, in.Date, 0)
		if err != nil {
			return err
		}

		if !in.Actor.IsStaff() && day.Rule != nil && !onGrid(day, start) {
			return httperr.ErrValidation("off_grid_time")
		}
		if in.Actor.IsStaff() && day.Timing == schedule.DayToday {
			// staff may register bookings that already started today
			day.Timing = schedule.DayFuture
		}

		if err := rejectSlot(day, schedule.Check(day, start, procedure.DurationMinutes)); err != nil {
			return err
		}

		quote, err := uc.price(ctx, tx, procedure, in)
		if err != nil {
			return err
		}
		b.Price = quote.Price
		b.IsPromo = quote.IsPromo

		return tx.CreateBooking(ctx, b)
	})
	if err != nil {
		countConflict(err)
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Efeitos pós-commit
	// --------------------------------------------------
	b.Procedure = *procedure

	metrics.IncBookingCreated(b.Status, b.IsPromo)
	invalidateDates(ctx, uc.cache, uc.log, b.AppointmentDate)
	uc.calendar.Sync(b)

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserID,
		Role:     string(in.Actor.Role),
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"date":     b.AppointmentDate,
			"time":     b.AppointmentTime,
			"status":   b.Status,
			"is_promo": b.IsPromo,
		},
	})

	return b, nil
}

// price runs inside the transaction. A quota-limited promotion locks the
// procedure row and recounts, so concurrent requests cannot both take the
// last promotional slot.
func (uc *CreateBooking) price(
	ctx context.Context,
	tx domain.Repository,
	procedure *models.Procedure,
	in CreateBookingInput,
) (promotion.Quote, error) {

	if _, manual := in.Pricing.Manual(); manual {
		return promotion.Evaluate(procedure, in.Date, 0, in.Pricing), nil
	}

	if !promotion.InWindow(procedure, in.Date) || !promotion.HasQuota(procedure) {
		return promotion.Evaluate(procedure, in.Date, 0, in.Pricing), nil
	}

	locked, err := tx.LockProcedure(ctx, procedure.ID)
	if err != nil {
		return promotion.Quote{}, err
	}

	used, err := tx.CountPromoUsage(ctx, locked.ID, promotion.CountFrom(locked))
	if err != nil {
		return promotion.Quote{}, err
	}

	return promotion.Evaluate(locked, in.Date, used, in.Pricing), nil
}
