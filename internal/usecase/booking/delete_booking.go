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
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// DeleteBooking is the administrative purge. It is not a status transition:
// the row disappears and so does its calendar event.
type DeleteBooking struct {
	repo     domain.Repository
	calendar calendar.Publisher
	audit    audit.Recorder
	cache    schedule.SnapshotCache
	log      *zap.Logger
}

func NewDeleteBooking(
	repo domain.Repository,
	calendar calendar.Publisher,
	audit audit.Recorder,
	cache schedule.SnapshotCache,
	log *zap.Logger,
) *DeleteBooking {
	return &DeleteBooking{
		repo:     repo,
		calendar: calendar,
		audit:    audit,
		cache:    cache,
		log:      log,
	}
}

func (uc *DeleteBooking) Execute(
	ctx context.Context,
	actor domain.Actor,
	bookingID uint,
) error {

	if !actor.IsStaff() {
		return httperr.ErrForbidden("forbidden")
	}

	var b *models.Booking
	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		b, err = tx.GetBookingForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		return tx.DeleteBooking(ctx, bookingID)
	})
	if errors.Is(err, models.ErrNotFound) {
		return httperr.ErrNotFound("booking_not_found")
	}
	if err != nil {
		return err
	}

	invalidateDates(ctx, uc.cache, uc.log, b.AppointmentDate)
	uc.calendar.Remove(b.ID, b.ExternalCalendarID)

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserID,
		Role:     string(actor.Role),
		Action:   "booking_deleted",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"date":   b.AppointmentDate,
			"time":   b.AppointmentTime,
			"status": b.Status,
		},
	})

	return nil
}
