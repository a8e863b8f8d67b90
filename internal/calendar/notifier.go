// Package calendar mirrors bookings into an external calendar. Every call
// happens after the booking transaction committed; failures are logged and
// counted, never returned to the booking caller.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

type Notifier interface {
	// NotifyCreated returns the external id of the new event.
	NotifyCreated(ctx context.Context, b *models.Booking) (string, error)
	NotifyUpdated(ctx context.Context, b *models.Booking, externalID string) error
	NotifyDeleted(ctx context.Context, externalID string) error
}

// Noop is used when no calendar driver is configured.
type Noop struct{}

func (Noop) NotifyCreated(context.Context, *models.Booking) (string, error) { return "", nil }
func (Noop) NotifyUpdated(context.Context, *models.Booking, string) error   { return nil }
func (Noop) NotifyDeleted(context.Context, string) error                    { return nil }

// --------------------------------------------------
// Event content shared by the drivers
// --------------------------------------------------

const cancelledMarker = "[CANCELADO] "

func summaryFor(b *models.Booking) string {
	title := b.Name
	if b.Procedure.Name != "" {
		title = fmt.Sprintf("%s - %s", b.Procedure.Name, b.Name)
	}
	if b.Status == "cancelado" {
		return cancelledMarker + title
	}
	return title
}

func descriptionFor(b *models.Booking) string {
	desc := fmt.Sprintf("Contato: %s\nStatus: %s\nValor: %s", b.Contact, b.Status, b.Price.StringFixed(2))
	if b.IsPromo {
		desc += " (promoção)"
	}
	if b.AdminNotes != "" {
		desc += "\nObs: " + b.AdminNotes
	}
	return desc
}

// spanOf resolves the booking interval in loc.
func spanOf(b *models.Booking, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(timezone.DateTimeLayout, b.AppointmentDate+" "+b.AppointmentTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation(timezone.DateTimeLayout, b.AppointmentDate+" "+b.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
