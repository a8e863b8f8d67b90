package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// Google mirrors bookings as events of one Google Calendar.
type Google struct {
	svc        *gcal.Service
	calendarID string
	loc        *time.Location
}

func NewGoogle(ctx context.Context, calendarID, credentialsFile string, loc *time.Location) (*Google, error) {
	opts := []option.ClientOption{option.WithScopes(gcal.CalendarEventsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google calendar service: %w", err)
	}

	return &Google{svc: svc, calendarID: calendarID, loc: loc}, nil
}

func (g *Google) NotifyCreated(ctx context.Context, b *models.Booking) (string, error) {
	ev, err := googleEvent(b, g.loc)
	if err != nil {
		return "", err
	}

	created, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func (g *Google) NotifyUpdated(ctx context.Context, b *models.Booking, externalID string) error {
	ev, err := googleEvent(b, g.loc)
	if err != nil {
		return err
	}

	_, err = g.svc.Events.Update(g.calendarID, externalID, ev).Context(ctx).Do()
	return err
}

func (g *Google) NotifyDeleted(ctx context.Context, externalID string) error {
	return g.svc.Events.Delete(g.calendarID, externalID).Context(ctx).Do()
}

func googleEvent(b *models.Booking, loc *time.Location) (*gcal.Event, error) {
	start, end, err := spanOf(b, loc)
	if err != nil {
		return nil, err
	}

	ev := &gcal.Event{
		Summary:     summaryFor(b),
		Description: descriptionFor(b),
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: loc.String(),
		},
	}

	// grey for cancelled, kept visible on the agenda
	if b.Status == "cancelado" {
		ev.ColorId = "8"
	}

	return ev, nil
}

var _ Notifier = (*Google)(nil)
