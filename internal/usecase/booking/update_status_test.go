package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func (f *fixture) updateStatus() *UpdateBookingStatus {
	return NewUpdateBookingStatus(f.repo, f.clock, f.publisher, f.recorder, f.cache, zap.NewNop())
}

func (f *fixture) seedBooking(date, start, end string, status domain.Status, owner *uint) uint {
	return f.repo.addBooking(models.Booking{
		Name:               "Ana",
		Contact:            "11 99999-0000",
		ProcedureID:        regularProcedure,
		AppointmentDate:    date,
		AppointmentTime:    start,
		EndTime:            end,
		Status:             string(status),
		UserID:             owner,
		ExternalCalendarID: "ev-1",
	})
}

func TestUpdateStatus_StaffFlow(t *testing.T) {
	f := newFixture()
	id := f.seedBooking(today, "09:00", "09:45", domain.StatusPending, nil)
	uc := f.updateStatus()

	b, err := uc.Execute(context.Background(), UpdateStatusInput{Actor: staff(), BookingID: id, Status: domain.StatusScheduled})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusScheduled), b.Status)

	notes := "cliente chegou"
	b, err = uc.Execute(context.Background(), UpdateStatusInput{Actor: staff(), BookingID: id, Status: domain.StatusCompleted, AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), b.Status)
	assert.NotNil(t, b.CompletedAt)
	assert.Equal(t, notes, f.repo.booking(id).AdminNotes)

	_, err = uc.Execute(context.Background(), UpdateStatusInput{Actor: staff(), BookingID: id, Status: domain.StatusCancelled})
	assertCode(t, err, httperr.KindState, "booking_finalized")

	require.Len(t, f.publisher.calls, 2)
	for _, call := range f.publisher.calls {
		assert.Equal(t, "sync", call.op)
	}
}

func TestUpdateStatus_CompletionWaitsForStart(t *testing.T) {
	f := newFixture()
	id := f.seedBooking(today, "10:30", "11:15", domain.StatusScheduled, nil)

	_, err := f.updateStatus().Execute(context.Background(), UpdateStatusInput{Actor: staff(), BookingID: id, Status: domain.StatusCompleted})
	assertCode(t, err, httperr.KindState, "booking_in_future")
	assert.Equal(t, string(domain.StatusScheduled), f.repo.booking(id).Status)
}

func TestUpdateStatus_PendingCannotComplete(t *testing.T) {
	f := newFixture()
	id := f.seedBooking(today, "09:00", "09:45", domain.StatusPending, nil)

	_, err := f.updateStatus().Execute(context.Background(), UpdateStatusInput{Actor: staff(), BookingID: id, Status: domain.StatusCompleted})
	assertCode(t, err, httperr.KindState, "invalid_transition")
}

func TestUpdateStatus_CustomerCancelsOwnBooking(t *testing.T) {
	f := newFixture()
	id := f.seedBooking(tomorrow, "10:00", "10:45", domain.StatusPending, uintPtr(7))

	b, err := f.updateStatus().Execute(context.Background(), UpdateStatusInput{Actor: customer(7), BookingID: id, Status: domain.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), b.Status)
	assert.NotNil(t, b.CancelledAt)
	assert.Empty(t, f.repo.booking(id).ExternalCalendarID)

	require.Len(t, f.publisher.calls, 1)
	assert.Equal(t, publishCall{op: "remove", bookingID: id, externalID: "ev-1"}, f.publisher.calls[0])
	assert.Equal(t, []string{tomorrow}, f.cache.invalidated)
}

func TestUpdateStatus_CustomerPermissions(t *testing.T) {
	f := newFixture()
	id := f.seedBooking(tomorrow, "10:00", "10:45", domain.StatusPending, uintPtr(7))
	uc := f.updateStatus()

	_, err := uc.Execute(context.Background(), UpdateStatusInput{Actor: customer(8), BookingID: id, Status: domain.StatusCancelled})
	assertCode(t, err, httperr.KindForbidden, "forbidden")

	_, err = uc.Execute(context.Background(), UpdateStatusInput{Actor: customer(7), BookingID: id, Status: domain.StatusScheduled})
	assertCode(t, err, httperr.KindForbidden, "forbidden")

	_, err = uc.Execute(context.Background(), UpdateStatusInput{Actor: domain.Anonymous(), BookingID: id, Status: domain.StatusCancelled})
	assertCode(t, err, httperr.KindForbidden, "forbidden")

	assert.Equal(t, string(domain.StatusPending), f.repo.booking(id).Status)
	assert.Empty(t, f.publisher.calls)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.updateStatus().Execute(context.Background(), UpdateStatusInput{Actor: staff(), BookingID: 404, Status: domain.StatusCancelled})
	assertCode(t, err, httperr.KindNotFound, "booking_not_found")
}

func TestUpdateStatus_CancelFreesTheSlot(t *testing.T) {
	f := newFixture()
	id := f.seedBooking(tomorrow, "10:00", "10:45", domain.StatusScheduled, nil)

	_, err := f.updateStatus().Execute(context.Background(), UpdateStatusInput{Actor: staff(), BookingID: id, Status: domain.StatusCancelled})
	require.NoError(t, err)

	_, err = f.create().Execute(context.Background(), request(customer(1), tomorrow, "10:00"))
	require.NoError(t, err)
}
