package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func statusPtr(s Status) *Status { return &s }

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		code     string
	}{
		{StatusPending, StatusScheduled, ""},
		{StatusPending, StatusCancelled, ""},
		{StatusScheduled, StatusCompleted, ""},
		{StatusScheduled, StatusCancelled, ""},
		{StatusPending, StatusCompleted, "invalid_transition"},
		{StatusScheduled, StatusPending, "invalid_transition"},
		{StatusCompleted, StatusCancelled, "booking_finalized"},
		{StatusCancelled, StatusScheduled, "booking_finalized"},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := CanTransition(tt.from, tt.to)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
			assert.Equal(t, httperr.KindState, httperr.KindOf(err))
		})
	}
}

func TestTransition_CompleteRequiresStartedBooking(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC)

	b := &models.Booking{Status: string(StatusScheduled)}
	err := Transition(b, StatusCompleted, now.Add(24*time.Hour), now)
	assert.True(t, httperr.IsBusiness(err, "booking_in_future"))
	assert.Equal(t, string(StatusScheduled), b.Status)
	assert.Nil(t, b.CompletedAt)

	require.NoError(t, Transition(b, StatusCompleted, now.Add(-24*time.Hour), now))
	assert.Equal(t, string(StatusCompleted), b.Status)
	require.NotNil(t, b.CompletedAt)

	err = Transition(b, StatusCancelled, now, now)
	assert.True(t, httperr.IsBusiness(err, "booking_finalized"))
}

func TestTransition_CancelStampsTime(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: string(StatusPending)}

	require.NoError(t, Transition(b, StatusCancelled, now.Add(time.Hour), now))
	assert.Equal(t, string(StatusCancelled), b.Status)
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, now, *b.CancelledAt)
}

func TestInitialStatus(t *testing.T) {
	staff := Actor{Role: RoleStaff}
	customer := Actor{Role: RoleCustomer}

	st, err := InitialStatus(Anonymous(), statusPtr(StatusScheduled))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	st, err = InitialStatus(customer, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	st, err = InitialStatus(staff, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, st)

	st, err = InitialStatus(staff, statusPtr(StatusPending))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	_, err = InitialStatus(Actor{Role: RoleAdmin}, statusPtr(StatusCompleted))
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestRescheduleStatus(t *testing.T) {
	st, err := RescheduleStatus(StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, st)

	st, err = RescheduleStatus(StatusPending, statusPtr(StatusPending))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	st, err = RescheduleStatus(StatusScheduled, statusPtr(StatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st)

	_, err = RescheduleStatus(StatusScheduled, statusPtr(StatusCancelled))
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))

	_, err = RescheduleStatus(StatusCompleted, nil)
	assert.True(t, httperr.IsBusiness(err, "booking_finalized"))
}

func TestActor(t *testing.T) {
	uid := uint(4)
	other := uint(5)

	assert.False(t, Anonymous().IsStaff())
	assert.True(t, Actor{Role: RoleAdmin}.IsStaff())

	a := Actor{UserID: &uid, Role: RoleCustomer}
	assert.True(t, a.Owns(&models.Booking{UserID: &uid}))
	assert.False(t, a.Owns(&models.Booking{UserID: &other}))
	assert.False(t, a.Owns(&models.Booking{}))
	assert.False(t, Anonymous().Owns(&models.Booking{UserID: &uid}))
}
