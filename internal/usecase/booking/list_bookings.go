package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/dto"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// ======================================================
// BY DATE
// ======================================================

type ListBookingsByDate struct {
	repo  domain.Repository
	clock *timezone.Clock
}

func NewListBookingsByDate(
	repo domain.Repository,
	clock *timezone.Clock,
) *ListBookingsByDate {
	return &ListBookingsByDate{
		repo:  repo,
		clock: clock,
	}
}

func (uc *ListBookingsByDate) Execute(
	ctx context.Context,
	date string,
) ([]dto.BookingListDTO, error) {

	if _, err := uc.clock.ParseDate(date); err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	bookings, err := uc.repo.ListBookingsForPeriod(ctx, date, date)
	if err != nil {
		return nil, err
	}

	return dto.BookingList(bookings), nil
}

// ======================================================
// BY MONTH
// ======================================================

type ListBookingsByMonth struct {
	repo  domain.Repository
	clock *timezone.Clock
}

func NewListBookingsByMonth(
	repo domain.Repository,
	clock *timezone.Clock,
) *ListBookingsByMonth {
	return &ListBookingsByMonth{
		repo:  repo,
		clock: clock,
	}
}

func (uc *ListBookingsByMonth) Execute(
	ctx context.Context,
	year int,
	month int,
) ([]dto.BookingListDTO, error) {

	if year < 2000 || year > 2100 || month < 1 || month > 12 {
		return nil, httperr.ErrValidation("invalid_date")
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.clock.Location())
	last := first.AddDate(0, 1, -1)

	bookings, err := uc.repo.ListBookingsForPeriod(
		ctx,
		first.Format(timezone.DateLayout),
		last.Format(timezone.DateLayout),
	)
	if err != nil {
		return nil, err
	}

	return dto.BookingList(bookings), nil
}

// ======================================================
// MINE (authenticated customer)
// ======================================================

type ListMyBookings struct {
	repo domain.Repository
}

func NewListMyBookings(repo domain.Repository) *ListMyBookings {
	return &ListMyBookings{repo: repo}
}

func (uc *ListMyBookings) Execute(
	ctx context.Context,
	actor domain.Actor,
) ([]dto.BookingListDTO, error) {

	if actor.UserID == nil {
		return nil, httperr.ErrForbidden("forbidden")
	}

	bookings, err := uc.repo.ListBookingsForUser(ctx, *actor.UserID)
	if err != nil {
		return nil, err
	}

	return dto.BookingList(bookings), nil
}
