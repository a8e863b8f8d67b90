package booking

import (
	"context"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type Repository interface {
	// Transaction runs fn with a repository bound to one store transaction.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Locks (meaningful inside Transaction) --------
	LockDate(
		ctx context.Context,
		date string,
	) error

	LockProcedure(
		ctx context.Context,
		id uint,
	) (*models.Procedure, error)

	// -------- Procedure / promotion --------
	GetProcedure(
		ctx context.Context,
		id uint,
	) (*models.Procedure, error)

	CountPromoUsage(
		ctx context.Context,
		procedureID uint,
		fromDate string,
	) (int64, error)

	// -------- Day inputs --------
	GetScheduleRule(
		ctx context.Context,
		weekday int,
	) (*models.ScheduleRule, error)

	ListBlocksForDate(
		ctx context.Context,
		date string,
	) ([]models.Block, error)

	ListActiveBookingsForDate(
		ctx context.Context,
		date string,
	) ([]models.Booking, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetBookingForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	DeleteBooking(
		ctx context.Context,
		id uint,
	) error

	SetExternalCalendarID(
		ctx context.Context,
		id uint,
		externalID string,
	) error

	// -------- Listing --------
	ListBookingsForPeriod(
		ctx context.Context,
		fromDate string,
		toDate string,
	) ([]models.Booking, error)

	ListBookingsForUser(
		ctx context.Context,
		userID uint,
	) ([]models.Booking, error)
}
