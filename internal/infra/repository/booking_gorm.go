package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

const uniqueViolation = "23505"

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Transaction / locks
// --------------------------------------------------

func (r *BookingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx booking.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// LockDate takes a transaction-scoped advisory lock on the date, so writers
// for the same day run one after the other. Outside a transaction the lock
// is released right away.
func (r *BookingGormRepository) LockDate(
	ctx context.Context,
	date string,
) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "booking-date:"+date).
		Error
}

func (r *BookingGormRepository) LockProcedure(
	ctx context.Context,
	id uint,
) (*models.Procedure, error) {

	var p models.Procedure
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// --------------------------------------------------
// Procedure / promotion
// --------------------------------------------------

func (r *BookingGormRepository) GetProcedure(
	ctx context.Context,
	id uint,
) (*models.Procedure, error) {
	return getProcedure(ctx, r.db, id)
}

func (r *BookingGormRepository) CountPromoUsage(
	ctx context.Context,
	procedureID uint,
	fromDate string,
) (int64, error) {
	return countPromoUsage(ctx, r.db, procedureID, fromDate)
}

// --------------------------------------------------
// Day inputs
// --------------------------------------------------

func (r *BookingGormRepository) GetScheduleRule(
	ctx context.Context,
	weekday int,
) (*models.ScheduleRule, error) {

	var rule models.ScheduleRule
	err := r.db.WithContext(ctx).
		Where("weekday = ?", weekday).
		First(&rule).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *BookingGormRepository) ListBlocksForDate(
	ctx context.Context,
	date string,
) ([]models.Block, error) {
	return listBlocksForDate(ctx, r.db, date)
}

func (r *BookingGormRepository) ListActiveBookingsForDate(
	ctx context.Context,
	date string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(
			"appointment_date = ? AND status <> ?",
			date,
			string(booking.StatusCancelled),
		).
		Order("appointment_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return slotTaken(r.db.WithContext(ctx).Omit("Procedure").Create(b).Error)
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Procedure").
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForUpdate(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Procedure").
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return slotTaken(r.db.WithContext(ctx).Omit("Procedure").Save(b).Error)
}

func (r *BookingGormRepository) DeleteBooking(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *BookingGormRepository) SetExternalCalendarID(
	ctx context.Context,
	id uint,
	externalID string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("external_calendar_id", externalID).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	fromDate string,
	toDate string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Procedure").
		Where("appointment_date >= ? AND appointment_date <= ?", fromDate, toDate).
		Order("appointment_date ASC, appointment_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Procedure").
		Where("user_id = ?", userID).
		Order("appointment_date DESC, appointment_time DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

// --------------------------------------------------
// Error mapping
// --------------------------------------------------

// IsUniqueViolation reports a Postgres unique_violation anywhere in err.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func slotTaken(err error) error {
	if IsUniqueViolation(err) {
		return httperr.ErrConflict(httperr.CodeSlotTakenConcurrency)
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

// Compile-time check
var _ booking.Repository = (*BookingGormRepository)(nil)
