package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/promotion"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type ProcedureGormRepository struct {
	db *gorm.DB
}

func NewProcedureGormRepository(db *gorm.DB) *ProcedureGormRepository {
	return &ProcedureGormRepository{db: db}
}

func (r *ProcedureGormRepository) ListProcedures(
	ctx context.Context,
	onlyActive bool,
) ([]models.Procedure, error) {

	q := r.db.WithContext(ctx)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var procedures []models.Procedure
	if err := q.Order("id ASC").Find(&procedures).Error; err != nil {
		return nil, err
	}
	return procedures, nil
}

func (r *ProcedureGormRepository) GetProcedure(
	ctx context.Context,
	id uint,
) (*models.Procedure, error) {
	return getProcedure(ctx, r.db, id)
}

func (r *ProcedureGormRepository) CreateProcedure(
	ctx context.Context,
	p *models.Procedure,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProcedureGormRepository) UpdateProcedure(
	ctx context.Context,
	p *models.Procedure,
) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProcedureGormRepository) CountPromoUsage(
	ctx context.Context,
	procedureID uint,
	fromDate string,
) (int64, error) {
	return countPromoUsage(ctx, r.db, procedureID, fromDate)
}

// --------------------------------------------------
// Shared queries
// --------------------------------------------------

func getProcedure(ctx context.Context, db *gorm.DB, id uint) (*models.Procedure, error) {
	var p models.Procedure
	if err := db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// countPromoUsage counts non-cancelled bookings of the procedure dated on or
// after fromDate (all of them when fromDate is empty).
func countPromoUsage(
	ctx context.Context,
	db *gorm.DB,
	procedureID uint,
	fromDate string,
) (int64, error) {

	q := db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("procedure_id = ? AND status <> ?", procedureID, string(booking.StatusCancelled))

	if fromDate != "" {
		q = q.Where("appointment_date >= ?", fromDate)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Compile-time check
var _ promotion.Repository = (*ProcedureGormRepository)(nil)
