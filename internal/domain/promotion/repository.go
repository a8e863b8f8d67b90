package promotion

import (
	"context"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// Repository is the procedure catalogue as seen by the engine and its
// minimal administration.
type Repository interface {
	ListProcedures(
		ctx context.Context,
		onlyActive bool,
	) ([]models.Procedure, error)

	GetProcedure(
		ctx context.Context,
		id uint,
	) (*models.Procedure, error)

	CreateProcedure(
		ctx context.Context,
		p *models.Procedure,
	) error

	UpdateProcedure(
		ctx context.Context,
		p *models.Procedure,
	) error

	CountPromoUsage(
		ctx context.Context,
		procedureID uint,
		fromDate string,
	) (int64, error)
}
