package procedure

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/promotion"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// PromotionStatus is advisory: the authoritative check happens when the
// booking is written.
type PromotionStatus struct {
	Active    bool   `json:"active"`
	Remaining *int64 `json:"remaining"`
}

type GetPromotionStatus struct {
	repo  promotion.Repository
	clock *timezone.Clock
}

func NewGetPromotionStatus(
	repo promotion.Repository,
	clock *timezone.Clock,
) *GetPromotionStatus {
	return &GetPromotionStatus{
		repo:  repo,
		clock: clock,
	}
}

// Execute reports whether the promotion is running today and still has
// quota. Remaining is nil for unlimited promotions.
func (uc *GetPromotionStatus) Execute(ctx context.Context, id uint) (*PromotionStatus, error) {
	p, err := uc.repo.GetProcedure(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, httperr.ErrNotFound("procedure_not_found")
	}
	if err != nil {
		return nil, err
	}

	status := &PromotionStatus{}
	if !p.HasPromotion() {
		return status, nil
	}

	running := promotion.InWindow(p, uc.clock.Today())

	if !promotion.HasQuota(p) {
		status.Active = running
		return status, nil
	}

	used, err := uc.repo.CountPromoUsage(ctx, p.ID, promotion.CountFrom(p))
	if err != nil {
		return nil, err
	}

	left, _ := promotion.Remaining(p, used)
	status.Remaining = &left
	status.Active = running && left > 0

	return status, nil
}
