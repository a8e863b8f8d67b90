package procedure

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/promotion"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type PromotionInput struct {
	Price     decimal.Decimal
	StartDate *string
	EndDate   *string
	Slots     *int
	Type      models.PromoType
}

type CreateInput struct {
	Actor booking.Actor

	Name            string
	Description     string
	DurationMinutes int
	Price           decimal.Decimal
	Active          *bool
	Promotion       *PromotionInput
}

// UpdateInput is a partial update. Promotion replaces the whole promotion
// sub-record; ClearPromotion removes it.
type UpdateInput struct {
	Actor booking.Actor
	ID    uint

	Name            *string
	Description     *string
	DurationMinutes *int
	Price           *decimal.Decimal
	Active          *bool
	Promotion       *PromotionInput
	ClearPromotion  bool
}

// ======================================================
// LIST
// ======================================================

type List struct {
	repo promotion.Repository
}

func NewList(repo promotion.Repository) *List {
	return &List{repo: repo}
}

func (uc *List) Execute(ctx context.Context, onlyActive bool) ([]models.Procedure, error) {
	return uc.repo.ListProcedures(ctx, onlyActive)
}

// ======================================================
// GET
// ======================================================

type Get struct {
	repo promotion.Repository
}

func NewGet(repo promotion.Repository) *Get {
	return &Get{repo: repo}
}

func (uc *Get) Execute(ctx context.Context, id uint) (*models.Procedure, error) {
	p, err := uc.repo.GetProcedure(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, httperr.ErrNotFound("procedure_not_found")
	}
	return p, err
}

// ======================================================
// CREATE
// ======================================================

type Create struct {
	repo  promotion.Repository
	clock *timezone.Clock
	audit audit.Recorder
}

func NewCreate(
	repo promotion.Repository,
	clock *timezone.Clock,
	audit audit.Recorder,
) *Create {
	return &Create{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

func (uc *Create) Execute(ctx context.Context, in CreateInput) (*models.Procedure, error) {
	p := &models.Procedure{
		Name:            strings.TrimSpace(in.Name),
		Description:     strings.TrimSpace(in.Description),
		DurationMinutes: in.DurationMinutes,
		Price:           in.Price,
		Active:          true,
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if in.Promotion != nil {
		applyPromotion(p, in.Promotion)
	}

	if err := validate(p, uc.clock); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateProcedure(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserID,
		Role:     string(in.Actor.Role),
		Action:   "procedure_created",
		Entity:   "procedure",
		EntityID: &p.ID,
		Metadata: map[string]any{"name": p.Name, "duration_minutes": p.DurationMinutes},
	})

	return p, nil
}

// ======================================================
// UPDATE
// ======================================================

type Update struct {
	repo  promotion.Repository
	clock *timezone.Clock
	cache schedule.SnapshotCache
	audit audit.Recorder
	log   *zap.Logger
}

func NewUpdate(
	repo promotion.Repository,
	clock *timezone.Clock,
	cache schedule.SnapshotCache,
	audit audit.Recorder,
	log *zap.Logger,
) *Update {
	return &Update{
		repo:  repo,
		clock: clock,
		cache: cache,
		audit: audit,
		log:   log,
	}
}

// Execute never touches existing bookings: their price and interval are
// snapshots.
func (uc *Update) Execute(ctx context.Context, in UpdateInput) (*models.Procedure, error) {
	p, err := uc.repo.GetProcedure(ctx, in.ID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, httperr.ErrNotFound("procedure_not_found")
	}
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.DurationMinutes != nil {
		p.DurationMinutes = *in.DurationMinutes
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Active != nil {
		p.Active = *in.Active
	}

	switch {
	case in.ClearPromotion:
		clearPromotion(p)
	case in.Promotion != nil:
		applyPromotion(p, in.Promotion)
	}

	if err := validate(p, uc.clock); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateProcedure(ctx, p); err != nil {
		return nil, err
	}

	// durations are part of every cached grid
	if uc.cache != nil {
		if err := uc.cache.InvalidateAll(ctx); err != nil {
			uc.log.Warn("availability cache invalidation failed", zap.Error(err))
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserID,
		Role:     string(in.Actor.Role),
		Action:   "procedure_updated",
		Entity:   "procedure",
		EntityID: &p.ID,
		Metadata: map[string]any{"active": p.Active, "has_promotion": p.HasPromotion()},
	})

	return p, nil
}

// ======================================================
// Helpers
// ======================================================

func applyPromotion(p *models.Procedure, in *PromotionInput) {
	p.PromoPrice = decimal.NewNullDecimal(in.Price)
	p.PromoStartDate = in.StartDate
	p.PromoEndDate = in.EndDate
	p.PromoSlots = in.Slots
	p.PromoType = in.Type
	if p.PromoType == "" {
		p.PromoType = models.PromoDiscount
	}
}

func clearPromotion(p *models.Procedure) {
	p.PromoPrice = decimal.NullDecimal{}
	p.PromoStartDate = nil
	p.PromoEndDate = nil
	p.PromoSlots = nil
	p.PromoType = ""
}

func validate(p *models.Procedure, clock *timezone.Clock) error {
	if p.Name == "" {
		return httperr.ErrValidation("invalid_request")
	}
	if p.DurationMinutes <= 0 || p.DurationMinutes > 24*60 {
		return httperr.ErrValidation("invalid_duration")
	}
	if p.Price.IsNegative() {
		return httperr.ErrValidation("invalid_price")
	}

	if !p.HasPromotion() {
		return nil
	}

	promo := p.PromoPrice.Decimal
	if promo.IsNegative() || !promo.LessThan(p.Price) {
		return httperr.ErrValidation("invalid_promotion")
	}
	if !p.PromoType.Valid() {
		return httperr.ErrValidation("invalid_promotion")
	}
	if p.PromoSlots != nil && *p.PromoSlots < 1 {
		return httperr.ErrValidation("invalid_promotion")
	}

	for _, d := range []*string{p.PromoStartDate, p.PromoEndDate} {
		if d == nil {
			continue
		}
		if _, err := clock.ParseDate(*d); err != nil {
			return httperr.ErrValidation("invalid_date")
		}
	}
	if p.PromoStartDate != nil && p.PromoEndDate != nil && *p.PromoStartDate > *p.PromoEndDate {
		return httperr.ErrValidation("invalid_promotion")
	}

	return nil
}
