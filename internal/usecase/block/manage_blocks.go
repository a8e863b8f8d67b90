package block

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// ======================================================
// LIST
// ======================================================

type ListBlocks struct {
	repo  schedule.BlockRepository
	clock *timezone.Clock
}

func NewListBlocks(
	repo schedule.BlockRepository,
	clock *timezone.Clock,
) *ListBlocks {
	return &ListBlocks{
		repo:  repo,
		clock: clock,
	}
}

func (uc *ListBlocks) Execute(
	ctx context.Context,
	date string,
) ([]models.Block, error) {

	if _, err := uc.clock.ParseDate(date); err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	return uc.repo.ListBlocksForDate(ctx, date)
}

// ======================================================
// DELETE
// ======================================================

type DeleteBlock struct {
	repo  schedule.BlockRepository
	cache schedule.SnapshotCache
	audit audit.Recorder
	log   *zap.Logger
}

func NewDeleteBlock(
	repo schedule.BlockRepository,
	cache schedule.SnapshotCache,
	audit audit.Recorder,
	log *zap.Logger,
) *DeleteBlock {
	return &DeleteBlock{
		repo:  repo,
		cache: cache,
		audit: audit,
		log:   log,
	}
}

// Execute removes one row. Other occurrences of the same series stay.
func (uc *DeleteBlock) Execute(
	ctx context.Context,
	actor booking.Actor,
	id uint,
) error {

	b, err := uc.repo.GetBlock(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return httperr.ErrNotFound("block_not_found")
	}
	if err != nil {
		return err
	}

	err = uc.repo.DeleteBlock(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return httperr.ErrNotFound("block_not_found")
	}
	if err != nil {
		return err
	}

	invalidate(ctx, uc.cache, uc.log, *b)

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserID,
		Role:     string(actor.Role),
		Action:   "block_deleted",
		Entity:   "block",
		EntityID: &b.ID,
		Metadata: map[string]any{"date": b.Date, "start": b.StartTime, "end": b.EndTime},
	})

	return nil
}
