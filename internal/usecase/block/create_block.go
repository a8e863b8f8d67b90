package block

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateBlockInput struct {
	Actor booking.Actor

	Date      string
	StartTime string
	EndTime   string
	Kind      models.BlockKind
	Reason    string

	Recurrence        schedule.Recurrence
	RecurrenceEndDate string
}

type CreateBlockResult struct {
	Count    int    `json:"count"`
	SeriesID string `json:"series_id,omitempty"`
}

// PartialInsertError reports a series that stopped part way. Rows before
// the failure stay in place.
type PartialInsertError struct {
	Created   int
	Requested int
	Err       error
}

func (e *PartialInsertError) Error() string {
	return fmt.Sprintf("created %d of %d blocks: %v", e.Created, e.Requested, e.Err)
}

func (e *PartialInsertError) Unwrap() error {
	return e.Err
}

// ======================================================
// USE CASE
// ======================================================

type CreateBlock struct {
	repo  schedule.BlockRepository
	clock *timezone.Clock
	cache schedule.SnapshotCache
	audit audit.Recorder
	log   *zap.Logger
}

func NewCreateBlock(
	repo schedule.BlockRepository,
	clock *timezone.Clock,
	cache schedule.SnapshotCache,
	audit audit.Recorder,
	log *zap.Logger,
) *CreateBlock {
	return &CreateBlock{
		repo:  repo,
		clock: clock,
		cache: cache,
		audit: audit,
		log:   log,
	}
}

func (uc *CreateBlock) Execute(
	ctx context.Context,
	in CreateBlockInput,
) (*CreateBlockResult, error) {

	// --------------------------------------------------
	// 1️⃣ Validação
	// --------------------------------------------------
	kind := in.Kind
	if kind == "" {
		kind = models.BlockManual
	}
	if !kind.Valid() {
		return nil, httperr.ErrValidation("invalid_block_kind")
	}

	date, err := uc.clock.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	start, err := schedule.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_time")
	}
	end, err := schedule.ParseTimeOfDay(in.EndTime)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_time")
	}

	rule := schedule.RecurrenceRule{
		Date:       date,
		Start:      start,
		End:        end,
		Recurrence: in.Recurrence,
	}
	if in.RecurrenceEndDate != "" {
		until, err := uc.clock.ParseDate(in.RecurrenceEndDate)
		if err != nil {
			return nil, httperr.ErrValidation("invalid_date")
		}
		rule.Until = &until
	}

	// --------------------------------------------------
	// 2️⃣ Expansão da recorrência
	// --------------------------------------------------
	intervals, err := schedule.ExpandRecurrence(rule)
	switch {
	case errors.Is(err, schedule.ErrInvalidRange):
		return nil, httperr.ErrValidation("invalid_time_range")
	case err != nil:
		return nil, httperr.ErrValidation("invalid_recurrence")
	}

	var seriesID string
	if len(intervals) > 1 {
		seriesID = uuid.NewString()
	}

	reason := strings.TrimSpace(in.Reason)
	rows := make([]models.Block, 0, len(intervals))
	for _, iv := range intervals {
		rows = append(rows, models.Block{
			Date:      iv.Date.Format(timezone.DateLayout),
			StartTime: iv.Start.String(),
			EndTime:   iv.End.String(),
			Kind:      kind,
			Reason:    reason,
			SeriesID:  seriesID,
		})
	}

	// --------------------------------------------------
	// 3️⃣ Gravação (não atômica entre linhas)
	// --------------------------------------------------
	created, err := uc.repo.CreateBlocks(ctx, rows)

	invalidate(ctx, uc.cache, uc.log, rows[:created]...)

	if created > 0 {
		uc.audit.Dispatch(audit.Event{
			UserID: in.Actor.UserID,
			Role:   string(in.Actor.Role),
			Action: "block_created",
			Entity: "block",
			Metadata: map[string]any{
				"date":      in.Date,
				"start":     in.StartTime,
				"end":       in.EndTime,
				"kind":      kind,
				"count":     created,
				"series_id": seriesID,
			},
		})
	}

	if err != nil {
		uc.log.Error("block series insert stopped",
			zap.Int("created", created),
			zap.Int("requested", len(rows)),
			zap.Error(err),
		)
		return &CreateBlockResult{Count: created, SeriesID: seriesID},
			&PartialInsertError{Created: created, Requested: len(rows), Err: err}
	}

	return &CreateBlockResult{Count: created, SeriesID: seriesID}, nil
}

// invalidate bumps the cache version of each distinct block date.
func invalidate(ctx context.Context, cache schedule.SnapshotCache, log *zap.Logger, blocks ...models.Block) {
	if cache == nil {
		return
	}

	seen := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		if seen[b.Date] {
			continue
		}
		seen[b.Date] = true

		if err := cache.InvalidateDate(ctx, b.Date); err != nil {
			log.Warn("availability cache invalidation failed", zap.String("date", b.Date), zap.Error(err))
		}
	}
}
