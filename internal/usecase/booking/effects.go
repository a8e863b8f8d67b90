package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
)

// invalidateDates bumps the cache version of every touched date. A failure
// only delays freshness until the entry TTL.
func invalidateDates(ctx context.Context, cache schedule.SnapshotCache, log *zap.Logger, dates ...string) {
	if cache == nil {
		return
	}

	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true

		if err := cache.InvalidateDate(ctx, d); err != nil {
			log.Warn("availability cache invalidation failed", zap.String("date", d), zap.Error(err))
		}
	}
}

func countConflict(err error) {
	switch {
	case httperr.IsBusiness(err, httperr.CodeTimeConflict):
		metrics.IncBookingConflict("rescan")
	case httperr.IsBusiness(err, httperr.CodeSlotTakenConcurrency):
		metrics.IncBookingConflict("unique_index")
	}
}
