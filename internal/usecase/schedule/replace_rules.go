package schedule

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type RuleInput struct {
	Weekday    int
	StartTime  string
	EndTime    string
	LunchStart string
	LunchEnd   string
	IsActive   bool
}

type ReplaceRules struct {
	repo  domain.RuleRepository
	cache domain.SnapshotCache
	audit audit.Recorder
	log   *zap.Logger
}

func NewReplaceRules(
	repo domain.RuleRepository,
	cache domain.SnapshotCache,
	audit audit.Recorder,
	log *zap.Logger,
) *ReplaceRules {
	return &ReplaceRules{
		repo:  repo,
		cache: cache,
		audit: audit,
		log:   log,
	}
}

// Execute replaces the whole weekly template. Weekdays missing from in are
// closed afterwards.
func (uc *ReplaceRules) Execute(
	ctx context.Context,
	actor booking.Actor,
	in []RuleInput,
) ([]models.ScheduleRule, error) {

	// --------------------------------------------------
	// 1️⃣ Validação
	// --------------------------------------------------
	seen := make(map[int]bool, len(in))
	rules := make([]models.ScheduleRule, 0, len(in))

	for _, r := range in {
		if r.Weekday < 0 || r.Weekday > 6 {
			return nil, httperr.ErrValidation("invalid_weekday")
		}
		if seen[r.Weekday] {
			return nil, httperr.ErrValidation("duplicate_weekday")
		}
		seen[r.Weekday] = true

		if err := validateRule(r); err != nil {
			return nil, err
		}

		rules = append(rules, models.ScheduleRule{
			Weekday:    r.Weekday,
			StartTime:  r.StartTime,
			EndTime:    r.EndTime,
			LunchStart: r.LunchStart,
			LunchEnd:   r.LunchEnd,
			IsActive:   r.IsActive,
		})
	}

	// --------------------------------------------------
	// 2️⃣ Substituição
	// --------------------------------------------------
	if err := uc.repo.ReplaceRules(ctx, rules); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.InvalidateAll(ctx); err != nil {
			uc.log.Warn("availability cache invalidation failed", zap.Error(err))
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserID,
		Role:     string(actor.Role),
		Action:   "schedule_rules_replaced",
		Entity:   "schedule_rule",
		Metadata: map[string]any{"weekdays": len(rules)},
	})

	return rules, nil
}

// validateRule checks hours and the lunch window. An inactive weekday may
// come without hours.
func validateRule(r RuleInput) error {
	if !r.IsActive && r.StartTime == "" && r.EndTime == "" {
		return nil
	}

	open, err := domain.ParseTimeOfDay(r.StartTime)
	if err != nil {
		return httperr.ErrValidation("invalid_time")
	}
	closeAt, err := domain.ParseTimeOfDay(r.EndTime)
	if err != nil {
		return httperr.ErrValidation("invalid_time")
	}
	if open >= closeAt {
		return httperr.ErrValidation("invalid_time_range")
	}

	if r.LunchStart == "" && r.LunchEnd == "" {
		return nil
	}
	if r.LunchStart == "" || r.LunchEnd == "" {
		return httperr.ErrValidation("invalid_lunch")
	}

	lunchStart, err := domain.ParseTimeOfDay(r.LunchStart)
	if err != nil {
		return httperr.ErrValidation("invalid_lunch")
	}
	lunchEnd, err := domain.ParseTimeOfDay(r.LunchEnd)
	if err != nil {
		return httperr.ErrValidation("invalid_lunch")
	}
	if lunchStart >= lunchEnd || lunchStart < open || lunchEnd > closeAt {
		return httperr.ErrValidation("invalid_lunch")
	}

	return nil
}
