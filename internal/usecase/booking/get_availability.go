package booking

import (
	"context"
	"errors"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

type AvailabilityInput struct {
	Date             string
	ProcedureID      uint
	ExcludeBookingID uint
}

type AvailabilityResult struct {
	Date            string
	ProcedureID     uint
	DurationMinutes int
	schedule.Availability
}

type GetAvailability struct {
	repo  domain.Repository
	clock *timezone.Clock
	cache schedule.SnapshotCache
	log   *zap.Logger
}

// NewGetAvailability accepts a nil cache.
func NewGetAvailability(
	repo domain.Repository,
	clock *timezone.Clock,
	cache schedule.SnapshotCache,
	log *zap.Logger,
) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		clock: clock,
		cache: cache,
		log:   log,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityResult, error) {

	// --------------------------------------------------
	// 1️⃣ Data e serviço
	// --------------------------------------------------
	if _, err := uc.clock.ParseDate(in.Date); err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	procedure, err := uc.repo.GetProcedure(ctx, in.ProcedureID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, httperr.ErrNotFound("procedure_not_found")
	}
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{
		Date:            in.Date,
		ProcedureID:     procedure.ID,
		DurationMinutes: procedure.DurationMinutes,
	}

	// --------------------------------------------------
	// 2️⃣ Cache (só datas futuras: "hoje" muda a cada minuto)
	// --------------------------------------------------
	key := schedule.SnapshotKey{Date: in.Date, ProcedureID: procedure.ID, ExcludeID: in.ExcludeBookingID}
	cacheable := uc.cache != nil && schedule.TimingFor(in.Date, uc.clock.Today()) == schedule.DayFuture

	var stamp string
	if cacheable {
		cached, s, err := uc.cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.IncAvailabilityCache("error")
			uc.log.Warn("availability cache read failed", zap.String("date", in.Date), zap.Error(err))
		case cached != nil:
			metrics.IncAvailabilityCache("hit")
			result.Availability = *cached
			return result, nil
		default:
			metrics.IncAvailabilityCache("miss")
			stamp = s
		}
	}

	// --------------------------------------------------
	// 3️⃣ Grade
	// --------------------------------------------------
	day, err := loadDay(ctx, uc.repo, uc.clock, in.Date, in.ExcludeBookingID)
	if err != nil {
		return nil, err
	}

	result.Availability = schedule.Generate(day, procedure.DurationMinutes)
	metrics.IncAvailabilitySummary(string(result.Summary))

	if stamp != "" {
		if err := uc.cache.Put(ctx, stamp, result.Availability); err != nil {
			uc.log.Warn("availability cache write failed", zap.String("date", in.Date), zap.Error(err))
		}
	}

	return result, nil
}
