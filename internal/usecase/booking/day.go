package booking

import (
	"context"

	domain "github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

// loadDay gathers the generator inputs of one date. excludeID drops a
// booking from the busy set (0 = none).
func loadDay(
	ctx context.Context,
	repo domain.Repository,
	clock *timezone.Clock,
	date string,
	excludeID uint,
) (schedule.Day, error) {

	d, err := clock.ParseDate(date)
	if err != nil {
		return schedule.Day{}, httperr.ErrValidation("invalid_date")
	}

	stored, err := repo.GetScheduleRule(ctx, int(d.Weekday()))
	if err != nil {
		return schedule.Day{}, err
	}
	rule, err := schedule.RuleFor(stored)
	if err != nil {
		return schedule.Day{}, err
	}

	day := schedule.Day{
		Rule:   rule,
		Timing: schedule.TimingFor(date, clock.Today()),
		Now:    schedule.CutoffOf(clock.Now()),
	}
	if rule == nil {
		return day, nil
	}

	blocks, err := repo.ListBlocksForDate(ctx, date)
	if err != nil {
		return schedule.Day{}, err
	}
	if day.Blocks, err = schedule.BlockSpans(blocks); err != nil {
		return schedule.Day{}, err
	}

	bookings, err := repo.ListActiveBookingsForDate(ctx, date)
	if err != nil {
		return schedule.Day{}, err
	}
	if day.Busy, err = schedule.BusySpans(bookings, excludeID); err != nil {
		return schedule.Day{}, err
	}

	return day, nil
}

// rejectSlot turns an unavailable slot into the error the caller sees.
// Overlap with a booking is a conflict; everything else is a validation
// failure named after the reason.
func rejectSlot(day schedule.Day, slot schedule.Slot) error {
	switch {
	case slot.Available:
		return nil
	case slot.Reason == schedule.ReasonBusy:
		return httperr.ErrConflict(httperr.CodeTimeConflict)
	case day.Rule == nil:
		return httperr.ErrValidation("closed_day")
	default:
		return httperr.ErrValidation(string(slot.Reason))
	}
}

// onGrid reports whether start is one of the generator's candidates.
func onGrid(day schedule.Day, start schedule.TimeOfDay) bool {
	if day.Rule == nil || start < day.Rule.Open {
		return false
	}
	return int(start-day.Rule.Open)%schedule.GridStep == 0
}
