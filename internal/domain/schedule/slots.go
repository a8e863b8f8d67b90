package schedule

import (
	"github.com/BruksfildServices01/agenda-engine/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// GridStep is the fixed candidate spacing, independent of service duration.
const GridStep = 30

type Reason string

const (
	ReasonClosed  Reason = "closed"
	ReasonPast    Reason = "past"
	ReasonLunch   Reason = "lunch"
	ReasonBusy    Reason = "busy"
	ReasonBlocked Reason = "blocked"
)

type Summary string

const (
	SummaryAvailable Summary = "AVAILABLE"
	SummaryFull      Summary = "FULL"
	SummaryClosedDay Summary = "CLOSED_DAY"
	SummaryPastDay   Summary = "PAST_DAY"
)

// Timing places the requested date relative to the business "today".
type Timing int

const (
	DayFuture Timing = iota
	DayToday
	DayPast
)

// TimingFor compares two YYYY-MM-DD dates.
func TimingFor(date, today string) Timing {
	switch {
	case date < today:
		return DayPast
	case date == today:
		return DayToday
	default:
		return DayFuture
	}
}

// ===============================
// Inputs
// ===============================

type DayRule struct {
	Open       TimeOfDay
	Close      TimeOfDay
	HasLunch   bool
	LunchStart TimeOfDay
	LunchEnd   TimeOfDay
}

type BlockSpan struct {
	ID     uint
	Start  TimeOfDay
	End    TimeOfDay
	Kind   models.BlockKind
	Reason string
}

type BusySpan struct {
	BookingID uint
	Start     TimeOfDay
	End       TimeOfDay
}

// Day is everything the generator needs for one date. Rule is nil when the
// weekday has no rule or the rule is inactive.
type Day struct {
	Rule   *DayRule
	Blocks []BlockSpan
	Busy   []BusySpan
	Timing Timing
	Now    TimeOfDay
}

// ===============================
// Outputs
// ===============================

type Slot struct {
	Time        string `json:"time"`
	Available   bool   `json:"available"`
	Reason      Reason `json:"reason,omitempty"`
	BlockID     uint   `json:"block_id,omitempty"`
	BlockReason string `json:"block_reason,omitempty"`
	OverrideID  uint   `json:"override_id,omitempty"`
}

type Availability struct {
	Slots   []Slot  `json:"slots"`
	Summary Summary `json:"summary"`
}

// ===============================
// Generation
// ===============================

// Generate annotates every grid start from open (inclusive) to close
// (exclusive). Candidates whose service would run past closing stay in the
// grid, marked closed.
func Generate(day Day, durationMinutes int) Availability {
	if day.Rule == nil {
		return Availability{Slots: []Slot{}, Summary: SummaryClosedDay}
	}

	slots := make([]Slot, 0, int(day.Rule.Close-day.Rule.Open)/GridStep+1)
	for s := day.Rule.Open; s < day.Rule.Close; s = s.Add(GridStep) {
		slots = append(slots, Check(day, s, durationMinutes))
	}

	return Availability{Slots: slots, Summary: summarize(day, slots)}
}

// Check evaluates a single candidate start, grid-aligned or not. Reason
// precedence: closed, past, busy, forced block, block, lunch. Only lunch and
// plain blocks can be re-opened by an override-available row.
func Check(day Day, start TimeOfDay, durationMinutes int) Slot {
	slot := Slot{Time: start.String()}
	end := start.Add(durationMinutes)

	if day.Rule == nil || start < day.Rule.Open || end > day.Rule.Close {
		slot.Reason = ReasonClosed
		return slot
	}

	if day.Timing == DayPast || (day.Timing == DayToday && start < day.Now) {
		slot.Reason = ReasonPast
		return slot
	}

	for _, b := range day.Busy {
		if Overlaps(start, end, b.Start, b.End) {
			slot.Reason = ReasonBusy
			return slot
		}
	}

	var manual, forced, override *BlockSpan
	for i := range day.Blocks {
		b := &day.Blocks[i]
		if !Overlaps(start, end, b.Start, b.End) {
			continue
		}
		switch b.Kind {
		case models.BlockOverrideBlock:
			if forced == nil {
				forced = b
			}
		case models.BlockOverrideAvailable:
			if override == nil {
				override = b
			}
		default:
			if manual == nil {
				manual = b
			}
		}
	}

	if forced != nil {
		slot.Reason = ReasonBlocked
		slot.BlockID = forced.ID
		slot.BlockReason = forced.Reason
		return slot
	}

	switch {
	case manual != nil:
		slot.Reason = ReasonBlocked
		slot.BlockID = manual.ID
		slot.BlockReason = manual.Reason
	case day.Rule.HasLunch && Overlaps(start, end, day.Rule.LunchStart, day.Rule.LunchEnd):
		slot.Reason = ReasonLunch
	default:
		slot.Available = true
		return slot
	}

	if override != nil {
		return Slot{Time: slot.Time, Available: true, OverrideID: override.ID}
	}

	return slot
}

func summarize(day Day, slots []Slot) Summary {
	if day.Timing == DayPast {
		return SummaryPastDay
	}
	if len(slots) == 0 {
		return SummaryClosedDay
	}

	allPast, allClosed := true, true
	for _, s := range slots {
		if s.Available {
			return SummaryAvailable
		}
		allPast = allPast && s.Reason == ReasonPast
		allClosed = allClosed && s.Reason == ReasonClosed
	}

	switch {
	case allPast:
		return SummaryPastDay
	case allClosed:
		return SummaryClosedDay
	default:
		return SummaryFull
	}
}

// ===============================
// Adapters from stored rows
// ===============================

// RuleFor converts a stored rule; nil or inactive rules close the day.
func RuleFor(r *models.ScheduleRule) (*DayRule, error) {
	if r == nil || !r.IsActive {
		return nil, nil
	}

	open, err := ParseTimeOfDay(r.StartTime)
	if err != nil {
		return nil, err
	}
	closeAt, err := ParseTimeOfDay(r.EndTime)
	if err != nil {
		return nil, err
	}

	rule := &DayRule{Open: open, Close: closeAt}
	if r.HasLunch() {
		if rule.LunchStart, err = ParseTimeOfDay(r.LunchStart); err != nil {
			return nil, err
		}
		if rule.LunchEnd, err = ParseTimeOfDay(r.LunchEnd); err != nil {
			return nil, err
		}
		rule.HasLunch = true
	}

	return rule, nil
}

func BlockSpans(blocks []models.Block) ([]BlockSpan, error) {
	out := make([]BlockSpan, 0, len(blocks))
	for _, b := range blocks {
		start, err := ParseTimeOfDay(b.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseTimeOfDay(b.EndTime)
		if err != nil {
			return nil, err
		}
		out = append(out, BlockSpan{ID: b.ID, Start: start, End: end, Kind: b.Kind, Reason: b.Reason})
	}
	return out, nil
}

// BusySpans keeps active bookings only and skips excludeID (0 = none).
func BusySpans(bookings []models.Booking, excludeID uint) ([]BusySpan, error) {
	out := make([]BusySpan, 0, len(bookings))
	for _, b := range bookings {
		if !booking.Status(b.Status).IsActive() || (excludeID != 0 && b.ID == excludeID) {
			continue
		}
		start, err := ParseTimeOfDay(b.AppointmentTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseTimeOfDay(b.EndTime)
		if err != nil {
			return nil, err
		}
		out = append(out, BusySpan{BookingID: b.ID, Start: start, End: end})
	}
	return out, nil
}
