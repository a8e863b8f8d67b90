package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func hm(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func mondayRule(t *testing.T) *DayRule {
	return &DayRule{
		Open:       hm(t, "09:00"),
		Close:      hm(t, "18:00"),
		HasLunch:   true,
		LunchStart: hm(t, "12:00"),
		LunchEnd:   hm(t, "13:00"),
	}
}

func slotAt(t *testing.T, a Availability, at string) Slot {
	t.Helper()
	for _, s := range a.Slots {
		if s.Time == at {
			return s
		}
	}
	t.Fatalf("slot %s not in grid", at)
	return Slot{}
}

func TestGenerate_ExampleDay(t *testing.T) {
	day := Day{
		Rule: mondayRule(t),
		Busy: []BusySpan{{BookingID: 7, Start: hm(t, "10:00"), End: hm(t, "10:45")}},
	}

	a := Generate(day, 45)

	assert.Equal(t, SummaryAvailable, a.Summary)
	assert.Equal(t, ReasonBusy, slotAt(t, a, "10:00").Reason)
	assert.Equal(t, ReasonBusy, slotAt(t, a, "10:30").Reason)
	assert.Equal(t, ReasonBusy, slotAt(t, a, "09:30").Reason)
	assert.True(t, slotAt(t, a, "09:00").Available)
	assert.True(t, slotAt(t, a, "11:00").Available)
	assert.Equal(t, ReasonLunch, slotAt(t, a, "11:30").Reason)
	assert.Equal(t, ReasonLunch, slotAt(t, a, "12:30").Reason)
	assert.True(t, slotAt(t, a, "13:00").Available)
	assert.True(t, slotAt(t, a, "17:00").Available)
	assert.Equal(t, ReasonClosed, slotAt(t, a, "17:30").Reason)

	// off-grid candidate checked the same way
	off := Check(day, hm(t, "11:45"), 45)
	assert.False(t, off.Available)
	assert.Equal(t, ReasonLunch, off.Reason)
}

func TestGenerate_GridCompleteness(t *testing.T) {
	day := Day{Rule: &DayRule{Open: hm(t, "09:00"), Close: hm(t, "18:00")}}

	for _, duration := range []int{15, 30, 45, 90} {
		a := Generate(day, duration)
		require.Len(t, a.Slots, 18, "duration %d", duration)
		assert.Equal(t, "09:00", a.Slots[0].Time)
		assert.Equal(t, "17:30", a.Slots[17].Time)
	}

	a := Generate(day, 30)
	assert.True(t, a.Slots[17].Available, "last step that fits the close boundary")
}

func TestGenerate_ClosedDay(t *testing.T) {
	a := Generate(Day{}, 30)
	assert.Empty(t, a.Slots)
	assert.NotNil(t, a.Slots)
	assert.Equal(t, SummaryClosedDay, a.Summary)
}

func TestGenerate_LunchOverride(t *testing.T) {
	day := Day{Rule: mondayRule(t)}

	a := Generate(day, 30)
	assert.Equal(t, ReasonLunch, slotAt(t, a, "12:00").Reason)
	assert.False(t, slotAt(t, a, "12:00").Available)

	day.Blocks = []BlockSpan{{ID: 3, Start: hm(t, "12:00"), End: hm(t, "13:00"), Kind: models.BlockOverrideAvailable}}
	a = Generate(day, 30)

	s := slotAt(t, a, "12:00")
	assert.True(t, s.Available)
	assert.Empty(t, s.Reason)
	assert.EqualValues(t, 3, s.OverrideID)
	assert.True(t, slotAt(t, a, "12:30").Available)
}

func TestGenerate_BusyBeatsOverride(t *testing.T) {
	day := Day{
		Rule:   mondayRule(t),
		Busy:   []BusySpan{{BookingID: 1, Start: hm(t, "12:00"), End: hm(t, "12:30")}},
		Blocks: []BlockSpan{{ID: 9, Start: hm(t, "09:00"), End: hm(t, "18:00"), Kind: models.BlockOverrideAvailable}},
	}

	a := Generate(day, 30)
	s := slotAt(t, a, "12:00")
	assert.False(t, s.Available)
	assert.Equal(t, ReasonBusy, s.Reason)
	assert.True(t, slotAt(t, a, "12:30").Available)
}

func TestGenerate_Blocks(t *testing.T) {
	day := Day{
		Rule: mondayRule(t),
		Blocks: []BlockSpan{
			{ID: 1, Start: hm(t, "14:00"), End: hm(t, "15:00"), Kind: models.BlockManual, Reason: "médico"},
			{ID: 2, Start: hm(t, "16:00"), End: hm(t, "17:00"), Kind: models.BlockOverrideBlock, Reason: "reforma"},
			{ID: 3, Start: hm(t, "14:00"), End: hm(t, "17:00"), Kind: models.BlockOverrideAvailable},
		},
	}

	a := Generate(day, 30)

	// a plain block is re-opened by an overlapping override-available row
	s := slotAt(t, a, "14:00")
	assert.True(t, s.Available)
	assert.EqualValues(t, 3, s.OverrideID)

	// an override-block cannot be re-opened
	s = slotAt(t, a, "16:00")
	assert.False(t, s.Available)
	assert.Equal(t, ReasonBlocked, s.Reason)
	assert.EqualValues(t, 2, s.BlockID)
	assert.Equal(t, "reforma", s.BlockReason)

	day.Blocks = day.Blocks[:1]
	s = slotAt(t, Generate(day, 30), "14:30")
	assert.False(t, s.Available)
	assert.Equal(t, ReasonBlocked, s.Reason)
	assert.EqualValues(t, 1, s.BlockID)
	assert.Equal(t, "médico", s.BlockReason)
}

func TestGenerate_OverrideBlockOverLunch(t *testing.T) {
	day := Day{
		Rule: mondayRule(t),
		Blocks: []BlockSpan{
			{ID: 4, Start: hm(t, "12:00"), End: hm(t, "13:00"), Kind: models.BlockOverrideBlock, Reason: "reunião"},
		},
	}

	// an override-block does not re-open lunch; it reports itself instead
	s := slotAt(t, Generate(day, 30), "12:00")
	assert.False(t, s.Available)
	assert.Equal(t, ReasonBlocked, s.Reason)
	assert.EqualValues(t, 4, s.BlockID)

	// nor does an override-available re-open it
	day.Blocks = append(day.Blocks, BlockSpan{ID: 5, Start: hm(t, "12:00"), End: hm(t, "13:00"), Kind: models.BlockOverrideAvailable})
	s = slotAt(t, Generate(day, 30), "12:30")
	assert.False(t, s.Available)
	assert.Equal(t, ReasonBlocked, s.Reason)
	assert.EqualValues(t, 4, s.BlockID)
	assert.Zero(t, s.OverrideID)
}

func TestGenerate_PastOnlyToday(t *testing.T) {
	day := Day{Rule: mondayRule(t), Timing: DayToday, Now: hm(t, "10:10")}

	a := Generate(day, 30)
	assert.Equal(t, ReasonPast, slotAt(t, a, "09:00").Reason)
	assert.Equal(t, ReasonPast, slotAt(t, a, "10:00").Reason)
	assert.True(t, slotAt(t, a, "10:30").Available)

	day.Timing = DayFuture
	assert.True(t, slotAt(t, Generate(day, 30), "09:00").Available)
}

func TestCheck_PastWithinStartedMinute(t *testing.T) {
	now := time.Date(2026, 10, 15, 10, 0, 40, 0, time.UTC)
	day := Day{Rule: mondayRule(t), Timing: DayToday, Now: CutoffOf(now)}

	s := Check(day, hm(t, "10:00"), 30)
	assert.False(t, s.Available)
	assert.Equal(t, ReasonPast, s.Reason)
	assert.True(t, Check(day, hm(t, "10:30"), 30).Available)

	day.Now = CutoffOf(time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC))
	assert.True(t, Check(day, hm(t, "10:00"), 30).Available)
}

func TestCutoffOf(t *testing.T) {
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC), "10:00"},
		{time.Date(2026, 10, 15, 10, 0, 0, 1, time.UTC), "10:01"},
		{time.Date(2026, 10, 15, 10, 0, 59, 0, time.UTC), "10:01"},
		{time.Date(2026, 10, 15, 23, 59, 30, 0, time.UTC), "24:00"},
	}

	for _, tt := range tests {
		t.Run(tt.at.Format(time.RFC3339Nano), func(t *testing.T) {
			assert.Equal(t, tt.want, CutoffOf(tt.at).String())
		})
	}
}

func TestGenerate_Summaries(t *testing.T) {
	rule := &DayRule{Open: hm(t, "09:00"), Close: hm(t, "10:00")}

	t.Run("past day", func(t *testing.T) {
		a := Generate(Day{Rule: rule, Timing: DayPast}, 30)
		assert.Equal(t, SummaryPastDay, a.Summary)
		for _, s := range a.Slots {
			assert.Equal(t, ReasonPast, s.Reason)
		}
	})

	t.Run("today after closing", func(t *testing.T) {
		a := Generate(Day{Rule: rule, Timing: DayToday, Now: hm(t, "11:00")}, 30)
		assert.Equal(t, SummaryPastDay, a.Summary)
	})

	t.Run("service longer than the day", func(t *testing.T) {
		a := Generate(Day{Rule: rule}, 120)
		assert.Equal(t, SummaryClosedDay, a.Summary)
	})

	t.Run("full", func(t *testing.T) {
		day := Day{Rule: rule, Busy: []BusySpan{{Start: hm(t, "09:00"), End: hm(t, "10:00")}}}
		assert.Equal(t, SummaryFull, Generate(day, 30).Summary)
	})

	t.Run("mixed past and busy is full", func(t *testing.T) {
		day := Day{
			Rule:   rule,
			Timing: DayToday,
			Now:    hm(t, "09:15"),
			Busy:   []BusySpan{{Start: hm(t, "09:30"), End: hm(t, "10:00")}},
		}
		assert.Equal(t, SummaryFull, Generate(day, 30).Summary)
	})
}

func TestOverlaps_HalfOpen(t *testing.T) {
	assert.False(t, Overlaps(hm(t, "10:00"), hm(t, "10:30"), hm(t, "10:30"), hm(t, "11:00")))
	assert.False(t, Overlaps(hm(t, "10:30"), hm(t, "11:00"), hm(t, "10:00"), hm(t, "10:30")))
	assert.True(t, Overlaps(hm(t, "10:00"), hm(t, "10:31"), hm(t, "10:30"), hm(t, "11:00")))
	assert.True(t, Overlaps(hm(t, "10:00"), hm(t, "12:00"), hm(t, "10:30"), hm(t, "11:00")))
}

func TestBusySpans_SkipsCancelledAndExcluded(t *testing.T) {
	spans, err := BusySpans([]models.Booking{
		{ID: 1, AppointmentTime: "09:00", EndTime: "09:30", Status: "agendado"},
		{ID: 2, AppointmentTime: "10:00", EndTime: "10:30", Status: "cancelado"},
		{ID: 3, AppointmentTime: "11:00", EndTime: "11:30", Status: "pendente"},
	}, 3)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.EqualValues(t, 1, spans[0].BookingID)
}

func TestRuleFor(t *testing.T) {
	rule, err := RuleFor(nil)
	require.NoError(t, err)
	assert.Nil(t, rule)

	rule, err = RuleFor(&models.ScheduleRule{StartTime: "09:00", EndTime: "18:00", IsActive: false})
	require.NoError(t, err)
	assert.Nil(t, rule)

	rule, err = RuleFor(&models.ScheduleRule{StartTime: "09:00", EndTime: "18:00", LunchStart: "12:00", LunchEnd: "13:00", IsActive: true})
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.True(t, rule.HasLunch)
	assert.Equal(t, "12:00", rule.LunchStart.String())

	_, err = RuleFor(&models.ScheduleRule{StartTime: "9h", EndTime: "18:00", IsActive: true})
	assert.Error(t, err)
}

func TestTimingFor(t *testing.T) {
	assert.Equal(t, DayPast, TimingFor("2026-10-14", "2026-10-15"))
	assert.Equal(t, DayToday, TimingFor("2026-10-15", "2026-10-15"))
	assert.Equal(t, DayFuture, TimingFor("2026-10-16", "2026-10-15"))
}
