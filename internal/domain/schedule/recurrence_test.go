package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandRecurrence(t *testing.T) {
	until := date(2026, 11, 12)
	shortUntil := date(2026, 10, 18)

	tests := []struct {
		name  string
		rule  RecurrenceRule
		count int
		last  time.Time
		err   error
	}{
		{
			name:  "none",
			rule:  RecurrenceRule{Date: date(2026, 10, 15), Start: 600, End: 660, Recurrence: RecurNone},
			count: 1,
			last:  date(2026, 10, 15),
		},
		{
			name:  "weekly until inclusive",
			rule:  RecurrenceRule{Date: date(2026, 10, 15), Start: 600, End: 660, Recurrence: RecurWeekly, Until: &until},
			count: 5,
			last:  date(2026, 11, 12),
		},
		{
			name:  "daily until",
			rule:  RecurrenceRule{Date: date(2026, 10, 15), Start: 600, End: 660, Recurrence: RecurDaily, Until: &shortUntil},
			count: 4,
			last:  shortUntil,
		},
		{
			name:  "daily capped",
			rule:  RecurrenceRule{Date: date(2026, 1, 1), Start: 600, End: 660, Recurrence: RecurDaily},
			count: MaxOccurrences,
			last:  date(2027, 1, 1),
		},
		{
			name:  "weekly capped",
			rule:  RecurrenceRule{Date: date(2026, 1, 1), Start: 600, End: 660, Recurrence: RecurWeekly},
			count: MaxOccurrences,
			last:  date(2026, 1, 1).AddDate(0, 0, 7*(MaxOccurrences-1)),
		},
		{
			name: "inverted range",
			rule: RecurrenceRule{Date: date(2026, 10, 15), Start: 660, End: 600},
			err:  ErrInvalidRange,
		},
		{
			name: "unknown recurrence",
			rule: RecurrenceRule{Date: date(2026, 10, 15), Start: 600, End: 660, Recurrence: "monthly"},
			err:  ErrInvalidRecurrence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ExpandRecurrence(tt.rule)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Len(t, out, tt.count)
			assert.Equal(t, tt.last, out[len(out)-1].Date)
			for _, iv := range out {
				assert.Equal(t, tt.rule.Start, iv.Start)
				assert.Equal(t, tt.rule.End, iv.End)
			}
		})
	}

	_, err := ExpandRecurrence(RecurrenceRule{
		Date: date(2026, 10, 20), Start: 600, End: 660, Recurrence: RecurDaily, Until: &shortUntil,
	})
	assert.ErrorIs(t, err, ErrUntilBeforeStart)
}
