package schedule

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time in minutes since midnight, in the business
// timezone.
type TimeOfDay int

const minutesPerDay = 24 * 60

func ParseTimeOfDay(hm string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hm, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// CutoffOf is the past-check boundary for the instant t: a started minute
// counts as elapsed, so 10:00:40 gives 10:01.
func CutoffOf(t time.Time) TimeOfDay {
	m := TimeOfDayOf(t)
	if t.Second() > 0 || t.Nanosecond() > 0 {
		m++
	}
	return m
}

func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// WithinDay reports whether t is still on the same calendar day. 24:00 is
// accepted as an end boundary.
func (t TimeOfDay) WithinDay() bool {
	return t >= 0 && t <= minutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Overlaps uses half-open intervals: [s1,e1) and [s2,e2) overlap iff
// s1 < e2 && e1 > s2. Touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 TimeOfDay) bool {
	return s1 < e2 && e1 > s2
}
