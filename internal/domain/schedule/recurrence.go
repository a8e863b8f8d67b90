package schedule

import (
	"errors"
	"time"
)

type Recurrence string

const (
	RecurNone   Recurrence = "none"
	RecurDaily  Recurrence = "daily"
	RecurWeekly Recurrence = "weekly"
)

// MaxOccurrences caps a recurring series.
const MaxOccurrences = 366

var (
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrUntilBeforeStart  = errors.New("recurrence end date before start date")
	ErrInvalidRange      = errors.New("start time must be before end time")
)

type RecurrenceRule struct {
	Date       time.Time
	Start      TimeOfDay
	End        TimeOfDay
	Recurrence Recurrence
	Until      *time.Time
}

type Interval struct {
	Date  time.Time
	Start TimeOfDay
	End   TimeOfDay
}

// ExpandRecurrence turns a block request into the dated intervals to insert.
// Without Until a recurring series runs to MaxOccurrences.
func ExpandRecurrence(rule RecurrenceRule) ([]Interval, error) {
	if rule.Start >= rule.End || !rule.End.WithinDay() {
		return nil, ErrInvalidRange
	}

	var stepDays int
	switch rule.Recurrence {
	case RecurNone, "":
		return []Interval{{Date: rule.Date, Start: rule.Start, End: rule.End}}, nil
	case RecurDaily:
		stepDays = 1
	case RecurWeekly:
		stepDays = 7
	default:
		return nil, ErrInvalidRecurrence
	}

	if rule.Until != nil && rule.Until.Before(rule.Date) {
		return nil, ErrUntilBeforeStart
	}

	out := make([]Interval, 0, 16)
	for d := rule.Date; len(out) < MaxOccurrences; d = d.AddDate(0, 0, stepDays) {
		if rule.Until != nil && d.After(*rule.Until) {
			break
		}
		out = append(out, Interval{Date: d, Start: rule.Start, End: rule.End})
	}

	return out, nil
}
