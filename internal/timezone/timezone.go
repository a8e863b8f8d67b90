package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

const (
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
	DateTimeLayout = "2006-01-02 15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// --------------------------------------------------
// Business clock
// --------------------------------------------------

// Clock is the single authority for "now" and "today" in the business
// timezone. Client-supplied dates are always parsed through it.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(tz string) *Clock {
	return &Clock{loc: Location(tz), now: time.Now}
}

// NewFixedClock is used by tests to pin "now".
func NewFixedClock(loc *time.Location, now time.Time) *Clock {
	return &Clock{loc: loc, now: func() time.Time { return now }}
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) Today() string {
	return c.Now().Format(DateLayout)
}

func (c *Clock) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, c.loc)
}

func (c *Clock) ParseDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, date+" "+clock, c.loc)
}
