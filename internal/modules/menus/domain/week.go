package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO layout used for week keys and day dates.
const DateLayout = "2006-01-02"

// Date is a calendar day without time-of-day. Values are normalized to UTC midnight so
// they compare with ==.
type Date struct {
	t time.Time
}

// NewDate builds a calendar date; out-of-range values are normalized like time.Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate strictly parses an ISO date (YYYY-MM-DD).
func ParseDate(raw string) (Date, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Date{}, fmt.Errorf("%w: empty date", ErrInvalidWeek)
	}
	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q, use YYYY-MM-DD", ErrInvalidWeek, trimmed)
	}
	return DateOf(parsed), nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Time returns the date as UTC midnight.
func (d Date) Time() time.Time { return d.t }

func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays moves the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.t.AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) After(other Date) bool { return d.t.After(other.t) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidWeek, string(data))
	}
	if strings.TrimSpace(raw) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeekStartOf returns the Monday on or before d.
func WeekStartOf(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// NextWeekStart returns the Monday seven days after weekStart.
func NextWeekStart(weekStart Date) Date {
	return weekStart.AddDays(7)
}

// PreviousWeekStart returns the Monday seven days before weekStart.
func PreviousWeekStart(weekStart Date) Date {
	return weekStart.AddDays(-7)
}

// IsCurrentWeek reports whether weekStart identifies the week containing today.
func IsCurrentWeek(weekStart, today Date) bool {
	return WeekStartOf(weekStart) == WeekStartOf(today)
}

// IsFutureWeek reports whether weekStart lies after the current week.
func IsFutureWeek(weekStart, today Date) bool {
	return WeekStartOf(weekStart).After(WeekStartOf(today))
}

// IsPastWeek reports whether weekStart lies strictly before the current week.
func IsPastWeek(weekStart, today Date) bool {
	return WeekStartOf(weekStart).Before(WeekStartOf(today))
}

// Clock yields "today" in the restaurant's time zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock builds a clock for the given location; nil location means UTC and nil now
// means time.Now.
func NewClock(loc *time.Location, now func() time.Time) Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return Clock{loc: loc, now: now}
}

// Now returns the current instant in the clock's location.
func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}
	if c.loc == nil {
		return c.now()
	}
	return c.now().In(c.loc)
}

// Today returns the current calendar date in the clock's location.
func (c Clock) Today() Date {
	return DateOf(c.Now())
}

// CurrentWeekStart returns the Monday of the current week.
func (c Clock) CurrentWeekStart() Date {
	return WeekStartOf(c.Today())
}

var czechMonths = [...]string{
	"", "ledna", "února", "března", "dubna", "května", "června",
	"července", "srpna", "září", "října", "listopadu", "prosince",
}

// FormatCzechDate renders "15. ledna 2024".
func FormatCzechDate(d Date) string {
	if d.IsZero() {
		return ""
	}
	y, m, day := d.t.Date()
	return fmt.Sprintf("%d. %s %d", day, czechMonths[m], y)
}

// FormatWeekRange renders the Monday..Sunday span of the week.
func FormatWeekRange(weekStart Date) string {
	return FormatCzechDate(weekStart) + " – " + FormatCzechDate(weekStart.AddDays(6))
}
