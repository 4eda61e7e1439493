package domain

import (
	"errors"
	"testing"
	"time"
)

func TestWeekStartOfAlwaysMondayAndIdempotent(t *testing.T) {
	t.Parallel()

	// 2023-12-25 .. 2025-01-05 spans a full leap year plus both year boundaries.
	start := NewDate(2023, time.December, 25)
	end := NewDate(2025, time.January, 5)
	for d := start; !d.After(end); d = d.AddDays(1) {
		ws := WeekStartOf(d)
		if ws.Weekday() != time.Monday {
			t.Fatalf("WeekStartOf(%s) = %s is a %s", d, ws, ws.Weekday())
		}
		if again := WeekStartOf(ws); again != ws {
			t.Fatalf("WeekStartOf not idempotent for %s: %s != %s", d, again, ws)
		}
		if d.Before(ws) || !d.Before(ws.AddDays(7)) {
			t.Fatalf("%s is outside its week starting %s", d, ws)
		}
	}
}

func TestWeekStartOfLeapDay(t *testing.T) {
	t.Parallel()

	got := WeekStartOf(NewDate(2024, time.February, 29))
	if got.String() != "2024-02-26" {
		t.Fatalf("expected 2024-02-26, got %s", got)
	}
	next := NextWeekStart(got)
	if next.String() != "2024-03-04" {
		t.Fatalf("expected 2024-03-04, got %s", next)
	}
	if prev := PreviousWeekStart(next); prev != got {
		t.Fatalf("expected %s, got %s", got, prev)
	}
}

func TestWeekClassification(t *testing.T) {
	t.Parallel()

	today := NewDate(2024, time.January, 17) // Wednesday
	current := NewDate(2024, time.January, 15)
	cases := []struct {
		name                string
		week                Date
		isCurrent, isFuture bool
		isPast              bool
	}{
		{name: "current week", week: current, isCurrent: true},
		{name: "next week", week: NextWeekStart(current), isFuture: true},
		{name: "previous week", week: PreviousWeekStart(current), isPast: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCurrentWeek(tc.week, today); got != tc.isCurrent {
				t.Fatalf("IsCurrentWeek expected %v got %v", tc.isCurrent, got)
			}
			if got := IsFutureWeek(tc.week, today); got != tc.isFuture {
				t.Fatalf("IsFutureWeek expected %v got %v", tc.isFuture, got)
			}
			if got := IsPastWeek(tc.week, today); got != tc.isPast {
				t.Fatalf("IsPastWeek expected %v got %v", tc.isPast, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate(" 2024-01-15 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != NewDate(2024, time.January, 15) {
		t.Fatalf("unexpected date %s", d)
	}

	for _, raw := range []string{"", "15.1.2024", "2024-13-01", "2024-02-30", "tomorrow"} {
		if _, err := ParseDate(raw); !errors.Is(err, ErrInvalidWeek) {
			t.Fatalf("ParseDate(%q) expected ErrInvalidWeek, got %v", raw, err)
		}
	}
}

func TestClockUsesConfiguredZone(t *testing.T) {
	t.Parallel()

	prague, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Sunday 23:30 UTC is already Monday in Prague.
	instant := time.Date(2024, time.January, 21, 23, 30, 0, 0, time.UTC)
	clock := NewClock(prague, func() time.Time { return instant })
	if got := clock.CurrentWeekStart().String(); got != "2024-01-22" {
		t.Fatalf("expected 2024-01-22, got %s", got)
	}
	utc := NewClock(nil, func() time.Time { return instant })
	if got := utc.CurrentWeekStart().String(); got != "2024-01-15" {
		t.Fatalf("expected 2024-01-15, got %s", got)
	}
}

func TestFormatWeekRange(t *testing.T) {
	t.Parallel()

	got := FormatWeekRange(NewDate(2024, time.January, 29))
	if got != "29. ledna 2024 – 4. února 2024" {
		t.Fatalf("unexpected range %q", got)
	}
}
