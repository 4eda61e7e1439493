package domain

import (
	"strconv"
	"strings"
)

// DayOfWeek is the menu day offset from Monday (0 = Monday .. 6 = Sunday).
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysInWeek is the number of day slots every week menu carries.
const DaysInWeek = 7

var dayNames = [DaysInWeek]string{
	Monday:    "Pondělí",
	Tuesday:   "Úterý",
	Wednesday: "Středa",
	Thursday:  "Čtvrtek",
	Friday:    "Pátek",
	Saturday:  "Sobota",
	Sunday:    "Neděle",
}

var dayAliases = map[string]DayOfWeek{
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"saturday":  Saturday,
	"sunday":    Sunday,
	"pondělí":   Monday,
	"úterý":     Tuesday,
	"středa":    Wednesday,
	"čtvrtek":   Thursday,
	"pátek":     Friday,
	"sobota":    Saturday,
	"neděle":    Sunday,
}

// Valid reports whether the day lies inside Monday..Sunday.
func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

// IsWeekend reports whether the day is Saturday or Sunday.
func (d DayOfWeek) IsWeekend() bool {
	return d == Saturday || d == Sunday
}

// Name returns the display (Czech) name of the day, or "" for an invalid index.
func (d DayOfWeek) Name() string {
	if !d.Valid() {
		return ""
	}
	return dayNames[d]
}

// ParseDayOfWeek accepts a numeric index ("0".."6") or an english/czech day name.
func ParseDayOfWeek(raw string) (DayOfWeek, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return 0, false
	}
	if idx, err := strconv.Atoi(key); err == nil {
		day := DayOfWeek(idx)
		return day, day.Valid()
	}
	day, ok := dayAliases[key]
	return day, ok
}

// NormalizeClosedDays converts arbitrary configured entries into a de-duplicated day list,
// silently skipping values that do not name a day.
func NormalizeClosedDays(values []string) []DayOfWeek {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[DayOfWeek]struct{}, len(values))
	normalized := make([]DayOfWeek, 0, len(values))
	for _, value := range values {
		day, ok := ParseDayOfWeek(value)
		if !ok {
			continue
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		normalized = append(normalized, day)
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}
