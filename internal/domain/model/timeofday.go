package model

import (
	"strings"
	"time"
)

// TimeOfDay is a 24-hour wall-clock time in canonical "HH:MM" form.
type TimeOfDay string

// ParseTimeOfDay normalizes a time-of-day string and reports whether it is
// a valid "HH:MM" value.
func ParseTimeOfDay(value string) (TimeOfDay, bool) {
	v := strings.TrimSpace(value)
	if _, err := time.Parse("15:04", v); err != nil {
		return "", false
	}
	return TimeOfDay(v), true
}

// Valid reports whether the value is a canonical "HH:MM" time of day.
func (t TimeOfDay) Valid() bool {
	_, ok := ParseTimeOfDay(string(t))
	return ok
}

// Minutes returns the value as minutes since midnight. ok is false when the
// value is not a valid time of day.
func (t TimeOfDay) Minutes() (int, bool) {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return 0, false
	}
	return parsed.Hour()*60 + parsed.Minute(), true
}

// DayOfWeek is a calendar weekday with explicit wire strings.
type DayOfWeek string

const (
	DayOfWeekMonday    DayOfWeek = "monday"
	DayOfWeekTuesday   DayOfWeek = "tuesday"
	DayOfWeekWednesday DayOfWeek = "wednesday"
	DayOfWeekThursday  DayOfWeek = "thursday"
	DayOfWeekFriday    DayOfWeek = "friday"
	DayOfWeekSaturday  DayOfWeek = "saturday"
	DayOfWeekSunday    DayOfWeek = "sunday"
)

// Valid reports whether the day of week is supported.
func (d DayOfWeek) Valid() bool {
	switch d {
	case DayOfWeekMonday, DayOfWeekTuesday, DayOfWeekWednesday, DayOfWeekThursday,
		DayOfWeekFriday, DayOfWeekSaturday, DayOfWeekSunday:
		return true
	default:
		return false
	}
}

// ParseDayOfWeek normalizes a weekday string and reports whether it is supported.
func ParseDayOfWeek(value string) (DayOfWeek, bool) {
	d := DayOfWeek(strings.ToLower(strings.TrimSpace(value)))
	if d.Valid() {
		return d, true
	}
	return "", false
}

// DayOfWeekFromWeekday converts a time.Weekday into its wire enum.
func DayOfWeekFromWeekday(w time.Weekday) DayOfWeek {
	switch w {
	case time.Monday:
		return DayOfWeekMonday
	case time.Tuesday:
		return DayOfWeekTuesday
	case time.Wednesday:
		return DayOfWeekWednesday
	case time.Thursday:
		return DayOfWeekThursday
	case time.Friday:
		return DayOfWeekFriday
	case time.Saturday:
		return DayOfWeekSaturday
	default:
		return DayOfWeekSunday
	}
}
