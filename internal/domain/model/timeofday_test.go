package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, ok := ParseTimeOfDay(" 08:30 ")
	assert.True(t, ok)
	assert.Equal(t, TimeOfDay("08:30"), tod)

	_, ok = ParseTimeOfDay("8:30")
	assert.False(t, ok, "non-canonical hour should be rejected")

	_, ok = ParseTimeOfDay("24:00")
	assert.False(t, ok)

	_, ok = ParseTimeOfDay("banana")
	assert.False(t, ok)
}

func TestTimeOfDay_Minutes(t *testing.T) {
	m, ok := TimeOfDay("00:00").Minutes()
	assert.True(t, ok)
	assert.Equal(t, 0, m)

	m, ok = TimeOfDay("22:15").Minutes()
	assert.True(t, ok)
	assert.Equal(t, 22*60+15, m)

	_, ok = TimeOfDay("nope").Minutes()
	assert.False(t, ok)
}

func TestParseDayOfWeek(t *testing.T) {
	day, ok := ParseDayOfWeek(" Monday ")
	assert.True(t, ok)
	assert.Equal(t, DayOfWeekMonday, day)

	_, ok = ParseDayOfWeek("funday")
	assert.False(t, ok)
}

func TestDayOfWeekFromWeekday(t *testing.T) {
	assert.Equal(t, DayOfWeekMonday, DayOfWeekFromWeekday(time.Monday))
	assert.Equal(t, DayOfWeekSunday, DayOfWeekFromWeekday(time.Sunday))

	// 2024-01-01 was a Monday.
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, DayOfWeekMonday, DayOfWeekFromWeekday(d.Weekday()))
}
