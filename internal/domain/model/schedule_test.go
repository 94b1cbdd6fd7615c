package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftInterval_SameDay(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start, end, err := ShiftInterval(date, "08:00", "14:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC), end)
}

func TestShiftInterval_Overnight(t *testing.T) {
	// A 22:00-06:00 shift ends the next calendar day and lasts 8 hours.
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start, end, err := ShiftInterval(date, "22:00", "06:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC), end)
	assert.InDelta(t, 8.0, end.Sub(start).Hours(), 1e-9)
}

func TestShiftInterval_EqualTimesWrap(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start, end, err := ShiftInterval(date, "09:00", "09:00")
	require.NoError(t, err)
	assert.InDelta(t, 24.0, end.Sub(start).Hours(), 1e-9)
}

func TestShiftInterval_InvalidTimes(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, _, err := ShiftInterval(date, "9am", "14:00")
	assert.Error(t, err)
}

func TestPlannedShift_DurationHours(t *testing.T) {
	shift := PlannedShift{
		StartAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC),
	}
	assert.InDelta(t, 6.5, shift.DurationHours(), 1e-9)
}

func TestParseScheduleStatus(t *testing.T) {
	status, ok := ParseScheduleStatus(" Published ")
	assert.True(t, ok)
	assert.Equal(t, ScheduleStatusPublished, status)

	_, ok = ParseScheduleStatus("unknown")
	assert.False(t, ok)
}

func TestCreateWeeklyScheduleRequest_Validate(t *testing.T) {
	req := &CreateWeeklyScheduleRequest{WeekStartDate: "2024-01-01"}
	assert.NoError(t, req.Validate())

	req = &CreateWeeklyScheduleRequest{WeekStartDate: "01/01/2024"}
	assert.Error(t, req.Validate())
}

func TestCreatePlannedShiftRequest_Validate(t *testing.T) {
	start := TimeOfDay("08:00")
	end := TimeOfDay("14:00")

	req := &CreatePlannedShiftRequest{TemplateID: "tpl-1", ShiftDate: "2024-01-01"}
	assert.NoError(t, req.Validate())

	req = &CreatePlannedShiftRequest{TemplateID: "tpl-1", ShiftDate: "2024-01-01", StartTimeOfDay: &start, EndTimeOfDay: &end}
	assert.NoError(t, req.Validate())

	req = &CreatePlannedShiftRequest{TemplateID: "tpl-1", ShiftDate: "2024-01-01", StartTimeOfDay: &start}
	assert.Error(t, req.Validate(), "one-sided time window should be rejected")

	req = &CreatePlannedShiftRequest{TemplateID: "", ShiftDate: "2024-01-01"}
	assert.Error(t, req.Validate())
}
