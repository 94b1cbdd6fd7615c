package model

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire form for calendar dates.
const DateLayout = "2006-01-02"

// ScheduleStatus is the lifecycle state of a weekly schedule.
type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "draft"
	ScheduleStatusPublished ScheduleStatus = "published"
	ScheduleStatusArchived  ScheduleStatus = "archived"
)

// Valid reports whether the schedule status is supported.
func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusDraft, ScheduleStatusPublished, ScheduleStatusArchived:
		return true
	default:
		return false
	}
}

// ParseScheduleStatus normalizes a status string and reports whether it is supported.
func ParseScheduleStatus(value string) (ScheduleStatus, bool) {
	s := ScheduleStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// WeeklySchedule anchors one week of planned shifts. It exclusively owns its
// planned shifts; deleting the schedule cascades to them.
type WeeklySchedule struct {
	ID            string         `json:"id"                     db:"id"`
	WeekStartDate time.Time      `json:"week_start_date"        db:"week_start_date"`
	Status        ScheduleStatus `json:"status"                 db:"status"`
	CreatedBy     string         `json:"created_by"             db:"created_by"`
	PublishedBy   *string        `json:"published_by,omitempty" db:"published_by"`
	PublishedAt   *time.Time     `json:"published_at,omitempty" db:"published_at"`
	CreatedAt     time.Time      `json:"created_at"             db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"             db:"updated_at"`
}

// SchedulesListOptions controls paging and filtering for listing schedules.
type SchedulesListOptions struct {
	Limit  int
	Offset int
	Status *ScheduleStatus // exact match
}

// CreateWeeklyScheduleRequest represents parameters to create a WeeklySchedule.
type CreateWeeklyScheduleRequest struct {
	WeekStartDate string `json:"week_start_date"`
}

// Validate validates CreateWeeklyScheduleRequest.
func (r *CreateWeeklyScheduleRequest) Validate() error {
	if _, err := ParseDate(r.WeekStartDate); err != nil {
		return errors.New("week_start_date must be a valid YYYY-MM-DD date")
	}
	return nil
}

// PlannedShiftStatus tracks how staffed a planned shift is.
type PlannedShiftStatus string

const (
	PlannedShiftStatusPlanned           PlannedShiftStatus = "planned"
	PlannedShiftStatusPartiallyAssigned PlannedShiftStatus = "partially_assigned"
	PlannedShiftStatusFullyAssigned     PlannedShiftStatus = "fully_assigned"
	PlannedShiftStatusCancelled         PlannedShiftStatus = "cancelled"
)

// Valid reports whether the planned shift status is supported.
func (s PlannedShiftStatus) Valid() bool {
	switch s {
	case PlannedShiftStatusPlanned, PlannedShiftStatusPartiallyAssigned,
		PlannedShiftStatusFullyAssigned, PlannedShiftStatusCancelled:
		return true
	default:
		return false
	}
}

// PlannedShift is a concrete instance of a template on a given date within a
// weekly schedule. StartAt/EndAt are the normalized absolute interval; an
// overnight template yields an EndAt on the following calendar day.
type PlannedShift struct {
	ID         string             `json:"id"                 db:"id"`
	ScheduleID string             `json:"schedule_id"        db:"schedule_id"`
	TemplateID string             `json:"template_id"        db:"template_id"`
	ShiftDate  time.Time          `json:"shift_date"         db:"shift_date"`
	StartAt    time.Time          `json:"start_at"           db:"start_at"`
	EndAt      time.Time          `json:"end_at"             db:"end_at"`
	Location   *string            `json:"location,omitempty" db:"location"`
	Status     PlannedShiftStatus `json:"status"             db:"status"`
	CreatedAt  time.Time          `json:"created_at"         db:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"         db:"updated_at"`
}

// DurationHours returns the shift length in fractional hours.
func (p *PlannedShift) DurationHours() float64 {
	return p.EndAt.Sub(p.StartAt).Hours()
}

// CreatePlannedShiftRequest represents parameters to add a shift to a weekly
// schedule. Times default to the template's window when omitted.
type CreatePlannedShiftRequest struct {
	TemplateID     string     `json:"template_id"`
	ShiftDate      string     `json:"shift_date"`
	StartTimeOfDay *TimeOfDay `json:"start_time_of_day,omitempty"`
	EndTimeOfDay   *TimeOfDay `json:"end_time_of_day,omitempty"`
	Location       *string    `json:"location,omitempty"`
}

// Validate validates CreatePlannedShiftRequest.
func (r *CreatePlannedShiftRequest) Validate() error {
	if strings.TrimSpace(r.TemplateID) == "" {
		return errors.New("template_id is required")
	}
	if _, err := ParseDate(r.ShiftDate); err != nil {
		return errors.New("shift_date must be a valid YYYY-MM-DD date")
	}
	if err := validateTimeWindow(r.StartTimeOfDay, r.EndTimeOfDay); err != nil {
		return err
	}
	if r.Location != nil && len(*r.Location) > maxLocationLen {
		return errors.New("location cannot exceed 255 characters")
	}
	return nil
}

// ShiftAssignment is a live commitment: one employee fills one planned shift
// in one role. Unique per (planned_shift, employee).
type ShiftAssignment struct {
	ID             string    `json:"id"               db:"id"`
	PlannedShiftID string    `json:"planned_shift_id" db:"planned_shift_id"`
	EmployeeID     string    `json:"employee_id"      db:"employee_id"`
	RoleID         string    `json:"role_id"          db:"role_id"`
	CreatedAt      time.Time `json:"created_at"       db:"created_at"`
}

// ParseDate parses a YYYY-MM-DD wire date into a UTC midnight timestamp.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ShiftInterval computes the absolute interval of a shift on the given date.
// An end time at or before the start wraps to the next calendar day.
func ShiftInterval(date time.Time, start, end TimeOfDay) (time.Time, time.Time, error) {
	startMin, ok := start.Minutes()
	if !ok {
		return time.Time{}, time.Time{}, errors.New("invalid start time of day")
	}
	endMin, ok := end.Minutes()
	if !ok {
		return time.Time{}, time.Time{}, errors.New("invalid end time of day")
	}
	day := DateOnly(date)
	startAt := day.Add(time.Duration(startMin) * time.Minute)
	endAt := day.Add(time.Duration(endMin) * time.Minute)
	if endMin <= startMin {
		endAt = endAt.AddDate(0, 0, 1)
	}
	return startAt, endAt, nil
}
