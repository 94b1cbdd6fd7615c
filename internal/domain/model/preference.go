package model

import (
	"errors"
	"strings"
	"time"
)

// EmployeePreference is a soft signal that an employee prefers shifts matching
// a template, a weekday, a time range, or any combination. Weight is in [0,1].
// An employee may hold any number of preferences.
type EmployeePreference struct {
	ID             string     `json:"id"                          db:"id"`
	EmployeeID     string     `json:"employee_id"                 db:"employee_id"`
	TemplateID     *string    `json:"template_id,omitempty"       db:"template_id"`
	DayOfWeek      *DayOfWeek `json:"day_of_week,omitempty"       db:"day_of_week"`
	StartTimeOfDay *TimeOfDay `json:"start_time_of_day,omitempty" db:"start_time_of_day"`
	EndTimeOfDay   *TimeOfDay `json:"end_time_of_day,omitempty"   db:"end_time_of_day"`
	Weight         float64    `json:"weight"                      db:"weight"`
	CreatedAt      time.Time  `json:"created_at"                  db:"created_at"`
}

// CreatePreferenceRequest represents parameters to record a preference.
// EmployeeID may be empty when the caller files for themselves.
type CreatePreferenceRequest struct {
	EmployeeID     string     `json:"employee_id,omitempty"`
	TemplateID     *string    `json:"template_id,omitempty"`
	DayOfWeek      *DayOfWeek `json:"day_of_week,omitempty"`
	StartTimeOfDay *TimeOfDay `json:"start_time_of_day,omitempty"`
	EndTimeOfDay   *TimeOfDay `json:"end_time_of_day,omitempty"`
	Weight         float64    `json:"weight"`
}

// Validate validates CreatePreferenceRequest.
func (r *CreatePreferenceRequest) Validate() error {
	if r.Weight < 0 || r.Weight > 1 {
		return errors.New("weight must be between 0 and 1")
	}
	if r.TemplateID != nil && strings.TrimSpace(*r.TemplateID) == "" {
		return errors.New("template_id cannot be empty")
	}
	if r.DayOfWeek != nil {
		day, ok := ParseDayOfWeek(string(*r.DayOfWeek))
		if !ok {
			return errors.New("invalid day_of_week")
		}
		*r.DayOfWeek = day
	}
	if err := validateTimeWindow(r.StartTimeOfDay, r.EndTimeOfDay); err != nil {
		return err
	}
	if r.TemplateID == nil && r.DayOfWeek == nil && r.StartTimeOfDay == nil {
		return errors.New("at least one of template_id, day_of_week, or a time range must be set")
	}
	return nil
}
