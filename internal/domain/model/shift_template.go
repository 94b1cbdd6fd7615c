package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTemplateNameLen = 255
	maxLocationLen     = 255
)

// ShiftTemplate is a reusable shift pattern: an optional daily time window,
// an optional location, and the per-role staffing demand.
type ShiftTemplate struct {
	ID             string           `json:"id"                          db:"id"`
	Name           string           `json:"name"                        db:"name"`
	StartTimeOfDay *TimeOfDay       `json:"start_time_of_day,omitempty" db:"start_time_of_day"`
	EndTimeOfDay   *TimeOfDay       `json:"end_time_of_day,omitempty"   db:"end_time_of_day"`
	Location       *string          `json:"location,omitempty"          db:"location"`
	Demands        []TemplateDemand `json:"demands"                     db:"-"`
	CreatedAt      time.Time        `json:"created_at"                  db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"                  db:"updated_at"`
}

// TemplateDemand is one (role, required_count) pair of a template's demand.
type TemplateDemand struct {
	ID            string `json:"id"             db:"id"`
	TemplateID    string `json:"template_id"    db:"template_id"`
	RoleID        string `json:"role_id"        db:"role_id"`
	RequiredCount int    `json:"required_count" db:"required_count"`
}

// TemplateDemandInput is the demand shape accepted on template writes.
type TemplateDemandInput struct {
	RoleID        string `json:"role_id"`
	RequiredCount int    `json:"required_count"`
}

// CreateShiftTemplateRequest represents parameters to create a ShiftTemplate.
type CreateShiftTemplateRequest struct {
	Name           string                `json:"name"`
	StartTimeOfDay *TimeOfDay            `json:"start_time_of_day,omitempty"`
	EndTimeOfDay   *TimeOfDay            `json:"end_time_of_day,omitempty"`
	Location       *string               `json:"location,omitempty"`
	Demands        []TemplateDemandInput `json:"demands"`
}

// Validate validates CreateShiftTemplateRequest.
func (r *CreateShiftTemplateRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if err := validateTimeWindow(r.StartTimeOfDay, r.EndTimeOfDay); err != nil {
		return err
	}
	if r.Location != nil && utf8.RuneCountInString(*r.Location) > maxLocationLen {
		return errors.New("location cannot exceed 255 characters")
	}
	if len(r.Demands) == 0 {
		return errors.New("at least one role demand is required")
	}
	return validateDemands(r.Demands)
}

// UpdateShiftTemplateRequest represents parameters to update a ShiftTemplate.
// Demands, when set, replaces the template's full demand list.
type UpdateShiftTemplateRequest struct {
	Name           *string                `json:"name,omitempty"`
	StartTimeOfDay *TimeOfDay             `json:"start_time_of_day,omitempty"`
	EndTimeOfDay   *TimeOfDay             `json:"end_time_of_day,omitempty"`
	Location       *string                `json:"location,omitempty"`
	Demands        *[]TemplateDemandInput `json:"demands,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateShiftTemplateRequest.
func (r *UpdateShiftTemplateRequest) HasUpdates() bool {
	return r.Name != nil || r.StartTimeOfDay != nil || r.EndTimeOfDay != nil ||
		r.Location != nil ||
		r.Demands != nil
}

// Validate validates UpdateShiftTemplateRequest, ensuring at least one field is set and values are sane.
func (r *UpdateShiftTemplateRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxTemplateNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	if r.StartTimeOfDay != nil && !r.StartTimeOfDay.Valid() {
		return errors.New("start_time_of_day must be in HH:MM form")
	}
	if r.EndTimeOfDay != nil && !r.EndTimeOfDay.Valid() {
		return errors.New("end_time_of_day must be in HH:MM form")
	}
	if r.Location != nil && utf8.RuneCountInString(*r.Location) > maxLocationLen {
		return errors.New("location cannot exceed 255 characters")
	}
	if r.Demands != nil {
		if len(*r.Demands) == 0 {
			return errors.New("at least one role demand is required")
		}
		return validateDemands(*r.Demands)
	}
	return nil
}

func validateTimeWindow(start, end *TimeOfDay) error {
	if (start == nil) != (end == nil) {
		return errors.New("start_time_of_day and end_time_of_day must be provided together")
	}
	if start != nil && !start.Valid() {
		return errors.New("start_time_of_day must be in HH:MM form")
	}
	if end != nil && !end.Valid() {
		return errors.New("end_time_of_day must be in HH:MM form")
	}
	return nil
}

func validateDemands(demands []TemplateDemandInput) error {
	seen := make(map[string]struct{}, len(demands))
	for _, d := range demands {
		roleID := strings.TrimSpace(d.RoleID)
		if roleID == "" {
			return errors.New("demand role_id is required")
		}
		if d.RequiredCount < 1 {
			return errors.New("demand required_count must be >= 1")
		}
		if _, dup := seen[roleID]; dup {
			return errors.New("demands cannot repeat a role")
		}
		seen[roleID] = struct{}{}
	}
	return nil
}
