// Package model defines the core data types used throughout the rosterd scheduling system.
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxEmployeeNameLen = 255
	maxEmailLen        = 255
	minPasswordLen     = 8
)

// EmployeeStatus describes whether an employee can currently take shifts.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusVacation EmployeeStatus = "vacation"
	EmployeeStatusSick     EmployeeStatus = "sick"
)

// Valid reports whether the employee status is supported.
func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusVacation, EmployeeStatusSick:
		return true
	default:
		return false
	}
}

// ParseEmployeeStatus normalizes a status string and reports whether it is supported.
func ParseEmployeeStatus(value string) (EmployeeStatus, bool) {
	s := EmployeeStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// normalizeEmployeeStatus trims and lowercases the input, defaulting to active when empty.
func normalizeEmployeeStatus(v EmployeeStatus) EmployeeStatus {
	normalized := EmployeeStatus(strings.ToLower(strings.TrimSpace(string(v))))
	if normalized == "" {
		return EmployeeStatusActive
	}
	return normalized
}

// Employee represents a member of the workforce. Only active employees are
// eligible for new assignments.
type Employee struct {
	ID           string         `json:"id"         db:"id"`
	Name         string         `json:"name"       db:"name"`
	Email        string         `json:"email"      db:"email"`
	Status       EmployeeStatus `json:"status"     db:"status"`
	IsManager    bool           `json:"is_manager" db:"is_manager"`
	PasswordHash string         `json:"-"          db:"password_hash"`
	RoleIDs      []string       `json:"role_ids"   db:"-"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Eligible reports whether the employee may receive new assignments.
func (e *Employee) Eligible() bool {
	return e.Status == EmployeeStatusActive
}

// QualifiedFor reports whether the employee holds the given role.
func (e *Employee) QualifiedFor(roleID string) bool {
	for _, id := range e.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// EmployeesListOptions controls paging and filtering for listing employees.
type EmployeesListOptions struct {
	Limit  int
	Offset int
	Q      *string         // substring match on name or email (ILIKE)
	Status *EmployeeStatus // exact match
}

// CreateEmployeeRequest represents parameters to create an Employee.
type CreateEmployeeRequest struct {
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Status    EmployeeStatus `json:"status,omitempty"`
	IsManager bool           `json:"is_manager,omitempty"`
	RoleIDs   []string       `json:"role_ids,omitempty"`
}

// Validate validates CreateEmployeeRequest.
func (r *CreateEmployeeRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxEmployeeNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	r.Status = normalizeEmployeeStatus(r.Status)
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	for _, roleID := range r.RoleIDs {
		if strings.TrimSpace(roleID) == "" {
			return errors.New("role_ids cannot contain empty values")
		}
	}
	return nil
}

// UpdateEmployeeRequest represents parameters to update an Employee.
// RoleIDs, when set, replaces the employee's full qualification set.
type UpdateEmployeeRequest struct {
	Name      *string         `json:"name,omitempty"`
	Email     *string         `json:"email,omitempty"`
	Password  *string         `json:"password,omitempty"`
	Status    *EmployeeStatus `json:"status,omitempty"`
	IsManager *bool           `json:"is_manager,omitempty"`
	RoleIDs   *[]string       `json:"role_ids,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateEmployeeRequest.
func (r *UpdateEmployeeRequest) HasUpdates() bool {
	return r.Name != nil || r.Email != nil || r.Password != nil || r.Status != nil ||
		r.IsManager != nil ||
		r.RoleIDs != nil
}

// Validate validates UpdateEmployeeRequest, ensuring at least one field is set and values are sane.
func (r *UpdateEmployeeRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxEmployeeNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	if r.Email != nil {
		if err := validateEmail(*r.Email); err != nil {
			return err
		}
	}
	if r.Password != nil && utf8.RuneCountInString(*r.Password) < minPasswordLen {
		return errors.New("password must be at least 8 characters")
	}
	if r.Status != nil {
		status := normalizeEmployeeStatus(*r.Status)
		if !status.Valid() {
			return errors.New("invalid status")
		}
		*r.Status = status
	}
	if r.RoleIDs != nil {
		for _, roleID := range *r.RoleIDs {
			if strings.TrimSpace(roleID) == "" {
				return errors.New("role_ids cannot contain empty values")
			}
		}
	}
	return nil
}

func validateEmail(email string) error {
	e := strings.TrimSpace(email)
	if e == "" {
		return errors.New("email is required and cannot be empty")
	}
	if utf8.RuneCountInString(e) > maxEmailLen {
		return errors.New("email cannot exceed 255 characters")
	}
	at := strings.Index(e, "@")
	if at <= 0 || at == len(e)-1 || strings.ContainsAny(e, " \t") {
		return errors.New("email is not valid")
	}
	return nil
}
