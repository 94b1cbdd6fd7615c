package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxRoleNameLen = 100

// Role is a job function an employee can be qualified for (waiter, cook, ...).
// Roles are referenced by shift template demands and live assignments.
type Role struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateRoleRequest represents parameters to create a Role.
type CreateRoleRequest struct {
	Name string `json:"name"`
}

// Validate validates CreateRoleRequest.
func (r *CreateRoleRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxRoleNameLen {
		return errors.New("name cannot exceed 100 characters")
	}
	return nil
}

// UpdateRoleRequest represents parameters to update a Role.
type UpdateRoleRequest struct {
	Name *string `json:"name,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateRoleRequest.
func (r *UpdateRoleRequest) HasUpdates() bool {
	return r.Name != nil
}

// Validate validates UpdateRoleRequest.
func (r *UpdateRoleRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxRoleNameLen {
			return errors.New("name cannot exceed 100 characters")
		}
	}
	return nil
}
