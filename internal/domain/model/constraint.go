package model

import (
	"errors"
	"strings"
	"time"
)

// SystemConstraintType identifies a global work rule. At most one row exists
// per kind.
type SystemConstraintType string

const (
	ConstraintMaxHoursPerWeek    SystemConstraintType = "max_hours_per_week"
	ConstraintMinHoursPerWeek    SystemConstraintType = "min_hours_per_week"
	ConstraintMaxConsecutiveDays SystemConstraintType = "max_consecutive_days"
	ConstraintMinRestHours       SystemConstraintType = "min_rest_hours"
	ConstraintMaxShiftsPerWeek   SystemConstraintType = "max_shifts_per_week"
	ConstraintMinShiftsPerWeek   SystemConstraintType = "min_shifts_per_week"
)

// Valid reports whether the constraint kind is supported.
func (k SystemConstraintType) Valid() bool {
	switch k {
	case ConstraintMaxHoursPerWeek, ConstraintMinHoursPerWeek, ConstraintMaxConsecutiveDays,
		ConstraintMinRestHours, ConstraintMaxShiftsPerWeek, ConstraintMinShiftsPerWeek:
		return true
	default:
		return false
	}
}

// ParseSystemConstraintType normalizes a kind string and reports whether it is supported.
func ParseSystemConstraintType(value string) (SystemConstraintType, bool) {
	k := SystemConstraintType(strings.ToLower(strings.TrimSpace(value)))
	if k.Valid() {
		return k, true
	}
	return "", false
}

// SystemConstraint is a single global work rule with a numeric value. Hard
// rules are enforced as MIP constraints; soft rules become penalty terms.
type SystemConstraint struct {
	ID        string               `json:"id"         db:"id"`
	Kind      SystemConstraintType `json:"kind"       db:"kind"`
	Value     float64              `json:"value"      db:"value"`
	IsHard    bool                 `json:"is_hard"    db:"is_hard"`
	CreatedAt time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" db:"updated_at"`
}

// CreateSystemConstraintRequest represents parameters to create a SystemConstraint.
type CreateSystemConstraintRequest struct {
	Kind   SystemConstraintType `json:"kind"`
	Value  float64              `json:"value"`
	IsHard bool                 `json:"is_hard"`
}

// Validate validates CreateSystemConstraintRequest.
func (r *CreateSystemConstraintRequest) Validate() error {
	kind, ok := ParseSystemConstraintType(string(r.Kind))
	if !ok {
		return errors.New("invalid constraint kind")
	}
	r.Kind = kind
	if r.Value < 0 {
		return errors.New("value must be >= 0")
	}
	return nil
}

// UpdateSystemConstraintRequest represents parameters to update a SystemConstraint.
type UpdateSystemConstraintRequest struct {
	Value  *float64 `json:"value,omitempty"`
	IsHard *bool    `json:"is_hard,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateSystemConstraintRequest.
func (r *UpdateSystemConstraintRequest) HasUpdates() bool {
	return r.Value != nil || r.IsHard != nil
}

// Validate validates UpdateSystemConstraintRequest.
func (r *UpdateSystemConstraintRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Value != nil && *r.Value < 0 {
		return errors.New("value must be >= 0")
	}
	return nil
}
