package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxTimeOffReasonLen = 500

// TimeOffStatus is the review state of a time-off request. Only approved
// requests constrain optimization.
type TimeOffStatus string

const (
	TimeOffStatusPending  TimeOffStatus = "pending"
	TimeOffStatusApproved TimeOffStatus = "approved"
	TimeOffStatusRejected TimeOffStatus = "rejected"
)

// Valid reports whether the time-off status is supported.
func (s TimeOffStatus) Valid() bool {
	switch s {
	case TimeOffStatusPending, TimeOffStatusApproved, TimeOffStatusRejected:
		return true
	default:
		return false
	}
}

// ParseTimeOffStatus normalizes a status string and reports whether it is supported.
func ParseTimeOffStatus(value string) (TimeOffStatus, bool) {
	s := TimeOffStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// TimeOffRequest is an employee's request to be unavailable over an inclusive
// date range.
type TimeOffRequest struct {
	ID         string        `json:"id"               db:"id"`
	EmployeeID string        `json:"employee_id"      db:"employee_id"`
	StartDate  time.Time     `json:"start_date"       db:"start_date"`
	EndDate    time.Time     `json:"end_date"         db:"end_date"`
	Status     TimeOffStatus `json:"status"           db:"status"`
	Reason     *string       `json:"reason,omitempty" db:"reason"`
	CreatedAt  time.Time     `json:"created_at"       db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"       db:"updated_at"`
}

// CoversDate reports whether the given calendar date falls inside the
// request's inclusive range.
func (t *TimeOffRequest) CoversDate(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(t.StartDate)) && !day.After(DateOnly(t.EndDate))
}

// CreateTimeOffRequest represents parameters to file a time-off request.
// EmployeeID may be empty when the caller files for themselves.
type CreateTimeOffRequest struct {
	EmployeeID string  `json:"employee_id,omitempty"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

// Validate validates CreateTimeOffRequest.
func (r *CreateTimeOffRequest) Validate() error {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return errors.New("start_date must be a valid YYYY-MM-DD date")
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return errors.New("end_date must be a valid YYYY-MM-DD date")
	}
	if end.Before(start) {
		return errors.New("end_date cannot be before start_date")
	}
	if r.Reason != nil && utf8.RuneCountInString(*r.Reason) > maxTimeOffReasonLen {
		return errors.New("reason cannot exceed 500 characters")
	}
	return nil
}

// DecideTimeOffRequest represents a manager decision on a pending request.
type DecideTimeOffRequest struct {
	Status TimeOffStatus `json:"status"`
}

// Validate validates DecideTimeOffRequest; only approved/rejected are decisions.
func (r *DecideTimeOffRequest) Validate() error {
	status, ok := ParseTimeOffStatus(string(r.Status))
	if !ok || status == TimeOffStatusPending {
		return errors.New("status must be approved or rejected")
	}
	r.Status = status
	return nil
}
