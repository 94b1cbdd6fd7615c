package model

import (
	"strings"
	"time"
)

// SchedulingRunStatus is the lifecycle state of an optimization run.
//
// A run is completed whenever the solver reached a terminal verdict, even an
// infeasible one; failed is reserved for faults outside the solve itself.
type SchedulingRunStatus string

const (
	RunStatusPending   SchedulingRunStatus = "pending"
	RunStatusRunning   SchedulingRunStatus = "running"
	RunStatusCompleted SchedulingRunStatus = "completed"
	RunStatusFailed    SchedulingRunStatus = "failed"
	RunStatusCancelled SchedulingRunStatus = "cancelled"
)

// Valid reports whether the run status is supported.
func (s SchedulingRunStatus) Valid() bool {
	switch s {
	case RunStatusPending, RunStatusRunning, RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the run can no longer transition.
func (s SchedulingRunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusCancelled
}

// SolverStatus is the MIP solver's terminal verdict for a completed run.
type SolverStatus string

const (
	SolverStatusOptimal         SolverStatus = "optimal"
	SolverStatusFeasible        SolverStatus = "feasible"
	SolverStatusInfeasible      SolverStatus = "infeasible"
	SolverStatusNoSolutionFound SolverStatus = "no_solution_found"
	SolverStatusError           SolverStatus = "error"
)

// Valid reports whether the solver status is supported.
func (s SolverStatus) Valid() bool {
	switch s {
	case SolverStatusOptimal, SolverStatusFeasible, SolverStatusInfeasible,
		SolverStatusNoSolutionFound, SolverStatusError:
		return true
	default:
		return false
	}
}

// Solved reports whether the verdict carries usable assignments.
func (s SolverStatus) Solved() bool {
	return s == SolverStatusOptimal || s == SolverStatusFeasible
}

// ParseSolverStatus normalizes a status string and reports whether it is supported.
func ParseSolverStatus(value string) (SolverStatus, bool) {
	s := SolverStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// SchedulingRun is one auditable execution of the optimizer against a
// (weekly schedule, configuration) pair. Runs own their solution rows.
type SchedulingRun struct {
	ID               string              `json:"id"                         db:"id"`
	ScheduleID       string              `json:"weekly_schedule_id"         db:"schedule_id"`
	ConfigID         string              `json:"config_id"                  db:"config_id"`
	Status           SchedulingRunStatus `json:"status"                     db:"status"`
	SolverStatus     *SolverStatus       `json:"solver_status,omitempty"    db:"solver_status"`
	ObjectiveValue   *float64            `json:"objective_value,omitempty"  db:"objective_value"`
	RuntimeSeconds   *float64            `json:"runtime_seconds,omitempty"  db:"runtime_seconds"`
	MIPGap           *float64            `json:"mip_gap,omitempty"          db:"mip_gap"`
	TotalAssignments *int                `json:"total_assignments"          db:"total_assignments"`
	ErrorMessage     *string             `json:"error_message,omitempty"    db:"error_message"`
	TriggeredAt      time.Time           `json:"triggered_at"               db:"triggered_at"`
	StartedAt        *time.Time          `json:"started_at,omitempty"       db:"started_at"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"     db:"completed_at"`
	LeaseExpiresAt   *time.Time          `json:"lease_expires_at,omitempty" db:"lease_expires_at"`
}

// SchedulingSolution is one proposed assignment produced by a run. Employee
// and role references are nullable so history survives personnel deletes.
type SchedulingSolution struct {
	ID             string    `json:"id"                    db:"id"`
	RunID          string    `json:"run_id"                db:"run_id"`
	PlannedShiftID string    `json:"planned_shift_id"      db:"planned_shift_id"`
	EmployeeID     *string   `json:"employee_id,omitempty" db:"employee_id"`
	RoleID         *string   `json:"role_id,omitempty"     db:"role_id"`
	Score          float64   `json:"score"                 db:"score"`
	CreatedAt      time.Time `json:"created_at"            db:"created_at"`
}

// SolutionInput is the assignment shape the solver emits for bulk persistence.
type SolutionInput struct {
	PlannedShiftID string  `json:"planned_shift_id"`
	EmployeeID     string  `json:"employee_id"`
	RoleID         string  `json:"role_id"`
	Score          float64 `json:"score"`
}

// RunCompletion carries the solver outcome written when a run completes.
// ErrorMessage is set when the solver itself faulted; the run still counts
// as completed because the worker finished its job.
type RunCompletion struct {
	SolverStatus     SolverStatus
	ObjectiveValue   *float64
	RuntimeSeconds   float64
	MIPGap           *float64
	TotalAssignments int
	ErrorMessage     *string
}

// RunMetrics summarizes a run's solutions. Min/avg assignment loads count
// only employees that received at least one assignment.
type RunMetrics struct {
	TotalAssignments   int     `json:"total_assignments"`
	AvgPreferenceScore float64 `json:"avg_preference_score"`
	MinAssignments     int     `json:"min_assignments"`
	MaxAssignments     int     `json:"max_assignments"`
	AvgAssignments     float64 `json:"avg_assignments"`
	ShiftsFilled       int     `json:"shifts_filled"`
	ShiftsTotal        int     `json:"shifts_total"`
	EmployeesAssigned  int     `json:"employees_assigned"`
	EmployeesTotal     int     `json:"employees_total"`
}

// RunWithMetrics is the read shape returned by the run endpoints.
type RunWithMetrics struct {
	SchedulingRun
	Metrics RunMetrics `json:"metrics"`
}

// ApplyResult summarizes turning a run's solutions into live assignments.
type ApplyResult struct {
	RunID                   string `json:"run_id"`
	ShiftsAffected          int    `json:"shifts_affected"`
	AssignmentsDeleted      int    `json:"assignments_deleted"`
	AssignmentsCreated      int    `json:"assignments_created"`
	SkippedSolutions        int    `json:"skipped_solutions"`
	ShiftsFullyAssigned     int    `json:"shifts_fully_assigned"`
	ShiftsPartiallyAssigned int    `json:"shifts_partially_assigned"`
}
