package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/rosterd/rosterd/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// JobRepository defines the interface for job queue operations.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	GetByRunID(ctx context.Context, runID string) (*model.Job, error)
	ReserveNext(ctx context.Context, jobType model.JobType, leaseSeconds int) (*model.Job, error)
	WaitForNotification(ctx context.Context, jobType model.JobType) error
	Heartbeat(ctx context.Context, jobID string, leaseSeconds int) (bool, error)
	Complete(ctx context.Context, id string) (bool, error)
	Fail(ctx context.Context, id, errMsg string) (bool, error)
	Stats(ctx context.Context, jobType model.JobType) (*model.JobStats, error)
	List(ctx context.Context, opts *model.JobListOptions) ([]*model.Job, error)
	Delete(ctx context.Context, id string) error
	DeletePendingByRunID(ctx context.Context, runID string) (int, error)
}

// JobRepositoryTx defines optional transactional job creation support.
type JobRepositoryTx interface {
	CreateInTx(ctx context.Context, tx *sql.Tx, req *model.CreateJobRequest) (*model.Job, error)
}

// RunRepository defines the interface for scheduling run data operations,
// including the worker-facing state transitions and solution persistence.
type RunRepository interface {
	CreateRun(ctx context.Context, scheduleID, configID string) (*model.SchedulingRun, error)
	GetRunByID(ctx context.Context, id string) (*model.SchedulingRun, error)
	ListRunsBySchedule(ctx context.Context, scheduleID string) ([]model.SchedulingRun, error)
	MarkRunning(ctx context.Context, id string, lease time.Duration) (*model.SchedulingRun, error)
	UpdateLease(ctx context.Context, id string, lease time.Duration) error
	CompleteRun(ctx context.Context, id string, completion model.RunCompletion) (*model.SchedulingRun, error)
	FailRun(ctx context.Context, id, errorMessage string) (*model.SchedulingRun, error)
	CancelRun(ctx context.Context, id string) (*model.SchedulingRun, error)
	InsertSolutions(ctx context.Context, runID string, inputs []model.SolutionInput) (int64, error)
	ListSolutionsByRun(ctx context.Context, runID string) ([]model.SchedulingSolution, error)
	ApplyRunSolutions(ctx context.Context, runID string) (*model.ApplyResult, error)
}

// SnapshotRepository defines the interface for loading the frozen run context
// an optimization run consumes.
type SnapshotRepository interface {
	LoadRunContext(ctx context.Context, scheduleID string, configID *string) (*model.RunContext, error)
}

// RoleRepository defines the interface for role data operations.
type RoleRepository interface {
	Create(ctx context.Context, req *model.CreateRoleRequest) (*model.Role, error)
	GetByID(ctx context.Context, id string) (*model.Role, error)
	List(ctx context.Context) ([]*model.Role, error)
	Update(ctx context.Context, id string, req *model.UpdateRoleRequest) (*model.Role, error)
	Delete(ctx context.Context, id string) error
}

// EmployeeRepository defines the interface for employee data operations.
type EmployeeRepository interface {
	Create(ctx context.Context, req *model.CreateEmployeeRequest, passwordHash string) (*model.Employee, error)
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	List(ctx context.Context, opts model.EmployeesListOptions) ([]*model.Employee, error)
	CountActive(ctx context.Context) (int, error)
	Update(ctx context.Context, id string, req *model.UpdateEmployeeRequest, passwordHash *string) (*model.Employee, error)
	Delete(ctx context.Context, id string) error
}

// ShiftTemplateRepository defines the interface for shift template data operations.
type ShiftTemplateRepository interface {
	Create(ctx context.Context, req *model.CreateShiftTemplateRequest) (*model.ShiftTemplate, error)
	GetByID(ctx context.Context, id string) (*model.ShiftTemplate, error)
	List(ctx context.Context) ([]*model.ShiftTemplate, error)
	Update(ctx context.Context, id string, req *model.UpdateShiftTemplateRequest) (*model.ShiftTemplate, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleRepository defines the interface for weekly schedule data
// operations, covering the schedules, their planned shifts, and the live
// assignments on those shifts.
type ScheduleRepository interface {
	Create(ctx context.Context, req *model.CreateWeeklyScheduleRequest, createdBy string) (*model.WeeklySchedule, error)
	GetByID(ctx context.Context, id string) (*model.WeeklySchedule, error)
	List(ctx context.Context, opts model.SchedulesListOptions) ([]*model.WeeklySchedule, error)
	Publish(ctx context.Context, id, publishedBy string) (*model.WeeklySchedule, error)
	Archive(ctx context.Context, id string) (*model.WeeklySchedule, error)
	Delete(ctx context.Context, id string) error
	AddShift(ctx context.Context, scheduleID string, req *model.CreatePlannedShiftRequest) (*model.PlannedShift, error)
	ListShifts(ctx context.Context, scheduleID string) ([]model.PlannedShift, error)
	CountActiveShifts(ctx context.Context, scheduleID string) (int, error)
	GetShiftByID(ctx context.Context, shiftID string) (*model.PlannedShift, error)
	DeleteShift(ctx context.Context, scheduleID, shiftID string) error
	ListAssignmentsForSchedule(ctx context.Context, scheduleID string) ([]model.ShiftAssignment, error)
}

// TimeOffRepository defines the interface for time-off request data operations.
type TimeOffRepository interface {
	Create(ctx context.Context, employeeID string, req *model.CreateTimeOffRequest) (*model.TimeOffRequest, error)
	GetByID(ctx context.Context, id string) (*model.TimeOffRequest, error)
	List(ctx context.Context, employeeID *string, status *model.TimeOffStatus, limit, offset int) ([]*model.TimeOffRequest, error)
	Decide(ctx context.Context, id string, req *model.DecideTimeOffRequest) (*model.TimeOffRequest, error)
	Delete(ctx context.Context, id string) error
}

// PreferenceRepository defines the interface for employee preference data operations.
type PreferenceRepository interface {
	Create(ctx context.Context, employeeID string, req *model.CreatePreferenceRequest) (*model.EmployeePreference, error)
	GetByID(ctx context.Context, id string) (*model.EmployeePreference, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.EmployeePreference, error)
	ListAll(ctx context.Context) ([]model.EmployeePreference, error)
	Delete(ctx context.Context, id string) error
}

// ConstraintRepository defines the interface for global work rule data operations.
type ConstraintRepository interface {
	Create(ctx context.Context, req *model.CreateSystemConstraintRequest) (*model.SystemConstraint, error)
	GetByID(ctx context.Context, id string) (*model.SystemConstraint, error)
	GetByKind(ctx context.Context, kind model.SystemConstraintType) (*model.SystemConstraint, error)
	List(ctx context.Context) ([]model.SystemConstraint, error)
	Update(ctx context.Context, id string, req *model.UpdateSystemConstraintRequest) (*model.SystemConstraint, error)
	Delete(ctx context.Context, id string) error
}

// OptimizationConfigRepository defines the interface for optimization config data operations.
type OptimizationConfigRepository interface {
	Create(ctx context.Context, req *model.CreateOptimizationConfigRequest) (*model.OptimizationConfig, error)
	GetByID(ctx context.Context, id string) (*model.OptimizationConfig, error)
	GetDefault(ctx context.Context) (*model.OptimizationConfig, error)
	List(ctx context.Context) ([]model.OptimizationConfig, error)
	Update(ctx context.Context, id string, req *model.UpdateOptimizationConfigRequest) (*model.OptimizationConfig, error)
	Delete(ctx context.Context, id string) error
}

// DeleteOldJobsParams groups parameters for DeleteOldJobs to keep param count ≤3.
type DeleteOldJobsParams struct {
	Status    model.JobStatus
	MaxAge    time.Duration
	BatchSize int
}

// ReaperRepository defines the interface for job queue cleanup operations.
type ReaperRepository interface {
	// FailStalePendingJobs marks pending jobs older than maxAge as failed.
	// Processes up to batchSize jobs per call to prevent long locks.
	// Returns the number of jobs marked as failed.
	FailStalePendingJobs(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error)

	// DeleteOldJobs deletes jobs with the given status older than maxAge.
	// Processes up to batchSize jobs per call to prevent long locks.
	// Returns the number of jobs deleted.
	DeleteOldJobs(ctx context.Context, params DeleteOldJobsParams) (int64, error)
}

// RunReaperRepository defines the interface for run recovery operations.
type RunReaperRepository interface {
	// FailOrphanedRuns fails running runs whose worker lease has expired.
	// Returns the number of runs failed.
	FailOrphanedRuns(ctx context.Context, batchSize int) (int64, error)

	// FailStalePendingRuns fails pending runs older than maxAge.
	// Returns the number of runs failed.
	FailStalePendingRuns(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error)
}
