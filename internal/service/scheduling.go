// Package service provides the business logic services of the rosterd
// scheduling system.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/data"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
	"github.com/rosterd/rosterd/internal/observability/metrics"
	"github.com/rosterd/rosterd/internal/observability/statsd"
	"github.com/rosterd/rosterd/internal/optimize"
)

const (
	// defaultRunLease is how long a worker's claim on a run stays valid
	// without being extended.
	defaultRunLease = 10 * time.Minute

	// solveLeaseSlack pads the lease extension granted for the solve itself,
	// covering snapshot loading and solution persistence around it.
	solveLeaseSlack = time.Minute
)

// SchedulingServiceOptions groups dependencies for SchedulingService.
type SchedulingServiceOptions struct {
	Runs         core.RunRepository                // Required: run and solution store
	Schedules    core.ScheduleRepository           // Required: trigger validation, metric scope
	Employees    core.EmployeeRepository           // Required: metric scope
	Configs      core.OptimizationConfigRepository // Required: configuration resolution
	Snapshots    core.SnapshotRepository           // Required: worker snapshot loading
	Jobs         core.JobRepository                // Required: dispatch queue
	Solver       optimize.Solver                   // Required: optimization back-end
	Applier      *ApplyService                     // Required: solution applier
	MetricsCache *core.RunMetricsCache             // Optional: terminal-run metrics cache
	StatsSink    statsd.Sink                       // Optional: lifecycle metrics
	RunLease     time.Duration                     // Optional: worker claim lease, defaults to 10m
	Logger       *slog.Logger                      // Optional: structured logger
}

// SchedulingService orchestrates optimization runs: it validates and
// persists trigger requests, dispatches them through the job queue, executes
// claimed runs against the solver, and serves runs with derived metrics.
//
// Triggering and executing are deliberately split: Trigger returns as soon
// as the pending run and its queue job exist, and ExecuteRun is invoked by a
// worker with its own session, never from a request context.
type SchedulingService struct {
	runs      core.RunRepository
	schedules core.ScheduleRepository
	employees core.EmployeeRepository
	configs   core.OptimizationConfigRepository
	snapshots core.SnapshotRepository
	jobs      core.JobRepository
	solver    optimize.Solver
	applier   *ApplyService
	cache     *core.RunMetricsCache
	stats     statsd.Sink
	runLease  time.Duration
	logger    *slog.Logger
}

// NewSchedulingService constructs a new SchedulingService.
func NewSchedulingService(opts SchedulingServiceOptions) (*SchedulingService, error) {
	switch {
	case opts.Runs == nil:
		return nil, errors.New("RunRepository is required")
	case opts.Schedules == nil:
		return nil, errors.New("ScheduleRepository is required")
	case opts.Employees == nil:
		return nil, errors.New("EmployeeRepository is required")
	case opts.Configs == nil:
		return nil, errors.New("OptimizationConfigRepository is required")
	case opts.Snapshots == nil:
		return nil, errors.New("SnapshotRepository is required")
	case opts.Jobs == nil:
		return nil, errors.New("JobRepository is required")
	case opts.Solver == nil:
		return nil, errors.New("Solver is required")
	case opts.Applier == nil:
		return nil, errors.New("ApplyService is required")
	}

	lease := opts.RunLease
	if lease <= 0 {
		lease = defaultRunLease
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SchedulingService{
		runs:      opts.Runs,
		schedules: opts.Schedules,
		employees: opts.Employees,
		configs:   opts.Configs,
		snapshots: opts.Snapshots,
		jobs:      opts.Jobs,
		solver:    opts.Solver,
		applier:   opts.Applier,
		cache:     opts.MetricsCache,
		stats:     opts.StatsSink,
		runLease:  lease,
		logger:    logger.With("component", "scheduling_service"),
	}, nil
}

// Trigger validates the scope, persists a pending run, and enqueues its
// optimize job. It returns as soon as the run is dispatched; callers poll
// the run endpoints for the outcome.
func (s *SchedulingService) Trigger(ctx context.Context, scheduleID string, configID *string) (*model.SchedulingRun, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.resolveConfig(ctx, configID)
	if err != nil {
		return nil, err
	}

	run, err := s.runs.CreateRun(ctx, schedule.ID, cfg.ID)
	if err != nil {
		return nil, err
	}

	if err := s.enqueueRun(ctx, run.ID); err != nil {
		if _, failErr := s.runs.FailRun(ctx, run.ID, fmt.Sprintf("dispatch failed: %v", err)); failErr != nil {
			s.logger.ErrorContext(ctx, "failed to record dispatch failure",
				"run_id", run.ID, "error", failErr)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "dispatch optimize job")
	}

	s.logger.InfoContext(ctx, "scheduling run triggered",
		"run_id", run.ID,
		"schedule_id", schedule.ID,
		"config_id", cfg.ID,
	)
	metrics.EmitRunLifecycle(s.stats, metrics.RunMetric{
		Transition: "triggered",
		Result:     metrics.ResultSuccess,
	})
	return run, nil
}

// resolveConfig picks the explicit configuration when one is named,
// otherwise the default one.
func (s *SchedulingService) resolveConfig(ctx context.Context, configID *string) (*model.OptimizationConfig, error) {
	if configID != nil && *configID != "" {
		return s.configs.GetByID(ctx, *configID)
	}
	cfg, err := s.configs.GetDefault(ctx)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("no configuration: pass config_id or mark one configuration as default")
		}
		return nil, err
	}
	return cfg, nil
}

// enqueueRun creates the queue job that carries the run to a worker.
func (s *SchedulingService) enqueueRun(ctx context.Context, runID string) error {
	payload, err := json.Marshal(model.OptimizePayload{RunID: runID})
	if err != nil {
		return fmt.Errorf("marshal optimize payload: %w", err)
	}
	_, err = s.jobs.Create(ctx, &model.CreateJobRequest{
		Type:    model.JobTypeOptimize,
		Payload: payload,
		RunID:   &runID,
	})
	if err != nil {
		return fmt.Errorf("enqueue optimize job: %w", err)
	}
	return nil
}

// GetRunWithMetrics returns one run together with its derived metrics.
func (s *SchedulingService) GetRunWithMetrics(ctx context.Context, runID string) (*model.RunWithMetrics, error) {
	run, err := s.runs.GetRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	m, err := s.metricsFor(ctx, run, nil)
	if err != nil {
		return nil, err
	}
	return &model.RunWithMetrics{SchedulingRun: *run, Metrics: *m}, nil
}

// ListRuns returns a schedule's runs with metrics, newest first.
func (s *SchedulingService) ListRuns(ctx context.Context, scheduleID string) ([]model.RunWithMetrics, error) {
	if _, err := s.schedules.GetByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	runs, err := s.runs.ListRunsBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	out := make([]model.RunWithMetrics, 0, len(runs))
	if len(runs) == 0 {
		return out, nil
	}

	// The scope denominators are shared by every run of the schedule.
	scope, err := s.loadScope(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		m, err := s.metricsFor(ctx, &runs[i], scope)
		if err != nil {
			return nil, err
		}
		out = append(out, model.RunWithMetrics{SchedulingRun: runs[i], Metrics: *m})
	}
	return out, nil
}

// Apply turns a completed run's solutions into live assignments.
func (s *SchedulingService) Apply(ctx context.Context, runID string) (*model.ApplyResult, error) {
	return s.applier.Apply(ctx, runID)
}

// QueueStats reports the optimize queue depth by job status.
func (s *SchedulingService) QueueStats(ctx context.Context) (*model.JobStats, error) {
	return s.jobs.Stats(ctx, model.JobTypeOptimize)
}

// CancelRun cancels a run no worker has picked up yet and drops its pending
// queue jobs. A job claimed in between is harmless: the worker's claim on a
// cancelled run no-ops.
func (s *SchedulingService) CancelRun(ctx context.Context, runID string) (*model.SchedulingRun, error) {
	run, err := s.runs.CancelRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	if _, err := s.jobs.DeletePendingByRunID(ctx, runID); err != nil {
		s.logger.WarnContext(ctx, "failed to drop pending jobs for cancelled run",
			"run_id", runID, "error", err)
	}
	s.logger.InfoContext(ctx, "scheduling run cancelled", "run_id", runID)
	return run, nil
}

// ExecuteRun performs one optimization run end to end: claim, snapshot,
// solve, persist. It is the worker entry point and is safe to call more than
// once for the same run; a run already claimed or settled is left alone and
// the call reports success so the queue job is not retried.
//
// A non-nil error means the run could not be carried to a terminal state by
// this invocation; the run row is marked failed whenever that is still
// possible.
func (s *SchedulingService) ExecuteRun(ctx context.Context, runID string) error {
	run, err := s.runs.MarkRunning(ctx, runID, s.runLease)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRunNotFound):
			s.logger.WarnContext(ctx, "optimize job references a missing run", "run_id", runID)
			return nil
		case errors.Is(err, data.ErrRunStateConflict):
			var status model.SchedulingRunStatus
			if run != nil {
				status = run.Status
			}
			s.logger.InfoContext(ctx, "run already claimed or settled, skipping",
				"run_id", runID, "status", status)
			return nil
		default:
			return fmt.Errorf("claim run %s: %w", runID, err)
		}
	}

	started := time.Now()
	s.logger.InfoContext(ctx, "scheduling run started",
		"run_id", run.ID,
		"schedule_id", run.ScheduleID,
		"config_id", run.ConfigID,
	)
	metrics.EmitRunLifecycle(s.stats, metrics.RunMetric{
		Transition: "started",
		Result:     metrics.ResultSuccess,
	})

	snapshot, err := s.snapshots.LoadRunContext(ctx, run.ScheduleID, &run.ConfigID)
	if err != nil {
		return s.failRun(ctx, run.ID, fmt.Errorf("load run context: %w", err))
	}

	params := optimize.SolveParamsFromConfig(snapshot.Config)
	if err := s.extendLeaseForSolve(ctx, run.ID, params.MaxRuntime); err != nil {
		return s.failRun(ctx, run.ID, fmt.Errorf("extend run lease: %w", err))
	}

	problem := optimize.BuildProblem(snapshot)
	result, err := s.solver.Solve(ctx, problem, params)
	if err != nil {
		return s.failRun(ctx, run.ID, fmt.Errorf("solve: %w", err))
	}

	return s.settleRun(ctx, run, result, started)
}

// extendLeaseForSolve stretches the claim lease when the configured solver
// budget outlasts it, so the reaper does not orphan a healthy long solve.
func (s *SchedulingService) extendLeaseForSolve(ctx context.Context, runID string, budget time.Duration) error {
	needed := budget + solveLeaseSlack
	if needed <= s.runLease {
		return nil
	}
	return s.runs.UpdateLease(ctx, runID, needed)
}

// settleRun records the solver outcome. Every solver verdict completes the
// run, including infeasible and error ones; the run only fails when the
// outcome cannot be persisted. The writes run detached from the caller's
// cancellation so a worker shutdown mid-solve still leaves a settled run.
func (s *SchedulingService) settleRun(
	ctx context.Context,
	run *model.SchedulingRun,
	result *optimize.Result,
	started time.Time,
) error {
	writeCtx := context.WithoutCancel(ctx)

	if result.Status.Solved() && len(result.Assignments) > 0 {
		if _, err := s.runs.InsertSolutions(writeCtx, run.ID, result.Assignments); err != nil {
			return s.failRun(ctx, run.ID, fmt.Errorf("persist solutions: %w", err))
		}
	}

	completion := model.RunCompletion{
		SolverStatus:     result.Status,
		ObjectiveValue:   result.ObjectiveValue,
		RuntimeSeconds:   result.RuntimeSeconds,
		MIPGap:           result.MIPGap,
		TotalAssignments: len(result.Assignments),
	}
	if result.Err != "" {
		msg := result.Err
		completion.ErrorMessage = &msg
	}

	if _, err := s.runs.CompleteRun(writeCtx, run.ID, completion); err != nil {
		if errors.Is(err, data.ErrRunStateConflict) {
			s.logger.WarnContext(ctx, "run settled elsewhere before completion", "run_id", run.ID)
			return nil
		}
		return fmt.Errorf("complete run %s: %w", run.ID, err)
	}

	if err := s.cache.Invalidate(writeCtx, run.ID); err != nil {
		s.logger.WarnContext(ctx, "run metrics cache invalidation failed",
			"run_id", run.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "scheduling run completed",
		"run_id", run.ID,
		"solver_status", result.Status,
		"assignments", len(result.Assignments),
		"runtime_seconds", result.RuntimeSeconds,
	)
	metrics.EmitRunLifecycle(s.stats, metrics.RunMetric{
		Transition:    "completed",
		SolverStatus:  string(result.Status),
		Result:        metrics.ResultSuccess,
		Duration:      time.Since(started),
		Assignments:   len(result.Assignments),
		SolverSeconds: result.RuntimeSeconds,
		MIPGap:        result.MIPGap,
	})
	return nil
}

// failRun marks the run failed with the fault and passes the fault through,
// so the queue job lands in failed as well.
func (s *SchedulingService) failRun(ctx context.Context, runID string, cause error) error {
	if _, err := s.runs.FailRun(context.WithoutCancel(ctx), runID, cause.Error()); err != nil {
		if errors.Is(err, data.ErrRunStateConflict) {
			s.logger.WarnContext(ctx, "run settled elsewhere before failure could be recorded",
				"run_id", runID, "cause", cause)
			return cause
		}
		s.logger.ErrorContext(ctx, "failed to mark run failed",
			"run_id", runID, "error", err, "cause", cause)
		return cause
	}

	s.logger.ErrorContext(ctx, "scheduling run failed", "run_id", runID, "error", cause)
	metrics.EmitRunLifecycle(s.stats, metrics.RunMetric{
		Transition: "failed",
		Result:     metrics.ResultError,
	})
	return cause
}

// runScope carries the metric denominators shared by every run of one
// schedule: how many shifts were in the optimizer's scope and how large the
// active workforce is.
type runScope struct {
	ShiftsTotal    int
	EmployeesTotal int
}

// loadScope fetches the metric denominators for a schedule.
func (s *SchedulingService) loadScope(ctx context.Context, scheduleID string) (*runScope, error) {
	shifts, err := s.schedules.CountActiveShifts(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	employees, err := s.employees.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &runScope{ShiftsTotal: shifts, EmployeesTotal: employees}, nil
}

// metricsFor derives a run's metrics from its solution rows, serving
// terminal runs from the cache when possible. A nil scope is loaded on
// demand; list endpoints pass a shared one.
func (s *SchedulingService) metricsFor(
	ctx context.Context,
	run *model.SchedulingRun,
	scope *runScope,
) (*model.RunMetrics, error) {
	if run.Status.Terminal() {
		cached, hit, err := s.cache.Get(ctx, run.ID)
		if err != nil {
			s.logger.WarnContext(ctx, "run metrics cache read failed",
				"run_id", run.ID, "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	if scope == nil {
		loaded, err := s.loadScope(ctx, run.ScheduleID)
		if err != nil {
			return nil, err
		}
		scope = loaded
	}

	solutions, err := s.runs.ListSolutionsByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}

	m := core.ComputeRunMetrics(solutions, scope.ShiftsTotal, scope.EmployeesTotal)
	if run.Status.Terminal() {
		if err := s.cache.Set(ctx, run.ID, m); err != nil {
			s.logger.WarnContext(ctx, "run metrics cache write failed",
				"run_id", run.ID, "error", err)
		}
	}
	return &m, nil
}
