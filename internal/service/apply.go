package service

import (
	"context"
	"log/slog"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
)

// ApplyServiceOptions groups dependencies for ApplyService.
type ApplyServiceOptions struct {
	Runs   core.RunRepository // Required: run and solution store
	Logger *slog.Logger       // Optional: structured logger
}

// ApplyService turns a completed run's solution rows into live assignments.
// Applying never touches the run itself, so the same run can be re-applied;
// each apply replaces the live assignments on the shifts the run covers.
type ApplyService struct {
	runs   core.RunRepository
	logger *slog.Logger
}

// NewApplyService constructs a new ApplyService.
func NewApplyService(opts ApplyServiceOptions) *ApplyService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplyService{
		runs:   opts.Runs,
		logger: logger.With("component", "apply_service"),
	}
}

// Apply validates that the run holds a usable solution and replaces the live
// assignments on every shift the solution covers, in one transaction.
func (s *ApplyService) Apply(ctx context.Context, runID string) (*model.ApplyResult, error) {
	run, err := s.runs.GetRunByID(ctx, runID)
	if err != nil {
		return nil, err
	}

	if run.Status != model.RunStatusCompleted {
		return nil, apperrors.Validationf(
			"run %s cannot be applied: status is %s, want completed", run.ID, run.Status)
	}
	if run.SolverStatus == nil || !run.SolverStatus.Solved() {
		status := "none"
		if run.SolverStatus != nil {
			status = string(*run.SolverStatus)
		}
		return nil, apperrors.Validationf(
			"run %s has no applicable solution: solver status is %s", run.ID, status)
	}

	result, err := s.runs.ApplyRunSolutions(ctx, runID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "run solutions applied",
		"run_id", runID,
		"shifts_affected", result.ShiftsAffected,
		"assignments_created", result.AssignmentsCreated,
		"assignments_deleted", result.AssignmentsDeleted,
		"skipped_solutions", result.SkippedSolutions,
	)
	return result, nil
}
