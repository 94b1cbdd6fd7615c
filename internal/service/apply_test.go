package service

import (
	"context"
	"testing"

	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func solvedRun(solverStatus model.SolverStatus) *model.SchedulingRun {
	run := testRun(model.RunStatusCompleted)
	run.SolverStatus = &solverStatus
	return run
}

func TestApplyService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a completed solved run", func(t *testing.T) {
		runs := &mockRunRepo{}
		svc := NewApplyService(ApplyServiceOptions{Runs: runs})

		runs.On("GetRunByID", ctx, testRunID).Return(solvedRun(model.SolverStatusOptimal), nil)
		runs.On("ApplyRunSolutions", ctx, testRunID).Return(&model.ApplyResult{
			RunID:              testRunID,
			ShiftsAffected:     4,
			AssignmentsCreated: 6,
			AssignmentsDeleted: 2,
		}, nil)

		result, err := svc.Apply(ctx, testRunID)

		require.NoError(t, err)
		assert.Equal(t, 4, result.ShiftsAffected)
		assert.Equal(t, 6, result.AssignmentsCreated)
		runs.AssertExpectations(t)
	})

	t.Run("accepts a feasible sub-optimal run", func(t *testing.T) {
		runs := &mockRunRepo{}
		svc := NewApplyService(ApplyServiceOptions{Runs: runs})

		runs.On("GetRunByID", ctx, testRunID).Return(solvedRun(model.SolverStatusFeasible), nil)
		runs.On("ApplyRunSolutions", ctx, testRunID).Return(&model.ApplyResult{RunID: testRunID}, nil)

		_, err := svc.Apply(ctx, testRunID)

		require.NoError(t, err)
		runs.AssertExpectations(t)
	})

	t.Run("rejects a run that is not completed", func(t *testing.T) {
		runs := &mockRunRepo{}
		svc := NewApplyService(ApplyServiceOptions{Runs: runs})

		runs.On("GetRunByID", ctx, testRunID).Return(testRun(model.RunStatusRunning), nil)

		_, err := svc.Apply(ctx, testRunID)

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "cannot be applied")
		runs.AssertNotCalled(t, "ApplyRunSolutions", mock.Anything, mock.Anything)
	})

	t.Run("rejects a completed run without a usable solution", func(t *testing.T) {
		for _, status := range []model.SolverStatus{
			model.SolverStatusInfeasible,
			model.SolverStatusNoSolutionFound,
			model.SolverStatusError,
		} {
			runs := &mockRunRepo{}
			svc := NewApplyService(ApplyServiceOptions{Runs: runs})

			runs.On("GetRunByID", ctx, testRunID).Return(solvedRun(status), nil)

			_, err := svc.Apply(ctx, testRunID)

			require.Error(t, err, "solver status %s", status)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), "no applicable solution")
			runs.AssertNotCalled(t, "ApplyRunSolutions", mock.Anything, mock.Anything)
		}
	})

	t.Run("rejects a completed run with no solver verdict", func(t *testing.T) {
		runs := &mockRunRepo{}
		svc := NewApplyService(ApplyServiceOptions{Runs: runs})

		runs.On("GetRunByID", ctx, testRunID).Return(testRun(model.RunStatusCompleted), nil)

		_, err := svc.Apply(ctx, testRunID)

		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "solver status is none")
	})

	t.Run("propagates a missing run", func(t *testing.T) {
		runs := &mockRunRepo{}
		svc := NewApplyService(ApplyServiceOptions{Runs: runs})

		runs.On("GetRunByID", ctx, "nope").
			Return(nil, apperrors.NotFound("scheduling run not found"))

		_, err := svc.Apply(ctx, "nope")

		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
