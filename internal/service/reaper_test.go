package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/rosterd/rosterd/config"
	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockJobReaperRepo is a simple mock implementation for testing.
type mockJobReaperRepo struct {
	failStalePendingJobsCalled int
	failStalePendingJobsCount  int64
	failStalePendingJobsError  error
	failStalePendingJobsMaxAge time.Duration

	deleteOldJobsCalled   int
	deleteOldJobsCount    int64
	deleteOldJobsError    error
	deleteOldJobsStatuses []model.JobStatus
}

func (m *mockJobReaperRepo) FailStalePendingJobs(
	ctx context.Context,
	maxAge time.Duration,
	batchSize int,
) (int64, error) {
	m.failStalePendingJobsCalled++
	m.failStalePendingJobsMaxAge = maxAge
	if m.failStalePendingJobsError != nil {
		return 0, m.failStalePendingJobsError
	}
	// Return count on first call, then 0 to simulate batch exhaustion
	if m.failStalePendingJobsCalled == 1 {
		return m.failStalePendingJobsCount, nil
	}
	return 0, nil
}

func (m *mockJobReaperRepo) DeleteOldJobs(
	ctx context.Context,
	params core.DeleteOldJobsParams,
) (int64, error) {
	m.deleteOldJobsCalled++
	m.deleteOldJobsStatuses = append(m.deleteOldJobsStatuses, params.Status)
	if m.deleteOldJobsError != nil {
		return 0, m.deleteOldJobsError
	}
	// Return count on odd calls (1st, 3rd, 5th...), then 0 on even calls to simulate batch exhaustion
	// This allows multiple cleanup operations (completed, failed) to each get their batch
	if m.deleteOldJobsCalled%2 == 1 {
		return m.deleteOldJobsCount, nil
	}
	return 0, nil
}

// mockRunReaperRepo is a simple mock implementation for testing.
type mockRunReaperRepo struct {
	failOrphanedRunsCalled int
	failOrphanedRunsCount  int64
	failOrphanedRunsError  error

	failStalePendingRunsCalled int
	failStalePendingRunsCount  int64
	failStalePendingRunsError  error
	failStalePendingRunsMaxAge time.Duration
}

func (m *mockRunReaperRepo) FailOrphanedRuns(ctx context.Context, batchSize int) (int64, error) {
	m.failOrphanedRunsCalled++
	if m.failOrphanedRunsError != nil {
		return 0, m.failOrphanedRunsError
	}
	// Return count on first call, then 0 to simulate batch exhaustion
	if m.failOrphanedRunsCalled == 1 {
		return m.failOrphanedRunsCount, nil
	}
	return 0, nil
}

func (m *mockRunReaperRepo) FailStalePendingRuns(
	ctx context.Context,
	maxAge time.Duration,
	batchSize int,
) (int64, error) {
	m.failStalePendingRunsCalled++
	m.failStalePendingRunsMaxAge = maxAge
	if m.failStalePendingRunsError != nil {
		return 0, m.failStalePendingRunsError
	}
	// Return count on first call, then 0 to simulate batch exhaustion
	if m.failStalePendingRunsCalled == 1 {
		return m.failStalePendingRunsCount, nil
	}
	return 0, nil
}

func testReaperConfig() config.ReaperConfig {
	return config.ReaperConfig{
		Interval:         5 * time.Minute,
		PendingMaxAge:    1 * time.Hour,
		RunPendingMaxAge: 1 * time.Hour,
		CompletedMaxAge:  7 * 24 * time.Hour,
		FailedMaxAge:     7 * 24 * time.Hour,
		BatchSize:        1000,
	}
}

func TestNewReaperService(t *testing.T) {
	t.Run("creates service with valid options", func(t *testing.T) {
		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   &mockJobReaperRepo{},
			Runs:   &mockRunReaperRepo{},
			Config: testReaperConfig(),
			Logger: slog.Default(),
		})

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("returns error when jobs repo is nil", func(t *testing.T) {
		_, err := NewReaperService(ReaperServiceOptions{
			Jobs:   nil,
			Runs:   &mockRunReaperRepo{},
			Config: testReaperConfig(),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "ReaperRepository is required")
	})

	t.Run("returns error when runs repo is nil", func(t *testing.T) {
		_, err := NewReaperService(ReaperServiceOptions{
			Jobs:   &mockJobReaperRepo{},
			Runs:   nil,
			Config: testReaperConfig(),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "RunReaperRepository is required")
	})
}

func TestReaperService_runCleanup(t *testing.T) {
	t.Run("runs all cleanup operations successfully", func(t *testing.T) {
		jobs := &mockJobReaperRepo{
			failStalePendingJobsCount: 5,
			deleteOldJobsCount:        10,
		}
		runs := &mockRunReaperRepo{
			failOrphanedRunsCount:     2,
			failStalePendingRunsCount: 1,
		}

		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   jobs,
			Runs:   runs,
			Config: testReaperConfig(),
		})
		require.NoError(t, err)

		ctx := context.Background()
		err = svc.runCleanup(ctx)

		require.NoError(t, err)
		// Each operation is called twice: once returning count, once returning 0
		assert.Equal(t, 2, runs.failOrphanedRunsCalled)
		assert.Equal(t, 2, runs.failStalePendingRunsCalled)
		assert.Equal(t, 2, jobs.failStalePendingJobsCalled)
		// DeleteOldJobs is called twice per status (completed, failed): 2 * 2 = 4
		assert.Equal(t, 4, jobs.deleteOldJobsCalled)
		assert.Equal(t, []model.JobStatus{
			model.JobStatusCompleted,
			model.JobStatusCompleted,
			model.JobStatusFailed,
			model.JobStatusFailed,
		}, jobs.deleteOldJobsStatuses)
	})

	t.Run("continues on partial errors", func(t *testing.T) {
		jobs := &mockJobReaperRepo{
			failStalePendingJobsError: errors.New("fail error"),
			deleteOldJobsCount:        10,
		}
		runs := &mockRunReaperRepo{
			failOrphanedRunsCount: 2,
		}

		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   jobs,
			Runs:   runs,
			Config: testReaperConfig(),
		})
		require.NoError(t, err)

		ctx := context.Background()
		err = svc.runCleanup(ctx)

		// Should return error but still call all cleanup methods
		require.Error(t, err)
		assert.Equal(t, 2, runs.failOrphanedRunsCalled)
		assert.Equal(t, 2, runs.failStalePendingRunsCalled)
		// FailStalePendingJobs called once (returns error immediately)
		assert.Equal(t, 1, jobs.failStalePendingJobsCalled)
		// DeleteOldJobs called twice per status (completed, failed): 2 * 2 = 4
		assert.Equal(t, 4, jobs.deleteOldJobsCalled)
	})
}

func TestReaperService_Run(t *testing.T) {
	t.Run("stops on context cancellation", func(t *testing.T) {
		jobs := &mockJobReaperRepo{}
		runs := &mockRunReaperRepo{}
		cfg := testReaperConfig()
		cfg.Interval = 100 * time.Millisecond

		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   jobs,
			Runs:   runs,
			Config: cfg,
		})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())

		// Run in goroutine
		done := make(chan error, 1)
		go func() {
			done <- svc.Run(ctx)
		}()

		// Wait a bit to ensure at least one cleanup runs
		time.Sleep(150 * time.Millisecond)

		// Cancel context
		cancel()

		// Wait for Run to return
		select {
		case err := <-done:
			// Should return nil on graceful shutdown
			require.NoError(t, err)
		case <-time.After(1 * time.Second):
			t.Fatal("Run did not stop after context cancellation")
		}

		// Verify cleanup was called at least once (initial + maybe one tick)
		assert.GreaterOrEqual(t, jobs.failStalePendingJobsCalled, 1)
		assert.GreaterOrEqual(t, runs.failOrphanedRunsCalled, 1)
	})

	t.Run("continues running despite cleanup errors", func(t *testing.T) {
		jobs := &mockJobReaperRepo{
			failStalePendingJobsError: errors.New("test error"),
		}
		runs := &mockRunReaperRepo{}
		cfg := testReaperConfig()
		cfg.Interval = 50 * time.Millisecond

		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   jobs,
			Runs:   runs,
			Config: cfg,
		})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		err = svc.Run(ctx)

		// Should return context deadline exceeded, not the cleanup error
		require.Error(t, err)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		// Verify cleanup was called multiple times despite errors
		assert.GreaterOrEqual(t, jobs.failStalePendingJobsCalled, 2)
	})
}

func TestReaperService_failOrphanedRuns(t *testing.T) {
	t.Run("drains expired leases in batches", func(t *testing.T) {
		runs := &mockRunReaperRepo{
			failOrphanedRunsCount: 3,
		}

		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   &mockJobReaperRepo{},
			Runs:   runs,
			Config: testReaperConfig(),
		})
		require.NoError(t, err)

		ctx := context.Background()
		count, err := svc.failOrphanedRuns(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		// Called twice: once returning count, once returning 0
		assert.Equal(t, 2, runs.failOrphanedRunsCalled)
	})
}

func TestReaperService_failStalePendingRuns(t *testing.T) {
	t.Run("calls repo with correct max age", func(t *testing.T) {
		runs := &mockRunReaperRepo{
			failStalePendingRunsCount: 4,
		}
		cfg := testReaperConfig()
		cfg.RunPendingMaxAge = 2 * time.Hour

		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   &mockJobReaperRepo{},
			Runs:   runs,
			Config: cfg,
		})
		require.NoError(t, err)

		ctx := context.Background()
		count, err := svc.failStalePendingRuns(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.Equal(t, 2*time.Hour, runs.failStalePendingRunsMaxAge)
	})
}

func TestReaperService_failStalePendingJobs(t *testing.T) {
	t.Run("calls repo with correct max age", func(t *testing.T) {
		jobs := &mockJobReaperRepo{
			failStalePendingJobsCount: 3,
		}
		cfg := testReaperConfig()
		cfg.PendingMaxAge = 2 * time.Hour

		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   jobs,
			Runs:   &mockRunReaperRepo{},
			Config: cfg,
		})
		require.NoError(t, err)

		ctx := context.Background()
		count, err := svc.failStalePendingJobs(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.Equal(t, 2*time.Hour, jobs.failStalePendingJobsMaxAge)
		// Called twice: once returning count, once returning 0
		assert.Equal(t, 2, jobs.failStalePendingJobsCalled)
	})
}

func TestReaperService_deleteOldCompletedJobs(t *testing.T) {
	t.Run("calls repo with correct status and max age", func(t *testing.T) {
		jobs := &mockJobReaperRepo{
			deleteOldJobsCount: 5,
		}

		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   jobs,
			Runs:   &mockRunReaperRepo{},
			Config: testReaperConfig(),
		})
		require.NoError(t, err)

		ctx := context.Background()
		count, err := svc.deleteOldCompletedJobs(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
		// Called twice: once returning count, once returning 0
		assert.Equal(t, 2, jobs.deleteOldJobsCalled)
		assert.Equal(t, model.JobStatusCompleted, jobs.deleteOldJobsStatuses[0])
	})
}

func TestReaperService_deleteOldFailedJobs(t *testing.T) {
	t.Run("calls repo with correct status and max age", func(t *testing.T) {
		jobs := &mockJobReaperRepo{
			deleteOldJobsCount: 8,
		}

		svc, err := NewReaperService(ReaperServiceOptions{
			Jobs:   jobs,
			Runs:   &mockRunReaperRepo{},
			Config: testReaperConfig(),
		})
		require.NoError(t, err)

		ctx := context.Background()
		count, err := svc.deleteOldFailedJobs(ctx)

		require.NoError(t, err)
		assert.Equal(t, int64(8), count)
		// Called twice: once returning count, once returning 0
		assert.Equal(t, 2, jobs.deleteOldJobsCalled)
		assert.Equal(t, model.JobStatusFailed, jobs.deleteOldJobsStatuses[0])
	})
}
