package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJobRepo_Integration_CreateAndReserve tests the full flow of creating and reserving jobs.
func TestJobRepo_Integration_CreateAndReserve(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{})

		// Create multiple jobs with different priorities
		jobs := []*model.CreateJobRequest{
			{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(`{"run_id":"low"}`),
				Priority: 25,
			},
			{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(`{"run_id":"high"}`),
				Priority: 75,
			},
			{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(`{"run_id":"medium"}`),
				Priority: 50,
			},
		}

		for _, req := range jobs {
			_, err := repo.Create(context.Background(), req)
			require.NoError(t, err)
		}

		// Reserve jobs and verify they come out in priority order
		reserved1, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.NoError(t, err)
		assert.Equal(t, 75, reserved1.Priority) // Highest priority first

		reserved2, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.NoError(t, err)
		assert.Equal(t, 50, reserved2.Priority) // Medium priority second

		reserved3, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.NoError(t, err)
		assert.Equal(t, 25, reserved3.Priority) // Lowest priority last

		// No more jobs available
		_, err = repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.ErrorIs(t, err, model.ErrNoJobsAvailable)
	})
}

// TestJobRepo_Integration_JobLifecycle tests the complete lifecycle of a job.
func TestJobRepo_Integration_JobLifecycle(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		// Use a fixed time provider to control time for retry delays
		fixedTime := testutil.TestTime()
		timeProvider := NewFixedTimeProvider(fixedTime)
		repo := NewJobRepo(db, RepoConfig{
			RetryDelaySeconds: 5,
			TimeProvider:      timeProvider,
		})

		// 1. Create a job
		req := &model.CreateJobRequest{
			Type:       model.JobTypeOptimize,
			Payload:    json.RawMessage(`{"run_id":"lifecycle"}`),
			MaxRetries: 2,
		}
		job, err := repo.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusPending, job.Status)

		// 2. Reserve the job
		reserved, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.NoError(t, err)
		assert.Equal(t, job.ID, reserved.ID)
		assert.Equal(t, model.JobStatusRunning, reserved.Status)
		assert.NotNil(t, reserved.StartedAt)
		assert.NotNil(t, reserved.LeaseExpiresAt)

		// 3. Extend the lease (heartbeat)
		success, err := repo.Heartbeat(context.Background(), job.ID, 60)
		require.NoError(t, err)
		assert.True(t, success)

		// 4. Fail the job (first attempt)
		success, err = repo.Fail(context.Background(), job.ID, "first failure")
		require.NoError(t, err)
		assert.True(t, success)

		// 5. Job should be back to pending for retry, but it has a retry delay.
		// Advance time beyond the retry delay (5 seconds) to make the job available.
		timeProvider.AddTime(6 * time.Second)

		retryJob, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.NoError(t, err)
		assert.Equal(t, job.ID, retryJob.ID)
		assert.Equal(t, 1, retryJob.RetryCount)
		assert.Equal(t, "first failure", *retryJob.LastError)

		// 6. Complete the job on retry
		success, err = repo.Complete(context.Background(), job.ID)
		require.NoError(t, err)
		assert.True(t, success)

		// 7. Job should no longer be available
		_, err = repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.ErrorIs(t, err, model.ErrNoJobsAvailable)
	})
}

// TestJobRepo_Integration_ConcurrentReservation tests concurrent job reservation.
func TestJobRepo_Integration_ConcurrentReservation(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{})

		// Create a single job
		req := &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{"run_id":"contended"}`),
		}
		job, err := repo.Create(context.Background(), req)
		require.NoError(t, err)

		// Try to reserve the same job concurrently
		results := make(chan *model.Job, 2)
		errors := make(chan error, 2)

		for range 2 {
			go func() {
				reserved, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
				if err != nil {
					errors <- err
				} else {
					results <- reserved
				}
			}()
		}

		// One should succeed, one should fail
		var successCount, errorCount int
		var reservedJob *model.Job

		for range 2 {
			select {
			case job := <-results:
				successCount++
				reservedJob = job
			case err := <-errors:
				errorCount++
				require.ErrorIs(t, err, model.ErrNoJobsAvailable)
			case <-time.After(5 * time.Second):
				t.Fatal("Test timed out")
			}
		}

		assert.Equal(t, 1, successCount, "Exactly one goroutine should succeed")
		assert.Equal(t, 1, errorCount, "Exactly one goroutine should fail")
		if reservedJob != nil {
			assert.Equal(t, job.ID, reservedJob.ID)
		}
	})
}

// TestJobRepo_Integration_Stats tests job statistics.
func TestJobRepo_Integration_Stats(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{})

		// Create jobs with different priorities to control reservation order
		// 2 pending jobs (lowest priorities - won't be reserved)
		for i := range 2 {
			req := &model.CreateJobRequest{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(`{"run_id":"pending"}`),
				Priority: 10 + i, // Low priorities: 10, 11
			}
			_, err := repo.Create(context.Background(), req)
			require.NoError(t, err)
		}

		// 1 running job (medium priority - will be reserved second)
		req := &model.CreateJobRequest{
			Type:     model.JobTypeOptimize,
			Payload:  json.RawMessage(`{"run_id":"running"}`),
			Priority: 40,
		}
		runningJob, err := repo.Create(context.Background(), req)
		require.NoError(t, err)

		// 1 completed job (highest priority - will be reserved first)
		req = &model.CreateJobRequest{
			Type:     model.JobTypeOptimize,
			Payload:  json.RawMessage(`{"run_id":"completed"}`),
			Priority: 50,
		}
		completedJob, err := repo.Create(context.Background(), req)
		require.NoError(t, err)

		// 1 failed job (third highest priority - will be reserved third)
		req = &model.CreateJobRequest{
			Type:       model.JobTypeOptimize,
			Payload:    json.RawMessage(`{"run_id":"failed"}`),
			Priority:   30,
			MaxRetries: 1,
		}
		failedJob, err := repo.Create(context.Background(), req)
		require.NoError(t, err)

		// Process jobs in priority order (highest first)
		// 1. Reserve and complete the completed job (priority 50)
		reserved, err := repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.NoError(t, err)
		require.Equal(t, completedJob.ID, reserved.ID)
		_, err = repo.Complete(context.Background(), reserved.ID)
		require.NoError(t, err)

		// 2. Reserve the running job (priority 40) and leave it running
		reserved, err = repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.NoError(t, err)
		require.Equal(t, runningJob.ID, reserved.ID)

		// 3. Reserve and fail the failed job (priority 30)
		reserved, err = repo.ReserveNext(context.Background(), model.JobTypeOptimize, 30)
		require.NoError(t, err)
		require.Equal(t, failedJob.ID, reserved.ID)
		// With MaxRetries=1, first failure should immediately mark it as failed
		_, err = repo.Fail(context.Background(), reserved.ID, "failure that exceeds max retries")
		require.NoError(t, err)

		// 4. Leave the 2 pending jobs (priorities 10, 11) unreserved

		stats, err := repo.Stats(context.Background(), model.JobTypeOptimize)
		require.NoError(t, err)

		assert.Equal(t, 2, stats.Pending)
		assert.Equal(t, 1, stats.Running)
		assert.Equal(t, 1, stats.Completed)
		assert.Equal(t, 1, stats.Failed)
	})
}

// TestJobRepo_Integration_RunLinkage exercises the run_id link between optimize
// jobs and their scheduling runs: lookup, filtered listing, and cancellation
// cleanup via DeletePendingByRunID.
func TestJobRepo_Integration_RunLinkage(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{})
		ctx := context.Background()

		employeeID := "e1d9c7f2-4f5a-4f3f-9d2b-000000000001"
		scheduleID := "5c2a1b3d-7e8f-4a5b-9c0d-000000000002"
		configID := "9f8e7d6c-5b4a-4938-8271-000000000003"
		runA := "11111111-2222-4333-8444-000000000004"
		runB := "55555555-6666-4777-8888-000000000005"

		// Seed the run fixtures the jobs reference.
		_, err := db.ExecContext(ctx, `
			INSERT INTO employees (id, name, email, password_hash, is_manager)
			VALUES ($1, 'Queue Fixture Manager', 'queue-fixture@rosterd.local', 'not-a-real-hash', TRUE)
		`, employeeID)
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, `
			INSERT INTO weekly_schedules (id, week_start_date, created_by)
			VALUES ($1, '2026-03-02', $2)
		`, scheduleID, employeeID)
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, `
			INSERT INTO optimization_configs
				(id, name, weight_fairness, weight_preferences, weight_cost, weight_coverage, max_runtime_seconds, mip_gap)
			VALUES ($1, 'queue-fixture-config', 0.25, 0.25, 0.25, 0.25, 30, 0.05)
		`, configID)
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, `
			INSERT INTO scheduling_runs (id, schedule_id, config_id)
			VALUES ($1, $2, $3), ($4, $2, $3)
		`, runA, scheduleID, configID, runB)
		require.NoError(t, err)

		// Two jobs for run A (priorities control reservation order), one for run B,
		// and one without a run link.
		jobA1, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:     model.JobTypeOptimize,
			Payload:  json.RawMessage(`{"run_id":"` + runA + `"}`),
			Priority: 80,
			RunID:    &runA,
		})
		require.NoError(t, err)

		jobA2, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:     model.JobTypeOptimize,
			Payload:  json.RawMessage(`{"run_id":"` + runA + `"}`),
			Priority: 20,
			RunID:    &runA,
		})
		require.NoError(t, err)

		jobB, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{"run_id":"` + runB + `"}`),
			RunID:   &runB,
		})
		require.NoError(t, err)

		unlinked, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)
		assert.Nil(t, unlinked.RunID)

		// GetByRunID returns the newest job for the run.
		newest, err := repo.GetByRunID(ctx, runA)
		require.NoError(t, err)
		assert.Equal(t, jobA2.ID, newest.ID)

		_, err = repo.GetByRunID(ctx, "99999999-0000-4000-8000-000000000000")
		require.ErrorIs(t, err, ErrJobNotFound)

		// List filters by run.
		linked, err := repo.List(ctx, &model.JobListOptions{RunID: &runA})
		require.NoError(t, err)
		require.Len(t, linked, 2)
		for _, j := range linked {
			require.NotNil(t, j.RunID)
			assert.Equal(t, runA, *j.RunID)
		}

		// Reserve the high-priority run A job so it holds a lease.
		reserved, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
		require.NoError(t, err)
		require.Equal(t, jobA1.ID, reserved.ID)

		// Cancellation cleanup removes only pending, unleased jobs for the run.
		deleted, err := repo.DeletePendingByRunID(ctx, runA)
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)

		_, err = repo.GetByID(ctx, jobA2.ID)
		require.ErrorIs(t, err, ErrJobNotFound)

		still, err := repo.GetByID(ctx, jobA1.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusRunning, still.Status)

		// A pending job holding an unexpired lease survives cleanup.
		_, err = db.ExecContext(ctx, `
			UPDATE jobs SET lease_expires_at = NOW() + INTERVAL '60 seconds' WHERE id = $1
		`, jobB.ID)
		require.NoError(t, err)

		deleted, err = repo.DeletePendingByRunID(ctx, runB)
		require.NoError(t, err)
		assert.Equal(t, 0, deleted)

		_, err = db.ExecContext(ctx, `
			UPDATE jobs SET lease_expires_at = NOW() - INTERVAL '60 seconds' WHERE id = $1
		`, jobB.ID)
		require.NoError(t, err)

		deleted, err = repo.DeletePendingByRunID(ctx, runB)
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)
	})
}
