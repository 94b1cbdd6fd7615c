package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rosterd/rosterd/internal/data/pgxutil"
	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nonexistentJobID = "00000000-0000-0000-0000-000000000000"

func TestJobRepo_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := NewJobRepo(db, RepoConfig{})
	ctx := context.Background()

	tests := []struct {
		name   string
		req    *model.CreateJobRequest
		errMsg string
		verify func(t *testing.T, job *model.Job)
	}{
		{
			name: "creates optimize job",
			req: &model.CreateJobRequest{
				Type:       model.JobTypeOptimize,
				Payload:    json.RawMessage(`{"run_id":"0b7e5f0a-9a3e-4c10-8c8c-51f2a64be2da"}`),
				Priority:   50,
				MaxRetries: 5,
			},
			verify: func(t *testing.T, job *model.Job) {
				assert.NotEmpty(t, job.ID)
				assert.Equal(t, model.JobTypeOptimize, job.Type)
				assert.Equal(t, model.JobStatusPending, job.Status)
				assert.Equal(t, 50, job.Priority)
				assert.Equal(t, 5, job.MaxRetries)
				assert.JSONEq(t, `{"run_id":"0b7e5f0a-9a3e-4c10-8c8c-51f2a64be2da"}`, string(job.Payload))
				assert.Zero(t, job.RetryCount)
				assert.Nil(t, job.StartedAt)
				assert.Nil(t, job.CompletedAt)
				assert.Nil(t, job.LeaseExpiresAt)
			},
		},
		{
			name: "applies default max retries",
			req: &model.CreateJobRequest{
				Type:    model.JobTypeOptimize,
				Payload: json.RawMessage(`{}`),
			},
			verify: func(t *testing.T, job *model.Job) {
				assert.Equal(t, 3, job.MaxRetries)
			},
		},
		{
			name: "honors explicit scheduled_at",
			req: &model.CreateJobRequest{
				Type:        model.JobTypeOptimize,
				Payload:     json.RawMessage(`{}`),
				ScheduledAt: timePtr(time.Date(2030, 6, 2, 8, 0, 0, 0, time.UTC)),
			},
			verify: func(t *testing.T, job *model.Job) {
				assert.True(t, job.ScheduledAt.Equal(time.Date(2030, 6, 2, 8, 0, 0, 0, time.UTC)))
			},
		},
		{
			name: "accepts boundary priority",
			req: &model.CreateJobRequest{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(`{}`),
				Priority: 100,
			},
			verify: func(t *testing.T, job *model.Job) {
				assert.Equal(t, 100, job.Priority)
			},
		},
		{
			name:   "rejects unknown job type",
			req:    &model.CreateJobRequest{Type: "publish", Payload: json.RawMessage(`{}`)},
			errMsg: "invalid job type",
		},
		{
			name:   "rejects missing payload",
			req:    &model.CreateJobRequest{Type: model.JobTypeOptimize},
			errMsg: "payload is required",
		},
		{
			name: "rejects priority above range",
			req: &model.CreateJobRequest{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(`{}`),
				Priority: 101,
			},
			errMsg: "priority must be between 0 and 100",
		},
		{
			name: "rejects negative priority",
			req: &model.CreateJobRequest{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(`{}`),
				Priority: -1,
			},
			errMsg: "priority must be between 0 and 100",
		},
		{
			name: "rejects negative max retries",
			req: &model.CreateJobRequest{
				Type:       model.JobTypeOptimize,
				Payload:    json.RawMessage(`{}`),
				MaxRetries: -1,
			},
			errMsg: "max retries must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := repo.Create(ctx, tt.req)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, job)
			if tt.verify != nil {
				tt.verify(t, job)
			}
		})
	}

	t.Run("rejects nil request", func(t *testing.T) {
		_, err := repo.Create(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "create job request is required")
	})
}

func TestJobRepo_CreateInTx(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := NewJobRepo(db, RepoConfig{})
	ctx := context.Background()

	t.Run("requires a transaction", func(t *testing.T) {
		_, err := repo.CreateInTx(ctx, nil, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{}`),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "transaction is required")
	})

	t.Run("commits with the surrounding transaction", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		job, err := repo.CreateInTx(ctx, tx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusPending, got.Status)
	})

	t.Run("rolls back with the surrounding transaction", func(t *testing.T) {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		job, err := repo.CreateInTx(ctx, tx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		_, err = repo.GetByID(ctx, job.ID)
		require.ErrorIs(t, err, ErrJobNotFound)
	})
}

func TestJobRepo_ReserveNext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := NewJobRepo(db, RepoConfig{})
	ctx := context.Background()

	t.Run("reserves highest priority job first", func(t *testing.T) {
		testutil.CleanupTestDB(t, db)

		for _, priority := range []int{25, 75, 50} {
			_, err := repo.Create(ctx, &model.CreateJobRequest{
				Type:     model.JobTypeOptimize,
				Payload:  json.RawMessage(fmt.Sprintf(`{"priority":%d}`, priority)),
				Priority: priority,
			})
			require.NoError(t, err)
		}

		job, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
		require.NoError(t, err)
		require.NotNil(t, job)

		assert.Equal(t, 75, job.Priority)
		assert.Equal(t, model.JobStatusRunning, job.Status)
		require.NotNil(t, job.StartedAt)
		require.NotNil(t, job.LeaseExpiresAt)
		assert.InDelta(t, time.Now().Add(60*time.Second).Unix(), job.LeaseExpiresAt.Unix(), 1.0)
	})

	t.Run("skips jobs scheduled in the future", func(t *testing.T) {
		testutil.CleanupTestDB(t, db)

		_, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:        model.JobTypeOptimize,
			Payload:     json.RawMessage(`{}`),
			ScheduledAt: timePtr(time.Now().Add(time.Hour)),
		})
		require.NoError(t, err)

		_, err = repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
		require.ErrorIs(t, err, model.ErrNoJobsAvailable)
	})

	t.Run("returns ErrNoJobsAvailable when queue is empty", func(t *testing.T) {
		testutil.CleanupTestDB(t, db)

		_, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
		require.ErrorIs(t, err, model.ErrNoJobsAvailable)
	})

	t.Run("rejects invalid job type", func(t *testing.T) {
		_, err := repo.ReserveNext(ctx, "publish", 60)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid job type")
	})
}

func TestJobRepo_Complete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := NewJobRepo(db, RepoConfig{})
	ctx := context.Background()

	t.Run("completes a running job", func(t *testing.T) {
		testutil.CleanupTestDB(t, db)

		created, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)

		job, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
		require.NoError(t, err)
		require.Equal(t, created.ID, job.ID)

		ok, err := repo.Complete(ctx, job.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusCompleted, got.Status)
		require.NotNil(t, got.CompletedAt)
		assert.Nil(t, got.LeaseExpiresAt)
		assert.Nil(t, got.LastError)

		// Completing an already completed job is a no-op.
		ok, err = repo.Complete(ctx, job.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("returns false for a pending job", func(t *testing.T) {
		created, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)

		ok, err := repo.Complete(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("returns false for unknown job", func(t *testing.T) {
		ok, err := repo.Complete(ctx, nonexistentJobID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestJobRepo_Fail(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := NewJobRepo(db, RepoConfig{RetryDelaySeconds: 10})
		ctx := context.Background()

		t.Run("requeues with delay until retries are exhausted", func(t *testing.T) {
			created, err := repo.Create(ctx, &model.CreateJobRequest{
				Type:       model.JobTypeOptimize,
				Payload:    json.RawMessage(`{}`),
				MaxRetries: 2,
			})
			require.NoError(t, err)

			job, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
			require.NoError(t, err)
			require.Equal(t, created.ID, job.ID)

			ok, err := repo.Fail(ctx, job.ID, "solver crashed")
			require.NoError(t, err)
			assert.True(t, ok)

			got, err := repo.GetByID(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, model.JobStatusPending, got.Status)
			assert.Equal(t, 1, got.RetryCount)
			require.NotNil(t, got.LastError)
			assert.Equal(t, "solver crashed", *got.LastError)
			assert.Nil(t, got.CompletedAt)
			assert.Nil(t, got.LeaseExpiresAt)
			assert.InDelta(t, time.Now().Add(10*time.Second).Unix(), got.ScheduledAt.Unix(), 1.5)

			// Pull the retry forward so it can be reserved right away.
			_, err = db.ExecContext(ctx, `UPDATE jobs SET scheduled_at = NOW() WHERE id = $1`, job.ID)
			require.NoError(t, err)

			job, err = repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
			require.NoError(t, err)
			require.Equal(t, created.ID, job.ID)

			ok, err = repo.Fail(ctx, job.ID, "solver crashed again")
			require.NoError(t, err)
			assert.True(t, ok)

			got, err = repo.GetByID(ctx, job.ID)
			require.NoError(t, err)
			assert.Equal(t, model.JobStatusFailed, got.Status)
			assert.Equal(t, 2, got.RetryCount)
			require.NotNil(t, got.CompletedAt)
			require.NotNil(t, got.LastError)
			assert.Equal(t, "solver crashed again", *got.LastError)
		})

		t.Run("returns false when job is not running", func(t *testing.T) {
			created, err := repo.Create(ctx, &model.CreateJobRequest{
				Type:    model.JobTypeOptimize,
				Payload: json.RawMessage(`{}`),
			})
			require.NoError(t, err)

			ok, err := repo.Fail(ctx, created.ID, "never started")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	})
}

func TestJobRepo_Heartbeat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := NewJobRepo(db, RepoConfig{})
	ctx := context.Background()

	t.Run("extends the lease on a running job", func(t *testing.T) {
		testutil.CleanupTestDB(t, db)

		_, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)

		job, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 30)
		require.NoError(t, err)

		ok, err := repo.Heartbeat(ctx, job.ID, 120)
		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetByID(ctx, job.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LeaseExpiresAt)
		assert.InDelta(t, time.Now().Add(120*time.Second).Unix(), got.LeaseExpiresAt.Unix(), 1.5)
	})

	t.Run("returns false for a pending job", func(t *testing.T) {
		created, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)

		ok, err := repo.Heartbeat(ctx, created.ID, 60)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("returns false for unknown job", func(t *testing.T) {
		ok, err := repo.Heartbeat(ctx, nonexistentJobID, 60)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects non-positive lease", func(t *testing.T) {
		_, err := repo.Heartbeat(ctx, nonexistentJobID, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "leaseSeconds must be positive")
	})
}

func TestJobRepo_Stats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := NewJobRepo(db, RepoConfig{})
	ctx := context.Background()

	// Priorities control reservation order so each job lands in a distinct state.
	specs := []struct {
		priority   int
		maxRetries int
	}{
		{50, 3}, // stays running
		{40, 3}, // completed
		{30, 1}, // fails on the first attempt
		{10, 3}, // never reserved, stays pending
	}
	for _, s := range specs {
		_, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:       model.JobTypeOptimize,
			Payload:    json.RawMessage(`{}`),
			Priority:   s.priority,
			MaxRetries: s.maxRetries,
		})
		require.NoError(t, err)
	}

	running, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
	require.NoError(t, err)
	require.Equal(t, 50, running.Priority)

	toComplete, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
	require.NoError(t, err)
	require.Equal(t, 40, toComplete.Priority)
	ok, err := repo.Complete(ctx, toComplete.ID)
	require.NoError(t, err)
	require.True(t, ok)

	toFail, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
	require.NoError(t, err)
	require.Equal(t, 30, toFail.Priority)
	ok, err = repo.Fail(ctx, toFail.ID, "no feasible assignment")
	require.NoError(t, err)
	require.True(t, ok)

	stats, err := repo.Stats(ctx, model.JobTypeOptimize)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Running)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
}

func TestJobRepo_RequeueExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	tp := NewFixedTimeProvider(testutil.TestTime())
	repo := NewJobRepo(db, RepoConfig{TimeProvider: tp})
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.CreateJobRequest{
		Type:    model.JobTypeOptimize,
		Payload: json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	job, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 1)
	require.NoError(t, err)
	require.Equal(t, created.ID, job.ID)

	// Lease has not expired yet.
	requeued, err := repo.requeueExpired(ctx, model.JobTypeOptimize)
	require.NoError(t, err)
	assert.Zero(t, requeued)

	tp.AddTime(2 * time.Second)

	requeued, err = repo.requeueExpired(ctx, model.JobTypeOptimize)
	require.NoError(t, err)
	assert.EqualValues(t, 1, requeued)

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, got.Status)
	assert.Nil(t, got.LeaseExpiresAt)
}

func TestPgxConversionFunctions(t *testing.T) {
	t.Run("ToPgxIsoLevel", func(t *testing.T) {
		tests := []struct {
			in   sql.IsolationLevel
			want pgx.TxIsoLevel
		}{
			{sql.LevelDefault, pgx.TxIsoLevel("")},
			{sql.LevelSerializable, pgx.Serializable},
			{sql.LevelLinearizable, pgx.Serializable},
			{sql.LevelRepeatableRead, pgx.RepeatableRead},
			{sql.LevelSnapshot, pgx.RepeatableRead},
			{sql.LevelReadCommitted, pgx.ReadCommitted},
			{sql.LevelWriteCommitted, pgx.ReadCommitted},
			{sql.LevelReadUncommitted, pgx.ReadUncommitted},
			{sql.IsolationLevel(99), pgx.TxIsoLevel("")},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, pgxutil.ToPgxIsoLevel(tt.in), "level %v", tt.in)
		}
	})

	t.Run("ToPgxAccessMode", func(t *testing.T) {
		assert.Equal(t, pgx.ReadOnly, pgxutil.ToPgxAccessMode(true))
		assert.Equal(t, pgx.ReadWrite, pgxutil.ToPgxAccessMode(false))
	})

	t.Run("ToPgxTxOptions", func(t *testing.T) {
		assert.Equal(t, pgx.TxOptions{}, pgxutil.ToPgxTxOptions(nil))

		got := pgxutil.ToPgxTxOptions(&sql.TxOptions{
			Isolation: sql.LevelSerializable,
			ReadOnly:  true,
		})
		assert.Equal(t, pgx.Serializable, got.IsoLevel)
		assert.Equal(t, pgx.ReadOnly, got.AccessMode)
	})
}

func TestJobRepo_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := NewJobRepo(db, RepoConfig{})
	ctx := context.Background()

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		job, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(fmt.Sprintf(`{"n":%d}`, i)),
		})
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}

	reserved, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
	require.NoError(t, err)
	ok, err := repo.Complete(ctx, reserved.ID)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("lists newest first without filters", func(t *testing.T) {
		jobs, err := repo.List(ctx, &model.JobListOptions{})
		require.NoError(t, err)
		require.Len(t, jobs, 5)
		assert.Equal(t, ids[4], jobs[0].ID)
		assert.Equal(t, ids[0], jobs[4].ID)
	})

	t.Run("filters by status", func(t *testing.T) {
		pending, err := repo.List(ctx, &model.JobListOptions{Status: jobStatusPtr(model.JobStatusPending)})
		require.NoError(t, err)
		assert.Len(t, pending, 4)

		completed, err := repo.List(ctx, &model.JobListOptions{Status: jobStatusPtr(model.JobStatusCompleted)})
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, reserved.ID, completed[0].ID)
	})

	t.Run("filters by type", func(t *testing.T) {
		jobs, err := repo.List(ctx, &model.JobListOptions{Type: jobTypePtr(model.JobTypeOptimize)})
		require.NoError(t, err)
		assert.Len(t, jobs, 5)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		page, err := repo.List(ctx, &model.JobListOptions{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, page, 2)

		tail, err := repo.List(ctx, &model.JobListOptions{Limit: 2, Offset: 4})
		require.NoError(t, err)
		assert.Len(t, tail, 1)
	})
}

func TestJobRepo_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	repo := NewJobRepo(db, RepoConfig{})
	ctx := context.Background()

	createJob := func(t *testing.T) *model.Job {
		t.Helper()
		job, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:    model.JobTypeOptimize,
			Payload: json.RawMessage(`{}`),
		})
		require.NoError(t, err)
		return job
	}

	t.Run("deletes a pending job", func(t *testing.T) {
		job := createJob(t)

		require.NoError(t, repo.Delete(ctx, job.ID))

		_, err := repo.GetByID(ctx, job.ID)
		require.ErrorIs(t, err, ErrJobNotFound)
	})

	t.Run("deletes a completed job", func(t *testing.T) {
		testutil.CleanupTestDB(t, db)
		job := createJob(t)

		reserved, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
		require.NoError(t, err)
		require.Equal(t, job.ID, reserved.ID)
		ok, err := repo.Complete(ctx, job.ID)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, repo.Delete(ctx, job.ID))
	})

	t.Run("deletes a failed job", func(t *testing.T) {
		testutil.CleanupTestDB(t, db)
		job, err := repo.Create(ctx, &model.CreateJobRequest{
			Type:       model.JobTypeOptimize,
			Payload:    json.RawMessage(`{}`),
			MaxRetries: 1,
		})
		require.NoError(t, err)

		reserved, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
		require.NoError(t, err)
		require.Equal(t, job.ID, reserved.ID)
		ok, err := repo.Fail(ctx, job.ID, "infeasible model")
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, repo.Delete(ctx, job.ID))
	})

	t.Run("rejects a running job", func(t *testing.T) {
		testutil.CleanupTestDB(t, db)
		job := createJob(t)

		reserved, err := repo.ReserveNext(ctx, model.JobTypeOptimize, 60)
		require.NoError(t, err)
		require.Equal(t, job.ID, reserved.ID)

		require.ErrorIs(t, repo.Delete(ctx, job.ID), ErrJobNotDeletable)
	})

	t.Run("rejects a pending job with an active lease", func(t *testing.T) {
		job := createJob(t)

		_, err := db.ExecContext(ctx, `
			UPDATE jobs SET lease_expires_at = NOW() + INTERVAL '60 seconds' WHERE id = $1
		`, job.ID)
		require.NoError(t, err)

		require.ErrorIs(t, repo.Delete(ctx, job.ID), ErrJobReserved)
	})

	t.Run("deletes a pending job once its lease has expired", func(t *testing.T) {
		job := createJob(t)

		_, err := db.ExecContext(ctx, `
			UPDATE jobs SET lease_expires_at = NOW() - INTERVAL '60 seconds' WHERE id = $1
		`, job.ID)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, job.ID))
	})

	t.Run("returns not found for unknown job", func(t *testing.T) {
		require.ErrorIs(t, repo.Delete(ctx, nonexistentJobID), ErrJobNotFound)
	})
}

func timePtr(t time.Time) *time.Time                  { return &t }
func jobTypePtr(jt model.JobType) *model.JobType      { return &jt }
func jobStatusPtr(s model.JobStatus) *model.JobStatus { return &s }
