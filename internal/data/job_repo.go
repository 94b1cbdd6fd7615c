// Package data implements the PostgreSQL and Redis backed repositories
// behind rosterd's domain services and the optimization job queue.
package data

import (
	"database/sql"
	"errors"
	"log/slog"
)

var (
	// ErrJobNotFound is returned when a job lookup misses.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobNotDeletable is returned when a delete targets a job that is
	// still running.
	ErrJobNotDeletable = errors.New("job cannot be deleted (must be in pending, completed, or failed status)")
	// ErrJobReserved is returned when a delete targets a job with an
	// active lease.
	ErrJobReserved = errors.New("job is reserved and cannot be deleted")
)

// defaultRetryDelaySeconds spaces out retries of failed jobs when the
// configuration does not say otherwise.
const defaultRetryDelaySeconds = 30

// RepoConfig carries the queue repository's tunables. Zero values fall
// back to a 30 second retry delay, the system clock, and no logging.
type RepoConfig struct {
	RetryDelaySeconds int
	Logger            *slog.Logger
	TimeProvider      TimeProvider
}

// JobRepo runs the queue's SQL: enqueue, reserve, heartbeat, settle,
// and the reaper's lease sweeps.
type JobRepo struct {
	DB                *sql.DB
	retryDelaySeconds int
	timeProvider      TimeProvider
	logger            *slog.Logger
}

// NewJobRepo wraps db, resolving cfg's defaults up front so the query
// methods never re-check them.
func NewJobRepo(db *sql.DB, cfg RepoConfig) *JobRepo {
	repo := &JobRepo{
		DB:                db,
		retryDelaySeconds: cfg.RetryDelaySeconds,
		timeProvider:      cfg.TimeProvider,
		logger:            cfg.Logger,
	}
	if repo.retryDelaySeconds <= 0 {
		repo.retryDelaySeconds = defaultRetryDelaySeconds
	}
	if repo.timeProvider == nil {
		repo.timeProvider = RealTimeProvider{}
	}
	return repo
}

const jobColumns = `
  id,
  type,
  status,
  priority,
  payload,
  run_id,
  scheduled_at,
  started_at,
  completed_at,
  retry_count,
  max_retries,
  last_error,
  lease_expires_at,
  created_at,
  updated_at
`
