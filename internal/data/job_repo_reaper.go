package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/data/pgxutil"
)

// Reaper sweeps coordinate across instances with transaction-scoped
// advisory locks, pg_try_advisory_xact_lock(major, minor). Major key 1000
// namespaces rosterd's reaper; each sweep owns a minor key.
const (
	advisoryLockReaperMajor       = 1000
	advisoryLockReaperFailPending = 1 // minor key for FailStalePendingJobs
	advisoryLockReaperDelete      = 2 // minor key for DeleteOldJobs
)

// reapBatch runs one reaper statement inside a transaction holding the
// sweep's advisory lock. When another instance already holds the lock the
// sweep reports zero rows; whatever it skipped is picked up on a later
// tick.
func reapBatch(
	ctx context.Context,
	db *sql.DB,
	minor int,
	stmt func(tx *sql.Tx) (sql.Result, error),
) (int64, error) {
	var affected int64
	err := pgxutil.WithSQLTx(ctx, db, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			if err := tx.QueryRowContext(ctx,
				"SELECT pg_try_advisory_xact_lock($1, $2)",
				advisoryLockReaperMajor, minor,
			).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				return nil
			}

			res, err := stmt(tx)
			if err != nil {
				return err
			}
			affected, err = res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// FailStalePendingJobs fails pending jobs older than maxAge. A pending job
// this old was never picked up by any worker, so leaving it would strand
// its scheduling run forever. Processes up to batchSize jobs per call.
func (r *JobRepo) FailStalePendingJobs(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	now := r.timeProvider.Now().UTC()
	cutoff := now.Add(-maxAge)

	return reapBatch(ctx, r.DB, advisoryLockReaperFailPending, func(tx *sql.Tx) (sql.Result, error) {
		res, err := tx.ExecContext(ctx, `
			UPDATE jobs
			SET status = 'failed',
				last_error = 'Job timed out in pending status',
				completed_at = $1,
				updated_at = $1
			WHERE id IN (
				SELECT id FROM jobs
				WHERE status = 'pending'
				  AND created_at < $2
				ORDER BY created_at
				LIMIT $3
			)
		`, now, cutoff, batchSize)
		if err != nil {
			return nil, fmt.Errorf("fail stale pending jobs: %w", err)
		}
		return res, nil
	})
}

// DeleteOldJobs deletes terminal jobs with the given status once they age
// past maxAge, keeping the queue table from growing without bound.
// Processes up to batchSize jobs per call.
func (r *JobRepo) DeleteOldJobs(ctx context.Context, params core.DeleteOldJobsParams) (int64, error) {
	if !params.Status.Valid() {
		return 0, fmt.Errorf("invalid job status: %s", params.Status)
	}

	cutoff := r.timeProvider.Now().Add(-params.MaxAge).UTC()

	return reapBatch(ctx, r.DB, advisoryLockReaperDelete, func(tx *sql.Tx) (sql.Result, error) {
		// Rows without completed_at fall back to updated_at so jobs that
		// reached a terminal state through a manual fix still age out.
		res, err := tx.ExecContext(ctx, `
			DELETE FROM jobs
			WHERE id IN (
				SELECT id FROM jobs
				WHERE status = $1
				  AND (completed_at < $2 OR (completed_at IS NULL AND updated_at < $2))
				ORDER BY COALESCE(completed_at, updated_at)
				LIMIT $3
			)
		`, params.Status, cutoff, params.BatchSize)
		if err != nil {
			return nil, fmt.Errorf("delete old jobs: %w", err)
		}
		return res, nil
	})
}
