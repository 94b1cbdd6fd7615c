package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rosterd/rosterd/internal/data/pgxutil"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
)

// Advisory lock minors for run reaper operations, under the shared reaper
// major key.
const (
	advisoryLockReaperFailOrphaned     = 3 // minor key for FailOrphanedRuns
	advisoryLockReaperFailStalePending = 4 // minor key for FailStalePendingRuns
)

var (
	// ErrRunNotFound is returned when a scheduling run does not exist.
	ErrRunNotFound = errors.New("scheduling run not found")
	// ErrRunStateConflict is returned when a run transition races another
	// writer and loses.
	ErrRunStateConflict = errors.New("scheduling run is not in the expected state")
)

// RunRepoConfig holds configuration options for the run repository.
type RunRepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// RunRepo provides database operations for scheduling runs and their
// solution rows. Run reads map to app errors; the state transitions used by
// workers return the data-level sentinels so callers can branch on them.
type RunRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB, cfg RunRepoConfig) *RunRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = RealTimeProvider{}
	}
	return &RunRepo{
		DB:           db,
		timeProvider: tp,
		logger:       cfg.Logger,
	}
}

const runColumns = `id, schedule_id, config_id, status, solver_status, objective_value, runtime_seconds,
	mip_gap, total_assignments, error_message, triggered_at, started_at, completed_at, lease_expires_at`

const solutionColumns = `id, run_id, planned_shift_id, employee_id, role_id, score, created_at`

// CreateRun persists a new pending run for the (schedule, config) pair.
func (r *RunRepo) CreateRun(ctx context.Context, scheduleID, configID string) (*model.SchedulingRun, error) {
	if strings.TrimSpace(scheduleID) == "" {
		return nil, apperrors.Validation("weekly_schedule_id is required")
	}
	if strings.TrimSpace(configID) == "" {
		return nil, apperrors.Validation("config_id is required")
	}

	var out *model.SchedulingRun
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO scheduling_runs (schedule_id, config_id, status)
			VALUES ($1, $2, $3)
			RETURNING `+runColumns,
			scheduleID, configID, model.RunStatusPending,
		)
		if err != nil {
			return err
		}
		run, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SchedulingRun])
		if err != nil {
			return err
		}
		out = &run
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create scheduling run: %w", err))
	}
	return out, nil
}

// GetRunByID retrieves a run.
func (r *RunRepo) GetRunByID(ctx context.Context, id string) (*model.SchedulingRun, error) {
	var out *model.SchedulingRun
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+runColumns+` FROM scheduling_runs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		run, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SchedulingRun])
		if err != nil {
			return err
		}
		out = &run
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("scheduling run %s not found", id)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get scheduling run: %w", err))
	}
	return out, nil
}

// ListRunsBySchedule retrieves a schedule's runs newest first.
func (r *RunRepo) ListRunsBySchedule(ctx context.Context, scheduleID string) ([]model.SchedulingRun, error) {
	var out []model.SchedulingRun
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+runColumns+`
			FROM scheduling_runs
			WHERE schedule_id = $1
			ORDER BY triggered_at DESC, id DESC
		`, scheduleID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.SchedulingRun])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list scheduling runs: %w", err))
	}
	return out, nil
}

// MarkRunning claims a pending run for execution: transitions it to running,
// stamps started_at, and grants a lease. Returns ErrRunNotFound when the run
// does not exist and ErrRunStateConflict when another worker already claimed
// it or it is terminal; the conflicting run is returned alongside so callers
// can decide whether the claim is a harmless duplicate.
func (r *RunRepo) MarkRunning(ctx context.Context, id string, lease time.Duration) (*model.SchedulingRun, error) {
	now := r.timeProvider.Now().UTC()
	var out *model.SchedulingRun
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE scheduling_runs
			SET status = $2, started_at = $3, solver_status = NULL, lease_expires_at = $4
			WHERE id = $1 AND status = $5
			RETURNING `+runColumns,
			id, model.RunStatusRunning, now, now.Add(lease), model.RunStatusPending,
		)
		if err != nil {
			return err
		}
		run, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SchedulingRun])
		if err != nil {
			return err
		}
		out = &run
		return nil
	})
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("mark run running: %w", err)
	}

	current, getErr := r.getRunBySentinel(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return current, ErrRunStateConflict
}

// UpdateLease extends a running run's lease. Returns ErrRunStateConflict when
// the run is no longer running.
func (r *RunRepo) UpdateLease(ctx context.Context, id string, lease time.Duration) error {
	expiresAt := r.timeProvider.Now().UTC().Add(lease)
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE scheduling_runs
			SET lease_expires_at = $2
			WHERE id = $1 AND status = $3
		`, id, expiresAt, model.RunStatusRunning)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("update run lease: %w", err)
	}
	if rows == 0 {
		return ErrRunStateConflict
	}
	return nil
}

// CompleteRun transitions a running run to completed and records the solver
// outcome. Any solver verdict completes the run, including infeasible ones.
func (r *RunRepo) CompleteRun(ctx context.Context, id string, completion model.RunCompletion) (*model.SchedulingRun, error) {
	if !completion.SolverStatus.Valid() {
		return nil, fmt.Errorf("invalid solver status: %s", completion.SolverStatus)
	}
	now := r.timeProvider.Now().UTC()

	var out *model.SchedulingRun
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE scheduling_runs
			SET status = $2,
				solver_status = $3,
				objective_value = $4,
				runtime_seconds = $5,
				mip_gap = $6,
				total_assignments = $7,
				error_message = $8,
				completed_at = $9,
				lease_expires_at = NULL
			WHERE id = $1 AND status = $10
			RETURNING `+runColumns,
			id, model.RunStatusCompleted,
			completion.SolverStatus, completion.ObjectiveValue, completion.RuntimeSeconds,
			completion.MIPGap, completion.TotalAssignments, completion.ErrorMessage, now,
			model.RunStatusRunning,
		)
		if err != nil {
			return err
		}
		run, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SchedulingRun])
		if err != nil {
			return err
		}
		out = &run
		return nil
	})
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("complete run: %w", err)
	}

	current, getErr := r.getRunBySentinel(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return current, ErrRunStateConflict
}

// FailRun transitions a pending or running run to failed with the given
// error message.
func (r *RunRepo) FailRun(ctx context.Context, id, errorMessage string) (*model.SchedulingRun, error) {
	now := r.timeProvider.Now().UTC()
	var out *model.SchedulingRun
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE scheduling_runs
			SET status = $2, error_message = $3, completed_at = $4, lease_expires_at = NULL
			WHERE id = $1 AND status IN ($5, $6)
			RETURNING `+runColumns,
			id, model.RunStatusFailed, errorMessage, now,
			model.RunStatusPending, model.RunStatusRunning,
		)
		if err != nil {
			return err
		}
		run, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SchedulingRun])
		if err != nil {
			return err
		}
		out = &run
		return nil
	})
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("fail run: %w", err)
	}

	current, getErr := r.getRunBySentinel(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return current, ErrRunStateConflict
}

// CancelRun transitions a pending run to cancelled. This is an operator
// action; runs already picked up keep executing.
func (r *RunRepo) CancelRun(ctx context.Context, id string) (*model.SchedulingRun, error) {
	now := r.timeProvider.Now().UTC()
	var out *model.SchedulingRun
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE scheduling_runs
			SET status = $2, completed_at = $3
			WHERE id = $1 AND status = $4
			RETURNING `+runColumns,
			id, model.RunStatusCancelled, now, model.RunStatusPending,
		)
		if err != nil {
			return err
		}
		run, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SchedulingRun])
		if err != nil {
			return err
		}
		out = &run
		return nil
	})
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapDBError(fmt.Errorf("cancel run: %w", err))
	}

	if _, getErr := r.GetRunByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.BusinessRule("only pending runs can be cancelled")
}

// getRunBySentinel loads a run mapping absence to ErrRunNotFound, for the
// worker-facing transition paths.
func (r *RunRepo) getRunBySentinel(ctx context.Context, id string) (*model.SchedulingRun, error) {
	var out *model.SchedulingRun
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+runColumns+` FROM scheduling_runs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		run, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SchedulingRun])
		if err != nil {
			return err
		}
		out = &run
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("get scheduling run: %w", err)
	}
	return out, nil
}

// InsertSolutions bulk-persists a run's solution rows, all or nothing.
// Returns the number of rows written.
func (r *RunRepo) InsertSolutions(ctx context.Context, runID string, inputs []model.SolutionInput) (int64, error) {
	if len(inputs) == 0 {
		return 0, nil
	}
	var written int64
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			n, err := tx.CopyFrom(ctx,
				pgx.Identifier{"scheduling_solutions"},
				[]string{"run_id", "planned_shift_id", "employee_id", "role_id", "score"},
				pgx.CopyFromSlice(len(inputs), func(i int) ([]any, error) {
					in := inputs[i]
					return []any{runID, in.PlannedShiftID, in.EmployeeID, in.RoleID, in.Score}, nil
				}),
			)
			if err != nil {
				return err
			}
			written = n
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("insert solutions: %w", err)
	}
	return written, nil
}

// ListSolutionsByRun retrieves a run's solution rows.
func (r *RunRepo) ListSolutionsByRun(ctx context.Context, runID string) ([]model.SchedulingSolution, error) {
	var out []model.SchedulingSolution
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+solutionColumns+`
			FROM scheduling_solutions
			WHERE run_id = $1
			ORDER BY created_at ASC, id ASC
		`, runID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.SchedulingSolution])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list solutions: %w", err))
	}
	return out, nil
}

// FailOrphanedRuns fails running runs whose worker lease has expired. A run
// in this state belongs to a worker that died mid-solve; its job queue entry
// retries or fails independently. Processes up to batchSize runs per call.
// Returns the number of runs failed.
func (r *RunRepo) FailOrphanedRuns(ctx context.Context, batchSize int) (int64, error) {
	var rowsAffected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)", advisoryLockReaperMajor, advisoryLockReaperFailOrphaned).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				rowsAffected = 0
				return nil
			}

			currentTime := r.timeProvider.Now().UTC()
			res, err := tx.ExecContext(ctx, `
				UPDATE scheduling_runs
				SET status = 'failed',
					error_message = 'run orphaned: worker lease expired',
					completed_at = $1,
					lease_expires_at = NULL
				WHERE id IN (
					SELECT id FROM scheduling_runs
					WHERE status = 'running'
					  AND lease_expires_at IS NOT NULL
					  AND lease_expires_at < $1
					ORDER BY lease_expires_at
					LIMIT $2
				)
			`, currentTime, batchSize)
			if err != nil {
				return fmt.Errorf("fail orphaned runs: %w", err)
			}

			ra, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			rowsAffected = ra
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	if rowsAffected > 0 && r.logger != nil {
		r.logger.Warn("failed orphaned runs", "count", rowsAffected)
	}
	return rowsAffected, nil
}

// FailStalePendingRuns fails pending runs older than maxAge; their queue job
// is gone or exhausted its retries. Processes up to batchSize runs per call.
// Returns the number of runs failed.
func (r *RunRepo) FailStalePendingRuns(ctx context.Context, maxAge time.Duration, batchSize int) (int64, error) {
	var rowsAffected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)", advisoryLockReaperMajor, advisoryLockReaperFailStalePending).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				rowsAffected = 0
				return nil
			}

			currentTime := r.timeProvider.Now().UTC()
			cutoffTime := currentTime.Add(-maxAge)

			res, err := tx.ExecContext(ctx, `
				UPDATE scheduling_runs
				SET status = 'failed',
					error_message = 'run timed out waiting for a worker',
					completed_at = $1
				WHERE id IN (
					SELECT id FROM scheduling_runs
					WHERE status = 'pending'
					  AND triggered_at < $2
					ORDER BY triggered_at
					LIMIT $3
				)
			`, currentTime, cutoffTime, batchSize)
			if err != nil {
				return fmt.Errorf("fail stale pending runs: %w", err)
			}

			ra, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			rowsAffected = ra
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	if rowsAffected > 0 && r.logger != nil {
		r.logger.Warn("failed stale pending runs", "count", rowsAffected)
	}
	return rowsAffected, nil
}
