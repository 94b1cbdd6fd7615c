package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rosterd/rosterd/internal/data/pgxutil"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
)

// TimeOffRepo provides database operations for time-off requests.
type TimeOffRepo struct {
	DB *sql.DB
}

// NewTimeOffRepo creates a new TimeOffRepo.
func NewTimeOffRepo(db *sql.DB) *TimeOffRepo {
	return &TimeOffRepo{DB: db}
}

const timeOffColumns = `id, employee_id, start_date, end_date, status, reason, created_at, updated_at`

// Create files a new pending time-off request for the given employee.
func (r *TimeOffRepo) Create(ctx context.Context, employeeID string, req *model.CreateTimeOffRequest) (*model.TimeOffRequest, error) {
	if req == nil {
		return nil, apperrors.Validation("create time-off request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if strings.TrimSpace(employeeID) == "" {
		return nil, apperrors.Validation("employee_id is required")
	}
	startDate, _ := model.ParseDate(req.StartDate)
	endDate, _ := model.ParseDate(req.EndDate)

	var out *model.TimeOffRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO time_off_requests (employee_id, start_date, end_date, status, reason)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+timeOffColumns,
			employeeID, startDate, endDate, model.TimeOffStatusPending, req.Reason,
		)
		if err != nil {
			return err
		}
		request, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TimeOffRequest])
		if err != nil {
			return err
		}
		out = &request
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create time-off request: %w", err))
	}
	return out, nil
}

// GetByID retrieves a time-off request.
func (r *TimeOffRepo) GetByID(ctx context.Context, id string) (*model.TimeOffRequest, error) {
	var out *model.TimeOffRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+timeOffColumns+` FROM time_off_requests WHERE id = $1`, id)
		if err != nil {
			return err
		}
		request, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TimeOffRequest])
		if err != nil {
			return err
		}
		out = &request
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("time-off request %s not found", id)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get time-off request: %w", err))
	}
	return out, nil
}

// List retrieves time-off requests newest first, optionally filtered by
// employee and status.
func (r *TimeOffRepo) List(ctx context.Context, employeeID *string, status *model.TimeOffStatus, limit, offset int) ([]*model.TimeOffRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + timeOffColumns + ` FROM time_off_requests WHERE 1=1`
	args := []any{}
	if employeeID != nil && *employeeID != "" {
		args = append(args, *employeeID)
		query += ` AND employee_id = $` + strconv.Itoa(len(args))
	}
	if status != nil && *status != "" {
		args = append(args, string(*status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += ` ORDER BY created_at DESC, id DESC LIMIT $` +
		strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	var out []*model.TimeOffRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		requests, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.TimeOffRequest])
		if err != nil {
			return err
		}
		out = make([]*model.TimeOffRequest, len(requests))
		for i := range requests {
			out[i] = &requests[i]
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list time-off requests: %w", err))
	}
	return out, nil
}

// Decide resolves a pending request to approved or rejected. Requests that
// were already decided are rejected with a business rule error.
func (r *TimeOffRepo) Decide(ctx context.Context, id string, req *model.DecideTimeOffRequest) (*model.TimeOffRequest, error) {
	if req == nil {
		return nil, apperrors.Validation("decision is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out *model.TimeOffRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE time_off_requests
			SET status = $2, updated_at = now()
			WHERE id = $1 AND status = $3
			RETURNING `+timeOffColumns,
			id, req.Status, model.TimeOffStatusPending,
		)
		if err != nil {
			return err
		}
		request, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TimeOffRequest])
		if err != nil {
			return err
		}
		out = &request
		return nil
	})
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapDBError(fmt.Errorf("decide time-off request: %w", err))
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.BusinessRule("time-off request has already been decided")
}

// Delete removes a time-off request.
func (r *TimeOffRepo) Delete(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM time_off_requests WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if rows == 0 {
		return apperrors.NotFoundf("time-off request %s not found", id)
	}
	return nil
}

// ListApprovedBetween retrieves the approved requests whose inclusive date
// range intersects [from, to], for availability derivation.
func (r *TimeOffRepo) ListApprovedBetween(ctx context.Context, from, to time.Time) ([]model.TimeOffRequest, error) {
	var out []model.TimeOffRequest
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+timeOffColumns+`
			FROM time_off_requests
			WHERE status = $1 AND start_date <= $2 AND end_date >= $3
			ORDER BY employee_id, start_date
		`, model.TimeOffStatusApproved, model.DateOnly(to), model.DateOnly(from))
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.TimeOffRequest])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list approved time off: %w", err))
	}
	return out, nil
}
