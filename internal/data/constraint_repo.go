package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rosterd/rosterd/internal/data/pgxutil"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
)

// ConstraintRepo provides database operations for global work rules. The
// schema allows at most one row per kind.
type ConstraintRepo struct {
	DB *sql.DB
}

// NewConstraintRepo creates a new ConstraintRepo.
func NewConstraintRepo(db *sql.DB) *ConstraintRepo {
	return &ConstraintRepo{DB: db}
}

const constraintColumns = `id, kind, value, is_hard, created_at, updated_at`

// Create inserts a new work rule. A duplicate kind maps to a conflict error
// through the unique constraint.
func (r *ConstraintRepo) Create(ctx context.Context, req *model.CreateSystemConstraintRequest) (*model.SystemConstraint, error) {
	if req == nil {
		return nil, apperrors.Validation("create constraint request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out *model.SystemConstraint
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO system_constraints (kind, value, is_hard)
			VALUES ($1, $2, $3)
			RETURNING `+constraintColumns,
			req.Kind, req.Value, req.IsHard,
		)
		if err != nil {
			return err
		}
		constraint, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SystemConstraint])
		if err != nil {
			return err
		}
		out = &constraint
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create constraint: %w", err))
	}
	return out, nil
}

// GetByID retrieves a work rule.
func (r *ConstraintRepo) GetByID(ctx context.Context, id string) (*model.SystemConstraint, error) {
	return r.getBy(ctx, `SELECT `+constraintColumns+` FROM system_constraints WHERE id = $1`, id)
}

// GetByKind retrieves the work rule of the given kind.
func (r *ConstraintRepo) GetByKind(ctx context.Context, kind model.SystemConstraintType) (*model.SystemConstraint, error) {
	return r.getBy(ctx, `SELECT `+constraintColumns+` FROM system_constraints WHERE kind = $1`, string(kind))
}

func (r *ConstraintRepo) getBy(ctx context.Context, query string, arg any) (*model.SystemConstraint, error) {
	var out *model.SystemConstraint
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		constraint, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SystemConstraint])
		if err != nil {
			return err
		}
		out = &constraint
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("constraint not found")
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get constraint: %w", err))
	}
	return out, nil
}

// List retrieves all work rules ordered by kind.
func (r *ConstraintRepo) List(ctx context.Context) ([]model.SystemConstraint, error) {
	var out []model.SystemConstraint
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+constraintColumns+` FROM system_constraints ORDER BY kind ASC`)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.SystemConstraint])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list constraints: %w", err))
	}
	return out, nil
}

// Update applies partial changes to a work rule.
func (r *ConstraintRepo) Update(ctx context.Context, id string, req *model.UpdateSystemConstraintRequest) (*model.SystemConstraint, error) {
	if req == nil {
		return nil, apperrors.Validation("update constraint request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if req.Value != nil {
		args = append(args, *req.Value)
		setParts = append(setParts, "value = $"+strconv.Itoa(len(args)))
	}
	if req.IsHard != nil {
		args = append(args, *req.IsHard)
		setParts = append(setParts, "is_hard = $"+strconv.Itoa(len(args)))
	}
	args = append(args, id)
	query := `UPDATE system_constraints SET ` + strings.Join(setParts, ", ") +
		`, updated_at = now() WHERE id = $` + strconv.Itoa(len(args)) +
		` RETURNING ` + constraintColumns

	var out *model.SystemConstraint
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		constraint, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.SystemConstraint])
		if err != nil {
			return err
		}
		out = &constraint
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("constraint %s not found", id)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("update constraint: %w", err))
	}
	return out, nil
}

// Delete removes a work rule.
func (r *ConstraintRepo) Delete(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM system_constraints WHERE id = $1`, id)
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
		return apperrors.NotFoundf("constraint %s not found", id)
	}
	return nil
}
