package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rosterd/rosterd/internal/data/pgxutil"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
)

// RoleRepo provides database operations for roles.
type RoleRepo struct {
	DB *sql.DB
}

// NewRoleRepo creates a new RoleRepo.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{DB: db}
}

const roleColumns = `id, name, created_at`

// Create inserts a new role.
func (r *RoleRepo) Create(ctx context.Context, req *model.CreateRoleRequest) (*model.Role, error) {
	if req == nil {
		return nil, apperrors.Validation("create role request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.Role
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO roles (name)
			VALUES ($1)
			RETURNING `+roleColumns,
			strings.TrimSpace(req.Name),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Role])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a role by ID.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*model.Role, error) {
	var out model.Role
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Role])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("role %s not found", id)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get role: %w", err))
	}
	return &out, nil
}

// List retrieves all roles ordered by name.
func (r *RoleRepo) List(ctx context.Context) ([]*model.Role, error) {
	var rowsOut []model.Role
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+roleColumns+` FROM roles ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Role])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list roles: %w", err))
	}

	res := make([]*model.Role, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update renames a role.
func (r *RoleRepo) Update(ctx context.Context, id string, req *model.UpdateRoleRequest) (*model.Role, error) {
	if req == nil {
		return nil, apperrors.Validation("update role request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.Role
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE roles SET name = $2
			WHERE id = $1
			RETURNING `+roleColumns,
			id, strings.TrimSpace(*req.Name),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Role])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("role %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete removes a role. Roles referenced by demands, assignments, or
// employees are protected by the schema's RESTRICT rules.
func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
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
		return apperrors.NotFoundf("role %s not found", id)
	}
	return nil
}
