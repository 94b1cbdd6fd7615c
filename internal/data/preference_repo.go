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

// PreferenceRepo provides database operations for employee shift preferences.
type PreferenceRepo struct {
	DB *sql.DB
}

// NewPreferenceRepo creates a new PreferenceRepo.
func NewPreferenceRepo(db *sql.DB) *PreferenceRepo {
	return &PreferenceRepo{DB: db}
}

const preferenceColumns = `id, employee_id, template_id, day_of_week, start_time_of_day, end_time_of_day, weight, created_at`

// Create records a preference for the given employee.
func (r *PreferenceRepo) Create(ctx context.Context, employeeID string, req *model.CreatePreferenceRequest) (*model.EmployeePreference, error) {
	if req == nil {
		return nil, apperrors.Validation("create preference request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if strings.TrimSpace(employeeID) == "" {
		return nil, apperrors.Validation("employee_id is required")
	}

	var out *model.EmployeePreference
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO employee_preferences (employee_id, template_id, day_of_week, start_time_of_day, end_time_of_day, weight)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+preferenceColumns,
			employeeID, req.TemplateID, req.DayOfWeek, req.StartTimeOfDay, req.EndTimeOfDay, req.Weight,
		)
		if err != nil {
			return err
		}
		pref, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EmployeePreference])
		if err != nil {
			return err
		}
		out = &pref
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create preference: %w", err))
	}
	return out, nil
}

// GetByID retrieves a preference.
func (r *PreferenceRepo) GetByID(ctx context.Context, id string) (*model.EmployeePreference, error) {
	var out *model.EmployeePreference
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+preferenceColumns+` FROM employee_preferences WHERE id = $1`, id)
		if err != nil {
			return err
		}
		pref, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.EmployeePreference])
		if err != nil {
			return err
		}
		out = &pref
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("preference %s not found", id)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get preference: %w", err))
	}
	return out, nil
}

// ListByEmployee retrieves one employee's preferences.
func (r *PreferenceRepo) ListByEmployee(ctx context.Context, employeeID string) ([]model.EmployeePreference, error) {
	return r.list(ctx, `
		SELECT `+preferenceColumns+`
		FROM employee_preferences
		WHERE employee_id = $1
		ORDER BY created_at ASC, id ASC
	`, employeeID)
}

// ListAll retrieves every preference, for snapshot loading.
func (r *PreferenceRepo) ListAll(ctx context.Context) ([]model.EmployeePreference, error) {
	return r.list(ctx, `
		SELECT `+preferenceColumns+`
		FROM employee_preferences
		ORDER BY employee_id, created_at ASC, id ASC
	`)
}

func (r *PreferenceRepo) list(ctx context.Context, query string, args ...any) ([]model.EmployeePreference, error) {
	var out []model.EmployeePreference
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.EmployeePreference])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list preferences: %w", err))
	}
	return out, nil
}

// Delete removes a preference.
func (r *PreferenceRepo) Delete(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM employee_preferences WHERE id = $1`, id)
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
		return apperrors.NotFoundf("preference %s not found", id)
	}
	return nil
}
