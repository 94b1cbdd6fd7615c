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

// EmployeeRepo provides database operations for employees and their role sets.
type EmployeeRepo struct {
	DB *sql.DB
}

// NewEmployeeRepo creates a new EmployeeRepo.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{DB: db}
}

const employeeColumns = `id, name, email, status, is_manager, password_hash, created_at, updated_at`

// Create inserts a new employee and its qualification set in one transaction.
// The password hash is computed by the caller.
func (r *EmployeeRepo) Create(
	ctx context.Context,
	req *model.CreateEmployeeRequest,
	passwordHash string,
) (*model.Employee, error) {
	if req == nil {
		return nil, apperrors.Validation("create employee request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, apperrors.Validation("password hash is required")
	}

	var out *model.Employee
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				INSERT INTO employees (name, email, status, is_manager, password_hash)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING `+employeeColumns,
				strings.TrimSpace(req.Name),
				strings.ToLower(strings.TrimSpace(req.Email)),
				req.Status,
				req.IsManager,
				passwordHash,
			)
			if err != nil {
				return err
			}
			employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Employee])
			if err != nil {
				return err
			}
			out = &employee
			out.RoleIDs = []string{}

			if len(req.RoleIDs) > 0 {
				if err := replaceEmployeeRoles(ctx, tx, out.ID, req.RoleIDs); err != nil {
					return err
				}
				out.RoleIDs = append([]string{}, req.RoleIDs...)
			}
			return nil
		},
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// GetByID retrieves an employee with their role set.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	return r.getBy(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
}

// GetByEmail retrieves an employee by email with their role set. Email
// comparison is case-insensitive.
func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	return r.getBy(
		ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email),
	)
}

func (r *EmployeeRepo) getBy(ctx context.Context, query string, arg any) (*model.Employee, error) {
	var out *model.Employee
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		employee, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Employee])
		if err != nil {
			return err
		}
		out = &employee
		out.RoleIDs = []string{}

		roleIDs, err := loadEmployeeRoleIDs(ctx, conn, []string{out.ID})
		if err != nil {
			return err
		}
		if ids, ok := roleIDs[out.ID]; ok {
			out.RoleIDs = ids
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("employee not found")
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get employee: %w", err))
	}
	return out, nil
}

// List retrieves employees with optional filters, role sets included.
func (r *EmployeeRepo) List(ctx context.Context, opts model.EmployeesListOptions) ([]*model.Employee, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	args := []any{}
	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		args = append(args, "%"+strings.TrimSpace(*opts.Q)+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (name ILIKE $` + n + ` OR email ILIKE $` + n + `)`
	}
	if opts.Status != nil && *opts.Status != "" {
		args = append(args, string(*opts.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += ` ORDER BY name ASC, id ASC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	var out []*model.Employee
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		employees, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Employee])
		if err != nil {
			return err
		}

		out = make([]*model.Employee, len(employees))
		ids := make([]string, len(employees))
		for i := range employees {
			employees[i].RoleIDs = []string{}
			out[i] = &employees[i]
			ids[i] = employees[i].ID
		}

		roleIDs, err := loadEmployeeRoleIDs(ctx, conn, ids)
		if err != nil {
			return err
		}
		for _, e := range out {
			if rids, ok := roleIDs[e.ID]; ok {
				e.RoleIDs = rids
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list employees: %w", err))
	}
	return out, nil
}

// ListAll retrieves every employee with their role set, for snapshot loading.
func (r *EmployeeRepo) ListAll(ctx context.Context) ([]model.Employee, error) {
	var out []model.Employee
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at ASC, id ASC`)
		if err != nil {
			return err
		}
		employees, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Employee])
		if err != nil {
			return err
		}

		ids := make([]string, len(employees))
		for i := range employees {
			employees[i].RoleIDs = []string{}
			ids[i] = employees[i].ID
		}

		roleIDs, err := loadEmployeeRoleIDs(ctx, conn, ids)
		if err != nil {
			return err
		}
		for i := range employees {
			if rids, ok := roleIDs[employees[i].ID]; ok {
				employees[i].RoleIDs = rids
			}
		}
		out = employees
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list all employees: %w", err))
	}
	return out, nil
}

// CountActive returns the number of active employees, the workforce size a
// run's metrics are reported against.
func (r *EmployeeRepo) CountActive(ctx context.Context) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM employees WHERE status = $1`,
			model.EmployeeStatusActive,
		).Scan(&count)
	})
	if err != nil {
		return 0, apperrors.MapDBError(fmt.Errorf("count active employees: %w", err))
	}
	return count, nil
}

// Update applies partial changes to an employee; RoleIDs, when set, replaces
// the full qualification set in the same transaction. passwordHash is only
// consulted when the request carries a new password.
func (r *EmployeeRepo) Update(
	ctx context.Context,
	id string,
	req *model.UpdateEmployeeRequest,
	passwordHash *string,
) (*model.Employee, error) {
	if req == nil {
		return nil, apperrors.Validation("update employee request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if req.Password != nil && (passwordHash == nil || strings.TrimSpace(*passwordHash) == "") {
		return nil, apperrors.Validation("password hash is required when changing the password")
	}

	var out *model.Employee
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			setClause, args := buildEmployeeUpdateClause(req, passwordHash)
			var (
				employee model.Employee
				err      error
			)
			if setClause == "" {
				rows, qerr := tx.Query(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
				if qerr != nil {
					return qerr
				}
				employee, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Employee])
			} else {
				args = append(args, id)
				query := `UPDATE employees SET ` + setClause + `, updated_at = now() WHERE id = $` +
					strconv.Itoa(len(args)) + ` RETURNING ` + employeeColumns
				rows, qerr := tx.Query(ctx, query, args...)
				if qerr != nil {
					return qerr
				}
				employee, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Employee])
			}
			if err != nil {
				return err
			}
			out = &employee
			out.RoleIDs = []string{}

			if req.RoleIDs != nil {
				if err := replaceEmployeeRoles(ctx, tx, id, *req.RoleIDs); err != nil {
					return err
				}
				out.RoleIDs = append([]string{}, (*req.RoleIDs)...)
				return nil
			}

			rows, err := tx.Query(ctx, `SELECT role_id FROM employee_roles WHERE employee_id = $1 ORDER BY role_id`, id)
			if err != nil {
				return err
			}
			roleIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
			if err != nil {
				return err
			}
			out.RoleIDs = roleIDs
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("employee %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

func buildEmployeeUpdateClause(req *model.UpdateEmployeeRequest, passwordHash *string) (string, []any) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.ToLower(strings.TrimSpace(*req.Email)))
	}
	if req.Password != nil && passwordHash != nil {
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", nextIdx()))
		args = append(args, *passwordHash)
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.IsManager != nil {
		setParts = append(setParts, fmt.Sprintf("is_manager = $%d", nextIdx()))
		args = append(args, *req.IsManager)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}

// Delete removes an employee. Assignments cascade; schedules they created are
// protected by the schema's RESTRICT rule.
func (r *EmployeeRepo) Delete(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
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
		return apperrors.NotFoundf("employee %s not found", id)
	}
	return nil
}

// replaceEmployeeRoles swaps an employee's full qualification set inside tx.
func replaceEmployeeRoles(ctx context.Context, tx pgx.Tx, employeeID string, roleIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM employee_roles WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("clear employee roles: %w", err)
	}
	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO employee_roles (employee_id, role_id)
			VALUES ($1, $2)
			ON CONFLICT (employee_id, role_id) DO NOTHING
		`, employeeID, roleID); err != nil {
			return fmt.Errorf("insert employee role: %w", err)
		}
	}
	return nil
}

// loadEmployeeRoleIDs bulk-loads role id sets for the given employees.
func loadEmployeeRoleIDs(ctx context.Context, conn *pgx.Conn, employeeIDs []string) (map[string][]string, error) {
	if len(employeeIDs) == 0 {
		return map[string][]string{}, nil
	}
	rows, err := conn.Query(ctx, `
		SELECT employee_id, role_id
		FROM employee_roles
		WHERE employee_id = ANY($1)
		ORDER BY role_id
	`, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("load employee roles: %w", err)
	}
	defer rows.Close()

	res := make(map[string][]string, len(employeeIDs))
	for rows.Next() {
		var employeeID, roleID string
		if err := rows.Scan(&employeeID, &roleID); err != nil {
			return nil, fmt.Errorf("scan employee role: %w", err)
		}
		res[employeeID] = append(res[employeeID], roleID)
	}
	return res, rows.Err()
}
