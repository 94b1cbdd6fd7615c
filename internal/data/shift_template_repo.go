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

// ShiftTemplateRepo provides database operations for shift templates and
// their per-role staffing demands.
type ShiftTemplateRepo struct {
	DB *sql.DB
}

// NewShiftTemplateRepo creates a new ShiftTemplateRepo.
func NewShiftTemplateRepo(db *sql.DB) *ShiftTemplateRepo {
	return &ShiftTemplateRepo{DB: db}
}

const shiftTemplateColumns = `id, name, start_time_of_day, end_time_of_day, location, created_at, updated_at`

// Create inserts a new shift template with its demand list in one transaction.
func (r *ShiftTemplateRepo) Create(ctx context.Context, req *model.CreateShiftTemplateRequest) (*model.ShiftTemplate, error) {
	if req == nil {
		return nil, apperrors.Validation("create shift template request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out *model.ShiftTemplate
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				INSERT INTO shift_templates (name, start_time_of_day, end_time_of_day, location)
				VALUES ($1, $2, $3, $4)
				RETURNING `+shiftTemplateColumns,
				strings.TrimSpace(req.Name),
				req.StartTimeOfDay,
				req.EndTimeOfDay,
				req.Location,
			)
			if err != nil {
				return err
			}
			tpl, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ShiftTemplate])
			if err != nil {
				return err
			}
			out = &tpl

			demands, err := replaceTemplateDemands(ctx, tx, out.ID, req.Demands)
			if err != nil {
				return err
			}
			out.Demands = demands
			return nil
		},
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// GetByID retrieves a shift template with its demand list.
func (r *ShiftTemplateRepo) GetByID(ctx context.Context, id string) (*model.ShiftTemplate, error) {
	var out *model.ShiftTemplate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+shiftTemplateColumns+` FROM shift_templates WHERE id = $1`, id)
		if err != nil {
			return err
		}
		tpl, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ShiftTemplate])
		if err != nil {
			return err
		}
		out = &tpl
		out.Demands = []model.TemplateDemand{}

		demands, err := loadTemplateDemands(ctx, conn, []string{out.ID})
		if err != nil {
			return err
		}
		if ds, ok := demands[out.ID]; ok {
			out.Demands = ds
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("shift template %s not found", id)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get shift template: %w", err))
	}
	return out, nil
}

// List retrieves all shift templates ordered by name, demands included.
func (r *ShiftTemplateRepo) List(ctx context.Context) ([]*model.ShiftTemplate, error) {
	var out []*model.ShiftTemplate
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+shiftTemplateColumns+` FROM shift_templates ORDER BY name ASC, id ASC`)
		if err != nil {
			return err
		}
		templates, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ShiftTemplate])
		if err != nil {
			return err
		}

		out = make([]*model.ShiftTemplate, len(templates))
		ids := make([]string, len(templates))
		for i := range templates {
			templates[i].Demands = []model.TemplateDemand{}
			out[i] = &templates[i]
			ids[i] = templates[i].ID
		}

		demands, err := loadTemplateDemands(ctx, conn, ids)
		if err != nil {
			return err
		}
		for _, tpl := range out {
			if ds, ok := demands[tpl.ID]; ok {
				tpl.Demands = ds
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list shift templates: %w", err))
	}
	return out, nil
}

// Update applies partial changes to a shift template; Demands, when set,
// replaces the full demand list in the same transaction.
func (r *ShiftTemplateRepo) Update(ctx context.Context, id string, req *model.UpdateShiftTemplateRequest) (*model.ShiftTemplate, error) {
	if req == nil {
		return nil, apperrors.Validation("update shift template request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out *model.ShiftTemplate
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			setClause, args := buildShiftTemplateUpdateClause(req)
			var (
				tpl model.ShiftTemplate
				err error
			)
			if setClause == "" {
				rows, qerr := tx.Query(ctx, `SELECT `+shiftTemplateColumns+` FROM shift_templates WHERE id = $1`, id)
				if qerr != nil {
					return qerr
				}
				tpl, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ShiftTemplate])
			} else {
				args = append(args, id)
				query := `UPDATE shift_templates SET ` + setClause + `, updated_at = now() WHERE id = $` +
					strconv.Itoa(len(args)) + ` RETURNING ` + shiftTemplateColumns
				rows, qerr := tx.Query(ctx, query, args...)
				if qerr != nil {
					return qerr
				}
				tpl, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ShiftTemplate])
			}
			if err != nil {
				return err
			}
			out = &tpl

			if req.Demands != nil {
				demands, err := replaceTemplateDemands(ctx, tx, id, *req.Demands)
				if err != nil {
					return err
				}
				out.Demands = demands
				return nil
			}

			rows, err := tx.Query(ctx, `
				SELECT id, template_id, role_id, required_count
				FROM shift_template_demands
				WHERE template_id = $1
				ORDER BY role_id
			`, id)
			if err != nil {
				return err
			}
			demands, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.TemplateDemand])
			if err != nil {
				return err
			}
			out.Demands = demands
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("shift template %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

func buildShiftTemplateUpdateClause(req *model.UpdateShiftTemplateRequest) (string, []any) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.StartTimeOfDay != nil {
		setParts = append(setParts, fmt.Sprintf("start_time_of_day = $%d", nextIdx()))
		args = append(args, *req.StartTimeOfDay)
	}
	if req.EndTimeOfDay != nil {
		setParts = append(setParts, fmt.Sprintf("end_time_of_day = $%d", nextIdx()))
		args = append(args, *req.EndTimeOfDay)
	}
	if req.Location != nil {
		setParts = append(setParts, fmt.Sprintf("location = $%d", nextIdx()))
		args = append(args, *req.Location)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	return strings.Join(setParts, ", "), args
}

// Delete removes a shift template. Planned shifts referencing it are
// protected by the schema's RESTRICT rule.
func (r *ShiftTemplateRepo) Delete(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM shift_templates WHERE id = $1`, id)
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
		return apperrors.NotFoundf("shift template %s not found", id)
	}
	return nil
}

// replaceTemplateDemands swaps a template's full demand list inside tx and
// returns the inserted rows.
func replaceTemplateDemands(
	ctx context.Context,
	tx pgx.Tx,
	templateID string,
	inputs []model.TemplateDemandInput,
) ([]model.TemplateDemand, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM shift_template_demands WHERE template_id = $1`, templateID); err != nil {
		return nil, fmt.Errorf("clear template demands: %w", err)
	}
	out := make([]model.TemplateDemand, 0, len(inputs))
	for _, in := range inputs {
		rows, err := tx.Query(ctx, `
			INSERT INTO shift_template_demands (template_id, role_id, required_count)
			VALUES ($1, $2, $3)
			RETURNING id, template_id, role_id, required_count
		`, templateID, strings.TrimSpace(in.RoleID), in.RequiredCount)
		if err != nil {
			return nil, fmt.Errorf("insert template demand: %w", err)
		}
		demand, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.TemplateDemand])
		if err != nil {
			return nil, fmt.Errorf("insert template demand: %w", err)
		}
		out = append(out, demand)
	}
	return out, nil
}

// loadTemplateDemands bulk-loads demand lists for the given templates.
func loadTemplateDemands(ctx context.Context, conn *pgx.Conn, templateIDs []string) (map[string][]model.TemplateDemand, error) {
	if len(templateIDs) == 0 {
		return map[string][]model.TemplateDemand{}, nil
	}
	rows, err := conn.Query(ctx, `
		SELECT id, template_id, role_id, required_count
		FROM shift_template_demands
		WHERE template_id = ANY($1)
		ORDER BY role_id
	`, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("load template demands: %w", err)
	}
	demands, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.TemplateDemand])
	if err != nil {
		return nil, fmt.Errorf("collect template demands: %w", err)
	}

	res := make(map[string][]model.TemplateDemand, len(templateIDs))
	for _, d := range demands {
		res[d.TemplateID] = append(res[d.TemplateID], d)
	}
	return res, nil
}
