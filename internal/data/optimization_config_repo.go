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

// OptimizationConfigRepo provides database operations for optimization
// configs. A partial unique index keeps at most one config flagged default,
// so default flips clear the previous default in the same transaction.
type OptimizationConfigRepo struct {
	DB *sql.DB
}

// NewOptimizationConfigRepo creates a new OptimizationConfigRepo.
func NewOptimizationConfigRepo(db *sql.DB) *OptimizationConfigRepo {
	return &OptimizationConfigRepo{DB: db}
}

const optimizationConfigColumns = `id, name, weight_fairness, weight_preferences, weight_cost, weight_coverage,
	max_runtime_seconds, mip_gap, is_default, created_at, updated_at`

// Create inserts a new config. When flagged default, the previous default is
// unset first.
func (r *OptimizationConfigRepo) Create(ctx context.Context, req *model.CreateOptimizationConfigRequest) (*model.OptimizationConfig, error) {
	if req == nil {
		return nil, apperrors.Validation("create optimization config request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out *model.OptimizationConfig
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			if req.IsDefault {
				if _, err := tx.Exec(ctx, `UPDATE optimization_configs SET is_default = FALSE, updated_at = now() WHERE is_default`); err != nil {
					return err
				}
			}
			rows, err := tx.Query(ctx, `
				INSERT INTO optimization_configs
					(name, weight_fairness, weight_preferences, weight_cost, weight_coverage,
					 max_runtime_seconds, mip_gap, is_default)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				RETURNING `+optimizationConfigColumns,
				strings.TrimSpace(req.Name),
				req.WeightFairness, req.WeightPreferences, req.WeightCost, req.WeightCoverage,
				req.MaxRuntimeSeconds, req.MIPGap, req.IsDefault,
			)
			if err != nil {
				return err
			}
			cfg, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.OptimizationConfig])
			if err != nil {
				return err
			}
			out = &cfg
			return nil
		},
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create optimization config: %w", err))
	}
	return out, nil
}

// GetByID retrieves an optimization config.
func (r *OptimizationConfigRepo) GetByID(ctx context.Context, id string) (*model.OptimizationConfig, error) {
	return r.getBy(ctx, `SELECT `+optimizationConfigColumns+` FROM optimization_configs WHERE id = $1`, id)
}

// GetDefault retrieves the config flagged as default, if any.
func (r *OptimizationConfigRepo) GetDefault(ctx context.Context) (*model.OptimizationConfig, error) {
	return r.getBy(ctx, `SELECT `+optimizationConfigColumns+` FROM optimization_configs WHERE is_default LIMIT 1`)
}

func (r *OptimizationConfigRepo) getBy(ctx context.Context, query string, args ...any) (*model.OptimizationConfig, error) {
	var out *model.OptimizationConfig
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		cfg, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.OptimizationConfig])
		if err != nil {
			return err
		}
		out = &cfg
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("optimization config not found")
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get optimization config: %w", err))
	}
	return out, nil
}

// List retrieves all configs, default first then by name.
func (r *OptimizationConfigRepo) List(ctx context.Context) ([]model.OptimizationConfig, error) {
	var out []model.OptimizationConfig
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+optimizationConfigColumns+`
			FROM optimization_configs
			ORDER BY is_default DESC, name ASC
		`)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.OptimizationConfig])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list optimization configs: %w", err))
	}
	return out, nil
}

// Update applies partial changes to a config. Setting is_default unsets the
// previous default in the same transaction.
func (r *OptimizationConfigRepo) Update(ctx context.Context, id string, req *model.UpdateOptimizationConfigRequest) (*model.OptimizationConfig, error) {
	if req == nil {
		return nil, apperrors.Validation("update optimization config request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out *model.OptimizationConfig
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			if req.IsDefault != nil && *req.IsDefault {
				if _, err := tx.Exec(ctx, `
					UPDATE optimization_configs SET is_default = FALSE, updated_at = now()
					WHERE is_default AND id <> $1
				`, id); err != nil {
					return err
				}
			}

			setClause, args := buildOptimizationConfigUpdateClause(req)
			args = append(args, id)
			query := `UPDATE optimization_configs SET ` + setClause + `, updated_at = now() WHERE id = $` +
				strconv.Itoa(len(args)) + ` RETURNING ` + optimizationConfigColumns
			rows, err := tx.Query(ctx, query, args...)
			if err != nil {
				return err
			}
			cfg, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.OptimizationConfig])
			if err != nil {
				return err
			}
			out = &cfg
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("optimization config %s not found", id)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("update optimization config: %w", err))
	}
	return out, nil
}

func buildOptimizationConfigUpdateClause(req *model.UpdateOptimizationConfigRequest) (string, []any) {
	setParts := make([]string, 0, 8)
	args := make([]any, 0, 9)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.WeightFairness != nil {
		setParts = append(setParts, fmt.Sprintf("weight_fairness = $%d", nextIdx()))
		args = append(args, *req.WeightFairness)
	}
	if req.WeightPreferences != nil {
		setParts = append(setParts, fmt.Sprintf("weight_preferences = $%d", nextIdx()))
		args = append(args, *req.WeightPreferences)
	}
	if req.WeightCost != nil {
		setParts = append(setParts, fmt.Sprintf("weight_cost = $%d", nextIdx()))
		args = append(args, *req.WeightCost)
	}
	if req.WeightCoverage != nil {
		setParts = append(setParts, fmt.Sprintf("weight_coverage = $%d", nextIdx()))
		args = append(args, *req.WeightCoverage)
	}
	if req.MaxRuntimeSeconds != nil {
		setParts = append(setParts, fmt.Sprintf("max_runtime_seconds = $%d", nextIdx()))
		args = append(args, *req.MaxRuntimeSeconds)
	}
	if req.MIPGap != nil {
		setParts = append(setParts, fmt.Sprintf("mip_gap = $%d", nextIdx()))
		args = append(args, *req.MIPGap)
	}
	if req.IsDefault != nil {
		setParts = append(setParts, fmt.Sprintf("is_default = $%d", nextIdx()))
		args = append(args, *req.IsDefault)
	}
	return strings.Join(setParts, ", "), args
}

// Delete removes a config. Runs that used it are protected by the schema's
// RESTRICT rule.
func (r *OptimizationConfigRepo) Delete(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM optimization_configs WHERE id = $1`, id)
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
		return apperrors.NotFoundf("optimization config %s not found", id)
	}
	return nil
}
