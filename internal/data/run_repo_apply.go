package data

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/rosterd/rosterd/internal/data/pgxutil"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
)

// ApplyRunSolutions replaces the live assignments for every planned shift
// covered by the run's solutions, in one transaction: delete existing
// assignments on the covered shifts, insert one assignment per usable
// solution row, then restate each covered shift's staffing status against its
// template demand. Solution rows whose employee or role reference was nulled
// by a personnel delete are skipped and counted.
//
// Run-state validation is the caller's job; this method only performs the
// swap. Re-applying the same run repeats the delete+insert on the same set.
func (r *RunRepo) ApplyRunSolutions(ctx context.Context, runID string) (*model.ApplyResult, error) {
	result := &model.ApplyResult{RunID: runID}

	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			rows, err := tx.Query(ctx, `
				SELECT `+solutionColumns+`
				FROM scheduling_solutions
				WHERE run_id = $1
				ORDER BY created_at ASC, id ASC
			`, runID)
			if err != nil {
				return err
			}
			solutions, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.SchedulingSolution])
			if err != nil {
				return err
			}

			coveredSet := make(map[string]struct{}, len(solutions))
			insertedPerShift := make(map[string]int, len(solutions))
			type insertRow struct {
				shiftID    string
				employeeID string
				roleID     string
			}
			inserts := make([]insertRow, 0, len(solutions))
			for _, s := range solutions {
				coveredSet[s.PlannedShiftID] = struct{}{}
				if s.EmployeeID == nil || s.RoleID == nil {
					result.SkippedSolutions++
					continue
				}
				inserts = append(inserts, insertRow{
					shiftID:    s.PlannedShiftID,
					employeeID: *s.EmployeeID,
					roleID:     *s.RoleID,
				})
				insertedPerShift[s.PlannedShiftID]++
			}
			if len(coveredSet) == 0 {
				return nil
			}

			covered := make([]string, 0, len(coveredSet))
			for id := range coveredSet {
				covered = append(covered, id)
			}
			sort.Strings(covered)
			result.ShiftsAffected = len(covered)

			ct, err := tx.Exec(ctx, `DELETE FROM shift_assignments WHERE planned_shift_id = ANY($1)`, covered)
			if err != nil {
				return fmt.Errorf("delete existing assignments: %w", err)
			}
			result.AssignmentsDeleted = int(ct.RowsAffected())

			if len(inserts) > 0 {
				n, err := tx.CopyFrom(ctx,
					pgx.Identifier{"shift_assignments"},
					[]string{"planned_shift_id", "employee_id", "role_id"},
					pgx.CopyFromSlice(len(inserts), func(i int) ([]any, error) {
						return []any{inserts[i].shiftID, inserts[i].employeeID, inserts[i].roleID}, nil
					}),
				)
				if err != nil {
					return fmt.Errorf("insert assignments: %w", err)
				}
				result.AssignmentsCreated = int(n)
			}

			demandRows, err := tx.Query(ctx, `
				SELECT ps.id, COALESCE(SUM(d.required_count), 0)::int
				FROM planned_shifts ps
				LEFT JOIN shift_template_demands d ON d.template_id = ps.template_id
				WHERE ps.id = ANY($1)
				GROUP BY ps.id
			`, covered)
			if err != nil {
				return fmt.Errorf("load shift demands: %w", err)
			}
			demandByShift := make(map[string]int, len(covered))
			for demandRows.Next() {
				var shiftID string
				var demand int
				if err := demandRows.Scan(&shiftID, &demand); err != nil {
					demandRows.Close()
					return fmt.Errorf("scan shift demand: %w", err)
				}
				demandByShift[shiftID] = demand
			}
			if err := demandRows.Err(); err != nil {
				return err
			}

			for _, shiftID := range covered {
				status := model.PlannedShiftStatusPartiallyAssigned
				if demand, ok := demandByShift[shiftID]; ok && demand > 0 && insertedPerShift[shiftID] == demand {
					status = model.PlannedShiftStatusFullyAssigned
					result.ShiftsFullyAssigned++
				} else {
					result.ShiftsPartiallyAssigned++
				}
				if _, err := tx.Exec(ctx, `
					UPDATE planned_shifts SET status = $2, updated_at = now() WHERE id = $1
				`, shiftID, status); err != nil {
					return fmt.Errorf("update shift status: %w", err)
				}
			}
			return nil
		},
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("apply run solutions: %w", err))
	}
	return result, nil
}
