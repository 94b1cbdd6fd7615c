package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/rosterd/rosterd/internal/data/pgxutil"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
)

// SnapshotRepo assembles the frozen RunContext an optimization run consumes.
// It composes the aggregate repos; the independent reads run concurrently.
type SnapshotRepo struct {
	DB *sql.DB

	schedules   *ScheduleRepo
	employees   *EmployeeRepo
	timeOff     *TimeOffRepo
	preferences *PreferenceRepo
	constraints *ConstraintRepo
	configs     *OptimizationConfigRepo
	roles       *RoleRepo
}

// NewSnapshotRepo creates a new SnapshotRepo over the given database.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{
		DB:          db,
		schedules:   NewScheduleRepo(db),
		employees:   NewEmployeeRepo(db),
		timeOff:     NewTimeOffRepo(db),
		preferences: NewPreferenceRepo(db),
		constraints: NewConstraintRepo(db),
		configs:     NewOptimizationConfigRepo(db),
		roles:       NewRoleRepo(db),
	}
}

// LoadRunContext loads everything one run needs in a single eager pass:
// the schedule, the resolved config, the workforce, the non-cancelled
// planned shifts with their template demands, approved time off overlapping
// the shift span, preferences, work rules, and live assignments.
//
// configID selects the config explicitly; when nil the default config is
// used, and its absence is a validation error.
func (r *SnapshotRepo) LoadRunContext(ctx context.Context, scheduleID string, configID *string) (*model.RunContext, error) {
	rc := &model.RunContext{}

	schedule, err := r.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	rc.Schedule = *schedule

	var config *model.OptimizationConfig
	if configID != nil && *configID != "" {
		config, err = r.configs.GetByID(ctx, *configID)
		if err != nil {
			return nil, err
		}
	} else {
		config, err = r.configs.GetDefault(ctx)
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Validation("no optimization configuration available: pass config_id or flag a default")
		}
		if err != nil {
			return nil, err
		}
	}
	rc.Config = *config

	shifts, err := r.schedules.ListShifts(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	rc.Shifts = make([]model.PlannedShift, 0, len(shifts))
	for _, s := range shifts {
		if s.Status == model.PlannedShiftStatusCancelled {
			continue
		}
		rc.Shifts = append(rc.Shifts, s)
	}

	from, to := shiftSpan(rc.Shifts, schedule.WeekStartDate)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		employees, err := r.employees.ListAll(gctx)
		if err != nil {
			return err
		}
		rc.Employees = employees
		return nil
	})
	g.Go(func() error {
		roles, err := r.roles.List(gctx)
		if err != nil {
			return err
		}
		rc.Roles = make([]model.Role, len(roles))
		for i, role := range roles {
			rc.Roles[i] = *role
		}
		return nil
	})
	g.Go(func() error {
		demands, err := r.demandsForShifts(gctx, rc.Shifts)
		if err != nil {
			return err
		}
		rc.Demands = demands
		return nil
	})
	g.Go(func() error {
		timeOff, err := r.timeOff.ListApprovedBetween(gctx, from, to)
		if err != nil {
			return err
		}
		rc.TimeOff = timeOff
		return nil
	})
	g.Go(func() error {
		preferences, err := r.preferences.ListAll(gctx)
		if err != nil {
			return err
		}
		rc.Preferences = preferences
		return nil
	})
	g.Go(func() error {
		constraints, err := r.constraints.List(gctx)
		if err != nil {
			return err
		}
		rc.Constraints = constraints
		return nil
	})
	g.Go(func() error {
		assignments, err := r.schedules.ListAssignmentsForSchedule(gctx, scheduleID)
		if err != nil {
			return err
		}
		rc.ExistingAssignments = assignments
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rc, nil
}

// demandsForShifts loads the demand rows of every template the shifts
// reference.
func (r *SnapshotRepo) demandsForShifts(ctx context.Context, shifts []model.PlannedShift) ([]model.TemplateDemand, error) {
	seen := make(map[string]struct{}, len(shifts))
	templateIDs := make([]string, 0, len(shifts))
	for _, s := range shifts {
		if _, ok := seen[s.TemplateID]; ok {
			continue
		}
		seen[s.TemplateID] = struct{}{}
		templateIDs = append(templateIDs, s.TemplateID)
	}
	if len(templateIDs) == 0 {
		return []model.TemplateDemand{}, nil
	}

	var out []model.TemplateDemand
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, template_id, role_id, required_count
			FROM shift_template_demands
			WHERE template_id = ANY($1)
			ORDER BY template_id, role_id
		`, templateIDs)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.TemplateDemand])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("load template demands: %w", err))
	}
	return out, nil
}

// shiftSpan returns the inclusive calendar range the shifts cover, falling
// back to the schedule week when there are no shifts.
func shiftSpan(shifts []model.PlannedShift, weekStart time.Time) (time.Time, time.Time) {
	if len(shifts) == 0 {
		return model.DateOnly(weekStart), model.DateOnly(weekStart.AddDate(0, 0, 6))
	}
	from := model.DateOnly(shifts[0].StartAt)
	to := model.DateOnly(shifts[0].EndAt)
	for _, s := range shifts[1:] {
		if d := model.DateOnly(s.StartAt); d.Before(from) {
			from = d
		}
		if d := model.DateOnly(s.EndAt); d.After(to) {
			to = d
		}
	}
	return from, to
}
