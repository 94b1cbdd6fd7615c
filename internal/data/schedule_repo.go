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

// ScheduleRepo provides database operations for weekly schedules, their
// planned shifts, and the live assignments on those shifts.
type ScheduleRepo struct {
	DB *sql.DB
}

// NewScheduleRepo creates a new ScheduleRepo.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{DB: db}
}

const (
	scheduleColumns = `id, week_start_date, status, created_by, published_by, published_at, created_at, updated_at`

	plannedShiftColumns = `id, schedule_id, template_id, shift_date, start_at, end_at, location, status, created_at, updated_at`

	assignmentColumns = `id, planned_shift_id, employee_id, role_id, created_at`
)

// Create inserts a new draft schedule anchored at the given week start.
func (r *ScheduleRepo) Create(ctx context.Context, req *model.CreateWeeklyScheduleRequest, createdBy string) (*model.WeeklySchedule, error) {
	if req == nil {
		return nil, apperrors.Validation("create schedule request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if strings.TrimSpace(createdBy) == "" {
		return nil, apperrors.Validation("creator is required")
	}
	weekStart, err := model.ParseDate(req.WeekStartDate)
	if err != nil {
		return nil, apperrors.Validation("week_start_date must be a valid YYYY-MM-DD date")
	}

	var out *model.WeeklySchedule
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO weekly_schedules (week_start_date, status, created_by)
			VALUES ($1, $2, $3)
			RETURNING `+scheduleColumns,
			weekStart, model.ScheduleStatusDraft, createdBy,
		)
		if err != nil {
			return err
		}
		schedule, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WeeklySchedule])
		if err != nil {
			return err
		}
		out = &schedule
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("create schedule: %w", err))
	}
	return out, nil
}

// GetByID retrieves a weekly schedule.
func (r *ScheduleRepo) GetByID(ctx context.Context, id string) (*model.WeeklySchedule, error) {
	var out *model.WeeklySchedule
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+scheduleColumns+` FROM weekly_schedules WHERE id = $1`, id)
		if err != nil {
			return err
		}
		schedule, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WeeklySchedule])
		if err != nil {
			return err
		}
		out = &schedule
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("schedule %s not found", id)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get schedule: %w", err))
	}
	return out, nil
}

// List retrieves schedules newest week first with optional status filtering.
func (r *ScheduleRepo) List(ctx context.Context, opts model.SchedulesListOptions) ([]*model.WeeklySchedule, error) {
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

	query := `SELECT ` + scheduleColumns + ` FROM weekly_schedules WHERE 1=1`
	args := []any{}
	if opts.Status != nil && *opts.Status != "" {
		args = append(args, string(*opts.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += ` ORDER BY week_start_date DESC, created_at DESC LIMIT $` +
		strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	var out []*model.WeeklySchedule
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		schedules, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.WeeklySchedule])
		if err != nil {
			return err
		}
		out = make([]*model.WeeklySchedule, len(schedules))
		for i := range schedules {
			out[i] = &schedules[i]
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list schedules: %w", err))
	}
	return out, nil
}

// Publish transitions a draft schedule to published, recording the publisher
// and timestamp. Non-draft schedules are rejected.
func (r *ScheduleRepo) Publish(ctx context.Context, id, publishedBy string) (*model.WeeklySchedule, error) {
	var out *model.WeeklySchedule
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE weekly_schedules
			SET status = $2, published_by = $3, published_at = now(), updated_at = now()
			WHERE id = $1 AND status = $4
			RETURNING `+scheduleColumns,
			id, model.ScheduleStatusPublished, publishedBy, model.ScheduleStatusDraft,
		)
		if err != nil {
			return err
		}
		schedule, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WeeklySchedule])
		if err != nil {
			return err
		}
		out = &schedule
		return nil
	})
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapDBError(fmt.Errorf("publish schedule: %w", err))
	}

	// Either the schedule is missing or it is not a draft.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.BusinessRule("only draft schedules can be published")
}

// Archive transitions a published schedule to archived.
func (r *ScheduleRepo) Archive(ctx context.Context, id string) (*model.WeeklySchedule, error) {
	var out *model.WeeklySchedule
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE weekly_schedules
			SET status = $2, updated_at = now()
			WHERE id = $1 AND status = $3
			RETURNING `+scheduleColumns,
			id, model.ScheduleStatusArchived, model.ScheduleStatusPublished,
		)
		if err != nil {
			return err
		}
		schedule, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WeeklySchedule])
		if err != nil {
			return err
		}
		out = &schedule
		return nil
	})
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapDBError(fmt.Errorf("archive schedule: %w", err))
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.BusinessRule("only published schedules can be archived")
}

// Delete removes a schedule; planned shifts, assignments, runs, and solutions
// cascade with it.
func (r *ScheduleRepo) Delete(ctx context.Context, id string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM weekly_schedules WHERE id = $1`, id)
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
		return apperrors.NotFoundf("schedule %s not found", id)
	}
	return nil
}

// AddShift instantiates a template on a date within a schedule. Explicit
// times override the template window; when both are absent the request is
// rejected. Overnight windows land the end on the following day.
func (r *ScheduleRepo) AddShift(ctx context.Context, scheduleID string, req *model.CreatePlannedShiftRequest) (*model.PlannedShift, error) {
	if req == nil {
		return nil, apperrors.Validation("create planned shift request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	shiftDate, err := model.ParseDate(req.ShiftDate)
	if err != nil {
		return nil, apperrors.Validation("shift_date must be a valid YYYY-MM-DD date")
	}

	var out *model.PlannedShift
	err = pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			var scheduleStatus model.ScheduleStatus
			err := tx.QueryRow(ctx, `SELECT status FROM weekly_schedules WHERE id = $1`, scheduleID).
				Scan(&scheduleStatus)
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFoundf("schedule %s not found", scheduleID)
			}
			if err != nil {
				return err
			}
			if scheduleStatus == model.ScheduleStatusArchived {
				return apperrors.BusinessRule("cannot add shifts to an archived schedule")
			}

			var (
				tplStart, tplEnd *model.TimeOfDay
				tplLocation      *string
			)
			err = tx.QueryRow(ctx, `
				SELECT start_time_of_day, end_time_of_day, location
				FROM shift_templates WHERE id = $1
			`, req.TemplateID).Scan(&tplStart, &tplEnd, &tplLocation)
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFoundf("shift template %s not found", req.TemplateID)
			}
			if err != nil {
				return err
			}

			start, end := req.StartTimeOfDay, req.EndTimeOfDay
			if start == nil {
				start, end = tplStart, tplEnd
			}
			if start == nil || end == nil {
				return apperrors.Validation("shift times are required when the template has no default window")
			}
			startAt, endAt, err := model.ShiftInterval(shiftDate, *start, *end)
			if err != nil {
				return apperrors.Validation(err.Error())
			}

			location := req.Location
			if location == nil {
				location = tplLocation
			}

			rows, err := tx.Query(ctx, `
				INSERT INTO planned_shifts (schedule_id, template_id, shift_date, start_at, end_at, location, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING `+plannedShiftColumns,
				scheduleID, req.TemplateID, shiftDate, startAt, endAt, location, model.PlannedShiftStatusPlanned,
			)
			if err != nil {
				return err
			}
			shift, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PlannedShift])
			if err != nil {
				return err
			}
			out = &shift
			return nil
		},
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.MapDBError(fmt.Errorf("add planned shift: %w", err))
	}
	return out, nil
}

// ListShifts retrieves a schedule's planned shifts ordered by start time.
func (r *ScheduleRepo) ListShifts(ctx context.Context, scheduleID string) ([]model.PlannedShift, error) {
	var out []model.PlannedShift
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+plannedShiftColumns+`
			FROM planned_shifts
			WHERE schedule_id = $1
			ORDER BY start_at ASC, id ASC
		`, scheduleID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.PlannedShift])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list planned shifts: %w", err))
	}
	return out, nil
}

// CountActiveShifts returns how many of a schedule's planned shifts are in
// the optimizer's scope; cancelled shifts are not counted.
func (r *ScheduleRepo) CountActiveShifts(ctx context.Context, scheduleID string) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT COUNT(*) FROM planned_shifts WHERE schedule_id = $1 AND status <> $2`,
			scheduleID, model.PlannedShiftStatusCancelled,
		).Scan(&count)
	})
	if err != nil {
		return 0, apperrors.MapDBError(fmt.Errorf("count planned shifts: %w", err))
	}
	return count, nil
}

// GetShiftByID retrieves one planned shift.
func (r *ScheduleRepo) GetShiftByID(ctx context.Context, shiftID string) (*model.PlannedShift, error) {
	var out *model.PlannedShift
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+plannedShiftColumns+` FROM planned_shifts WHERE id = $1`, shiftID)
		if err != nil {
			return err
		}
		shift, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PlannedShift])
		if err != nil {
			return err
		}
		out = &shift
		return nil
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("planned shift %s not found", shiftID)
		}
		return nil, apperrors.MapDBError(fmt.Errorf("get planned shift: %w", err))
	}
	return out, nil
}

// DeleteShift removes a planned shift from a schedule; its assignments and
// solution rows cascade.
func (r *ScheduleRepo) DeleteShift(ctx context.Context, scheduleID, shiftID string) error {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM planned_shifts WHERE id = $1 AND schedule_id = $2`, shiftID, scheduleID)
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
		return apperrors.NotFoundf("planned shift %s not found", shiftID)
	}
	return nil
}

// ListAssignmentsForSchedule retrieves the live assignments across a
// schedule's planned shifts.
func (r *ScheduleRepo) ListAssignmentsForSchedule(ctx context.Context, scheduleID string) ([]model.ShiftAssignment, error) {
	var out []model.ShiftAssignment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT a.id, a.planned_shift_id, a.employee_id, a.role_id, a.created_at
			FROM shift_assignments a
			JOIN planned_shifts ps ON ps.id = a.planned_shift_id
			WHERE ps.schedule_id = $1
			ORDER BY a.created_at ASC, a.id ASC
		`, scheduleID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ShiftAssignment])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("list schedule assignments: %w", err))
	}
	return out, nil
}
