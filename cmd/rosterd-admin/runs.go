package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rosterd/rosterd/internal/data/database"
	"github.com/rosterd/rosterd/internal/domain/model"
)

const defaultInspectTimeout = 2 * time.Minute

type runsOptions struct {
	ScheduleID string
	Status     string
	Limit      int
	Offset     int
}

func runListRuns(cmdCtx *commandContext, args []string) error {
	opts, err := parseRunsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultInspectTimeout, func(ctx context.Context, db *sql.DB) error {
		resp, queryErr := queryRunRows(&queryRunsRequest{
			Ctx:     ctx,
			DB:      db,
			Logger:  cmdCtx.Logger,
			Options: &opts,
		})
		if queryErr != nil {
			return queryErr
		}
		return printRunRows(resp, &opts)
	})
}

func parseRunsFlags(args []string) (runsOptions, error) {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := runsOptions{}

	fs.StringVar(&opts.ScheduleID, "schedule-id", "", "Filter runs by weekly schedule ID")
	fs.StringVar(&opts.Status, "status", "", "Filter runs by status (pending, running, completed, failed, cancelled)")
	fs.IntVar(&opts.Limit, "limit", 20, "Maximum number of runs to display")
	fs.IntVar(&opts.Offset, "offset", 0, "Number of runs to skip")

	if err := fs.Parse(args); err != nil {
		return runsOptions{}, err
	}

	if opts.Limit < 0 {
		return runsOptions{}, errors.New("--limit must not be negative")
	}
	if opts.Offset < 0 {
		return runsOptions{}, errors.New("--offset must not be negative")
	}
	if opts.Status != "" && !model.SchedulingRunStatus(opts.Status).Valid() {
		return runsOptions{}, fmt.Errorf("invalid --status %q", opts.Status)
	}

	return opts, nil
}

type queryRunsRequest struct {
	Ctx     context.Context
	DB      *sql.DB
	Logger  *slog.Logger
	Options *runsOptions
}

type runRow struct {
	ID             string
	ScheduleID     string
	Status         string
	SolverStatus   sql.NullString
	ObjectiveValue sql.NullFloat64
	RuntimeSeconds sql.NullFloat64
	ErrorMessage   sql.NullString
	TriggeredAt    time.Time
	CompletedAt    sql.NullTime
}

type queryRunsResponse struct {
	Rows  []runRow
	Total int64
}

func queryRunRows(req *queryRunsRequest) (queryRunsResponse, error) {
	if req == nil || req.Options == nil {
		return queryRunsResponse{}, nil
	}
	conditions := buildRunConditions(req.Options)

	countOpts := []database.ListQueryOption{
		database.WithConditions(conditions...),
		database.WithCountOnly(),
	}
	countQuery, countArgs := database.BuildListQuery(
		database.NewListQueryOptions("scheduling_runs", countOpts...),
	)
	var total int64
	if err := req.DB.QueryRowContext(req.Ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return queryRunsResponse{}, fmt.Errorf("count scheduling runs: %w", err)
	}

	listColumns := []string{
		"id", "schedule_id", "status", "solver_status", "objective_value",
		"runtime_seconds", "error_message", "triggered_at", "completed_at",
	}
	listOpts := []database.ListQueryOption{
		database.WithColumns(listColumns...),
		database.WithConditions(conditions...),
		database.WithOrderBy("triggered_at", "DESC"),
	}
	if req.Options.Limit > 0 {
		listOpts = append(listOpts, database.WithLimit(req.Options.Limit))
	}
	if req.Options.Offset > 0 {
		listOpts = append(listOpts, database.WithOffset(req.Options.Offset))
	}
	selectQuery, selectArgs := database.BuildListQuery(
		database.NewListQueryOptions("scheduling_runs", listOpts...),
	)

	req.Logger.Debug("querying scheduling runs", "query", selectQuery, "args", selectArgs)

	rows, err := req.DB.QueryContext(req.Ctx, selectQuery, selectArgs...)
	if err != nil {
		return queryRunsResponse{}, fmt.Errorf("list scheduling runs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && req.Logger != nil {
			req.Logger.Warn("close run rows failed", "error", closeErr)
		}
	}()

	out := make([]runRow, 0)
	for rows.Next() {
		var row runRow
		if scanErr := rows.Scan(
			&row.ID,
			&row.ScheduleID,
			&row.Status,
			&row.SolverStatus,
			&row.ObjectiveValue,
			&row.RuntimeSeconds,
			&row.ErrorMessage,
			&row.TriggeredAt,
			&row.CompletedAt,
		); scanErr != nil {
			return queryRunsResponse{}, fmt.Errorf("scan run row: %w", scanErr)
		}
		out = append(out, row)
	}
	if iterErr := rows.Err(); iterErr != nil {
		return queryRunsResponse{}, fmt.Errorf("list scheduling runs rows: %w", iterErr)
	}

	return queryRunsResponse{Rows: out, Total: total}, nil
}

func buildRunConditions(opts *runsOptions) []database.Condition {
	if opts == nil {
		return nil
	}
	conditions := make([]database.Condition, 0, 2)
	if opts.ScheduleID != "" {
		conditions = append(conditions, database.WhereCond("schedule_id", database.Equal, opts.ScheduleID))
	}
	if opts.Status != "" {
		conditions = append(conditions, database.WhereCond("status", database.Equal, opts.Status))
	}
	return conditions
}

func printRunRows(resp queryRunsResponse, opts *runsOptions) error {
	if opts == nil {
		return errors.New("runs options are required")
	}
	if err := writef(os.Stdout, "\nOptimization runs"); err != nil {
		return fmt.Errorf("write runs header: %w", err)
	}
	if err := writeListHeaderInfo(max(opts.Limit, 0), opts.Offset); err != nil {
		return err
	}
	if err := writeln(os.Stdout); err != nil {
		return fmt.Errorf("write runs header newline: %w", err)
	}

	if len(resp.Rows) == 0 {
		if err := writeln(os.Stdout, "  (no runs found)"); err != nil {
			return fmt.Errorf("write runs empty message: %w", err)
		}
		return nil
	}

	if err := renderRunsTable(resp.Rows); err != nil {
		return err
	}

	if err := writef(os.Stdout, "Total matching runs: %d\n", resp.Total); err != nil {
		return fmt.Errorf("write runs total: %w", err)
	}
	if opts.Limit > 0 && len(resp.Rows) == opts.Limit && int64(opts.Offset+opts.Limit) < resp.Total {
		if err := writeln(os.Stdout, "More runs available; adjust --offset or --limit to view additional data."); err != nil {
			return fmt.Errorf("write runs more-rows message: %w", err)
		}
	}
	return nil
}

func writeListHeaderInfo(limit, offset int) error {
	switch {
	case limit > 0:
		if err := writef(os.Stdout, " (limit %d, offset %d)", limit, offset); err != nil {
			return fmt.Errorf("write list limit: %w", err)
		}
	case offset > 0:
		if err := writef(os.Stdout, " (offset %d)", offset); err != nil {
			return fmt.Errorf("write list offset: %w", err)
		}
	}
	return nil
}

func renderRunsTable(rows []runRow) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "RUN ID\tSCHEDULE\tSTATUS\tSOLVER\tOBJECTIVE\tRUNTIME\tTRIGGERED (UTC)\tCOMPLETED (UTC)\tERROR"); err != nil {
		return fmt.Errorf("write runs header row: %w", err)
	}

	for _, row := range rows {
		if err := writef(
			tw,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ID,
			row.ScheduleID,
			row.Status,
			formatNullString(row.SolverStatus),
			formatObjective(row.ObjectiveValue),
			formatRuntime(row.RuntimeSeconds),
			formatTimestamp(row.TriggeredAt),
			formatNullTimestamp(row.CompletedAt),
			truncate(formatNullString(row.ErrorMessage), 60),
		); err != nil {
			return fmt.Errorf("write runs row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush runs table: %w", err)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func formatNullTimestamp(t sql.NullTime) string {
	if !t.Valid {
		return "-"
	}
	return formatTimestamp(t.Time)
}

func formatNullString(s sql.NullString) string {
	if !s.Valid || s.String == "" {
		return "-"
	}
	return s.String
}

func formatObjective(f sql.NullFloat64) string {
	if !f.Valid {
		return "-"
	}
	return fmt.Sprintf("%.4f", f.Float64)
}

func formatRuntime(f sql.NullFloat64) string {
	if !f.Valid {
		return "-"
	}
	return fmt.Sprintf("%.1fs", f.Float64)
}

// truncate shortens long free-text values so one bad error message does not
// blow the table apart.
func truncate(s string, limit int) string {
	if limit <= 3 || len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
