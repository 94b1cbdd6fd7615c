package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rosterd/rosterd/internal/data/database"
	"github.com/rosterd/rosterd/internal/domain/model"
)

type jobsOptions struct {
	Statuses      []string
	Type          string
	RunID         string
	ErrorContains string
	ExpiredLease  bool
	OlderThan     time.Duration
	Limit         int
	Offset        int
}

func runListJobs(cmdCtx *commandContext, args []string) error {
	opts, err := parseJobsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultInspectTimeout, func(ctx context.Context, db *sql.DB) error {
		resp, queryErr := queryJobRows(&queryJobsRequest{
			Ctx:     ctx,
			DB:      db,
			Logger:  cmdCtx.Logger,
			Options: &opts,
		})
		if queryErr != nil {
			return queryErr
		}
		return printJobRows(resp, &opts)
	})
}

func parseJobsFlags(args []string) (jobsOptions, error) {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := jobsOptions{}
	var statuses string

	fs.StringVar(&statuses, "status", "",
		"Filter jobs by status; comma separated (pending, running, completed, failed)")
	fs.StringVar(&opts.Type, "type", "", "Filter jobs by type (optimize)")
	fs.StringVar(&opts.RunID, "run-id", "", "Filter jobs by scheduling run ID")
	fs.StringVar(&opts.ErrorContains, "error-contains", "",
		"Show only jobs whose last error contains this text")
	fs.BoolVar(&opts.ExpiredLease, "expired-lease", false,
		"Show only jobs whose lease has already expired")
	fs.DurationVar(&opts.OlderThan, "older-than", 0,
		"Show only jobs created earlier than this duration ago (e.g. 48h)")
	fs.IntVar(&opts.Limit, "limit", 20, "Maximum number of jobs to display")
	fs.IntVar(&opts.Offset, "offset", 0, "Number of jobs to skip")

	if err := fs.Parse(args); err != nil {
		return jobsOptions{}, err
	}

	if opts.Limit < 0 {
		return jobsOptions{}, errors.New("--limit must not be negative")
	}
	if opts.Offset < 0 {
		return jobsOptions{}, errors.New("--offset must not be negative")
	}
	if opts.OlderThan < 0 {
		return jobsOptions{}, errors.New("--older-than must not be negative")
	}
	if opts.Type != "" && !model.JobType(opts.Type).Valid() {
		return jobsOptions{}, fmt.Errorf("invalid --type %q", opts.Type)
	}

	parsed, err := parseJobStatuses(statuses)
	if err != nil {
		return jobsOptions{}, err
	}
	opts.Statuses = parsed

	return opts, nil
}

func parseJobStatuses(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		status := strings.TrimSpace(part)
		if status == "" {
			continue
		}
		if !model.JobStatus(status).Valid() {
			return nil, fmt.Errorf("invalid --status %q", status)
		}
		out = append(out, status)
	}
	return out, nil
}

type queryJobsRequest struct {
	Ctx     context.Context
	DB      *sql.DB
	Logger  *slog.Logger
	Options *jobsOptions
}

type jobRow struct {
	ID             string
	Type           string
	Status         string
	Priority       int
	RunID          sql.NullString
	RetryCount     int
	MaxRetries     int
	LastError      sql.NullString
	ScheduledAt    time.Time
	StartedAt      sql.NullTime
	LeaseExpiresAt sql.NullTime
}

type queryJobsResponse struct {
	Rows  []jobRow
	Total int64
}

func queryJobRows(req *queryJobsRequest) (queryJobsResponse, error) {
	if req == nil || req.Options == nil {
		return queryJobsResponse{}, nil
	}
	conditions := buildJobConditions(req.Options)

	countOpts := []database.ListQueryOption{
		database.WithConditions(conditions...),
		database.WithCountOnly(),
	}
	countQuery, countArgs := database.BuildListQuery(
		database.NewListQueryOptions("jobs", countOpts...),
	)
	var total int64
	if err := req.DB.QueryRowContext(req.Ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return queryJobsResponse{}, fmt.Errorf("count queue jobs: %w", err)
	}

	listColumns := []string{
		"id", "type", "status", "priority", "run_id", "retry_count",
		"max_retries", "last_error", "scheduled_at", "started_at", "lease_expires_at",
	}
	listOpts := []database.ListQueryOption{
		database.WithColumns(listColumns...),
		database.WithConditions(conditions...),
		database.WithOrderBy("created_at", "DESC"),
	}
	if req.Options.Limit > 0 {
		listOpts = append(listOpts, database.WithLimit(req.Options.Limit))
	}
	if req.Options.Offset > 0 {
		listOpts = append(listOpts, database.WithOffset(req.Options.Offset))
	}
	selectQuery, selectArgs := database.BuildListQuery(
		database.NewListQueryOptions("jobs", listOpts...),
	)

	req.Logger.Debug("querying queue jobs", "query", selectQuery, "args", selectArgs)

	rows, err := req.DB.QueryContext(req.Ctx, selectQuery, selectArgs...)
	if err != nil {
		return queryJobsResponse{}, fmt.Errorf("list queue jobs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && req.Logger != nil {
			req.Logger.Warn("close job rows failed", "error", closeErr)
		}
	}()

	out := make([]jobRow, 0)
	for rows.Next() {
		var row jobRow
		if scanErr := rows.Scan(
			&row.ID,
			&row.Type,
			&row.Status,
			&row.Priority,
			&row.RunID,
			&row.RetryCount,
			&row.MaxRetries,
			&row.LastError,
			&row.ScheduledAt,
			&row.StartedAt,
			&row.LeaseExpiresAt,
		); scanErr != nil {
			return queryJobsResponse{}, fmt.Errorf("scan job row: %w", scanErr)
		}
		out = append(out, row)
	}
	if iterErr := rows.Err(); iterErr != nil {
		return queryJobsResponse{}, fmt.Errorf("list queue jobs rows: %w", iterErr)
	}

	return queryJobsResponse{Rows: out, Total: total}, nil
}

func buildJobConditions(opts *jobsOptions) []database.Condition {
	if opts == nil {
		return nil
	}
	conditions := make([]database.Condition, 0, 4)
	switch len(opts.Statuses) {
	case 0:
	case 1:
		conditions = append(conditions, database.WhereCond("status", database.Equal, opts.Statuses[0]))
	default:
		conditions = append(conditions, database.WhereCond("status", database.In, opts.Statuses))
	}
	if opts.Type != "" {
		conditions = append(conditions, database.WhereCond("type", database.Equal, opts.Type))
	}
	if opts.RunID != "" {
		conditions = append(conditions, database.WhereCond("run_id", database.Equal, opts.RunID))
	}
	if opts.ErrorContains != "" {
		escaped := escapeLikePattern(opts.ErrorContains)
		conditions = append(conditions, database.WhereCond("last_error", database.ILike, "%"+escaped+"%"))
	}
	if opts.ExpiredLease {
		conditions = append(conditions,
			database.WhereRawCond("lease_expires_at IS NOT NULL AND lease_expires_at < now()"))
	}
	if opts.OlderThan > 0 {
		conditions = append(conditions,
			database.WhereRawCond("created_at < now() - make_interval(secs => $1)", opts.OlderThan.Seconds()))
	}
	return conditions
}

// escapeLikePattern neutralises LIKE metacharacters so --error-contains
// matches literal text.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

func printJobRows(resp queryJobsResponse, opts *jobsOptions) error {
	if opts == nil {
		return errors.New("jobs options are required")
	}
	if err := writef(os.Stdout, "\nQueue jobs"); err != nil {
		return fmt.Errorf("write jobs header: %w", err)
	}
	if err := writeListHeaderInfo(max(opts.Limit, 0), opts.Offset); err != nil {
		return err
	}
	if err := writeln(os.Stdout); err != nil {
		return fmt.Errorf("write jobs header newline: %w", err)
	}

	if len(resp.Rows) == 0 {
		if err := writeln(os.Stdout, "  (no jobs found)"); err != nil {
			return fmt.Errorf("write jobs empty message: %w", err)
		}
		return nil
	}

	if err := renderJobsTable(resp.Rows); err != nil {
		return err
	}

	if err := writef(os.Stdout, "Total matching jobs: %d\n", resp.Total); err != nil {
		return fmt.Errorf("write jobs total: %w", err)
	}
	if opts.Limit > 0 && len(resp.Rows) == opts.Limit && int64(opts.Offset+opts.Limit) < resp.Total {
		if err := writeln(os.Stdout, "More jobs available; adjust --offset or --limit to view additional data."); err != nil {
			return fmt.Errorf("write jobs more-rows message: %w", err)
		}
	}
	return nil
}

func renderJobsTable(rows []jobRow) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "JOB ID\tTYPE\tSTATUS\tPRI\tRUN ID\tRETRIES\tSCHEDULED (UTC)\tSTARTED (UTC)\tLEASE EXPIRES (UTC)\tERROR"); err != nil {
		return fmt.Errorf("write jobs header row: %w", err)
	}

	for _, row := range rows {
		if err := writef(
			tw,
			"%s\t%s\t%s\t%d\t%s\t%d/%d\t%s\t%s\t%s\t%s\n",
			row.ID,
			row.Type,
			row.Status,
			row.Priority,
			formatNullString(row.RunID),
			row.RetryCount,
			row.MaxRetries,
			formatTimestamp(row.ScheduledAt),
			formatNullTimestamp(row.StartedAt),
			formatNullTimestamp(row.LeaseExpiresAt),
			truncate(formatNullString(row.LastError), 60),
		); err != nil {
			return fmt.Errorf("write jobs row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush jobs table: %w", err)
	}
	return nil
}
