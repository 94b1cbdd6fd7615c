// Package optimizerunner runs the worker pool that drains the optimize job
// queue and drives claimed scheduling runs through the solver.
package optimizerunner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rosterd/rosterd/config"
	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/data"
	domainjob "github.com/rosterd/rosterd/internal/domain/job"
	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/observability/metrics"
	"github.com/rosterd/rosterd/internal/observability/statsd"
	"github.com/rosterd/rosterd/internal/optimize"
	"github.com/rosterd/rosterd/internal/service"
)

// RunExecutor carries one scheduling run to a terminal state. A nil return
// means the queue job is done, including the no-op case where the run was
// already claimed or settled elsewhere.
type RunExecutor interface {
	ExecuteRun(ctx context.Context, runID string) error
}

// RunnerOptions configures the optimize worker runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.OptimizerConfig
	Logger *slog.Logger

	// Optional dependency injections (useful for tests/decoupling)
	Jobs         core.JobRepository
	Executor     RunExecutor
	Solver       optimize.Solver
	Notifier     domainjob.Notifier
	MetricsCache *core.RunMetricsCache
	Metrics      statsd.Sink
}

// Runner reserves optimize jobs and executes their runs with a pool of
// workers. Each worker holds its queue job lease with heartbeats for as long
// as the solve takes, so only a dead worker's job is ever requeued.
type Runner struct {
	jobs        core.JobRepository
	executor    RunExecutor
	notifier    domainjob.Notifier
	ownNotifier bool
	leases      *domainjob.LeasePolicy
	hbInterval  time.Duration
	workers     int
	logger      *slog.Logger
	metrics     statsd.Sink
}

// NewRunner wires repositories and the scheduling service into an optimize
// worker runner. Injected Jobs and Executor take precedence over DB wiring.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && (opts.Jobs == nil || opts.Executor == nil) {
		return nil, errors.New("either DB or both Jobs and Executor must be provided")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Config.Sanitize()

	policy, err := domainjob.NewLeasePolicy(opts.Config.JobLease)
	if err != nil {
		return nil, fmt.Errorf("lease policy: %w", err)
	}

	jobs := opts.Jobs
	if jobs == nil {
		jobs = data.NewJobRepo(opts.DB, data.RepoConfig{Logger: logger})
	}

	executor := opts.Executor
	if executor == nil {
		executor, err = buildExecutor(opts, jobs, logger)
		if err != nil {
			return nil, fmt.Errorf("wire scheduling service: %w", err)
		}
	}

	notifier := opts.Notifier
	ownNotifier := false
	if notifier == nil {
		notifier, err = domainjob.NewNotifier(domainjob.NotifierOptions{Waiter: jobs})
		if err != nil {
			return nil, fmt.Errorf("wire notifier: %w", err)
		}
		ownNotifier = true
	}

	return &Runner{
		jobs:        jobs,
		executor:    executor,
		notifier:    notifier,
		ownNotifier: ownNotifier,
		leases:      policy,
		hbInterval:  policy.HeartbeatInterval(),
		workers:     opts.Config.Concurrency,
		logger:      logger.With("component", "optimize_runner"),
		metrics:     opts.Metrics,
	}, nil
}

// buildExecutor assembles the scheduling service from the database handle
// when no executor was injected.
func buildExecutor(
	opts RunnerOptions,
	jobs core.JobRepository,
	logger *slog.Logger,
) (*service.SchedulingService, error) {
	runs := data.NewRunRepo(opts.DB, data.RunRepoConfig{Logger: logger})

	solver := opts.Solver
	if solver == nil {
		solver = optimize.NewHighsSolver()
	}

	applier := service.NewApplyService(service.ApplyServiceOptions{
		Runs:   runs,
		Logger: logger,
	})

	return service.NewSchedulingService(service.SchedulingServiceOptions{
		Runs:         runs,
		Schedules:    data.NewScheduleRepo(opts.DB),
		Employees:    data.NewEmployeeRepo(opts.DB),
		Configs:      data.NewOptimizationConfigRepo(opts.DB),
		Snapshots:    data.NewSnapshotRepo(opts.DB),
		Jobs:         jobs,
		Solver:       solver,
		Applier:      applier,
		MetricsCache: opts.MetricsCache,
		StatsSink:    opts.Metrics,
		RunLease:     opts.Config.RunLease,
		Logger:       logger,
	})
}

// Run starts the worker pool and processes jobs until the context is
// cancelled. A reserve failure on any worker stops the whole pool; job
// execution failures only fail their job.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting optimize runner",
		"workers", r.workers,
		"job_lease", r.leases.Default(),
		"heartbeat_interval", r.hbInterval,
	)

	// First fatal error cancels the siblings.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if r.ownNotifier {
		defer r.notifier.StopAll()
	}
	unsub, wake := r.notifier.Subscribe(model.JobTypeOptimize)
	defer unsub()

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	for range r.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.workerLoop(ctx, wake); err != nil {
				select {
				case errCh <- err:
					cancel()
				default:
				}
			}
		}()
	}

	wg.Wait()

	select {
	case err := <-errCh:
		return err
	default:
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	}
}

func (r *Runner) workerLoop(ctx context.Context, wake <-chan struct{}) error {
	for ctx.Err() == nil {
		job, err := r.jobs.ReserveNext(ctx, model.JobTypeOptimize, r.leases.Resolve(0).Seconds)
		switch {
		case err == nil:
			if job != nil {
				r.processJob(ctx, job)
			}
		case errors.Is(err, model.ErrNoJobsAvailable):
			if !r.waitForWake(ctx, wake) {
				return nil
			}
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil
		default:
			return fmt.Errorf("reserve next: %w", err)
		}
	}
	return nil
}

// waitForWake blocks until the notifier signals a new job or the context
// ends. A false return tells the worker to exit.
func (r *Runner) waitForWake(ctx context.Context, wake <-chan struct{}) bool {
	select {
	case <-ctx.Done():
		return false
	case _, ok := <-wake:
		return ok
	}
}

func (r *Runner) processJob(ctx context.Context, job *model.Job) {
	start := time.Now()
	emit := func(transition, result string, err error) {
		metrics.EmitJobLifecycle(r.metrics, metrics.JobMetric{
			JobType:    string(job.Type),
			Transition: transition,
			Result:     result,
			Duration:   time.Since(start),
			Err:        err,
		})
	}

	runID, err := decodeOptimizePayload(job.Payload)
	if err != nil {
		r.failJob(ctx, job.ID, err)
		emit("failed", metrics.ResultError, err)
		return
	}

	r.logger.InfoContext(ctx, "optimize job reserved",
		"job_id", job.ID,
		"run_id", runID,
		"attempt", job.RetryCount+1,
	)

	stopHeartbeat := r.startHeartbeat(ctx, job.ID)
	execErr := r.execute(ctx, runID)
	stopHeartbeat()

	// Queue bookkeeping survives shutdown so a settled run's job is not
	// handed to another worker.
	writeCtx := context.WithoutCancel(ctx)

	if execErr != nil {
		r.failJob(writeCtx, job.ID, execErr)
		emit("failed", metrics.ResultError, execErr)
		return
	}

	completed, err := r.jobs.Complete(writeCtx, job.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "complete job error", "job_id", job.ID, "error", err)
		emit("completed", metrics.ResultError, err)
		return
	}
	result := metrics.ResultNoop
	if completed {
		result = metrics.ResultSuccess
	}
	emit("completed", result, nil)
}

// execute shields the worker from panics in the executor; a panicking solve
// fails its own job instead of killing the pool.
func (r *Runner) execute(ctx context.Context, runID string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "panic in optimize run", "run_id", runID, "panic", rec)
			err = fmt.Errorf("optimize run %s panicked: %v", runID, rec)
		}
	}()
	return r.executor.ExecuteRun(ctx, runID)
}

func (r *Runner) failJob(ctx context.Context, id string, cause error) {
	if _, err := r.jobs.Fail(ctx, id, cause.Error()); err != nil {
		r.logger.ErrorContext(ctx, "fail job error", "job_id", id, "error", err, "original_error", cause)
	}
}

// startHeartbeat extends the queue job lease while the solve is in flight.
// The returned stop func waits for the goroutine, so no beat lands after
// the job is settled.
func (r *Runner) startHeartbeat(ctx context.Context, jobID string) func() {
	hbCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.hbInterval)
		defer ticker.Stop()
		for {
			select {
			case <-hbCtx.Done():
				return
			case <-ticker.C:
				alive, err := r.jobs.Heartbeat(hbCtx, jobID, r.leases.Resolve(0).Seconds)
				if err != nil {
					if hbCtx.Err() == nil {
						r.logger.WarnContext(hbCtx, "job heartbeat error", "job_id", jobID, "error", err)
					}
					continue
				}
				if !alive {
					// The queue may now hand this job to another worker; the
					// run-level claim keeps that duplicate a no-op, so the
					// solve in flight is left to finish.
					r.logger.WarnContext(hbCtx, "job lease lost mid-run", "job_id", jobID)
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func decodeOptimizePayload(raw []byte) (string, error) {
	var payload model.OptimizePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	if payload.RunID == "" {
		return "", errors.New("missing run_id in job payload")
	}
	return payload.RunID, nil
}
