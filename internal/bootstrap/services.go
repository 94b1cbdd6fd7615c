package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rosterd/rosterd/config"
	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/data"
	"github.com/rosterd/rosterd/internal/observability/statsd"
	"github.com/rosterd/rosterd/internal/optimize"
	"github.com/rosterd/rosterd/internal/ports"
	"github.com/rosterd/rosterd/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Scheduling    *service.SchedulingService
	Applier       *service.ApplyService
	Employees     *service.EmployeeService
	Roles         *service.RoleService
	Templates     *service.ShiftTemplateService
	Schedules     *service.ScheduleService
	TimeOff       *service.TimeOffService
	Preferences   *service.PreferenceService
	Constraints   *service.ConstraintService
	Configs       *service.OptimizationConfigService
	Tokens        ports.TokenIssuer
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.MetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB          *sql.DB
	Redis       redis.UniversalClient
	Jobs        *data.JobRepo
	Runs        *data.RunRepo
	Employees   *data.EmployeeRepo
	Roles       *data.RoleRepo
	Templates   *data.ShiftTemplateRepo
	Schedules   *data.ScheduleRepo
	TimeOff     *data.TimeOffRepo
	Preferences *data.PreferenceRepo
	Constraints *data.ConstraintRepo
	Configs     *data.OptimizationConfigRepo
	Snapshots   *data.SnapshotRepo
	Cache       *data.RedisCacheRepo
}

// buildObservability configures the metrics sink.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.Address,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
	}
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient, logger *slog.Logger) *serviceRepositories {
	repos := &serviceRepositories{
		DB:          db,
		Redis:       redisClient,
		Jobs:        data.NewJobRepo(db, data.RepoConfig{Logger: logger}),
		Runs:        data.NewRunRepo(db, data.RunRepoConfig{Logger: logger}),
		Employees:   data.NewEmployeeRepo(db),
		Roles:       data.NewRoleRepo(db),
		Templates:   data.NewShiftTemplateRepo(db),
		Schedules:   data.NewScheduleRepo(db),
		TimeOff:     data.NewTimeOffRepo(db),
		Preferences: data.NewPreferenceRepo(db),
		Constraints: data.NewConstraintRepo(db),
		Configs:     data.NewOptimizationConfigRepo(db),
		Snapshots:   data.NewSnapshotRepo(db),
	}
	if redisClient != nil {
		repos.Cache = data.NewRedisCacheRepo(redisClient)
	}
	return repos
}

// newRunMetricsCache wires the Redis-backed metrics cache when available.
// Returns nil without Redis; the scheduling service tolerates a nil cache.
func newRunMetricsCache(repos *serviceRepositories, cfg config.CacheConfig) *core.RunMetricsCache {
	if repos.Cache == nil {
		return nil
	}
	cacheCfg := core.DefaultRunMetricsCacheConfig()
	if cfg.TTL > 0 {
		cacheCfg.TTL = cfg.TTL
	}
	return core.NewRunMetricsCache(repos.Cache, cacheCfg)
}

type schedulingServiceDeps struct {
	Repos         *serviceRepositories
	Applier       *service.ApplyService
	MetricsCache  *core.RunMetricsCache
	Observability ObservabilityContainer
	Optimizer     config.OptimizerConfig
	Logger        *slog.Logger
}

func newSchedulingService(deps schedulingServiceDeps) (*service.SchedulingService, error) {
	return service.NewSchedulingService(service.SchedulingServiceOptions{
		Runs:         deps.Repos.Runs,
		Schedules:    deps.Repos.Schedules,
		Employees:    deps.Repos.Employees,
		Configs:      deps.Repos.Configs,
		Snapshots:    deps.Repos.Snapshots,
		Jobs:         deps.Repos.Jobs,
		Solver:       optimize.NewHighsSolver(),
		Applier:      deps.Applier,
		MetricsCache: deps.MetricsCache,
		StatsSink:    deps.Observability.MetricsSink,
		RunLease:     deps.Optimizer.RunLease,
		Logger:       deps.Logger,
	})
}

// DomainServicesOptions groups inputs for service construction.
type DomainServicesOptions struct {
	Repos         *serviceRepositories
	Observability ObservabilityContainer
	Config        *config.AppConfig
	Logger        *slog.Logger
}

// buildDomainServices wires business services using repositories and observability adapters.
func buildDomainServices(opts *DomainServicesOptions) (ServiceContainer, error) {
	if opts == nil {
		return ServiceContainer{}, errors.New("domain services options are required")
	}
	svcLogger := opts.Logger
	if svcLogger == nil {
		svcLogger = slog.Default()
	}

	appCfg := opts.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	tokens, err := BuildTokenIssuer(appCfg.Auth, svcLogger)
	if err != nil {
		return ServiceContainer{}, err
	}

	applier := service.NewApplyService(service.ApplyServiceOptions{
		Runs:   opts.Repos.Runs,
		Logger: svcLogger,
	})

	scheduling, err := newSchedulingService(schedulingServiceDeps{
		Repos:         opts.Repos,
		Applier:       applier,
		MetricsCache:  newRunMetricsCache(opts.Repos, appCfg.Cache),
		Observability: opts.Observability,
		Optimizer:     appCfg.Services.Optimizer,
		Logger:        svcLogger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build scheduling service: %w", err)
	}

	authService := service.NewAuthService(service.AuthServiceOptions{
		Employees: opts.Repos.Employees,
		Tokens:    tokens,
		Logger:    svcLogger,
	})

	return ServiceContainer{
		Auth:          authService,
		Scheduling:    scheduling,
		Applier:       applier,
		Employees:     service.NewEmployeeService(service.EmployeeServiceOptions{Employees: opts.Repos.Employees}),
		Roles:         service.NewRoleService(service.RoleServiceOptions{Roles: opts.Repos.Roles}),
		Templates:     service.NewShiftTemplateService(service.ShiftTemplateServiceOptions{Templates: opts.Repos.Templates}),
		Schedules:     service.NewScheduleService(service.ScheduleServiceOptions{Schedules: opts.Repos.Schedules}),
		TimeOff:       service.NewTimeOffService(service.TimeOffServiceOptions{TimeOff: opts.Repos.TimeOff}),
		Preferences:   service.NewPreferenceService(service.PreferenceServiceOptions{Preferences: opts.Repos.Preferences}),
		Constraints:   service.NewConstraintService(service.ConstraintServiceOptions{Constraints: opts.Repos.Constraints}),
		Configs:       service.NewOptimizationConfigService(service.OptimizationConfigServiceOptions{Configs: opts.Repos.Configs}),
		Tokens:        tokens,
		Observability: opts.Observability,
	}, nil
}

// NewServices builds the full service container from shared dependencies.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil {
		return ServiceContainer{}, errors.New("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var obsCfg config.ObservabilityConfig
	if deps.Config != nil {
		obsCfg = deps.Config.Observability
	}
	observability := buildObservability(logger, obsCfg)
	repos := buildRepositories(deps.DB, deps.RedisClient, logger)
	return buildDomainServices(&DomainServicesOptions{
		Repos:         repos,
		Observability: observability,
		Config:        deps.Config,
		Logger:        logger,
	})
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// serviceStartupDeps groups dependencies for service startup.
type serviceStartupDeps struct {
	ctx             context.Context
	cfg             *ServiceOrchestrationConfig
	logger          *slog.Logger
	enabledServices map[config.ServiceMode]bool
	errCh           chan error
}

// backgroundService describes a startable background component.
type backgroundService struct {
	mode  config.ServiceMode
	name  string
	start func(context.Context) error
}

// backgroundServiceHandle tracks a running background service.
type backgroundServiceHandle struct {
	mode config.ServiceMode
	name string
	done <-chan struct{}
}

// startHTTPServerIfEnabled starts the HTTP server if enabled.
func startHTTPServerIfEnabled(deps *serviceStartupDeps) *http.Server {
	if deps == nil || deps.cfg == nil || !deps.enabledServices[config.ServiceModeHTTP] {
		return nil
	}
	return StartHTTPServer(&HTTPServerConfig{
		Config:   deps.cfg.Config,
		Services: deps.cfg.Services,
		DB:       deps.cfg.DB,
		Logger:   deps.logger,
	})
}

func launchBackground(ctx context.Context, deps *serviceStartupDeps, descriptor backgroundService) <-chan struct{} {
	if deps == nil || !deps.enabledServices[descriptor.mode] {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := descriptor.start(ctx); err != nil {
			errMsg := fmt.Errorf("%s failed: %w", descriptor.name, err)
			select {
			case deps.errCh <- errMsg:
			case <-ctx.Done():
			default:
				if deps.logger != nil {
					deps.logger.WarnContext(
						ctx,
						"dropping background service error",
						"service",
						descriptor.name,
						"error",
						errMsg,
					)
				} else {
					slog.Default().WarnContext(ctx, "dropping background service error", "service", descriptor.name, "error", errMsg)
				}
			}
		}
	}()

	if deps.logger != nil {
		deps.logger.InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	} else {
		slog.Default().InfoContext(ctx, "background service started", "service", descriptor.name, "mode", descriptor.mode)
	}

	return done
}

func startBackgroundServices(deps *serviceStartupDeps, services []backgroundService) []backgroundServiceHandle {
	if deps == nil {
		return nil
	}
	handles := make([]backgroundServiceHandle, 0, len(services))

	for _, svc := range services {
		done := launchBackground(deps.ctx, deps, svc)
		if done == nil {
			continue
		}

		handles = append(handles, backgroundServiceHandle{
			mode: svc.mode,
			name: svc.name,
			done: done,
		})
	}

	return handles
}

func newOptimizerBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeOptimizer,
		name: "optimizer",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			optimizerCfg := config.OptimizerConfig{}
			cacheCfg := config.CacheConfig{}
			if deps.cfg.Config != nil {
				optimizerCfg = deps.cfg.Config.Services.Optimizer
				cacheCfg = deps.cfg.Config.Cache
			}
			return RunOptimizer(ctx, OptimizerConfig{
				DB:          deps.cfg.DB,
				RedisClient: deps.cfg.RedisClient,
				Logger:      deps.logger,
				Config:      optimizerCfg,
				CacheTTL:    cacheCfg,
				Metrics:     deps.cfg.Services.Observability.MetricsSink,
			})
		},
	}
}

func newReaperBackgroundService(deps *serviceStartupDeps) backgroundService {
	return backgroundService{
		mode: config.ServiceModeReaper,
		name: "reaper",
		start: func(ctx context.Context) error {
			if deps == nil || deps.cfg == nil {
				return nil
			}
			var reaperCfg config.ReaperConfig
			if deps.cfg.Config != nil {
				reaperCfg = deps.cfg.Config.Services.Reaper
			}
			return RunReaper(ctx, ReaperConfig{
				DB:      deps.cfg.DB,
				Logger:  deps.logger,
				Config:  reaperCfg,
				Metrics: deps.cfg.Services.Observability.MetricsSink,
			})
		},
	}
}

func buildBackgroundServices(deps *serviceStartupDeps) []backgroundService {
	if deps == nil {
		return nil
	}
	return []backgroundService{
		newOptimizerBackgroundService(deps),
		newReaperBackgroundService(deps),
	}
}

// ServiceStartupResult holds the results of starting all services.
type ServiceStartupResult struct {
	HTTPServer *http.Server
	Background []backgroundServiceHandle
}

// startServices starts all enabled services and returns their completion channels.
func startServices(deps *serviceStartupDeps) ServiceStartupResult {
	return ServiceStartupResult{
		HTTPServer: startHTTPServerIfEnabled(deps),
		Background: startBackgroundServices(deps, buildBackgroundServices(deps)),
	}
}

// RunServicesWithShutdown starts all enabled services and manages their lifecycle.
// This function blocks until a shutdown signal is received or a service fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	ctx := context.Background()
	serviceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	// Determine which services are enabled
	enabledServices, err := cfg.Config.Services.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("determine enabled services: %w", err)
	}
	errCh := make(chan error, errorChannelBufferSize(enabledServices))

	// Start all enabled services
	result := startServices(&serviceStartupDeps{
		ctx:             serviceCtx,
		cfg:             cfg,
		logger:          logger,
		enabledServices: enabledServices,
		errCh:           errCh,
	})

	// Wait for shutdown signal or error
	return waitForShutdown(shutdownConfig{
		cancel:          cancel,
		errCh:           errCh,
		httpServer:      result.HTTPServer,
		shutdownTimeout: cfg.Config.HTTP.ShutdownTimeout,
		logger:          logger,
		backgrounds:     result.Background,
	})
}

func errorChannelCapacity(enabled map[config.ServiceMode]bool) int {
	modes := []config.ServiceMode{
		config.ServiceModeHTTP,
		config.ServiceModeOptimizer,
		config.ServiceModeReaper,
	}

	count := 0
	for _, mode := range modes {
		if enabled[mode] {
			count++
		}
	}
	return count
}

func errorChannelBufferSize(enabled map[config.ServiceMode]bool) int {
	size := errorChannelCapacity(enabled) + 1
	if size < 1 {
		return 1
	}
	return size
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	cancel          context.CancelFunc
	errCh           <-chan error
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
	backgrounds     []backgroundServiceHandle
}

// waitForShutdown waits for shutdown signal or service error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel() // Cancel service context before waiting
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel() // Cancel service context before waiting
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop attempts to gracefully stop all services.
func gracefulStop(cfg shutdownConfig) error {
	// Gracefully stop HTTP server if running
	if cfg.httpServer != nil {
		// The service context is already cancelled at this point, so the
		// shutdown deadline needs its own context.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer cancel()

		if err := ShutdownHTTPServer(ShutdownConfig{
			Context: shutdownCtx,
			Server:  cfg.httpServer,
			Timeout: cfg.shutdownTimeout,
			Logger:  cfg.logger,
		}); err != nil {
			return err
		}
	}

	// Wait for background services to finish
	for _, svc := range cfg.backgrounds {
		waitForService(svc.done, svc.name, cfg.logger)
	}

	return nil
}

// waitForService waits for a service to finish with timeout.
func waitForService(done <-chan struct{}, name string, logger *slog.Logger) {
	if done == nil {
		return
	}
	select {
	case <-done:
		logger.Info(name + " stopped")
	case <-time.After(shutdownWaitTimeout):
		logger.Warn("timeout waiting for " + name + " to stop")
	}
}
