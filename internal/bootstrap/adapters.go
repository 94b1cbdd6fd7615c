package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/rosterd/rosterd/config"
	"github.com/rosterd/rosterd/internal/adapters/optimizerunner"
	"github.com/rosterd/rosterd/internal/adapters/reaper"
	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/data"
	"github.com/rosterd/rosterd/internal/observability/statsd"
)

// OptimizerConfig contains configuration for the optimization worker.
type OptimizerConfig struct {
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
	Config      config.OptimizerConfig
	CacheTTL    config.CacheConfig
	Metrics     statsd.Sink
}

// RunOptimizer starts the optimization worker service.
func RunOptimizer(ctx context.Context, cfg OptimizerConfig) error {
	opts := optimizerunner.RunnerOptions{
		DB:      cfg.DB,
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	}

	// Wire the run metrics cache when Redis is available so workers can
	// prime metrics for terminal runs before the API ever asks for them.
	if cfg.RedisClient != nil {
		cacheCfg := core.DefaultRunMetricsCacheConfig()
		if cfg.CacheTTL.TTL > 0 {
			cacheCfg.TTL = cfg.CacheTTL.TTL
		}
		opts.MetricsCache = core.NewRunMetricsCache(data.NewRedisCacheRepo(cfg.RedisClient), cacheCfg)
	}

	runner, err := optimizerunner.NewRunner(opts)
	if err != nil {
		return fmt.Errorf("create optimizer runner: %w", err)
	}

	return runner.Run(ctx)
}

// ReaperConfig contains configuration for reaper.
type ReaperConfig struct {
	DB      *sql.DB
	Logger  *slog.Logger
	Config  config.ReaperConfig
	Metrics statsd.Sink
}

// RunReaper starts the reaper service.
func RunReaper(ctx context.Context, cfg ReaperConfig) error {
	runner, err := reaper.NewRunner(reaper.RunnerOptions{
		DB:      cfg.DB,
		Config:  cfg.Config,
		Logger:  cfg.Logger,
		Metrics: cfg.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create reaper runner: %w", err)
	}

	return runner.Run(ctx)
}
