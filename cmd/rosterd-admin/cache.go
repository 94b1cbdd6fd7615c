package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rosterd/rosterd/config"
	"github.com/rosterd/rosterd/internal/bootstrap"
)

// runMetricsKeyPrefix matches the key scheme of the run metrics cache.
const runMetricsKeyPrefix = "run:metrics:"

type metricsCacheOptions struct {
	RunID  string
	All    bool
	DryRun bool
	Yes    bool
}

func runClearMetricsCache(cmdCtx *commandContext, args []string) error {
	opts, err := parseMetricsCacheFlags(args)
	if err != nil {
		return err
	}
	if confirmErr := confirmAction(metricsCacheConfirmOptions{opts}, "clear cached run metrics"); confirmErr != nil {
		return confirmErr
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultInspectTimeout)
	defer cancel()

	client, err := connectMetricsRedis(cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	keys, err := collectMetricsKeys(ctx, client, opts)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		cmdCtx.Logger.Info("no cached run metrics matched")
		return nil
	}

	if opts.DryRun {
		cmdCtx.Logger.Info("dry run; keys matched", "count", len(keys))
		return nil
	}

	deleted, err := deleteMetricsKeys(ctx, client, keys)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info("clear metrics cache complete", "keys_deleted", deleted)
	return nil
}

func parseMetricsCacheFlags(args []string) (metricsCacheOptions, error) {
	fs := flag.NewFlagSet("clear-metrics-cache", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := metricsCacheOptions{}

	fs.StringVar(&opts.RunID, "run-id", "", "Clear cached metrics for a single run")
	fs.BoolVar(&opts.All, "all", false, "Clear cached metrics for every run")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Report matching keys without deleting them")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return metricsCacheOptions{}, err
	}

	if opts.RunID == "" && !opts.All {
		return metricsCacheOptions{}, errors.New("either --run-id or --all is required")
	}
	if opts.RunID != "" && opts.All {
		return metricsCacheOptions{}, errors.New("--run-id and --all are mutually exclusive")
	}

	return opts, nil
}

type metricsCacheConfirmOptions struct {
	opts metricsCacheOptions
}

func (m metricsCacheConfirmOptions) IsDryRun() bool { return m.opts.DryRun }
func (m metricsCacheConfirmOptions) IsYes() bool    { return m.opts.Yes }
func (m metricsCacheConfirmOptions) GetWarning() string {
	return "WARNING: this will remove every cached run metrics entry."
}

func (m metricsCacheConfirmOptions) GetTarget() string {
	if m.opts.RunID == "" {
		return ""
	}
	return fmt.Sprintf("run %q", m.opts.RunID)
}

func collectMetricsKeys(
	ctx context.Context,
	client redis.UniversalClient,
	opts metricsCacheOptions,
) ([]string, error) {
	if opts.RunID != "" {
		key := runMetricsKeyPrefix + opts.RunID
		exists, err := client.Exists(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("check metrics key: %w", err)
		}
		if exists == 0 {
			return nil, nil
		}
		return []string{key}, nil
	}

	iter := client.Scan(ctx, 0, runMetricsKeyPrefix+"*", 1000).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan metrics keys: %w", err)
	}
	return keys, nil
}

func deleteMetricsKeys(ctx context.Context, client redis.UniversalClient, keys []string) (int64, error) {
	var deleted int64
	for start := 0; start < len(keys); start += 100 {
		end := min(start+100, len(keys))
		n, err := client.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return deleted, fmt.Errorf("delete metrics keys: %w", err)
		}
		deleted += n
	}
	return deleted, nil
}

// connectMetricsRedis connects to the configured Redis deployment.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func connectMetricsRedis(logger *slog.Logger, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	if !redisConfigured(cfg) {
		return nil, errors.New("redis is not configured; nothing to clear")
	}
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: *cfg, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func redisConfigured(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseCluster {
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}
