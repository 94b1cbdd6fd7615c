package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rosterd/rosterd/config"
)

// InitLogger builds the process-wide JSON logger and installs it as the
// slog default. LOG_LEVEL selects the minimum level (debug, info, warn,
// error); unset or unparseable values mean info. Config is not loaded yet
// when this runs, so the variable is read directly.
func InitLogger() *slog.Logger {
	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(raw)); err == nil {
			level = parsed
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig reads a .env file when one exists, then parses the process
// environment into AppConfig and applies the config guardrails.
func LoadConfig() (config.AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		// A missing .env is the normal case outside development.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateServiceConfig rejects configurations whose SERVICES list does
// not select at least one known service.
func ValidateServiceConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("service config is required")
	}
	if _, err := cfg.Services.GetEnabledServices(); err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}
	return nil
}

// GetEnabledServices lists the enabled service names, sorted so startup
// logs stay stable across restarts. Invalid SERVICES values yield an
// empty list here; ValidateServiceConfig reports them as errors.
func GetEnabledServices(cfg *config.AppConfig) []string {
	if cfg == nil {
		return nil
	}
	services, err := cfg.Services.GetEnabledServices()
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(services))
	for mode := range services {
		names = append(names, string(mode))
	}
	slices.Sort(names)
	return names
}
