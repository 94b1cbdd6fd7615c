package config

import "strings"

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Bearer token configuration
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
//   - services.go: Service mode and worker configuration
//   - observability.go: Metrics configuration
type AppConfig struct {
	// Env names the deployment environment: development, test, or production.
	Env string `env:"APP_ENV" envDefault:"development"`

	// DatabaseURL is a full Postgres connection string. When set it takes
	// precedence over the discrete DB_* fields.
	DatabaseURL string `env:"DATABASE_URL"`

	// Bearer token configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Service mode and worker configuration
	Services ServicesConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = "development"
	}

	c.Auth.Sanitize()
	c.Cache.Sanitize()
	c.HTTP.Sanitize()
	c.Services.Sanitize()
	c.Observability.Sanitize()
}

// IsDev reports whether the service is running in a development environment.
func (c *AppConfig) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// PostgresDSN returns the Postgres connection string, preferring DATABASE_URL
// over the discrete DB_* fields.
func (c *AppConfig) PostgresDSN() string {
	if dsn := strings.TrimSpace(c.DatabaseURL); dsn != "" {
		return dsn
	}
	return c.Postgres.DSN()
}
