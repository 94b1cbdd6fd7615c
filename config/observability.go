package config

import "strings"

// ObservabilityConfig groups configuration that controls metrics emission.
type ObservabilityConfig struct {
	Metrics MetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
}

// MetricsConfig controls emission of metrics to a StatsD-compatible sink.
type MetricsConfig struct {
	Enabled bool   `env:"STATSD_ENABLED" envDefault:"false"`
	Address string `env:"STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix  string `env:"STATSD_PREFIX"  envDefault:"rosterd"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *MetricsConfig) Sanitize() {
	c.Address = strings.TrimSpace(c.Address)
	c.Prefix = strings.TrimSpace(c.Prefix)
	if c.Address == "" {
		c.Enabled = false
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c *MetricsConfig) IsEnabled() bool {
	return c.Enabled && c.Address != ""
}
