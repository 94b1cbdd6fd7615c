package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP API server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeOptimizer runs the optimization job worker.
	ServiceModeOptimizer ServiceMode = "optimizer"
	// ServiceModeReaper runs the queue and run reaper for cleanup.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeOptimizer,
		ServiceModeReaper,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeOptimizer, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, optimizer, reaper)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// OptimizerConfig contains optimization worker configuration.
type OptimizerConfig struct {
	// Concurrency is the number of worker goroutines. Each solve occupies a
	// slot for its full duration, so this bounds parallel solver processes.
	Concurrency int `env:"OPTIMIZER_CONCURRENCY" envDefault:"1"`

	// JobLease is the duration to lease an optimize queue job.
	JobLease time.Duration `env:"OPTIMIZER_JOB_LEASE" envDefault:"10m"`

	// RunLease is the duration a worker's claim on a scheduling run stays
	// valid. The claim is extended when a configured solver budget outlasts
	// it; a run whose lease expires is failed by the reaper.
	RunLease time.Duration `env:"OPTIMIZER_RUN_LEASE" envDefault:"10m"`

	// SolverDefaultTimeout caps the solve budget when a configuration does
	// not carry a usable max_runtime_seconds.
	SolverDefaultTimeout time.Duration `env:"SOLVER_DEFAULT_TIMEOUT" envDefault:"60s"`
}

// Sanitize applies guardrails to optimizer configuration values.
func (o *OptimizerConfig) Sanitize() {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.JobLease < 5*time.Second {
		o.JobLease = 5 * time.Second
	}
	if o.RunLease < 5*time.Second {
		o.RunLease = 5 * time.Second
	}
	if o.SolverDefaultTimeout < time.Second {
		o.SolverDefaultTimeout = time.Second
	}
}

// ReaperConfig contains queue and run reaper service configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"5m"`

	// PendingMaxAge is the maximum age for pending queue jobs before they
	// are marked as failed. Jobs stuck in pending longer than this were
	// never picked up by any worker.
	PendingMaxAge time.Duration `env:"REAPER_PENDING_MAX_AGE" envDefault:"1h"`

	// RunPendingMaxAge is the maximum age for pending scheduling runs before
	// they are marked as failed. A pending run older than this has lost its
	// queue job.
	RunPendingMaxAge time.Duration `env:"REAPER_RUN_PENDING_MAX_AGE" envDefault:"1h"`

	// CompletedMaxAge is the maximum age for completed queue jobs before deletion.
	CompletedMaxAge time.Duration `env:"REAPER_COMPLETED_MAX_AGE" envDefault:"168h"` // 7 days

	// FailedMaxAge is the maximum age for failed queue jobs before deletion.
	FailedMaxAge time.Duration `env:"REAPER_FAILED_MAX_AGE" envDefault:"168h"` // 7 days

	// BatchSize is the maximum number of rows to process per operation.
	// Batching prevents long locks and I/O spikes on large tables.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"1000"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	// Enforce minimum intervals to prevent excessive database load
	if r.Interval < 1*time.Minute {
		r.Interval = 1 * time.Minute
	}
	if r.PendingMaxAge < 5*time.Minute {
		r.PendingMaxAge = 5 * time.Minute
	}
	if r.RunPendingMaxAge < 5*time.Minute {
		r.RunPendingMaxAge = 5 * time.Minute
	}
	if r.CompletedMaxAge < 1*time.Hour {
		r.CompletedMaxAge = 1 * time.Hour
	}
	if r.FailedMaxAge < 1*time.Hour {
		r.FailedMaxAge = 1 * time.Hour
	}

	// Enforce batch size bounds to prevent excessive locks or inefficiency
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
	if r.BatchSize > 10000 {
		r.BatchSize = 10000
	}
}

// ServicesConfig groups all service-related configuration.
type ServicesConfig struct {
	// Services is a comma-delimited list of enabled services.
	// Valid values: http, optimizer, reaper
	Services string `env:"SERVICES" envDefault:"http"`

	// Optimizer worker configuration.
	Optimizer OptimizerConfig

	// Reaper configuration.
	Reaper ReaperConfig
}

// GetEnabledServices returns the enabled services based on the Services field.
func (s *ServicesConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(s.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (s *ServicesConfig) IsHTTPServerEnabled() bool {
	services, err := s.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsOptimizerEnabled returns true if the optimization worker is enabled.
func (s *ServicesConfig) IsOptimizerEnabled() bool {
	services, err := s.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeOptimizer]
}

// IsReaperEnabled returns true if the reaper service is enabled.
func (s *ServicesConfig) IsReaperEnabled() bool {
	services, err := s.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeReaper]
}

// Sanitize applies guardrails to services configuration values.
func (s *ServicesConfig) Sanitize() {
	s.Optimizer.Sanitize()
	s.Reaper.Sanitize()
}
