package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxConfigNameLen      = 255
	maxSolverRuntimeSecs  = 3600
	defaultSolverGapLimit = 1.0
)

// OptimizationConfig is a named bundle of objective weights and solver limits.
// At most one config is flagged as the default.
type OptimizationConfig struct {
	ID                string    `json:"id"                  db:"id"`
	Name              string    `json:"name"                db:"name"`
	WeightFairness    float64   `json:"weight_fairness"     db:"weight_fairness"`
	WeightPreferences float64   `json:"weight_preferences"  db:"weight_preferences"`
	WeightCost        float64   `json:"weight_cost"         db:"weight_cost"`
	WeightCoverage    float64   `json:"weight_coverage"     db:"weight_coverage"`
	MaxRuntimeSeconds int       `json:"max_runtime_seconds" db:"max_runtime_seconds"`
	MIPGap            float64   `json:"mip_gap"             db:"mip_gap"`
	IsDefault         bool      `json:"is_default"          db:"is_default"`
	CreatedAt         time.Time `json:"created_at"          db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"          db:"updated_at"`
}

// CreateOptimizationConfigRequest represents parameters to create an OptimizationConfig.
type CreateOptimizationConfigRequest struct {
	Name              string  `json:"name"`
	WeightFairness    float64 `json:"weight_fairness"`
	WeightPreferences float64 `json:"weight_preferences"`
	WeightCost        float64 `json:"weight_cost"`
	WeightCoverage    float64 `json:"weight_coverage"`
	MaxRuntimeSeconds int     `json:"max_runtime_seconds"`
	MIPGap            float64 `json:"mip_gap"`
	IsDefault         bool    `json:"is_default,omitempty"`
}

// Validate validates CreateOptimizationConfigRequest.
func (r *CreateOptimizationConfigRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxConfigNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if err := validateWeight("weight_fairness", r.WeightFairness); err != nil {
		return err
	}
	if err := validateWeight("weight_preferences", r.WeightPreferences); err != nil {
		return err
	}
	if err := validateWeight("weight_cost", r.WeightCost); err != nil {
		return err
	}
	if err := validateWeight("weight_coverage", r.WeightCoverage); err != nil {
		return err
	}
	if r.WeightFairness == 0 && r.WeightPreferences == 0 && r.WeightCost == 0 && r.WeightCoverage == 0 {
		return errors.New("at least one objective weight must be greater than zero")
	}
	if r.MaxRuntimeSeconds <= 0 || r.MaxRuntimeSeconds > maxSolverRuntimeSecs {
		return errors.New("max_runtime_seconds must be between 1 and 3600")
	}
	if r.MIPGap < 0 || r.MIPGap >= defaultSolverGapLimit {
		return errors.New("mip_gap must be in [0, 1)")
	}
	return nil
}

// UpdateOptimizationConfigRequest represents parameters to update an OptimizationConfig.
type UpdateOptimizationConfigRequest struct {
	Name              *string  `json:"name,omitempty"`
	WeightFairness    *float64 `json:"weight_fairness,omitempty"`
	WeightPreferences *float64 `json:"weight_preferences,omitempty"`
	WeightCost        *float64 `json:"weight_cost,omitempty"`
	WeightCoverage    *float64 `json:"weight_coverage,omitempty"`
	MaxRuntimeSeconds *int     `json:"max_runtime_seconds,omitempty"`
	MIPGap            *float64 `json:"mip_gap,omitempty"`
	IsDefault         *bool    `json:"is_default,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateOptimizationConfigRequest.
func (r *UpdateOptimizationConfigRequest) HasUpdates() bool {
	return r.Name != nil || r.WeightFairness != nil || r.WeightPreferences != nil ||
		r.WeightCost != nil || r.WeightCoverage != nil ||
		r.MaxRuntimeSeconds != nil ||
		r.MIPGap != nil ||
		r.IsDefault != nil
}

// Validate validates UpdateOptimizationConfigRequest.
func (r *UpdateOptimizationConfigRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return errors.New("name cannot be empty")
		}
		if utf8.RuneCountInString(n) > maxConfigNameLen {
			return errors.New("name cannot exceed 255 characters")
		}
	}
	for field, w := range map[string]*float64{
		"weight_fairness":    r.WeightFairness,
		"weight_preferences": r.WeightPreferences,
		"weight_cost":        r.WeightCost,
		"weight_coverage":    r.WeightCoverage,
	} {
		if w != nil {
			if err := validateWeight(field, *w); err != nil {
				return err
			}
		}
	}
	if r.MaxRuntimeSeconds != nil && (*r.MaxRuntimeSeconds <= 0 || *r.MaxRuntimeSeconds > maxSolverRuntimeSecs) {
		return errors.New("max_runtime_seconds must be between 1 and 3600")
	}
	if r.MIPGap != nil && (*r.MIPGap < 0 || *r.MIPGap >= defaultSolverGapLimit) {
		return errors.New("mip_gap must be in [0, 1)")
	}
	return nil
}

func validateWeight(field string, w float64) error {
	if w < 0 || w > 1 {
		return errors.New(field + " must be between 0 and 1")
	}
	return nil
}
