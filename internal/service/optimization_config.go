package service

import (
	"context"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
)

// OptimizationConfigServiceOptions groups dependencies for OptimizationConfigService.
type OptimizationConfigServiceOptions struct {
	Configs core.OptimizationConfigRepository
}

// OptimizationConfigService manages named solver weight profiles. At most one
// profile is the default; marking a new default demotes the old one in the
// data layer.
type OptimizationConfigService struct {
	configs core.OptimizationConfigRepository
}

// NewOptimizationConfigService constructs a new OptimizationConfigService.
func NewOptimizationConfigService(opts OptimizationConfigServiceOptions) *OptimizationConfigService {
	return &OptimizationConfigService{configs: opts.Configs}
}

// Create creates a config profile.
func (s *OptimizationConfigService) Create(ctx context.Context, req *model.CreateOptimizationConfigRequest) (*model.OptimizationConfig, error) {
	return s.configs.Create(ctx, req)
}

// GetByID retrieves a config by ID.
func (s *OptimizationConfigService) GetByID(ctx context.Context, id string) (*model.OptimizationConfig, error) {
	return s.configs.GetByID(ctx, id)
}

// GetDefault retrieves the default config, when one is marked.
func (s *OptimizationConfigService) GetDefault(ctx context.Context) (*model.OptimizationConfig, error) {
	return s.configs.GetDefault(ctx)
}

// List returns all config profiles.
func (s *OptimizationConfigService) List(ctx context.Context) ([]model.OptimizationConfig, error) {
	return s.configs.List(ctx)
}

// Update changes a config's weights, budgets, or default flag.
func (s *OptimizationConfigService) Update(ctx context.Context, id string, req *model.UpdateOptimizationConfigRequest) (*model.OptimizationConfig, error) {
	return s.configs.Update(ctx, id, req)
}

// Delete removes a config. Configs referenced by run history are protected
// by a restrict constraint.
func (s *OptimizationConfigService) Delete(ctx context.Context, id string) error {
	return s.configs.Delete(ctx, id)
}
