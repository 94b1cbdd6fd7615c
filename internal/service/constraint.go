package service

import (
	"context"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
)

// ConstraintServiceOptions groups dependencies for ConstraintService.
type ConstraintServiceOptions struct {
	Constraints core.ConstraintRepository
}

// ConstraintService manages the global work rules. Each kind exists at most
// once; creating a duplicate kind surfaces as a conflict.
type ConstraintService struct {
	constraints core.ConstraintRepository
}

// NewConstraintService constructs a new ConstraintService.
func NewConstraintService(opts ConstraintServiceOptions) *ConstraintService {
	return &ConstraintService{constraints: opts.Constraints}
}

// Create creates a work rule.
func (s *ConstraintService) Create(ctx context.Context, req *model.CreateSystemConstraintRequest) (*model.SystemConstraint, error) {
	return s.constraints.Create(ctx, req)
}

// GetByID retrieves a work rule by ID.
func (s *ConstraintService) GetByID(ctx context.Context, id string) (*model.SystemConstraint, error) {
	return s.constraints.GetByID(ctx, id)
}

// GetByKind retrieves a work rule by its kind.
func (s *ConstraintService) GetByKind(ctx context.Context, kind model.SystemConstraintType) (*model.SystemConstraint, error) {
	return s.constraints.GetByKind(ctx, kind)
}

// List returns all work rules.
func (s *ConstraintService) List(ctx context.Context) ([]model.SystemConstraint, error) {
	return s.constraints.List(ctx)
}

// Update changes a work rule's value or hardness.
func (s *ConstraintService) Update(ctx context.Context, id string, req *model.UpdateSystemConstraintRequest) (*model.SystemConstraint, error) {
	return s.constraints.Update(ctx, id, req)
}

// Delete removes a work rule. Absent rules simply stop constraining the
// next optimization run.
func (s *ConstraintService) Delete(ctx context.Context, id string) error {
	return s.constraints.Delete(ctx, id)
}
