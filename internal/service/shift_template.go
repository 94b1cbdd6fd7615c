package service

import (
	"context"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
)

// ShiftTemplateServiceOptions groups dependencies for ShiftTemplateService.
type ShiftTemplateServiceOptions struct {
	Templates core.ShiftTemplateRepository
}

// ShiftTemplateService manages reusable shift definitions and their role demands.
type ShiftTemplateService struct {
	templates core.ShiftTemplateRepository
}

// NewShiftTemplateService constructs a new ShiftTemplateService.
func NewShiftTemplateService(opts ShiftTemplateServiceOptions) *ShiftTemplateService {
	return &ShiftTemplateService{templates: opts.Templates}
}

// Create creates a shift template with its demands.
func (s *ShiftTemplateService) Create(ctx context.Context, req *model.CreateShiftTemplateRequest) (*model.ShiftTemplate, error) {
	return s.templates.Create(ctx, req)
}

// GetByID retrieves a shift template by ID.
func (s *ShiftTemplateService) GetByID(ctx context.Context, id string) (*model.ShiftTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

// List returns all shift templates with their demands.
func (s *ShiftTemplateService) List(ctx context.Context) ([]*model.ShiftTemplate, error) {
	return s.templates.List(ctx)
}

// Update applies a partial update. A demand list, when present, replaces the
// template's demands wholesale.
func (s *ShiftTemplateService) Update(ctx context.Context, id string, req *model.UpdateShiftTemplateRequest) (*model.ShiftTemplate, error) {
	return s.templates.Update(ctx, id, req)
}

// Delete removes a shift template. Templates referenced by planned shifts are
// protected by a restrict constraint.
func (s *ShiftTemplateService) Delete(ctx context.Context, id string) error {
	return s.templates.Delete(ctx, id)
}
