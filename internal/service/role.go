package service

import (
	"context"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
)

// RoleServiceOptions groups dependencies for RoleService.
type RoleServiceOptions struct {
	Roles core.RoleRepository
}

// RoleService manages the role catalog employees are qualified against.
type RoleService struct {
	roles core.RoleRepository
}

// NewRoleService constructs a new RoleService.
func NewRoleService(opts RoleServiceOptions) *RoleService {
	return &RoleService{roles: opts.Roles}
}

// Create creates a role.
func (s *RoleService) Create(ctx context.Context, req *model.CreateRoleRequest) (*model.Role, error) {
	return s.roles.Create(ctx, req)
}

// GetByID retrieves a role by ID.
func (s *RoleService) GetByID(ctx context.Context, id string) (*model.Role, error) {
	return s.roles.GetByID(ctx, id)
}

// List returns all roles. The catalog is small, so there is no paging.
func (s *RoleService) List(ctx context.Context) ([]*model.Role, error) {
	return s.roles.List(ctx)
}

// Update renames a role.
func (s *RoleService) Update(ctx context.Context, id string, req *model.UpdateRoleRequest) (*model.Role, error) {
	return s.roles.Update(ctx, id, req)
}

// Delete removes a role. Roles referenced by demands or assignments are
// protected by restrict constraints and surface as foreign key errors.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	return s.roles.Delete(ctx, id)
}
