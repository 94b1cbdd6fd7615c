package service

import (
	"context"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
)

// PreferenceServiceOptions groups dependencies for PreferenceService.
type PreferenceServiceOptions struct {
	Preferences core.PreferenceRepository
}

// PreferenceService manages the soft scheduling preferences the optimizer
// scores against. Preferences are immutable once filed; callers replace them
// by deleting and re-creating.
type PreferenceService struct {
	preferences core.PreferenceRepository
}

// NewPreferenceService constructs a new PreferenceService.
func NewPreferenceService(opts PreferenceServiceOptions) *PreferenceService {
	return &PreferenceService{preferences: opts.Preferences}
}

// Create records a preference for the employee.
func (s *PreferenceService) Create(ctx context.Context, employeeID string, req *model.CreatePreferenceRequest) (*model.EmployeePreference, error) {
	return s.preferences.Create(ctx, employeeID, req)
}

// GetByID retrieves a preference by ID.
func (s *PreferenceService) GetByID(ctx context.Context, id string) (*model.EmployeePreference, error) {
	return s.preferences.GetByID(ctx, id)
}

// ListByEmployee returns one employee's preferences.
func (s *PreferenceService) ListByEmployee(ctx context.Context, employeeID string) ([]model.EmployeePreference, error) {
	return s.preferences.ListByEmployee(ctx, employeeID)
}

// ListAll returns every employee's preferences.
func (s *PreferenceService) ListAll(ctx context.Context) ([]model.EmployeePreference, error) {
	return s.preferences.ListAll(ctx)
}

// Delete removes a preference.
func (s *PreferenceService) Delete(ctx context.Context, id string) error {
	return s.preferences.Delete(ctx, id)
}
