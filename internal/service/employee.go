package service

import (
	"context"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
)

// EmployeeServiceOptions groups dependencies for EmployeeService.
type EmployeeServiceOptions struct {
	Employees core.EmployeeRepository
}

// EmployeeService manages the workforce roster. Passwords are hashed here so
// plaintext never reaches the data layer.
type EmployeeService struct {
	employees core.EmployeeRepository
}

// NewEmployeeService constructs a new EmployeeService.
func NewEmployeeService(opts EmployeeServiceOptions) *EmployeeService {
	return &EmployeeService{employees: opts.Employees}
}

// Create validates the request, hashes the password, and stores the employee.
// Validation runs first so invalid input is rejected before the bcrypt work.
func (s *EmployeeService) Create(ctx context.Context, req *model.CreateEmployeeRequest) (*model.Employee, error) {
	if req == nil {
		return nil, apperrors.Validation("create employee request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}
	return s.employees.Create(ctx, req, hash)
}

// Update applies a partial update, re-hashing the password when one is supplied.
func (s *EmployeeService) Update(ctx context.Context, id string, req *model.UpdateEmployeeRequest) (*model.Employee, error) {
	if req == nil {
		return nil, apperrors.Validation("update employee request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	var passwordHash *string
	if req.Password != nil {
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
		}
		passwordHash = &hash
	}
	return s.employees.Update(ctx, id, req, passwordHash)
}

// GetByID retrieves an employee by ID.
func (s *EmployeeService) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

// List returns a page of employees matching the options.
func (s *EmployeeService) List(ctx context.Context, opts model.EmployeesListOptions) ([]*model.Employee, error) {
	return s.employees.List(ctx, normalizeEmployeesListOptions(opts))
}

// Delete removes an employee. Their assignments and filed requests go with
// them via cascade.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	return s.employees.Delete(ctx, id)
}

func normalizeEmployeesListOptions(opts model.EmployeesListOptions) model.EmployeesListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}
