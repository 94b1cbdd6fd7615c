package service

import (
	"context"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
)

// TimeOffServiceOptions groups dependencies for TimeOffService.
type TimeOffServiceOptions struct {
	TimeOff core.TimeOffRepository
}

// TimeOffService manages time-off requests through their pending, approved,
// and rejected states. Who may file for whom is decided at the HTTP surface;
// this service receives the already-resolved target employee.
type TimeOffService struct {
	timeOff core.TimeOffRepository
}

// NewTimeOffService constructs a new TimeOffService.
func NewTimeOffService(opts TimeOffServiceOptions) *TimeOffService {
	return &TimeOffService{timeOff: opts.TimeOff}
}

// Create files a pending time-off request for the employee.
func (s *TimeOffService) Create(ctx context.Context, employeeID string, req *model.CreateTimeOffRequest) (*model.TimeOffRequest, error) {
	return s.timeOff.Create(ctx, employeeID, req)
}

// GetByID retrieves a time-off request by ID.
func (s *TimeOffService) GetByID(ctx context.Context, id string) (*model.TimeOffRequest, error) {
	return s.timeOff.GetByID(ctx, id)
}

// List returns a page of time-off requests, optionally filtered by employee
// and status.
func (s *TimeOffService) List(ctx context.Context, employeeID *string, status *model.TimeOffStatus, limit, offset int) ([]*model.TimeOffRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.timeOff.List(ctx, employeeID, status, limit, offset)
}

// Decide approves or rejects a pending request. Requests that have already
// been decided are rejected with a business rule error.
func (s *TimeOffService) Decide(ctx context.Context, id string, req *model.DecideTimeOffRequest) (*model.TimeOffRequest, error) {
	return s.timeOff.Decide(ctx, id, req)
}

// Delete removes a time-off request.
func (s *TimeOffService) Delete(ctx context.Context, id string) error {
	return s.timeOff.Delete(ctx, id)
}
