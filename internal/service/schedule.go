package service

import (
	"context"

	"github.com/rosterd/rosterd/internal/core"
	"github.com/rosterd/rosterd/internal/domain/model"
)

// ScheduleServiceOptions groups dependencies for ScheduleService.
type ScheduleServiceOptions struct {
	Schedules core.ScheduleRepository
}

// ScheduleService manages weekly schedules through their draft, published,
// and archived states, along with the planned shifts inside them. The state
// rules live in the data layer; this service adds the caller identity from
// the HTTP surface.
type ScheduleService struct {
	schedules core.ScheduleRepository
}

// NewScheduleService constructs a new ScheduleService.
func NewScheduleService(opts ScheduleServiceOptions) *ScheduleService {
	return &ScheduleService{schedules: opts.Schedules}
}

// Create creates a draft schedule for the requested week, attributed to the
// creating manager.
func (s *ScheduleService) Create(ctx context.Context, req *model.CreateWeeklyScheduleRequest, createdBy string) (*model.WeeklySchedule, error) {
	return s.schedules.Create(ctx, req, createdBy)
}

// GetByID retrieves a schedule by ID.
func (s *ScheduleService) GetByID(ctx context.Context, id string) (*model.WeeklySchedule, error) {
	return s.schedules.GetByID(ctx, id)
}

// List returns a page of schedules matching the options.
func (s *ScheduleService) List(ctx context.Context, opts model.SchedulesListOptions) ([]*model.WeeklySchedule, error) {
	return s.schedules.List(ctx, normalizeSchedulesListOptions(opts))
}

// Publish moves a draft schedule to published, recording who published it.
// Non-draft schedules are rejected with a business rule error.
func (s *ScheduleService) Publish(ctx context.Context, id, publishedBy string) (*model.WeeklySchedule, error) {
	return s.schedules.Publish(ctx, id, publishedBy)
}

// Archive retires a published schedule.
func (s *ScheduleService) Archive(ctx context.Context, id string) (*model.WeeklySchedule, error) {
	return s.schedules.Archive(ctx, id)
}

// Delete removes a schedule and, via cascade, its shifts, assignments, and
// run history.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	return s.schedules.Delete(ctx, id)
}

// AddShift instantiates a template on a date within the schedule.
func (s *ScheduleService) AddShift(ctx context.Context, scheduleID string, req *model.CreatePlannedShiftRequest) (*model.PlannedShift, error) {
	return s.schedules.AddShift(ctx, scheduleID, req)
}

// ListShifts returns the schedule's planned shifts ordered by start time.
func (s *ScheduleService) ListShifts(ctx context.Context, scheduleID string) ([]model.PlannedShift, error) {
	return s.schedules.ListShifts(ctx, scheduleID)
}

// GetShiftByID retrieves a planned shift by ID.
func (s *ScheduleService) GetShiftByID(ctx context.Context, shiftID string) (*model.PlannedShift, error) {
	return s.schedules.GetShiftByID(ctx, shiftID)
}

// DeleteShift removes a planned shift from a schedule. The schedule ID scopes
// the delete so a shift cannot be removed through another schedule's URL.
func (s *ScheduleService) DeleteShift(ctx context.Context, scheduleID, shiftID string) error {
	return s.schedules.DeleteShift(ctx, scheduleID, shiftID)
}

// ListAssignments returns the live assignments across a schedule's shifts.
func (s *ScheduleService) ListAssignments(ctx context.Context, scheduleID string) ([]model.ShiftAssignment, error) {
	return s.schedules.ListAssignmentsForSchedule(ctx, scheduleID)
}

func normalizeSchedulesListOptions(opts model.SchedulesListOptions) model.SchedulesListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return opts
}
