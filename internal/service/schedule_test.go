package service

import (
	"context"
	"testing"

	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScheduleService_CreateAttributesCreator(t *testing.T) {
	repo := new(mockScheduleRepo)
	svc := NewScheduleService(ScheduleServiceOptions{Schedules: repo})

	req := &model.CreateWeeklyScheduleRequest{WeekStartDate: "2024-03-04"}
	want := &model.WeeklySchedule{ID: "sched-9", Status: model.ScheduleStatusDraft}
	repo.On("Create", mock.Anything, req, "mgr-1").Return(want, nil)

	got, err := svc.Create(context.Background(), req, "mgr-1")

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestScheduleService_PublishAttributesPublisher(t *testing.T) {
	repo := new(mockScheduleRepo)
	svc := NewScheduleService(ScheduleServiceOptions{Schedules: repo})

	want := &model.WeeklySchedule{ID: "sched-9", Status: model.ScheduleStatusPublished}
	repo.On("Publish", mock.Anything, "sched-9", "mgr-2").Return(want, nil)

	got, err := svc.Publish(context.Background(), "sched-9", "mgr-2")

	require.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}

func TestScheduleService_PublishKeepsStateErrors(t *testing.T) {
	repo := new(mockScheduleRepo)
	svc := NewScheduleService(ScheduleServiceOptions{Schedules: repo})

	repo.On("Publish", mock.Anything, "sched-9", "mgr-2").
		Return(nil, apperrors.BusinessRule("only draft schedules can be published"))

	_, err := svc.Publish(context.Background(), "sched-9", "mgr-2")

	require.Error(t, err)
	assert.True(t, apperrors.IsBusinessRule(err))
	assert.Contains(t, err.Error(), "only draft schedules can be published")
}

func TestScheduleService_ListDefaultsPaging(t *testing.T) {
	repo := new(mockScheduleRepo)
	svc := NewScheduleService(ScheduleServiceOptions{Schedules: repo})

	repo.On("List", mock.Anything, model.SchedulesListOptions{Limit: 50, Offset: 0}).
		Return([]*model.WeeklySchedule{}, nil)

	_, err := svc.List(context.Background(), model.SchedulesListOptions{Limit: -1, Offset: -1})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestScheduleService_DeleteShiftScopesToSchedule(t *testing.T) {
	repo := new(mockScheduleRepo)
	svc := NewScheduleService(ScheduleServiceOptions{Schedules: repo})

	repo.On("DeleteShift", mock.Anything, "sched-9", "shift-3").
		Return(apperrors.NotFoundf("shift %s not found in schedule %s", "shift-3", "sched-9"))

	err := svc.DeleteShift(context.Background(), "sched-9", "shift-3")

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	repo.AssertExpectations(t)
}
