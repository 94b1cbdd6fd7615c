package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
	"github.com/rosterd/rosterd/internal/mocks"
	"github.com/rosterd/rosterd/internal/optimize"
	"github.com/rosterd/rosterd/internal/service"
)

// schedulingMocks bundles the repository doubles behind a real SchedulingService.
type schedulingMocks struct {
	runs      *mocks.MockRunRepository
	schedules *mocks.MockScheduleRepository
	employees *mocks.MockEmployeeRepository
	configs   *mocks.MockOptimizationConfigRepository
	jobs      *mocks.MockJobRepository
}

// unreachableSolver fails the test if a handler path ever reaches the solver;
// solving belongs to the worker, not the request cycle.
type unreachableSolver struct{}

func (unreachableSolver) Solve(context.Context, *optimize.Problem, optimize.SolveParams) (*optimize.Result, error) {
	return nil, errors.New("solver must not run during request handling")
}

func newSchedulingHandlers(t *testing.T) (*SchedulingHandlers, *schedulingMocks, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &schedulingMocks{
		runs:      mocks.NewMockRunRepository(ctrl),
		schedules: mocks.NewMockScheduleRepository(ctrl),
		employees: mocks.NewMockEmployeeRepository(ctrl),
		configs:   mocks.NewMockOptimizationConfigRepository(ctrl),
		jobs:      mocks.NewMockJobRepository(ctrl),
	}
	svc, err := service.NewSchedulingService(service.SchedulingServiceOptions{
		Runs:      m.runs,
		Schedules: m.schedules,
		Employees: m.employees,
		Configs:   m.configs,
		Snapshots: mocks.NewMockSnapshotRepository(ctrl),
		Jobs:      m.jobs,
		Solver:    unreachableSolver{},
		Applier:   service.NewApplyService(service.ApplyServiceOptions{Runs: m.runs}),
	})
	require.NoError(t, err)
	return &SchedulingHandlers{Svc: svc}, m, ctrl
}

func TestOptimize_Success(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.schedules.EXPECT().GetByID(gomock.Any(), "sched-77").
		Return(&model.WeeklySchedule{ID: "sched-77"}, nil)
	m.configs.EXPECT().GetDefault(gomock.Any()).
		Return(&model.OptimizationConfig{ID: "cfg-9"}, nil)
	m.runs.EXPECT().CreateRun(gomock.Any(), "sched-77", "cfg-9").
		Return(&model.SchedulingRun{ID: "run-42", Status: model.RunStatusPending}, nil)
	m.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateJobRequest) (*model.Job, error) {
			assert.Equal(t, model.JobTypeOptimize, req.Type)
			require.NotNil(t, req.RunID)
			assert.Equal(t, "run-42", *req.RunID)
			return &model.Job{ID: "job-1"}, nil
		})

	r := httptest.NewRequest(http.MethodPost, "/api/scheduling/optimize?weekly_schedule_id=sched-77", nil)
	w := httptest.NewRecorder()

	h.Optimize(w, r)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"run_id":"run-42"}`, w.Body.String())
}

func TestOptimize_MissingScheduleID(t *testing.T) {
	h, _, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	r := httptest.NewRequest(http.MethodPost, "/api/scheduling/optimize", nil)
	w := httptest.NewRecorder()

	h.Optimize(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"weekly_schedule_id is required"}`, w.Body.String())
}

func TestOptimize_UnknownSchedule(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.schedules.EXPECT().GetByID(gomock.Any(), "nope").
		Return(nil, apperrors.NotFound("weekly schedule not found"))

	r := httptest.NewRequest(http.MethodPost, "/api/scheduling/optimize?weekly_schedule_id=nope", nil)
	w := httptest.NewRecorder()

	h.Optimize(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"weekly schedule not found"}`, w.Body.String())
}

func TestOptimize_ExplicitConfig(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.schedules.EXPECT().GetByID(gomock.Any(), "sched-77").
		Return(&model.WeeklySchedule{ID: "sched-77"}, nil)
	m.configs.EXPECT().GetByID(gomock.Any(), "cfg-2").
		Return(&model.OptimizationConfig{ID: "cfg-2"}, nil)
	m.runs.EXPECT().CreateRun(gomock.Any(), "sched-77", "cfg-2").
		Return(&model.SchedulingRun{ID: "run-43", Status: model.RunStatusPending}, nil)
	m.jobs.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&model.Job{ID: "job-2"}, nil)

	r := httptest.NewRequest(http.MethodPost,
		"/api/scheduling/optimize?weekly_schedule_id=sched-77&config_id=cfg-2", nil)
	w := httptest.NewRecorder()

	h.Optimize(w, r)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"run_id":"run-43"}`, w.Body.String())
}

func TestOptimize_NoDefaultConfig(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.schedules.EXPECT().GetByID(gomock.Any(), "sched-77").
		Return(&model.WeeklySchedule{ID: "sched-77"}, nil)
	m.configs.EXPECT().GetDefault(gomock.Any()).
		Return(nil, apperrors.NotFound("no default optimization config"))

	r := httptest.NewRequest(http.MethodPost, "/api/scheduling/optimize?weekly_schedule_id=sched-77", nil)
	w := httptest.NewRecorder()

	h.Optimize(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "pass config_id or mark one configuration as default")
}

func TestRunMetrics_Success(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.runs.EXPECT().GetRunByID(gomock.Any(), "run-42").
		Return(&model.SchedulingRun{
			ID:         "run-42",
			ScheduleID: "sched-77",
			Status:     model.RunStatusPending,
		}, nil)
	m.schedules.EXPECT().CountActiveShifts(gomock.Any(), "sched-77").Return(10, nil)
	m.employees.EXPECT().CountActive(gomock.Any()).Return(5, nil)
	m.runs.EXPECT().ListSolutionsByRun(gomock.Any(), "run-42").
		Return([]model.SchedulingSolution{}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/scheduling/runs/run-42/metrics", nil)
	r.SetPathValue("run_id", "run-42")
	w := httptest.NewRecorder()

	h.RunMetrics(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.RunWithMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "run-42", got.ID)
	assert.Equal(t, 10, got.Metrics.ShiftsTotal)
	assert.Equal(t, 5, got.Metrics.EmployeesTotal)
	assert.Zero(t, got.Metrics.ShiftsFilled)
}

func TestRunMetrics_NotFound(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.runs.EXPECT().GetRunByID(gomock.Any(), "missing").
		Return(nil, apperrors.NotFound("scheduling run not found"))

	r := httptest.NewRequest(http.MethodGet, "/api/scheduling/runs/missing/metrics", nil)
	r.SetPathValue("run_id", "missing")
	w := httptest.NewRecorder()

	h.RunMetrics(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"scheduling run not found"}`, w.Body.String())
}

func TestApply_Success(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	solved := model.SolverStatusOptimal
	m.runs.EXPECT().GetRunByID(gomock.Any(), "run-42").
		Return(&model.SchedulingRun{
			ID:           "run-42",
			Status:       model.RunStatusCompleted,
			SolverStatus: &solved,
		}, nil)
	m.runs.EXPECT().ApplyRunSolutions(gomock.Any(), "run-42").
		Return(&model.ApplyResult{
			RunID:              "run-42",
			ShiftsAffected:     4,
			AssignmentsCreated: 9,
		}, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/scheduling/runs/run-42/apply", nil)
	r.SetPathValue("run_id", "run-42")
	w := httptest.NewRecorder()

	h.Apply(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.ApplyResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 9, got.AssignmentsCreated)
	assert.Equal(t, 4, got.ShiftsAffected)
}

func TestApply_PendingRunRejected(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.runs.EXPECT().GetRunByID(gomock.Any(), "run-42").
		Return(&model.SchedulingRun{ID: "run-42", Status: model.RunStatusPending}, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/scheduling/runs/run-42/apply", nil)
	r.SetPathValue("run_id", "run-42")
	w := httptest.NewRecorder()

	h.Apply(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot be applied")
}

func TestCancelRun_Success(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.runs.EXPECT().CancelRun(gomock.Any(), "run-42").
		Return(&model.SchedulingRun{ID: "run-42", Status: model.RunStatusCancelled}, nil)
	m.jobs.EXPECT().DeletePendingByRunID(gomock.Any(), "run-42").Return(1, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/scheduling/runs/run-42/cancel", nil)
	r.SetPathValue("run_id", "run-42")
	w := httptest.NewRecorder()

	h.CancelRun(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.SchedulingRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.RunStatusCancelled, got.Status)
}

func TestCancelRun_AlreadyClaimed(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.runs.EXPECT().CancelRun(gomock.Any(), "run-42").
		Return(nil, apperrors.BusinessRule("only pending runs can be cancelled"))

	r := httptest.NewRequest(http.MethodPost, "/api/scheduling/runs/run-42/cancel", nil)
	r.SetPathValue("run_id", "run-42")
	w := httptest.NewRecorder()

	h.CancelRun(w, r)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"detail":"only pending runs can be cancelled"}`, w.Body.String())
}

func TestQueueStats_Success(t *testing.T) {
	h, m, ctrl := newSchedulingHandlers(t)
	defer ctrl.Finish()

	m.jobs.EXPECT().Stats(gomock.Any(), model.JobTypeOptimize).
		Return(&model.JobStats{Pending: 3, Running: 1}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/scheduling/queue/stats", nil)
	w := httptest.NewRecorder()

	h.QueueStats(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.JobStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Pending)
	assert.Equal(t, 1, got.Running)
}
