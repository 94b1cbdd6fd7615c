package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

// fakeTimeOffRepo is a func-field test double for core.TimeOffRepository.
type fakeTimeOffRepo struct {
	createFunc func(ctx context.Context, employeeID string, req *model.CreateTimeOffRequest) (*model.TimeOffRequest, error)
	listFunc   func(ctx context.Context, employeeID *string, status *model.TimeOffStatus, limit, offset int) ([]*model.TimeOffRequest, error)
	decideFunc func(ctx context.Context, id string, req *model.DecideTimeOffRequest) (*model.TimeOffRequest, error)
}

func (f *fakeTimeOffRepo) Create(ctx context.Context, employeeID string, req *model.CreateTimeOffRequest) (*model.TimeOffRequest, error) {
	if f.createFunc != nil {
		return f.createFunc(ctx, employeeID, req)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeTimeOffRepo) GetByID(_ context.Context, _ string) (*model.TimeOffRequest, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTimeOffRepo) List(ctx context.Context, employeeID *string, status *model.TimeOffStatus, limit, offset int) ([]*model.TimeOffRequest, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, employeeID, status, limit, offset)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeTimeOffRepo) Decide(ctx context.Context, id string, req *model.DecideTimeOffRequest) (*model.TimeOffRequest, error) {
	if f.decideFunc != nil {
		return f.decideFunc(ctx, id, req)
	}
	return nil, errors.New("not implemented")
}

func (f *fakeTimeOffRepo) Delete(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

func newTimeOffHandlers(repo *fakeTimeOffRepo) *TimeOffHandlers {
	return &TimeOffHandlers{Svc: service.NewTimeOffService(service.TimeOffServiceOptions{TimeOff: repo})}
}

// requestAs attaches an authenticated principal to the request context, the
// way RequireAuth does for routed traffic.
func requestAs(r *http.Request, user model.AuthUser) *http.Request {
	return r.WithContext(SetAuthUser(r.Context(), &user))
}

func TestTimeOffCreate_SelfFiling(t *testing.T) {
	repo := &fakeTimeOffRepo{
		createFunc: func(_ context.Context, employeeID string, req *model.CreateTimeOffRequest) (*model.TimeOffRequest, error) {
			assert.Equal(t, "emp-1", employeeID)
			return &model.TimeOffRequest{ID: "to-1", EmployeeID: employeeID, Status: model.TimeOffStatusPending}, nil
		},
	}
	h := newTimeOffHandlers(repo)

	body, _ := json.Marshal(model.CreateTimeOffRequest{StartDate: "2026-03-02", EndDate: "2026-03-06"})
	r := httptest.NewRequest(http.MethodPost, "/api/time-off", bytes.NewReader(body))
	r = requestAs(r, model.AuthUser{EmployeeID: "emp-1"})
	w := httptest.NewRecorder()

	h.Create(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var got model.TimeOffRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "emp-1", got.EmployeeID)
	assert.Equal(t, model.TimeOffStatusPending, got.Status)
}

func TestTimeOffCreate_OwnIDNamedExplicitly(t *testing.T) {
	repo := &fakeTimeOffRepo{
		createFunc: func(_ context.Context, employeeID string, _ *model.CreateTimeOffRequest) (*model.TimeOffRequest, error) {
			assert.Equal(t, "emp-1", employeeID)
			return &model.TimeOffRequest{ID: "to-1", EmployeeID: employeeID}, nil
		},
	}
	h := newTimeOffHandlers(repo)

	body, _ := json.Marshal(model.CreateTimeOffRequest{
		EmployeeID: "emp-1",
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/time-off", bytes.NewReader(body))
	r = requestAs(r, model.AuthUser{EmployeeID: "emp-1"})
	w := httptest.NewRecorder()

	h.Create(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestTimeOffCreate_ForOtherAsStaff_Forbidden(t *testing.T) {
	called := false
	repo := &fakeTimeOffRepo{
		createFunc: func(_ context.Context, _ string, _ *model.CreateTimeOffRequest) (*model.TimeOffRequest, error) {
			called = true
			return nil, errors.New("should not be reached")
		},
	}
	h := newTimeOffHandlers(repo)

	body, _ := json.Marshal(model.CreateTimeOffRequest{
		EmployeeID: "emp-2",
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/time-off", bytes.NewReader(body))
	r = requestAs(r, model.AuthUser{EmployeeID: "emp-1", IsManager: false})
	w := httptest.NewRecorder()

	h.Create(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"only managers may file for another employee"}`, w.Body.String())
	assert.False(t, called)
}

func TestTimeOffCreate_ForOtherAsManager(t *testing.T) {
	repo := &fakeTimeOffRepo{
		createFunc: func(_ context.Context, employeeID string, _ *model.CreateTimeOffRequest) (*model.TimeOffRequest, error) {
			assert.Equal(t, "emp-2", employeeID)
			return &model.TimeOffRequest{ID: "to-2", EmployeeID: employeeID}, nil
		},
	}
	h := newTimeOffHandlers(repo)

	body, _ := json.Marshal(model.CreateTimeOffRequest{
		EmployeeID: "emp-2",
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-06",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/time-off", bytes.NewReader(body))
	r = requestAs(r, model.AuthUser{EmployeeID: "mgr-1", IsManager: true})
	w := httptest.NewRecorder()

	h.Create(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestTimeOffCreate_Unauthenticated(t *testing.T) {
	h := newTimeOffHandlers(&fakeTimeOffRepo{})

	r := httptest.NewRequest(http.MethodPost, "/api/time-off", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	h.Create(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTimeOffList_ForwardsFilters(t *testing.T) {
	repo := &fakeTimeOffRepo{
		listFunc: func(_ context.Context, employeeID *string, status *model.TimeOffStatus, limit, offset int) ([]*model.TimeOffRequest, error) {
			require.NotNil(t, employeeID)
			assert.Equal(t, "emp-1", *employeeID)
			require.NotNil(t, status)
			assert.Equal(t, model.TimeOffStatusPending, *status)
			assert.Equal(t, 50, limit)
			assert.Equal(t, 0, offset)
			return []*model.TimeOffRequest{}, nil
		},
	}
	h := newTimeOffHandlers(repo)

	r := httptest.NewRequest(http.MethodGet, "/api/time-off?employee_id=emp-1&status=pending", nil)
	w := httptest.NewRecorder()

	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got, "time_off_requests")
	assert.EqualValues(t, 50, got["limit"])
}

func TestTimeOffList_InvalidStatusFilter(t *testing.T) {
	h := newTimeOffHandlers(&fakeTimeOffRepo{})

	r := httptest.NewRequest(http.MethodGet, "/api/time-off?status=bogus", nil)
	w := httptest.NewRecorder()

	h.List(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"invalid status filter"}`, w.Body.String())
}

func TestTimeOffDecide_Success(t *testing.T) {
	repo := &fakeTimeOffRepo{
		decideFunc: func(_ context.Context, id string, req *model.DecideTimeOffRequest) (*model.TimeOffRequest, error) {
			assert.Equal(t, "to-1", id)
			assert.Equal(t, model.TimeOffStatusApproved, req.Status)
			return &model.TimeOffRequest{ID: id, Status: model.TimeOffStatusApproved}, nil
		},
	}
	h := newTimeOffHandlers(repo)

	r := httptest.NewRequest(http.MethodPost, "/api/time-off/to-1/decide",
		bytes.NewBufferString(`{"status":"approved"}`))
	r.SetPathValue("id", "to-1")
	w := httptest.NewRecorder()

	h.Decide(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.TimeOffRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.TimeOffStatusApproved, got.Status)
}
