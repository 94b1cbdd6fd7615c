package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

const maxTimeOffListLimit = 500

// TimeOffHandlers provides HTTP handlers for time-off request operations.
type TimeOffHandlers struct {
	Svc *service.TimeOffService
}

// Create handles HTTP requests to file a time-off request. Anyone may file
// for themselves; naming another employee requires the manager capability.
func (h *TimeOffHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := AuthUserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req model.CreateTimeOffRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	employeeID, ok := resolveTargetEmployee(user, req.EmployeeID)
	if !ok {
		WriteError(w, http.StatusForbidden, "only managers may file for another employee")
		return
	}

	timeOff, err := h.Svc.Create(r.Context(), employeeID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, timeOff)
}

// List handles HTTP requests to list time-off requests with pagination and
// optional employee/status filters.
func (h *TimeOffHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, maxTimeOffListLimit)

	var employeeID *string
	if v := r.URL.Query().Get("employee_id"); v != "" {
		employeeID = &v
	}
	var status *model.TimeOffStatus
	if v := r.URL.Query().Get("status"); v != "" {
		parsed, ok := model.ParseTimeOffStatus(v)
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		status = &parsed
	}

	requests, err := h.Svc.List(r.Context(), employeeID, status, limit, offset)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"time_off_requests": requests,
		"limit":             limit,
		"offset":            offset,
	})
}

// GetByID handles HTTP requests to retrieve a time-off request.
func (h *TimeOffHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	timeOff, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, timeOff)
}

// Decide handles HTTP requests to approve or reject a pending request.
// POST /api/time-off/{id}/decide.
func (h *TimeOffHandlers) Decide(w http.ResponseWriter, r *http.Request) {
	var req model.DecideTimeOffRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	timeOff, err := h.Svc.Decide(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, timeOff)
}

// Delete handles HTTP requests to remove a time-off request.
func (h *TimeOffHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// resolveTargetEmployee picks who a filing lands on. An empty requested ID
// means the caller files for themselves; naming someone else is a manager
// capability.
func resolveTargetEmployee(user *model.AuthUser, requested string) (string, bool) {
	if requested == "" || requested == user.EmployeeID {
		return user.EmployeeID, true
	}
	if !user.IsManager {
		return "", false
	}
	return requested, true
}
