package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

const maxScheduleListLimit = 500

// ScheduleHandlers provides HTTP handlers for weekly schedule operations,
// including the planned shifts and live assignments inside a schedule.
type ScheduleHandlers struct {
	Svc *service.ScheduleService
}

// Create handles HTTP requests to create a draft schedule. The authenticated
// manager is recorded as the creator.
func (h *ScheduleHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := AuthUserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req model.CreateWeeklyScheduleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	schedule, err := h.Svc.Create(r.Context(), &req, user.EmployeeID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, schedule)
}

// List handles HTTP requests to list schedules with pagination and an
// optional status filter.
func (h *ScheduleHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, maxScheduleListLimit)

	opts := model.SchedulesListOptions{Limit: limit, Offset: offset}
	if v := r.URL.Query().Get("status"); v != "" {
		status, ok := model.ParseScheduleStatus(v)
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		opts.Status = &status
	}

	schedules, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"schedules": schedules,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles HTTP requests to retrieve a schedule.
func (h *ScheduleHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, schedule)
}

// Publish handles HTTP requests to publish a draft schedule. The
// authenticated manager is recorded as the publisher.
// POST /api/schedules/{id}/publish.
func (h *ScheduleHandlers) Publish(w http.ResponseWriter, r *http.Request) {
	user, ok := AuthUserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	schedule, err := h.Svc.Publish(r.Context(), r.PathValue("id"), user.EmployeeID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, schedule)
}

// Archive handles HTTP requests to retire a published schedule.
// POST /api/schedules/{id}/archive.
func (h *ScheduleHandlers) Archive(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.Svc.Archive(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, schedule)
}

// Delete handles HTTP requests to remove a schedule.
func (h *ScheduleHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// AddShift handles HTTP requests to instantiate a template on a date within
// the schedule.
// POST /api/schedules/{id}/shifts.
func (h *ScheduleHandlers) AddShift(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePlannedShiftRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	shift, err := h.Svc.AddShift(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, shift)
}

// ListShifts handles HTTP requests to list a schedule's planned shifts.
// GET /api/schedules/{id}/shifts.
func (h *ScheduleHandlers) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Svc.ListShifts(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, shifts)
}

// DeleteShift handles HTTP requests to remove a planned shift.
// DELETE /api/schedules/{id}/shifts/{shift_id}.
func (h *ScheduleHandlers) DeleteShift(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteShift(r.Context(), r.PathValue("id"), r.PathValue("shift_id")); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ListAssignments handles HTTP requests to list the live assignments across
// a schedule's shifts.
// GET /api/schedules/{id}/assignments.
func (h *ScheduleHandlers) ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.Svc.ListAssignments(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, assignments)
}
