package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

const maxEmployeeListLimit = 500

// EmployeeHandlers provides HTTP handlers for employee operations.
type EmployeeHandlers struct {
	Svc *service.EmployeeService
}

// Create handles HTTP requests to create a new employee.
func (h *EmployeeHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEmployeeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	employee, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, employee)
}

// List handles HTTP requests to list employees with pagination and filters.
func (h *EmployeeHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, maxEmployeeListLimit)

	opts := model.EmployeesListOptions{Limit: limit, Offset: offset}
	if q := r.URL.Query().Get("q"); q != "" {
		opts.Q = &q
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status, ok := model.ParseEmployeeStatus(v)
		if !ok {
			WriteError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		opts.Status = &status
	}

	employees, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"employees": employees,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetByID handles HTTP requests to retrieve an employee.
func (h *EmployeeHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	employee, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, employee)
}

// Update handles HTTP requests to partially update an employee.
func (h *EmployeeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEmployeeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	employee, err := h.Svc.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, employee)
}

// Delete handles HTTP requests to remove an employee.
func (h *EmployeeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
