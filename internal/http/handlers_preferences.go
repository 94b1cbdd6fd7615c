package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

// PreferenceHandlers provides HTTP handlers for employee preference operations.
type PreferenceHandlers struct {
	Svc *service.PreferenceService
}

// Create handles HTTP requests to record a preference. The route is
// manager-gated; an empty employee_id records the preference for the caller.
func (h *PreferenceHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := AuthUserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req model.CreatePreferenceRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		employeeID = user.EmployeeID
	}

	preference, err := h.Svc.Create(r.Context(), employeeID, &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, preference)
}

// List handles HTTP requests to list preferences, optionally for one employee.
func (h *PreferenceHandlers) List(w http.ResponseWriter, r *http.Request) {
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		preferences, err := h.Svc.ListByEmployee(r.Context(), employeeID)
		if err != nil {
			WriteAppError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, preferences)
		return
	}

	preferences, err := h.Svc.ListAll(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, preferences)
}

// GetByID handles HTTP requests to retrieve a preference.
func (h *PreferenceHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	preference, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, preference)
}

// Delete handles HTTP requests to remove a preference.
func (h *PreferenceHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
