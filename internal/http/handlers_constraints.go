package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

// ConstraintHandlers provides HTTP handlers for global work rule operations.
type ConstraintHandlers struct {
	Svc *service.ConstraintService
}

// Create handles HTTP requests to create a work rule.
func (h *ConstraintHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSystemConstraintRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	constraint, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, constraint)
}

// List handles HTTP requests to list all work rules.
func (h *ConstraintHandlers) List(w http.ResponseWriter, r *http.Request) {
	constraints, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, constraints)
}

// GetByID handles HTTP requests to retrieve a work rule.
func (h *ConstraintHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	constraint, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, constraint)
}

// Update handles HTTP requests to change a work rule's value or hardness.
func (h *ConstraintHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSystemConstraintRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	constraint, err := h.Svc.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, constraint)
}

// Delete handles HTTP requests to remove a work rule.
func (h *ConstraintHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
