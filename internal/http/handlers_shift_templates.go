package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

// ShiftTemplateHandlers provides HTTP handlers for shift template operations.
type ShiftTemplateHandlers struct {
	Svc *service.ShiftTemplateService
}

// Create handles HTTP requests to create a new shift template.
func (h *ShiftTemplateHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateShiftTemplateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	template, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, template)
}

// List handles HTTP requests to list all shift templates.
func (h *ShiftTemplateHandlers) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, templates)
}

// GetByID handles HTTP requests to retrieve a shift template.
func (h *ShiftTemplateHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	template, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, template)
}

// Update handles HTTP requests to partially update a shift template.
func (h *ShiftTemplateHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateShiftTemplateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	template, err := h.Svc.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, template)
}

// Delete handles HTTP requests to remove a shift template.
func (h *ShiftTemplateHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
