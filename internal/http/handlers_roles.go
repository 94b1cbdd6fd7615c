package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

// RoleHandlers provides HTTP handlers for role operations.
type RoleHandlers struct {
	Svc *service.RoleService
}

// Create handles HTTP requests to create a new role.
func (h *RoleHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	role, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, role)
}

// List handles HTTP requests to list all roles.
func (h *RoleHandlers) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, roles)
}

// GetByID handles HTTP requests to retrieve a role.
func (h *RoleHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	role, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, role)
}

// Update handles HTTP requests to rename a role.
func (h *RoleHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateRoleRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	role, err := h.Svc.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, role)
}

// Delete handles HTTP requests to remove a role.
func (h *RoleHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
