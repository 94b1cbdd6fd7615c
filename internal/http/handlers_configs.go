package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

// OptimizationConfigHandlers provides HTTP handlers for solver weight profiles.
type OptimizationConfigHandlers struct {
	Svc *service.OptimizationConfigService
}

// Create handles HTTP requests to create a config profile.
func (h *OptimizationConfigHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOptimizationConfigRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	cfg, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, cfg)
}

// List handles HTTP requests to list all config profiles.
func (h *OptimizationConfigHandlers) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Svc.List(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, configs)
}

// GetDefault handles HTTP requests to retrieve the default config profile.
// GET /api/configs/default.
func (h *OptimizationConfigHandlers) GetDefault(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Svc.GetDefault(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, cfg)
}

// GetByID handles HTTP requests to retrieve a config profile.
func (h *OptimizationConfigHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, cfg)
}

// Update handles HTTP requests to change a config's weights, budgets, or
// default flag.
func (h *OptimizationConfigHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateOptimizationConfigRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	cfg, err := h.Svc.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, cfg)
}

// Delete handles HTTP requests to remove a config profile.
func (h *OptimizationConfigHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
