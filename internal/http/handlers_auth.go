package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/domain/model"
	"github.com/rosterd/rosterd/internal/service"
)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc *service.AuthService
}

// Login handles credential login.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Svc.Login(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Me returns the employee record behind the presented token.
// GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := AuthUserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	employee, err := h.Svc.Me(r.Context(), *user)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, employee)
}
