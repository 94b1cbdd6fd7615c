package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rosterd/rosterd/internal/domain/model"
	apperrors "github.com/rosterd/rosterd/internal/errors"
	"github.com/rosterd/rosterd/internal/mocks"
	authmocks "github.com/rosterd/rosterd/internal/mocks/auth"
	"github.com/rosterd/rosterd/internal/service"
)

func newAuthHandlers(t *testing.T) (*AuthHandlers, *mocks.MockEmployeeRepository, *authmocks.StaticTokenIssuer, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockEmployeeRepository(ctrl)
	issuer := authmocks.NewStaticTokenIssuer()
	svc := service.NewAuthService(service.AuthServiceOptions{
		Employees: repo,
		Tokens:    issuer,
	})
	return &AuthHandlers{Svc: svc}, repo, issuer, ctrl
}

func TestLogin_Success(t *testing.T) {
	h, repo, issuer, ctrl := newAuthHandlers(t)
	defer ctrl.Finish()

	hash, err := service.HashPassword("secret123")
	require.NoError(t, err)

	// The handler must see the normalized email, whatever the client typed.
	repo.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").
		Return(&model.Employee{
			ID:           "emp-1",
			Email:        "ana@example.com",
			PasswordHash: hash,
			IsManager:    true,
		}, nil)

	body, _ := json.Marshal(model.LoginRequest{Email: "  Ana@Example.com ", Password: "secret123"})
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "bearer", got.TokenType)
	assert.NotEmpty(t, got.Token)
	assert.Equal(t, "emp-1", got.Employee.ID)

	// The minted token must verify back to the same principal.
	user, err := issuer.Verify(got.Token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", user.EmployeeID)
	assert.True(t, user.IsManager)
}

func TestLogin_WrongPassword(t *testing.T) {
	h, repo, _, ctrl := newAuthHandlers(t)
	defer ctrl.Finish()

	hash, err := service.HashPassword("secret123")
	require.NoError(t, err)

	repo.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").
		Return(&model.Employee{ID: "emp-1", Email: "ana@example.com", PasswordHash: hash}, nil)

	body, _ := json.Marshal(model.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"incorrect email or password"}`, w.Body.String())
}

// An unknown email must be indistinguishable from a wrong password.
func TestLogin_UnknownEmail(t *testing.T) {
	h, repo, _, ctrl := newAuthHandlers(t)
	defer ctrl.Finish()

	repo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").
		Return(nil, apperrors.NotFound("employee not found"))

	body, _ := json.Marshal(model.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.Login(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"incorrect email or password"}`, w.Body.String())
}

func TestLogin_MissingFields(t *testing.T) {
	h, _, _, ctrl := newAuthHandlers(t)
	defer ctrl.Finish()

	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"email":""}`))
	w := httptest.NewRecorder()

	h.Login(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe_Success(t *testing.T) {
	h, repo, _, ctrl := newAuthHandlers(t)
	defer ctrl.Finish()

	repo.EXPECT().GetByID(gomock.Any(), "emp-1").
		Return(&model.Employee{ID: "emp-1", Email: "ana@example.com"}, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r = requestAs(r, model.AuthUser{EmployeeID: "emp-1", Email: "ana@example.com"})
	w := httptest.NewRecorder()

	h.Me(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.Employee
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "emp-1", got.ID)
}

func TestMe_Unauthenticated(t *testing.T) {
	h, _, _, ctrl := newAuthHandlers(t)
	defer ctrl.Finish()

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, w.Body.String())
}
