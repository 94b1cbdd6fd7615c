package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rosterd/rosterd/internal/errors"
)

func TestWriteAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "not found",
			err:        apperrors.NotFound("weekly schedule not found"),
			wantStatus: http.StatusNotFound,
			wantDetail: "weekly schedule not found",
		},
		{
			name:       "validation",
			err:        apperrors.Validation("name is required"),
			wantStatus: http.StatusBadRequest,
			wantDetail: "name is required",
		},
		{
			name:       "conflict",
			err:        apperrors.Conflict("email already exists"),
			wantStatus: http.StatusBadRequest,
			wantDetail: "email already exists",
		},
		{
			name:       "foreign key",
			err:        apperrors.ForeignKey("role is referenced by shift templates"),
			wantStatus: http.StatusBadRequest,
			wantDetail: "role is referenced by shift templates",
		},
		{
			name:       "business rule",
			err:        apperrors.BusinessRule("only draft schedules can be published"),
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "only draft schedules can be published",
		},
		{
			name:       "unauthorized",
			err:        apperrors.Unauthorized("invalid credentials"),
			wantStatus: http.StatusUnauthorized,
			wantDetail: "invalid credentials",
		},
		{
			name:       "internal is masked",
			err:        apperrors.Internal("connection pool exhausted"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "internal server error",
		},
		{
			name:       "wrapped cause stays masked",
			err:        apperrors.Wrap(errors.New("pq: deadlock detected"), apperrors.ErrCodeInternal, "apply assignments"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "internal server error",
		},
		{
			name:       "plain error is masked",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			WriteAppError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var body struct {
				Detail string `json:"detail"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDetail, body.Detail)
		})
	}
}

// A wrapped validation error must surface its message, not its cause, so a
// driver-level detail never reaches the client.
func TestWriteAppError_DetailOmitsCause(t *testing.T) {
	err := apperrors.Wrap(errors.New("pq: value too long for type"), apperrors.ErrCodeValidation, "notes too long")
	w := httptest.NewRecorder()

	WriteAppError(w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"notes too long"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestDecodeJSON_Success(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Week 34"}`))
	w := httptest.NewRecorder()

	var dst struct {
		Name string `json:"name"`
	}
	ok := DecodeJSON(w, req, &dst)

	assert.True(t, ok)
	assert.Equal(t, "Week 34", dst.Name)
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Week 34","bogus":1}`))
	w := httptest.NewRecorder()

	var dst struct {
		Name string `json:"name"`
	}
	ok := DecodeJSON(w, req, &dst)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid JSON body")
}

func TestDecodeJSON_RejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	w := httptest.NewRecorder()

	var dst struct {
		Name string `json:"name"`
	}
	ok := DecodeJSON(w, req, &dst)

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeJSON_RejectsOversizeBody(t *testing.T) {
	huge := `{"name":"` + strings.Repeat("x", maxBodyBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(huge))
	w := httptest.NewRecorder()

	var dst struct {
		Name string `json:"name"`
	}
	ok := DecodeJSON(w, req, &dst)

	assert.False(t, ok)
}

func TestWriteJSON_SetsHeaderAndStatus(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusCreated, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"abc"}`, w.Body.String())
}
