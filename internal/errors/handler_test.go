package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(includeStack bool) *ErrorHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewErrorHandler(logger, includeStack)
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	return problem
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantTitle  string
	}{
		{
			name:       "vehicle not found",
			err:        fmt.Errorf("vehicle not found: v-42"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeVehicleNotFound,
			wantTitle:  "Vehicle Not Found",
		},
		{
			name:       "rider not found",
			err:        fmt.Errorf("rider not found: r-7"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeRiderNotFound,
			wantTitle:  "Rider Not Found",
		},
		{
			name:       "reservation not found",
			err:        fmt.Errorf("reservation not found: res-9"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeReservationNotFound,
			wantTitle:  "Reservation Not Found",
		},
		{
			name:       "generic not found",
			err:        fmt.Errorf("report not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
			wantTitle:  "Resource Not Found",
		},
		{
			name:       "platform unavailable",
			err:        fmt.Errorf("platform unavailable: connection refused"),
			wantStatus: http.StatusBadGateway,
			wantType:   TypePlatformDown,
			wantTitle:  "Platform Unavailable",
		},
		{
			name:       "export failure",
			err:        fmt.Errorf("export write failed: disk full"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeExportFailed,
			wantTitle:  "Export Failed",
		},
		{
			name:       "unauthorized",
			err:        fmt.Errorf("unauthorized access"),
			wantStatus: http.StatusUnauthorized,
			wantType:   TypeUnauthorized,
			wantTitle:  "Unauthorized",
		},
		{
			name:       "rate limit",
			err:        fmt.Errorf("rate limit exceeded"),
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
			wantTitle:  "Rate Limit Exceeded",
		},
		{
			name:       "reservation overlap maps to conflict",
			err:        fmt.Errorf("reservation overlap for vehicle v-1"),
			wantStatus: http.StatusConflict,
			wantType:   TypeConflict,
			wantTitle:  "Conflict",
		},
		{
			name:       "unknown error is internal",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantTitle:  "Internal Server Error",
		},
	}

	handler := newTestHandler(false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			handler.HandleError(w, r, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			problem := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, problem["type"])
			assert.Equal(t, tt.wantTitle, problem["title"])
			assert.Equal(t, "/api/test", problem["instance"])
		})
	}
}

func TestHandleError_NilError(t *testing.T) {
	handler := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	handler.HandleError(w, r, nil)

	assert.Empty(t, w.Body.String())
}

func TestHandleError_ContextErrors(t *testing.T) {
	handler := newTestHandler(false)

	for _, err := range []error{context.DeadlineExceeded, context.Canceled} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/slow", nil)

		handler.HandleError(w, r, fmt.Errorf("fetch: %w", err))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		problem := decodeProblem(t, w)
		assert.Equal(t, TypeTimeout, problem["type"])
	}
}

func TestHandleError_APIError(t *testing.T) {
	tests := []struct {
		name     string
		apiErr   *APIError
		wantType string
	}{
		{"vehicle not found", ErrVehicleNotFound, TypeVehicleNotFound},
		{"rider not found", ErrRiderNotFound, TypeRiderNotFound},
		{"validation", ErrValidationFailed, TypeValidation},
		{"conflict", ErrConflict, TypeConflict},
		{"export failed", ErrExportFailed, TypeExportFailed},
		{"platform unavailable", ErrPlatformUnavailable, TypePlatformDown},
	}

	handler := newTestHandler(false)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

			handler.HandleError(w, r, tt.apiErr)

			assert.Equal(t, tt.apiErr.StatusCode, w.Code)
			problem := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, problem["type"])
			assert.Equal(t, tt.apiErr.ErrorCode, problem["error_code"])
		})
	}
}

func TestHandleError_APIErrorDetails(t *testing.T) {
	handler := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/vehicles", nil)

	handler.HandleError(w, r, ErrValidation("plate", "required"))

	problem := decodeProblem(t, w)
	details, ok := problem["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "plate", details["field"])
}

func TestHandleError_StackTrace(t *testing.T) {
	handler := newTestHandler(true)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	handler.HandleError(w, r, fmt.Errorf("boom"))

	problem := decodeProblem(t, w)
	assert.Contains(t, problem, "stack")
}

func TestHandlePanic(t *testing.T) {
	handler := newTestHandler(true)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	handler.HandlePanic(w, r, "runtime gone wrong")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	problem := decodeProblem(t, w)
	assert.Equal(t, TypeInternal, problem["type"])
	assert.Equal(t, "runtime gone wrong", problem["panic"])
}

func TestNotFoundHandler(t *testing.T) {
	handler := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/missing", nil)

	handler.NotFound(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	problem := decodeProblem(t, w)
	assert.Equal(t, TypeNotFound, problem["type"])
	assert.Equal(t, "/api/missing", problem["instance"])
}

func TestMethodNotAllowedHandler(t *testing.T) {
	handler := newTestHandler(false)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/dashboard", nil)

	handler.MethodNotAllowed(w, r)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	problem := decodeProblem(t, w)
	assert.Contains(t, problem["detail"], "DELETE")
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusConflict,
		TypeConflict,
		"Conflict",
		"reservation overlap",
		"/api/reservations",
	).WithExtension("reservation_id", "res-1")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Conflict", decoded["title"])
	assert.Equal(t, float64(http.StatusConflict), decoded["status"])
	assert.Equal(t, "res-1", decoded["reservation_id"])
}
