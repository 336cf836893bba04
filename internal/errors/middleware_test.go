package errors

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware(buf *bytes.Buffer) *ErrorMiddleware {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	handler := NewErrorHandler(logger, false)
	return NewErrorMiddleware(handler, logger)
}

func TestErrorMiddleware_LogsRequests(t *testing.T) {
	var buf bytes.Buffer
	mw := newTestMiddleware(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/vehicles?limit=10", nil)

	mw.Handler(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	logged := buf.String()
	assert.Contains(t, logged, `"path":"/api/vehicles"`)
	assert.Contains(t, logged, `"query":"limit=10"`)
	assert.Contains(t, logged, `"status":200`)
}

func TestErrorMiddleware_LogsErrorBody(t *testing.T) {
	var buf bytes.Buffer
	mw := newTestMiddleware(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.ReadAll(r.Body)
		w.WriteHeader(http.StatusBadRequest)
	})

	body := `{"plate": "", "password": "hunter2"}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/vehicles", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	mw.Handler(next).ServeHTTP(w, r)

	logged := buf.String()
	assert.Contains(t, logged, "request_body")
	assert.Contains(t, logged, "[REDACTED]")
	assert.NotContains(t, logged, "hunter2")
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	var buf bytes.Buffer
	mw := newTestMiddleware(&buf)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)

	require.NotPanics(t, func() {
		mw.Handler(next).ServeHTTP(w, r)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	handler := NewErrorHandler(logger, false)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/test", nil)

	require.NotPanics(t, func() {
		RecoveryMiddleware(handler)(next).ServeHTTP(w, r)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, TypeInternal, problem["type"])
}

func TestSanitizeRequestBody(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []string
		wantGone []string
	}{
		{
			name:     "sanitize password field",
			input:    `{"password": "secret123", "user": "jane"}`,
			want:     []string{"[REDACTED]", "jane"},
			wantGone: []string{"secret123"},
		},
		{
			name:     "sanitize license_number field",
			input:    `{"license_number": "DL-99812", "name": "Omar"}`,
			want:     []string{"[REDACTED]", "Omar"},
			wantGone: []string{"DL-99812"},
		},
		{
			name:     "sanitize payment_token field",
			input:    `{"payment_token": "tok_abc123"}`,
			want:     []string{"[REDACTED]"},
			wantGone: []string{"tok_abc123"},
		},
		{
			name:  "non-JSON body unchanged",
			input: "plate=KA-7741",
			want:  []string{"plate=KA-7741"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeRequestBody(tt.input)
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
			for _, gone := range tt.wantGone {
				assert.NotContains(t, got, gone)
			}
		})
	}
}
