package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetadmin/internal/services"
	"fleetadmin/pkg/contracts/domain"
)

func monitorErrors() []domain.SystemError {
	return []domain.SystemError{
		{ID: "err-1", Code: "PAYMENT_GATEWAY_TIMEOUT", Message: "gateway timed out", Severity: domain.SeverityCritical, Count: 4, FirstSeenAt: "2024-11-16T08:00:00Z", LastSeenAt: "2024-11-16T11:45:00Z"},
		{ID: "err-2", Code: "GPS_SIGNAL_LOST", Message: "tracker offline", Severity: domain.SeverityWarning, Count: 12, FirstSeenAt: "2024-11-15T20:00:00Z", LastSeenAt: "2024-11-16T11:00:00Z"},
		{ID: "err-3", Code: "SLOW_QUERY", Message: "reservation lookup slow", Severity: domain.SeverityInfo, Count: 2, FirstSeenAt: "2024-11-16T10:00:00Z", LastSeenAt: "2024-11-16T10:05:00Z", Resolved: true},
	}
}

func newMonitorRouter(t *testing.T, stub *stubPlatform) *MonitorHandler {
	t.Helper()
	activity := services.NewActivityService(stub, nil, discardLogger())
	service := services.NewMonitorService(stub, activity, discardLogger())
	return NewMonitorHandler(service, discardLogger(), testErrorHandler())
}

func TestMonitorHandlerPanel(t *testing.T) {
	handler := newMonitorRouter(t, &stubPlatform{sysErrors: monitorErrors()})

	rec := doRequest(t, handler.Routes(), http.MethodGet, "/errors", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var panel services.ErrorPanel
	decodeBody(t, rec, &panel)
	assert.Equal(t, 3, panel.Errors.Total)
	assert.Equal(t, 2, panel.OpenTotal)
	assert.Equal(t, 1, panel.BySeverity[domain.SeverityCritical])
	assert.Equal(t, 1, panel.BySeverity[domain.SeverityWarning])
}

func TestMonitorHandlerPanelOpenFilter(t *testing.T) {
	handler := newMonitorRouter(t, &stubPlatform{sysErrors: monitorErrors()})

	rec := doRequest(t, handler.Routes(), http.MethodGet, "/errors?status=open", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var panel services.ErrorPanel
	decodeBody(t, rec, &panel)
	assert.Equal(t, 2, panel.Errors.Total)
	for _, se := range panel.Errors.Items {
		assert.False(t, se.Resolved)
	}
}

func TestMonitorHandlerResolve(t *testing.T) {
	stub := &stubPlatform{sysErrors: monitorErrors()}
	handler := newMonitorRouter(t, stub)

	t.Run("marks resolved", func(t *testing.T) {
		rec := doRequest(t, handler.Routes(), http.MethodPost, "/errors/err-1/resolve", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resolved domain.SystemError
		decodeBody(t, rec, &resolved)
		assert.True(t, resolved.Resolved)
		assert.Contains(t, stub.calls, "ResolveSystemError:err-1")
	})

	t.Run("unknown error returns 404", func(t *testing.T) {
		rec := doRequest(t, handler.Routes(), http.MethodPost, "/errors/err-99/resolve", "")
		requireProblem(t, rec, http.StatusNotFound)
	})
}
