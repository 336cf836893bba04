package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypePlatform,
				Message: "list vehicles failed",
				Cause:   fmt.Errorf("connection refused"),
			},
			wantMessage: "[PLATFORM] list vehicles failed: connection refused",
		},
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeExport,
				Message: "no records to export",
			},
			wantMessage: "[EXPORT] no records to export",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	appErr := NewStorageError("write export file", cause)

	assert.True(t, errors.Is(appErr, cause))

	var target *AppError
	require.True(t, errors.As(fmt.Errorf("outer: %w", appErr), &target))
	assert.Equal(t, ErrTypeStorage, target.Type)
}

func TestAppError_WithContext(t *testing.T) {
	appErr := NewExportError("export failed", nil).
		WithContext("entity", "vehicles").
		WithContext("rows", 120)

	assert.Equal(t, "vehicles", appErr.Context["entity"])
	assert.Equal(t, 120, appErr.Context["rows"])
}

func TestCommonErrorConstructors(t *testing.T) {
	cause := fmt.Errorf("cause")

	tests := []struct {
		name     string
		got      *AppError
		wantType ErrorType
	}{
		{"platform", NewPlatformError("platform down", cause), ErrTypePlatform},
		{"network", NewNetworkError("dial failed", cause), ErrTypeNetwork},
		{"export", NewExportError("encode failed", cause), ErrTypeExport},
		{"storage", NewStorageError("write failed", cause), ErrTypeStorage},
		{"validation", NewAppValidationError("invalid status"), ErrTypeValidation},
		{"not found", NewNotFoundError("vehicle"), ErrTypeNotFound},
		{"permission", NewPermissionError("read only"), ErrTypePermission},
		{"config", NewConfigError("bad yaml", cause), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.got.Type)
			assert.NotEmpty(t, tt.got.Message)
		})
	}
}

func TestNewNotFoundError_Message(t *testing.T) {
	got := NewNotFoundError("reservation")
	assert.Equal(t, "[NOT_FOUND] reservation not found", got.Error())
}
