package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetadmin/internal/exporter"
	"fleetadmin/pkg/contracts/domain"
)

func TestUserRecord(t *testing.T) {
	created := time.Date(2024, 11, 16, 10, 30, 0, 0, time.UTC)
	login := time.Date(2024, 11, 20, 8, 0, 0, 0, time.UTC)

	u := domain.User{
		ID:          "u-1",
		Name:        "Jane Smith",
		Email:       "jane@example.com",
		Role:        domain.UserRoleManager,
		Status:      domain.UserStatusActive,
		CreatedAt:   created,
		LastLoginAt: &login,
	}

	csv := exporter.ConvertToCSV([]exporter.Record{UserRecord(u)}, UserHeaders())
	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Email,Role,Status,Created At,Last Login", lines[0])
	assert.Equal(t, "u-1,Jane Smith,jane@example.com,manager,active,2024-11-16 10:30:00,2024-11-20 08:00:00", lines[1])
}

func TestUserRecord_NoLastLogin(t *testing.T) {
	u := domain.User{ID: "u-2", Name: "New User", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	rec := UserRecord(u)
	v, ok := rec.Get("last_login_at")
	require.True(t, ok)
	assert.Nil(t, v)

	csv := exporter.ConvertToCSV([]exporter.Record{rec}, UserHeaders())
	assert.True(t, strings.HasSuffix(csv, ","), "missing last login should export as trailing empty cell")
}

func TestRiderRecord_ExpiryNormalization(t *testing.T) {
	tests := []struct {
		name   string
		expiry string
		want   string
	}{
		{"iso date", "2026-04-30", "2026-04-30"},
		{"iso datetime", "2026-04-30T15:04:05Z", "2026-04-30"},
		{"unparseable", "30/04/2026", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.Rider{LicenseExpiry: tt.expiry}
			v, ok := RiderRecord(r).Get("license_expiry")
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestSystemErrorRecord_TimestampNormalization(t *testing.T) {
	e := domain.SystemError{
		ID:          "err-1",
		Code:        "PAYMENT_GATEWAY_TIMEOUT",
		Severity:    domain.SeverityCritical,
		Count:       12,
		FirstSeenAt: "2024-11-16T23:30:00-05:00",
		LastSeenAt:  "not a timestamp",
	}

	rec := SystemErrorRecord(e)
	first, _ := rec.Get("first_seen_at")
	last, _ := rec.Get("last_seen_at")
	assert.Equal(t, "2024-11-17 04:30:00", first, "offset timestamps normalize to UTC")
	assert.Equal(t, "", last, "unparseable timestamps export as empty cells")
}

// Header keys must match record keys exactly or export columns silently
// come out blank, so lock the pairing down for every entity.
func TestExportHeadersMatchRecordKeys(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name    string
		headers []exporter.Header
		record  exporter.Record
	}{
		{"user", UserHeaders(), UserRecord(domain.User{CreatedAt: now})},
		{"rider", RiderHeaders(), RiderRecord(domain.Rider{JoinedAt: now})},
		{"vehicle", VehicleHeaders(), VehicleRecord(domain.Vehicle{AddedAt: now})},
		{"reservation", ReservationHeaders(), ReservationRecord(domain.Reservation{CreatedAt: now})},
		{"system_error", SystemErrorHeaders(), SystemErrorRecord(domain.SystemError{})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, len(tc.headers), len(tc.record))
			for i, h := range tc.headers {
				assert.Equal(t, h.Key, tc.record[i].Key, "column %d", i)
			}
		})
	}
}
