package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	apierrors "fleetadmin/internal/errors"
	"fleetadmin/internal/platform"
	"fleetadmin/internal/services"
	"fleetadmin/pkg/contracts/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	return apierrors.NewErrorHandler(discardLogger(), false)
}

func pageFor[T any](items []T, req domain.ListRequest) ([]T, int) {
	total := len(items)
	if req.Offset >= total {
		return nil, total
	}
	end := req.Offset + req.Limit
	if end > total {
		end = total
	}
	page := make([]T, end-req.Offset)
	copy(page, items[req.Offset:end])
	return page, total
}

// stubPlatform is an in-memory PlatformAPI backing the handler tests.
type stubPlatform struct {
	users        []domain.User
	riders       []domain.Rider
	vehicles     []domain.Vehicle
	reservations []domain.Reservation
	sysErrors    []domain.SystemError
	activity     []domain.ActivityEvent

	listErr error
	pingErr error
	calls   []string
}

var _ services.PlatformAPI = (*stubPlatform)(nil)

func (f *stubPlatform) ListUsers(_ context.Context, req domain.ListRequest) ([]domain.User, int, error) {
	f.calls = append(f.calls, "ListUsers")
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	page, total := pageFor(f.users, req)
	return page, total, nil
}

func (f *stubPlatform) ListRiders(_ context.Context, req domain.ListRequest) ([]domain.Rider, int, error) {
	f.calls = append(f.calls, "ListRiders")
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	items := f.riders
	if req.Status != "" {
		items = nil
		for _, r := range f.riders {
			if string(r.Status) == req.Status {
				items = append(items, r)
			}
		}
	}
	page, total := pageFor(items, req)
	return page, total, nil
}

func (f *stubPlatform) ListVehicles(_ context.Context, req domain.ListRequest) ([]domain.Vehicle, int, error) {
	f.calls = append(f.calls, "ListVehicles")
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	items := f.vehicles
	if req.Status != "" {
		items = nil
		for _, v := range f.vehicles {
			if string(v.Status) == req.Status {
				items = append(items, v)
			}
		}
	}
	page, total := pageFor(items, req)
	return page, total, nil
}

func (f *stubPlatform) ListReservations(_ context.Context, req domain.ListRequest) ([]domain.Reservation, int, error) {
	f.calls = append(f.calls, "ListReservations")
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	items := f.reservations
	if req.Status != "" {
		items = nil
		for _, res := range f.reservations {
			if string(res.Status) == req.Status {
				items = append(items, res)
			}
		}
	}
	page, total := pageFor(items, req)
	return page, total, nil
}

func (f *stubPlatform) ListSystemErrors(_ context.Context, req domain.ListRequest) ([]domain.SystemError, int, error) {
	f.calls = append(f.calls, "ListSystemErrors")
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	items := f.sysErrors
	if req.Status == "open" {
		items = nil
		for _, se := range f.sysErrors {
			if !se.Resolved {
				items = append(items, se)
			}
		}
	}
	page, total := pageFor(items, req)
	return page, total, nil
}

func (f *stubPlatform) ListActivity(_ context.Context, req domain.ListRequest) ([]domain.ActivityEvent, int, error) {
	f.calls = append(f.calls, "ListActivity")
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	page, total := pageFor(f.activity, req)
	return page, total, nil
}

func (f *stubPlatform) GetRider(_ context.Context, id string) (*domain.Rider, error) {
	f.calls = append(f.calls, "GetRider:"+id)
	for i := range f.riders {
		if f.riders[i].ID == id {
			return &f.riders[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) UpdateRider(_ context.Context, id string, payload domain.RiderUpdate) (*domain.Rider, error) {
	f.calls = append(f.calls, "UpdateRider:"+id)
	for i := range f.riders {
		if f.riders[i].ID == id {
			if payload.Name != "" {
				f.riders[i].Name = payload.Name
			}
			if payload.Status != "" {
				f.riders[i].Status = payload.Status
			}
			return &f.riders[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) ApproveRider(_ context.Context, id string) (*domain.Rider, error) {
	f.calls = append(f.calls, "ApproveRider:"+id)
	for i := range f.riders {
		if f.riders[i].ID == id {
			f.riders[i].Status = domain.RiderStatusApproved
			return &f.riders[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) SuspendRider(_ context.Context, id string) (*domain.Rider, error) {
	f.calls = append(f.calls, "SuspendRider:"+id)
	for i := range f.riders {
		if f.riders[i].ID == id {
			f.riders[i].Status = domain.RiderStatusSuspended
			return &f.riders[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) GetVehicle(_ context.Context, id string) (*domain.Vehicle, error) {
	f.calls = append(f.calls, "GetVehicle:"+id)
	for i := range f.vehicles {
		if f.vehicles[i].ID == id {
			return &f.vehicles[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) CreateVehicle(_ context.Context, payload domain.VehicleCreate) (*domain.Vehicle, error) {
	f.calls = append(f.calls, "CreateVehicle:"+payload.Plate)
	v := domain.Vehicle{
		ID:        "veh-new",
		Plate:     payload.Plate,
		Make:      payload.Make,
		Model:     payload.Model,
		Year:      payload.Year,
		Status:    domain.VehicleStatusAvailable,
		DailyRate: payload.DailyRate,
		Location:  payload.Location,
		AddedAt:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.vehicles = append(f.vehicles, v)
	return &v, nil
}

func (f *stubPlatform) UpdateVehicle(_ context.Context, id string, payload domain.VehicleUpdate) (*domain.Vehicle, error) {
	f.calls = append(f.calls, "UpdateVehicle:"+id)
	for i := range f.vehicles {
		if f.vehicles[i].ID == id {
			if payload.Status != "" {
				f.vehicles[i].Status = payload.Status
			}
			return &f.vehicles[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) DeleteVehicle(_ context.Context, id string) error {
	f.calls = append(f.calls, "DeleteVehicle:"+id)
	for i := range f.vehicles {
		if f.vehicles[i].ID == id {
			f.vehicles = append(f.vehicles[:i], f.vehicles[i+1:]...)
			return nil
		}
	}
	return platform.ErrNotFound
}

func (f *stubPlatform) GetReservation(_ context.Context, id string) (*domain.Reservation, error) {
	f.calls = append(f.calls, "GetReservation:"+id)
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			return &f.reservations[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) CreateReservation(_ context.Context, payload domain.ReservationCreate) (*domain.Reservation, error) {
	f.calls = append(f.calls, "CreateReservation:"+payload.RiderID)
	res := domain.Reservation{
		ID:        "res-new",
		RiderID:   payload.RiderID,
		VehicleID: payload.VehicleID,
		Status:    domain.ReservationStatusPending,
		StartAt:   payload.StartAt,
		EndAt:     payload.EndAt,
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.reservations = append(f.reservations, res)
	return &res, nil
}

func (f *stubPlatform) UpdateReservation(_ context.Context, id string, payload domain.ReservationUpdate) (*domain.Reservation, error) {
	f.calls = append(f.calls, "UpdateReservation:"+id)
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			if payload.Status != "" {
				f.reservations[i].Status = payload.Status
			}
			return &f.reservations[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) CancelReservation(_ context.Context, id string) (*domain.Reservation, error) {
	f.calls = append(f.calls, "CancelReservation:"+id)
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			f.reservations[i].Status = domain.ReservationStatusCancelled
			return &f.reservations[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) ResolveSystemError(_ context.Context, id string) (*domain.SystemError, error) {
	f.calls = append(f.calls, "ResolveSystemError:"+id)
	for i := range f.sysErrors {
		if f.sysErrors[i].ID == id {
			f.sysErrors[i].Resolved = true
			return &f.sysErrors[i], nil
		}
	}
	return nil, platform.ErrNotFound
}

func (f *stubPlatform) Ping(_ context.Context) error {
	f.calls = append(f.calls, "Ping")
	return f.pingErr
}

func fleetVehicles(n int) []domain.Vehicle {
	added := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	vehicles := make([]domain.Vehicle, 0, n)
	for i := 0; i < n; i++ {
		status := domain.VehicleStatusAvailable
		if i%2 == 1 {
			status = domain.VehicleStatusRented
		}
		vehicles = append(vehicles, domain.Vehicle{
			ID:        fmt.Sprintf("veh-%03d", i),
			Plate:     fmt.Sprintf("FLT-%03d", i),
			Make:      "Vera",
			Model:     "City",
			Year:      2022,
			Status:    status,
			Odometer:  int64(1000 * (i + 1)),
			DailyRate: 39.5,
			Location:  "Downtown",
			AddedAt:   added.Add(time.Duration(i) * time.Hour),
		})
	}
	return vehicles
}

// doRequest executes a request against the router and returns the recorder.
func doRequest(t *testing.T, router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a JSON response body into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// requireProblem asserts an RFC 7807 body with the expected status.
func requireProblem(t *testing.T, rec *httptest.ResponseRecorder, status int) map[string]any {
	t.Helper()

	require.Equal(t, status, rec.Code)

	var problem map[string]any
	decodeBody(t, rec, &problem)
	require.EqualValues(t, status, problem["status"])
	require.NotEmpty(t, problem["type"])
	return problem
}
