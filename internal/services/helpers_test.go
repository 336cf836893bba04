package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fleetadmin/pkg/contracts/domain"
	"fleetadmin/pkg/contracts/events"
)

// fakePlatform is an in-memory PlatformAPI. List methods filter by status
// and page like the real platform; error fields inject failures.
type fakePlatform struct {
	mu sync.Mutex

	users        []domain.User
	riders       []domain.Rider
	vehicles     []domain.Vehicle
	reservations []domain.Reservation
	systemErrors []domain.SystemError
	activity     []domain.ActivityEvent

	listErr error
	pingErr error

	calls []string
}

func (f *fakePlatform) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func pageOf[T any](items []T, req domain.ListRequest) ([]T, int) {
	total := len(items)
	if req.Offset >= total {
		return nil, total
	}
	end := req.Offset + req.Limit
	if end > total {
		end = total
	}
	return items[req.Offset:end], total
}

func (f *fakePlatform) ListUsers(ctx context.Context, req domain.ListRequest) ([]domain.User, int, error) {
	f.record("ListUsers")
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	page, total := pageOf(f.users, req)
	return page, total, nil
}

func (f *fakePlatform) ListRiders(ctx context.Context, req domain.ListRequest) ([]domain.Rider, int, error) {
	f.record("ListRiders:" + req.Status)
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	filtered := f.riders
	if req.Status != "" {
		filtered = nil
		for _, r := range f.riders {
			if string(r.Status) == req.Status {
				filtered = append(filtered, r)
			}
		}
	}
	page, total := pageOf(filtered, req)
	return page, total, nil
}

func (f *fakePlatform) ListVehicles(ctx context.Context, req domain.ListRequest) ([]domain.Vehicle, int, error) {
	f.record("ListVehicles:" + req.Status)
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	filtered := f.vehicles
	if req.Status != "" {
		filtered = nil
		for _, v := range f.vehicles {
			if string(v.Status) == req.Status {
				filtered = append(filtered, v)
			}
		}
	}
	page, total := pageOf(filtered, req)
	return page, total, nil
}

func (f *fakePlatform) ListReservations(ctx context.Context, req domain.ListRequest) ([]domain.Reservation, int, error) {
	f.record("ListReservations:" + req.Status)
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	filtered := f.reservations
	if req.Status != "" {
		filtered = nil
		for _, r := range f.reservations {
			if string(r.Status) == req.Status {
				filtered = append(filtered, r)
			}
		}
	}
	page, total := pageOf(filtered, req)
	return page, total, nil
}

func (f *fakePlatform) ListSystemErrors(ctx context.Context, req domain.ListRequest) ([]domain.SystemError, int, error) {
	f.record("ListSystemErrors:" + req.Status)
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	filtered := f.systemErrors
	if req.Status == "open" {
		filtered = nil
		for _, e := range f.systemErrors {
			if !e.Resolved {
				filtered = append(filtered, e)
			}
		}
	}
	page, total := pageOf(filtered, req)
	return page, total, nil
}

func (f *fakePlatform) ListActivity(ctx context.Context, req domain.ListRequest) ([]domain.ActivityEvent, int, error) {
	f.record("ListActivity")
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	page, total := pageOf(f.activity, req)
	return page, total, nil
}

func (f *fakePlatform) GetRider(ctx context.Context, id string) (*domain.Rider, error) {
	for i := range f.riders {
		if f.riders[i].ID == id {
			return &f.riders[i], nil
		}
	}
	return nil, fmt.Errorf("rider not found: %s", id)
}

func (f *fakePlatform) UpdateRider(ctx context.Context, id string, payload domain.RiderUpdate) (*domain.Rider, error) {
	f.record("UpdateRider")
	return &domain.Rider{ID: id, Name: payload.Name, Status: payload.Status}, nil
}

func (f *fakePlatform) ApproveRider(ctx context.Context, id string) (*domain.Rider, error) {
	f.record("ApproveRider")
	return &domain.Rider{ID: id, Status: domain.RiderStatusApproved}, nil
}

func (f *fakePlatform) SuspendRider(ctx context.Context, id string) (*domain.Rider, error) {
	f.record("SuspendRider")
	return &domain.Rider{ID: id, Status: domain.RiderStatusSuspended}, nil
}

func (f *fakePlatform) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	for i := range f.vehicles {
		if f.vehicles[i].ID == id {
			return &f.vehicles[i], nil
		}
	}
	return nil, fmt.Errorf("vehicle not found: %s", id)
}

func (f *fakePlatform) CreateVehicle(ctx context.Context, payload domain.VehicleCreate) (*domain.Vehicle, error) {
	f.record("CreateVehicle")
	return &domain.Vehicle{ID: "v-created", Plate: payload.Plate, Make: payload.Make, Model: payload.Model}, nil
}

func (f *fakePlatform) UpdateVehicle(ctx context.Context, id string, payload domain.VehicleUpdate) (*domain.Vehicle, error) {
	f.record("UpdateVehicle")
	return &domain.Vehicle{ID: id, Status: payload.Status}, nil
}

func (f *fakePlatform) DeleteVehicle(ctx context.Context, id string) error {
	f.record("DeleteVehicle")
	return nil
}

func (f *fakePlatform) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	for i := range f.reservations {
		if f.reservations[i].ID == id {
			return &f.reservations[i], nil
		}
	}
	return nil, fmt.Errorf("reservation not found: %s", id)
}

func (f *fakePlatform) CreateReservation(ctx context.Context, payload domain.ReservationCreate) (*domain.Reservation, error) {
	f.record("CreateReservation")
	return &domain.Reservation{ID: "res-created", RiderID: payload.RiderID, VehicleID: payload.VehicleID}, nil
}

func (f *fakePlatform) UpdateReservation(ctx context.Context, id string, payload domain.ReservationUpdate) (*domain.Reservation, error) {
	f.record("UpdateReservation")
	return &domain.Reservation{ID: id, Status: payload.Status}, nil
}

func (f *fakePlatform) CancelReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	f.record("CancelReservation")
	return &domain.Reservation{ID: id, Status: domain.ReservationStatusCancelled}, nil
}

func (f *fakePlatform) ResolveSystemError(ctx context.Context, id string) (*domain.SystemError, error) {
	f.record("ResolveSystemError")
	return &domain.SystemError{ID: id, Code: "PAYMENT_GATEWAY_TIMEOUT", Resolved: true}, nil
}

func (f *fakePlatform) Ping(ctx context.Context) error {
	f.record("Ping")
	return f.pingErr
}

// fakeBroadcaster captures published activity payloads.
type fakeBroadcaster struct {
	mu       sync.Mutex
	payloads []events.ActivityPayload
}

func (b *fakeBroadcaster) BroadcastActivity(payload events.ActivityPayload) {
	b.mu.Lock()
	b.payloads = append(b.payloads, payload)
	b.mu.Unlock()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func readExportFile(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
