package services

import (
	"context"

	"fleetadmin/pkg/contracts/domain"
)

// PlatformAPI is the slice of the platform client the services depend on.
// *platform.Client satisfies it; tests substitute fakes.
type PlatformAPI interface {
	ListUsers(ctx context.Context, req domain.ListRequest) ([]domain.User, int, error)
	ListRiders(ctx context.Context, req domain.ListRequest) ([]domain.Rider, int, error)
	ListVehicles(ctx context.Context, req domain.ListRequest) ([]domain.Vehicle, int, error)
	ListReservations(ctx context.Context, req domain.ListRequest) ([]domain.Reservation, int, error)
	ListSystemErrors(ctx context.Context, req domain.ListRequest) ([]domain.SystemError, int, error)
	ListActivity(ctx context.Context, req domain.ListRequest) ([]domain.ActivityEvent, int, error)

	GetRider(ctx context.Context, id string) (*domain.Rider, error)
	UpdateRider(ctx context.Context, id string, payload domain.RiderUpdate) (*domain.Rider, error)
	ApproveRider(ctx context.Context, id string) (*domain.Rider, error)
	SuspendRider(ctx context.Context, id string) (*domain.Rider, error)

	GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	CreateVehicle(ctx context.Context, payload domain.VehicleCreate) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, payload domain.VehicleUpdate) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error

	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
	CreateReservation(ctx context.Context, payload domain.ReservationCreate) (*domain.Reservation, error)
	UpdateReservation(ctx context.Context, id string, payload domain.ReservationUpdate) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id string) (*domain.Reservation, error)

	ResolveSystemError(ctx context.Context, id string) (*domain.SystemError, error)

	Ping(ctx context.Context) error
}
