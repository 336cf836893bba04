package domain

import (
	"time"
)

// Reservation represents a rental booking in the admin reservation table.
// Rider and vehicle display fields are denormalized by the platform so the
// dashboard can render rows without extra lookups.
type Reservation struct {
	ID           string            `json:"id" validate:"required,uuid"`
	RiderID      string            `json:"rider_id" validate:"required,uuid"`
	RiderName    string            `json:"rider_name,omitempty"`
	VehicleID    string            `json:"vehicle_id" validate:"required,uuid"`
	VehiclePlate string            `json:"vehicle_plate,omitempty"`
	Status       ReservationStatus `json:"status"`
	StartAt      time.Time         `json:"start_at"`
	EndAt        time.Time         `json:"end_at"`
	Amount       float64           `json:"amount" validate:"min=0"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ReservationStatus represents the booking lifecycle state
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ReservationCreate is the payload accepted when booking on behalf of a
// rider from the admin console.
type ReservationCreate struct {
	RiderID   string    `json:"rider_id" validate:"required,uuid"`
	VehicleID string    `json:"vehicle_id" validate:"required,uuid"`
	StartAt   time.Time `json:"start_at" validate:"required"`
	EndAt     time.Time `json:"end_at" validate:"required,gtfield=StartAt"`
}

// ReservationUpdate is the mutable subset of Reservation accepted by the
// CRUD endpoints.
type ReservationUpdate struct {
	Status ReservationStatus `json:"status,omitempty" validate:"omitempty,oneof=pending active completed cancelled"`
	EndAt  *time.Time        `json:"end_at,omitempty"`
}
