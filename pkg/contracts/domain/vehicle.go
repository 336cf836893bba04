package domain

import (
	"time"
)

// Vehicle represents a fleet vehicle in the admin vehicle table.
type Vehicle struct {
	ID        string        `json:"id" validate:"required,uuid"`
	Plate     string        `json:"plate" validate:"required"`
	Make      string        `json:"make" validate:"required"`
	Model     string        `json:"model" validate:"required"`
	Year      int           `json:"year" validate:"min=1990,max=2100"`
	Status    VehicleStatus `json:"status"`
	Odometer  int64         `json:"odometer" validate:"min=0"`
	DailyRate float64       `json:"daily_rate" validate:"min=0"`
	Location  string        `json:"location,omitempty"`
	AddedAt   time.Time     `json:"added_at"`
}

// VehicleStatus represents the operational state of a vehicle
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusRented      VehicleStatus = "rented"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

// VehicleCreate is the payload accepted when adding a vehicle to the fleet.
type VehicleCreate struct {
	Plate     string  `json:"plate" validate:"required"`
	Make      string  `json:"make" validate:"required"`
	Model     string  `json:"model" validate:"required"`
	Year      int     `json:"year" validate:"required,min=1990,max=2100"`
	DailyRate float64 `json:"daily_rate" validate:"required,min=0"`
	Location  string  `json:"location,omitempty"`
}

// VehicleUpdate is the mutable subset of Vehicle accepted by the CRUD
// endpoints. Zero values mean "leave unchanged".
type VehicleUpdate struct {
	Status    VehicleStatus `json:"status,omitempty" validate:"omitempty,oneof=available rented maintenance retired"`
	Odometer  int64         `json:"odometer,omitempty" validate:"omitempty,min=0"`
	DailyRate float64       `json:"daily_rate,omitempty" validate:"omitempty,min=0"`
	Location  string        `json:"location,omitempty"`
}
