package domain

import (
	"time"
)

// Rider represents a rental customer in the admin rider table.
type Rider struct {
	ID            string      `json:"id" validate:"required,uuid"`
	Name          string      `json:"name" validate:"required"`
	Email         string      `json:"email" validate:"required,email"`
	Phone         string      `json:"phone,omitempty"`
	LicenseNumber string      `json:"license_number" validate:"required"`
	// LicenseExpiry is a date-only string (YYYY-MM-DD) as delivered by the
	// platform's verification provider.
	LicenseExpiry string      `json:"license_expiry,omitempty"`
	Status        RiderStatus `json:"status"`
	Rating        float64     `json:"rating" validate:"min=0,max=5"`
	TotalTrips    int         `json:"total_trips" validate:"min=0"`
	JoinedAt      time.Time   `json:"joined_at"`
}

// RiderStatus represents the approval state of a rider
type RiderStatus string

const (
	RiderStatusPending   RiderStatus = "pending"
	RiderStatusApproved  RiderStatus = "approved"
	RiderStatusSuspended RiderStatus = "suspended"
)

// RiderUpdate is the mutable subset of Rider accepted by the CRUD endpoints.
type RiderUpdate struct {
	Name   string      `json:"name,omitempty"`
	Phone  string      `json:"phone,omitempty"`
	Status RiderStatus `json:"status,omitempty" validate:"omitempty,oneof=pending approved suspended"`
}
