package domain

import (
	"time"
)

// ActivityKind is the closed set of feed event types. Payload fields below
// are populated per kind; Actor carries the display name of the subject
// (user, rider, or vehicle plate) and Detail the secondary line.
type ActivityKind string

const (
	ActivityUserRegistered       ActivityKind = "user_registered"
	ActivityRiderApproved        ActivityKind = "rider_approved"
	ActivityRiderSuspended       ActivityKind = "rider_suspended"
	ActivityVehicleAdded         ActivityKind = "vehicle_added"
	ActivityVehicleMaintenance   ActivityKind = "vehicle_maintenance"
	ActivityReservationCreated   ActivityKind = "reservation_created"
	ActivityReservationCompleted ActivityKind = "reservation_completed"
	ActivityReservationCancelled ActivityKind = "reservation_cancelled"
	ActivityPaymentFailed        ActivityKind = "payment_failed"
	ActivitySystemError          ActivityKind = "system_error"
)

// Valid reports whether k is one of the declared activity kinds.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityUserRegistered, ActivityRiderApproved, ActivityRiderSuspended,
		ActivityVehicleAdded, ActivityVehicleMaintenance,
		ActivityReservationCreated, ActivityReservationCompleted,
		ActivityReservationCancelled, ActivityPaymentFailed,
		ActivitySystemError:
		return true
	}
	return false
}

// ActivityEvent is a single entry in the recent-activity feed.
type ActivityEvent struct {
	ID         string       `json:"id" validate:"required"`
	Kind       ActivityKind `json:"kind" validate:"required"`
	Actor      string       `json:"actor,omitempty"`
	Detail     string       `json:"detail,omitempty"`
	SubjectID  string       `json:"subject_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}
