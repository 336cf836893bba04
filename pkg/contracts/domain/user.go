package domain

import (
	"time"
)

// User represents a platform account visible in the admin user table.
type User struct {
	ID          string     `json:"id" validate:"required,uuid"`
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required,email"`
	Role        UserRole   `json:"role" validate:"required,oneof=admin manager support"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// UserRole represents the dashboard role of a platform account
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleSupport UserRole = "support"
)

// UserStatus represents the lifecycle state of an account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInvited  UserStatus = "invited"
	UserStatusDisabled UserStatus = "disabled"
)

// UserUpdate is the mutable subset of User accepted by the CRUD endpoints.
type UserUpdate struct {
	Name   string     `json:"name,omitempty"`
	Role   UserRole   `json:"role,omitempty" validate:"omitempty,oneof=admin manager support"`
	Status UserStatus `json:"status,omitempty" validate:"omitempty,oneof=active invited disabled"`
}
