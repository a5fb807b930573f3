package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of a user
type UserRole string

const (
	UserRoleAgent      UserRole = "agent"
	UserRoleSuperAdmin UserRole = "super_admin"
)

// User represents a user in the system
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         UserRole   `json:"role" db:"role"`
	FullName     string     `json:"full_name" db:"full_name"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	AgencyID     *uuid.UUID `json:"agency_id,omitempty" db:"agency_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Actor identifies who is performing an operation. Workflow operations take
// an explicit Actor instead of reading ambient auth state so authorization
// checks stay testable in isolation.
type Actor struct {
	ID   uuid.UUID
	Role UserRole
}

// IsAdmin reports whether the actor holds the super-admin role.
func (a Actor) IsAdmin() bool { return a.Role == UserRoleSuperAdmin }
