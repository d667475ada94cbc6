// Package identity manages user records and profile role assignment,
// including the super-admin promotion workflow.
package identity

import (
	"time"

	"github.com/wolfman30/clinic-booking-platform/internal/authz"
)

// User is a row in the identity store.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FullName       string    `json:"full_name"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile is the role-bearing row keyed one-to-one on user id.
type Profile struct {
	UserID   string     `json:"user_id"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	Role     authz.Role `json:"role"`
}

// AssignRoleRequest asks for a user's profile role to be set.
// ConfirmOverwrite must be true to replace an existing elevated role with a
// different one.
type AssignRoleRequest struct {
	UserID           string
	Email            string
	FullName         string
	Role             authz.Role
	ConfirmOverwrite bool
}

// AssignResult reports a role assignment, including what was there before.
type AssignResult struct {
	UserID    string     `json:"userId"`
	Role      authz.Role `json:"role"`
	PriorRole authz.Role `json:"priorRole,omitempty"`
}
