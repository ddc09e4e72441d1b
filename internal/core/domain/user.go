package domain

import (
	"errors"
	"time"
)

const (
	// RoleNone is the implicit role of a registered user that has not been
	// promoted. Absence of a user resolves to RoleNone as well.
	RoleNone  = ""
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrInvalidRole = errors.New("invalid target role")

// IsPromotableRole reports whether role is a valid promotion target.
func IsPromotableRole(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}

// User models a principal: a unique email with at most one role at a time.
type User struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
