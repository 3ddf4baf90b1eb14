package domain

import (
	"errors"
	"time"
)

// Role is an organizational role held by a user. A user may hold several
// roles at once; every check below is a membership test, never equality.
type Role string

const (
	RoleRegular Role = "REGULAR"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

var ErrInvalidRole = errors.New("unknown role name")

// ParseRole converts a wire-level role name into a Role.
// An unknown name is a validation failure, not an authorization one.
func ParseRole(name string) (Role, error) {
	switch Role(name) {
	case RoleRegular, RoleManager, RoleAdmin:
		return Role(name), nil
	}
	return "", ErrInvalidRole
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Designation  string    `json:"designation,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Roles        []Role    `json:"roles"`
	ManagerID    string    `json:"manager_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

// IsManager reports whether the user holds the MANAGER role.
func (u *User) IsManager() bool { return u.HasRole(RoleManager) }

// IsDirectManagerOf reports whether u is the one-hop manager of owner.
// This predicate is the only place the manager relation is tested.
func (u *User) IsDirectManagerOf(owner *User) bool {
	return owner != nil && owner.ManagerID != "" && owner.ManagerID == u.ID
}

// RoleNames returns the role set as plain strings for JWT claims and DTOs.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r))
	}
	return names
}
