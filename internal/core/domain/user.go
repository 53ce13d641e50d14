package domain

import "time"

// Role is the authority granted to a user account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the persisted account record. Username and Email are unique across
// all users; the storage layer enforces both.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the identity attached to an authenticated session.
type Principal struct {
	Username string
	Role     Role
}

// HasRole reports whether the principal was granted role.
func (p Principal) HasRole(role Role) bool {
	return p.Role == role
}

// Credentials is what the authentication pipeline needs to verify a login.
type Credentials struct {
	Username     string
	PasswordHash string
	Role         Role
}
