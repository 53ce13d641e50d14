package ports

import "context"

// RegisterInput carries a registration form. Password is plaintext and is
// discarded once hashed.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

// ProfileUpdateInput carries the editable profile fields.
type ProfileUpdateInput struct {
	FullName string
	Email    string
}

// UserResponse is the read-only projection of a user; it never carries the
// password hash.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// UserService defines the account use cases.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*UserResponse, error)
	GetByUsername(ctx context.Context, username string) (*UserResponse, error)
	UpdateProfile(ctx context.Context, username string, in ProfileUpdateInput) (*UserResponse, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
}
