package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")
	ErrForbidden          = errors.New("access forbidden")

	// ErrLockedOut is joined to ErrInvalidCredentials on the failed attempt
	// that locks the client.
	ErrLockedOut = errors.New("client locked out")
)

// ErrConflict marks a uniqueness violation raised by the storage layer rather
// than by the service's own pre-checks. It is always returned wrapped together
// with ErrUsernameTaken or ErrEmailRegistered when the violated index is known.
var ErrConflict = errors.New("uniqueness conflict")

// IsValidation reports whether err is a user-correctable input problem that
// should be shown next to the form instead of failing the request.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrEmailRegistered) ||
		errors.Is(err, ErrPasswordTooLong) ||
		errors.Is(err, ErrConflict)
}

// Message returns the user-facing text for a validation error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return "Username already taken"
	case errors.Is(err, ErrEmailRegistered):
		return "Email already registered"
	case errors.Is(err, ErrPasswordTooLong):
		return "Password must be at most 72 bytes"
	case errors.Is(err, ErrConflict):
		return "Username or email already in use, please try again"
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password"
	default:
		return "Something went wrong"
	}
}
