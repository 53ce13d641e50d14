package ports

import (
	"context"
	"time"

	"github.com/portal/user-accounts/internal/core/domain"
)

// UserLookup resolves a username to the credentials needed to verify a
// login, or domain.ErrUserNotFound.
type UserLookup interface {
	LoadPrincipal(ctx context.Context, username string) (*domain.Credentials, error)
}

// PasswordEncoder hashes and verifies passwords.
type PasswordEncoder interface {
	Encode(plain string) (string, error)
	Matches(hash, plain string) bool
}

// LoginThrottle tracks failed login attempts per client key.
type LoginThrottle interface {
	// Locked returns how long key stays locked, or zero.
	Locked(ctx context.Context, key string) (time.Duration, error)
	// RecordFailure counts a failed attempt and reports whether this attempt
	// locked key.
	RecordFailure(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// LoginInput is a submitted login form. ClientKey identifies the caller for
// throttling, typically the remote IP.
type LoginInput struct {
	Username  string
	Password  string
	ClientKey string
}

// AuthService verifies credentials. An unknown user, a wrong password and a
// locked client are all reported as domain.ErrInvalidCredentials. The attempt
// that triggers a lockout additionally wraps domain.ErrLockedOut.
type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*domain.Principal, error)
}
